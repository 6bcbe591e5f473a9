package textfield

import (
	"fmt"
	"unicode/utf8"

	"github.com/go-drift/textfield/pkg/platform"
)

// EventSink receives change notifications forwarded by adapters.
type EventSink interface {
	TextChanged(instanceID int64, text string)
	FocusChanged(instanceID int64, hasFocus bool)
}

// State is a point-in-time view of one text field, read from its widget.
type State struct {
	InstanceID int64  `json:"instanceId"`
	Text       string `json:"text"`
	Hint       string `json:"hint"`
	Enabled    bool   `json:"enabled"`
	Focused    bool   `json:"focused"`
	Obscured   bool   `json:"obscureText"`
	MaxLines   int    `json:"maxLines"`
	Cursor     int    `json:"cursor"`
}

// Adapter binds one native widget to one instance id. It forwards commands
// to the widget and relays the widget's change callbacks to an EventSink.
// Every method must run on the UI sequence.
type Adapter struct {
	id     int64
	widget NativeWidget
	sink   EventSink

	unlisten []func()

	// focused is the last focus state forwarded to the sink.
	focused    bool
	textEvents uint64
	disposed   bool
}

// NewAdapter configures widget from params and starts forwarding its
// callbacks. Initial text is applied before listeners are attached, so it
// never produces an event.
func NewAdapter(id int64, widget NativeWidget, params CreationParams, sink EventSink) *Adapter {
	widget.SetHint(params.Hint)
	if params.InitialText != "" {
		widget.SetText(params.InitialText)
	}
	widget.SetObscured(params.ObscureText)
	widget.SetMaxLines(params.MaxLines)

	a := &Adapter{
		id:      id,
		widget:  widget,
		sink:    sink,
		focused: widget.Focused(),
	}
	a.unlisten = append(a.unlisten,
		widget.AddTextChangedListener(a.onNativeTextChanged),
		widget.AddFocusChangeListener(a.onNativeFocusChanged),
	)
	return a
}

// ID returns the instance id.
func (a *Adapter) ID() int64 { return a.id }

// Disposed reports whether Dispose has run.
func (a *Adapter) Disposed() bool { return a.disposed }

func (a *Adapter) onNativeTextChanged(text string) {
	if a.disposed {
		return
	}
	a.textEvents++
	a.sink.TextChanged(a.id, text)
}

func (a *Adapter) onNativeFocusChanged(hasFocus bool) {
	if a.disposed || hasFocus == a.focused {
		return
	}
	a.focused = hasFocus
	a.sink.FocusChanged(a.id, hasFocus)
}

// syncFocus forwards a focus transition the widget made without calling back.
func (a *Adapter) syncFocus() {
	a.onNativeFocusChanged(a.widget.Focused())
}

func (a *Adapter) check() error {
	if a.disposed || !a.widget.Alive() {
		return fmt.Errorf("%w: %d", ErrInstanceUnavailable, a.id)
	}
	return nil
}

// SetText replaces the widget content. At least one text change event
// reaches the sink, even when the toolkit stays silent for an unchanged
// value.
func (a *Adapter) SetText(text string) error {
	if err := a.check(); err != nil {
		return err
	}
	before := a.textEvents
	a.widget.SetText(text)
	if a.textEvents == before && !a.disposed {
		a.textEvents++
		a.sink.TextChanged(a.id, a.widget.Text())
	}
	return nil
}

// Text returns the widget's current content.
func (a *Adapter) Text() (string, error) {
	if err := a.check(); err != nil {
		return "", err
	}
	return a.widget.Text(), nil
}

// RequestFocus asks the widget for focus. A disabled widget is left alone.
func (a *Adapter) RequestFocus() error {
	if err := a.check(); err != nil {
		return err
	}
	if !a.widget.Enabled() {
		return nil
	}
	a.widget.RequestFocus()
	a.syncFocus()
	return nil
}

// ClearFocus drops focus from the widget.
func (a *Adapter) ClearFocus() error {
	if err := a.check(); err != nil {
		return err
	}
	a.widget.ClearFocus()
	a.syncFocus()
	return nil
}

// HasFocus reports the last forwarded focus state.
func (a *Adapter) HasFocus() (bool, error) {
	if err := a.check(); err != nil {
		return false, err
	}
	return a.focused, nil
}

// SetEnabled toggles interactivity. A disabled field refuses future focus
// requests but keeps any focus it already holds.
func (a *Adapter) SetEnabled(enabled bool) error {
	if err := a.check(); err != nil {
		return err
	}
	a.widget.SetEnabled(enabled)
	return nil
}

// SetHint sets the placeholder. nil clears it.
func (a *Adapter) SetHint(hint *string) error {
	if err := a.check(); err != nil {
		return err
	}
	if hint == nil {
		a.widget.SetHint("")
	} else {
		a.widget.SetHint(*hint)
	}
	return nil
}

// SetObscured switches password-style masking.
func (a *Adapter) SetObscured(obscured bool) error {
	if err := a.check(); err != nil {
		return err
	}
	a.widget.SetObscured(obscured)
	return nil
}

// SetMaxLines changes the visible line limit.
func (a *Adapter) SetMaxLines(lines int) error {
	if lines < 1 {
		return fmt.Errorf("%w: maxLines must be at least 1", platform.ErrInvalidArguments)
	}
	if err := a.check(); err != nil {
		return err
	}
	a.widget.SetMaxLines(lines)
	return nil
}

// MoveCursor shifts the cursor one rune, clamped to the text bounds.
func (a *Adapter) MoveCursor(dir CursorDirection) error {
	if err := a.check(); err != nil {
		return err
	}
	pos := a.widget.Selection()
	switch dir {
	case CursorLeft:
		if pos > 0 {
			a.widget.SetSelection(pos - 1)
		}
	case CursorRight:
		if pos < utf8.RuneCountInString(a.widget.Text()) {
			a.widget.SetSelection(pos + 1)
		}
	default:
		return fmt.Errorf("%w: unknown direction %q", platform.ErrInvalidArguments, dir)
	}
	return nil
}

// Snapshot reads the widget's full state.
func (a *Adapter) Snapshot() (State, error) {
	if err := a.check(); err != nil {
		return State{}, err
	}
	return State{
		InstanceID: a.id,
		Text:       a.widget.Text(),
		Hint:       a.widget.Hint(),
		Enabled:    a.widget.Enabled(),
		Focused:    a.focused,
		Obscured:   a.widget.Obscured(),
		MaxLines:   a.widget.MaxLines(),
		Cursor:     a.widget.Selection(),
	}, nil
}

// Dispose detaches every listener, reports a final focus loss if the field
// held focus, then releases the widget. Further calls do nothing.
func (a *Adapter) Dispose() {
	if a.disposed {
		return
	}
	a.disposed = true
	for i := len(a.unlisten) - 1; i >= 0; i-- {
		a.unlisten[i]()
	}
	a.unlisten = nil
	if a.focused {
		a.focused = false
		a.sink.FocusChanged(a.id, false)
	}
	a.widget.Release()
}
