package softwidget

import (
	"strings"
	"unicode/utf8"

	"github.com/go-drift/textfield/pkg/focus"
	"github.com/go-drift/textfield/pkg/textfield"
)

var _ textfield.NativeWidget = (*EditText)(nil)

// maskRune replaces every rune of obscured text in DisplayText.
const maskRune = '•'

type listener[T any] struct {
	id int
	fn func(T)
}

// listeners is an ordered callback list with removal by handle.
type listeners[T any] struct {
	nextID  int
	entries []listener[T]
}

func (l *listeners[T]) add(fn func(T)) func() {
	l.nextID++
	id := l.nextID
	l.entries = append(l.entries, listener[T]{id: id, fn: fn})
	return func() {
		for i, e := range l.entries {
			if e.id == id {
				l.entries = append(l.entries[:i], l.entries[i+1:]...)
				return
			}
		}
	}
}

func (l *listeners[T]) fire(v T) {
	snapshot := append([]listener[T](nil), l.entries...)
	for _, e := range snapshot {
		e.fn(v)
	}
}

func (l *listeners[T]) len() int { return len(l.entries) }

// EditText is a software text input. It behaves like a platform edit
// control: text watchers run on every content assignment, focus is owned
// by the toolkit's focus manager, and a disabled control refuses focus.
// All methods must be called on the UI sequence.
type EditText struct {
	viewID  int64
	toolkit *Toolkit
	node    *focus.FocusNode

	text     string
	cursor   int
	hint     string
	enabled  bool
	obscured bool
	maxLines int
	released bool

	// SuppressUnchanged skips text watchers when SetText assigns the
	// current value, as some toolkits do.
	SuppressUnchanged bool

	textListeners  listeners[string]
	focusListeners listeners[bool]
}

func newEditText(t *Toolkit, viewID int64) *EditText {
	e := &EditText{
		viewID:   viewID,
		toolkit:  t,
		enabled:  true,
		maxLines: 1,
	}
	e.node = &focus.FocusNode{
		CanRequestFocus: true,
		DebugLabel:      "EditText",
		OnFocusChange:   e.focusListeners.fire,
	}
	t.focus.Attach(e.node)
	return e
}

// ViewID returns the view id the widget was built for.
func (e *EditText) ViewID() int64 { return e.viewID }

func (e *EditText) Text() string { return e.text }

// SetText replaces the content and moves the cursor to the end.
func (e *EditText) SetText(text string) {
	if e.released {
		return
	}
	if e.SuppressUnchanged && text == e.text {
		return
	}
	e.text = text
	e.cursor = utf8.RuneCountInString(text)
	e.textListeners.fire(e.text)
}

func (e *EditText) Hint() string          { return e.hint }
func (e *EditText) SetHint(hint string)   { e.hint = hint }
func (e *EditText) Enabled() bool         { return e.enabled }
func (e *EditText) Focused() bool         { return e.node.HasFocus() }
func (e *EditText) Obscured() bool        { return e.obscured }
func (e *EditText) SetObscured(ob bool)   { e.obscured = ob }
func (e *EditText) MaxLines() int         { return e.maxLines }
func (e *EditText) Selection() int        { return e.cursor }
func (e *EditText) Alive() bool           { return !e.released }
func (e *EditText) ListenerCount() int    { return e.textListeners.len() + e.focusListeners.len() }
func (e *EditText) SetMaxLines(lines int) { e.maxLines = max(lines, 1) }

// SetEnabled toggles interactivity. Focus already held is kept.
func (e *EditText) SetEnabled(enabled bool) {
	e.enabled = enabled
	e.node.CanRequestFocus = enabled
}

// RequestFocus asks the focus manager for focus.
func (e *EditText) RequestFocus() bool {
	if e.released {
		return false
	}
	return e.node.RequestFocus()
}

// ClearFocus gives up focus if held.
func (e *EditText) ClearFocus() {
	e.node.Unfocus()
}

// SetSelection moves the cursor, clamped to the text.
func (e *EditText) SetSelection(offset int) {
	e.cursor = min(max(offset, 0), utf8.RuneCountInString(e.text))
}

func (e *EditText) AddTextChangedListener(fn func(text string)) func() {
	return e.textListeners.add(fn)
}

func (e *EditText) AddFocusChangeListener(fn func(hasFocus bool)) func() {
	return e.focusListeners.add(fn)
}

// Release detaches the widget from the focus manager and the toolkit.
func (e *EditText) Release() {
	if e.released {
		return
	}
	e.released = true
	e.toolkit.focus.Detach(e.node)
	e.toolkit.forget(e.viewID)
}

// DisplayText returns the text as rendered, masked when obscured.
func (e *EditText) DisplayText() string {
	if !e.obscured {
		return e.text
	}
	return strings.Repeat(string(maskRune), utf8.RuneCountInString(e.text))
}

// Type inserts s at the cursor one rune at a time, as keystrokes would.
// Each inserted rune notifies the text watchers. Nothing happens unless
// the widget is enabled and focused. Newlines are dropped on single-line
// fields.
func (e *EditText) Type(s string) {
	if !e.acceptsInput() {
		return
	}
	for _, r := range s {
		if r == '\n' && e.maxLines == 1 {
			continue
		}
		runes := []rune(e.text)
		runes = append(runes[:e.cursor], append([]rune{r}, runes[e.cursor:]...)...)
		e.text = string(runes)
		e.cursor++
		e.textListeners.fire(e.text)
	}
}

// Backspace deletes the rune before the cursor.
func (e *EditText) Backspace() {
	if !e.acceptsInput() || e.cursor == 0 {
		return
	}
	runes := []rune(e.text)
	runes = append(runes[:e.cursor-1], runes[e.cursor:]...)
	e.text = string(runes)
	e.cursor--
	e.textListeners.fire(e.text)
}

func (e *EditText) acceptsInput() bool {
	return !e.released && e.enabled && e.node.HasFocus()
}
