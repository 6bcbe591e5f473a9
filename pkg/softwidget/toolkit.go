// Package softwidget is an in-process text input toolkit. It stands in for
// a platform widget set where none is available, such as on a server or in
// tests, and drives the same bridge code a platform toolkit would.
package softwidget

import (
	"sort"
	"sync"

	"github.com/go-drift/textfield/pkg/focus"
	"github.com/go-drift/textfield/pkg/textfield"
)

// Toolkit creates EditText widgets sharing one focus manager, so at most
// one of them is focused at a time.
type Toolkit struct {
	focus *focus.Manager

	mu      sync.RWMutex
	widgets map[int64]*EditText

	// SuppressUnchanged is copied to every widget created afterwards.
	SuppressUnchanged bool
}

// NewToolkit creates an empty toolkit.
func NewToolkit() *Toolkit {
	return &Toolkit{
		focus:   focus.NewManager(),
		widgets: make(map[int64]*EditText),
	}
}

// NewEditText creates a widget for viewID.
func (t *Toolkit) NewEditText(viewID int64) *EditText {
	e := newEditText(t, viewID)
	e.SuppressUnchanged = t.SuppressUnchanged
	t.mu.Lock()
	t.widgets[viewID] = e
	t.mu.Unlock()
	return e
}

// Factory returns a textfield.WidgetFactory backed by this toolkit.
func (t *Toolkit) Factory() textfield.WidgetFactory {
	return func(viewID int64) (textfield.NativeWidget, error) {
		return t.NewEditText(viewID), nil
	}
}

// Widget returns the live widget built for viewID.
func (t *Toolkit) Widget(viewID int64) (*EditText, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e, ok := t.widgets[viewID]
	return e, ok
}

// ViewIDs returns the view ids of live widgets in ascending order.
func (t *Toolkit) ViewIDs() []int64 {
	t.mu.RLock()
	ids := make([]int64, 0, len(t.widgets))
	for id := range t.widgets {
		ids = append(ids, id)
	}
	t.mu.RUnlock()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Focused returns the widget holding focus, if any.
func (t *Toolkit) Focused() (*EditText, bool) {
	primary := t.focus.PrimaryFocus()
	if primary == nil {
		return nil, false
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, e := range t.widgets {
		if e.node == primary {
			return e, true
		}
	}
	return nil, false
}

// MoveFocus moves focus delta widgets along creation order, the way
// D-pad navigation does, and reports whether focus moved.
func (t *Toolkit) MoveFocus(delta int) bool {
	return t.focus.MoveFocus(delta)
}

func (t *Toolkit) forget(viewID int64) {
	t.mu.Lock()
	delete(t.widgets, viewID)
	t.mu.Unlock()
}
