package textfield

import (
	"fmt"
	"sync"
)

// fakeWidget is a scriptable NativeWidget.
type fakeWidget struct {
	text, hint string
	enabled    bool
	focused    bool
	obscured   bool
	maxLines   int
	cursor     int
	released   bool
	dead       bool

	// silentUnchanged suppresses text callbacks for identical SetText values.
	silentUnchanged bool
	// silentFocus suppresses focus callbacks entirely.
	silentFocus bool
	// panicOnText makes Text panic.
	panicOnText bool

	nextID   int
	textFns  map[int]func(string)
	focusFns map[int]func(bool)
	setCalls int
}

func newFakeWidget() *fakeWidget {
	return &fakeWidget{
		enabled:  true,
		maxLines: 1,
		textFns:  make(map[int]func(string)),
		focusFns: make(map[int]func(bool)),
	}
}

func (w *fakeWidget) Text() string {
	if w.panicOnText {
		panic("widget exploded")
	}
	return w.text
}

func (w *fakeWidget) SetText(text string) {
	w.setCalls++
	unchanged := text == w.text
	w.text = text
	w.cursor = len([]rune(text))
	if unchanged && w.silentUnchanged {
		return
	}
	w.fireText()
}

func (w *fakeWidget) fireText() {
	for _, id := range w.sortedText() {
		w.textFns[id](w.text)
	}
}

func (w *fakeWidget) sortedText() []int {
	ids := make([]int, 0, len(w.textFns))
	for i := 1; i <= w.nextID; i++ {
		if _, ok := w.textFns[i]; ok {
			ids = append(ids, i)
		}
	}
	return ids
}

func (w *fakeWidget) setFocus(focused bool) {
	if w.focused == focused {
		return
	}
	w.focused = focused
	if w.silentFocus {
		return
	}
	for i := 1; i <= w.nextID; i++ {
		if fn, ok := w.focusFns[i]; ok {
			fn(focused)
		}
	}
}

// userType simulates an edit made on the native side.
func (w *fakeWidget) userType(text string) {
	w.text = text
	w.fireText()
}

func (w *fakeWidget) Hint() string          { return w.hint }
func (w *fakeWidget) SetHint(hint string)   { w.hint = hint }
func (w *fakeWidget) Enabled() bool         { return w.enabled }
func (w *fakeWidget) SetEnabled(e bool)     { w.enabled = e }
func (w *fakeWidget) Focused() bool         { return w.focused }
func (w *fakeWidget) ClearFocus()           { w.setFocus(false) }
func (w *fakeWidget) Obscured() bool        { return w.obscured }
func (w *fakeWidget) SetObscured(o bool)    { w.obscured = o }
func (w *fakeWidget) MaxLines() int         { return w.maxLines }
func (w *fakeWidget) SetMaxLines(lines int) { w.maxLines = lines }
func (w *fakeWidget) Selection() int        { return w.cursor }
func (w *fakeWidget) SetSelection(o int)    { w.cursor = o }
func (w *fakeWidget) Alive() bool           { return !w.released && !w.dead }
func (w *fakeWidget) Release()              { w.released = true }

func (w *fakeWidget) RequestFocus() bool {
	if !w.enabled {
		return false
	}
	w.setFocus(true)
	return true
}

func (w *fakeWidget) AddTextChangedListener(fn func(string)) func() {
	w.nextID++
	id := w.nextID
	w.textFns[id] = fn
	return func() { delete(w.textFns, id) }
}

func (w *fakeWidget) AddFocusChangeListener(fn func(bool)) func() {
	w.nextID++
	id := w.nextID
	w.focusFns[id] = fn
	return func() { delete(w.focusFns, id) }
}

func (w *fakeWidget) listenerCount() int { return len(w.textFns) + len(w.focusFns) }

// recordingSink is an EventSink keeping a readable event log.
type recordingSink struct {
	mu     sync.Mutex
	events []string
}

func (s *recordingSink) TextChanged(id int64, text string) {
	s.add(fmt.Sprintf("%d text %q", id, text))
}

func (s *recordingSink) FocusChanged(id int64, hasFocus bool) {
	s.add(fmt.Sprintf("%d focus %t", id, hasFocus))
}

func (s *recordingSink) add(e string) {
	s.mu.Lock()
	s.events = append(s.events, e)
	s.mu.Unlock()
}

func (s *recordingSink) take() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.events
	s.events = nil
	return out
}

func defaultParams(id int64) CreationParams {
	return CreationParams{InstanceID: id, Hint: DefaultHint, MaxLines: 1}
}
