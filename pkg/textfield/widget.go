package textfield

// NativeWidget is the toolkit text-input control wrapped by an Adapter.
// Implementations own the real text, focus and enabled state and invoke
// listeners synchronously on the UI sequence.
type NativeWidget interface {
	Text() string
	// SetText replaces the content. Toolkits normally notify text listeners
	// even when the text is unchanged; the Adapter copes with either behavior.
	SetText(text string)

	Hint() string
	// SetHint sets the placeholder. An empty string clears it.
	SetHint(hint string)

	Enabled() bool
	SetEnabled(enabled bool)

	Focused() bool
	// RequestFocus asks for input focus and reports whether it was granted.
	RequestFocus() bool
	ClearFocus()

	Obscured() bool
	SetObscured(obscured bool)

	MaxLines() int
	SetMaxLines(lines int)

	// Selection returns the collapsed cursor offset in runes.
	Selection() int
	SetSelection(offset int)

	// AddTextChangedListener registers fn for every content change and
	// returns a function removing it.
	AddTextChangedListener(fn func(text string)) (remove func())
	// AddFocusChangeListener registers fn for focus gains and losses and
	// returns a function removing it.
	AddFocusChangeListener(fn func(hasFocus bool)) (remove func())

	// Alive reports whether the widget can still be operated on.
	Alive() bool
	// Release frees the widget. Listeners must already be removed.
	Release()
}

// WidgetFactory builds the native widget for a new view.
type WidgetFactory func(viewID int64) (NativeWidget, error)
