package softwidget

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetTextNotifiesEveryTime(t *testing.T) {
	e := NewToolkit().NewEditText(1)
	var seen []string
	e.AddTextChangedListener(func(s string) { seen = append(seen, s) })

	e.SetText("a")
	e.SetText("a")
	assert.Equal(t, []string{"a", "a"}, seen)
	assert.Equal(t, 1, e.Selection())
}

func TestSetTextSuppressUnchanged(t *testing.T) {
	tk := NewToolkit()
	tk.SuppressUnchanged = true
	e := tk.NewEditText(1)
	var seen []string
	e.AddTextChangedListener(func(s string) { seen = append(seen, s) })

	e.SetText("a")
	e.SetText("a")
	assert.Equal(t, []string{"a"}, seen)
}

func TestListenerRemoval(t *testing.T) {
	e := NewToolkit().NewEditText(1)
	var a, b int
	removeA := e.AddTextChangedListener(func(string) { a++ })
	e.AddTextChangedListener(func(string) { b++ })
	e.AddFocusChangeListener(func(bool) {})
	assert.Equal(t, 3, e.ListenerCount())

	removeA()
	removeA()
	e.SetText("x")
	assert.Equal(t, 0, a)
	assert.Equal(t, 1, b)
	assert.Equal(t, 2, e.ListenerCount())
}

func TestFocusIsExclusive(t *testing.T) {
	tk := NewToolkit()
	first, second := tk.NewEditText(1), tk.NewEditText(2)
	var log []string
	first.AddFocusChangeListener(func(f bool) { log = append(log, "1:"+boolStr(f)) })
	second.AddFocusChangeListener(func(f bool) { log = append(log, "2:"+boolStr(f)) })

	require.True(t, first.RequestFocus())
	require.True(t, second.RequestFocus())
	assert.False(t, first.Focused())
	assert.True(t, second.Focused())

	got, ok := tk.Focused()
	require.True(t, ok)
	assert.Same(t, second, got)
	assert.Equal(t, []string{"1:+", "1:-", "2:+"}, log)
}

func TestDisabledRefusesFocusKeepsCurrent(t *testing.T) {
	tk := NewToolkit()
	e := tk.NewEditText(1)

	e.SetEnabled(false)
	assert.False(t, e.RequestFocus())
	assert.False(t, e.Focused())

	e.SetEnabled(true)
	require.True(t, e.RequestFocus())
	e.SetEnabled(false)
	assert.True(t, e.Focused())
}

func TestMoveFocusSkipsDisabled(t *testing.T) {
	tk := NewToolkit()
	a, b, c := tk.NewEditText(1), tk.NewEditText(2), tk.NewEditText(3)
	b.SetEnabled(false)

	require.True(t, tk.MoveFocus(1))
	assert.True(t, a.Focused())
	require.True(t, tk.MoveFocus(1))
	assert.True(t, c.Focused())
}

func TestTypingRequiresFocus(t *testing.T) {
	e := NewToolkit().NewEditText(1)
	e.Type("ignored")
	assert.Equal(t, "", e.Text())

	var seen []string
	e.AddTextChangedListener(func(s string) { seen = append(seen, s) })
	require.True(t, e.RequestFocus())
	e.Type("héj\n")
	e.SetSelection(1)
	e.Backspace()
	e.Type("H")

	assert.Equal(t, "Héj", e.Text())
	assert.Equal(t, []string{"h", "hé", "héj", "éj", "Héj"}, seen)
	assert.Equal(t, 1, e.Selection())
}

func TestMultilineAcceptsNewline(t *testing.T) {
	e := NewToolkit().NewEditText(1)
	e.SetMaxLines(3)
	require.True(t, e.RequestFocus())
	e.Type("a\nb")
	assert.Equal(t, "a\nb", e.Text())

	e.SetMaxLines(0)
	assert.Equal(t, 1, e.MaxLines())
}

func TestSelectionClamps(t *testing.T) {
	e := NewToolkit().NewEditText(1)
	e.SetText("abc")
	e.SetSelection(-4)
	assert.Equal(t, 0, e.Selection())
	e.SetSelection(99)
	assert.Equal(t, 3, e.Selection())
}

func TestDisplayTextMasksObscured(t *testing.T) {
	e := NewToolkit().NewEditText(1)
	e.SetText("pässword")
	assert.Equal(t, "pässword", e.DisplayText())
	e.SetObscured(true)
	assert.Equal(t, "••••••••", e.DisplayText())
}

func TestRelease(t *testing.T) {
	tk := NewToolkit()
	e := tk.NewEditText(7)
	require.True(t, e.RequestFocus())
	assert.Equal(t, []int64{7}, tk.ViewIDs())

	e.Release()
	e.Release()
	assert.False(t, e.Alive())
	assert.False(t, e.Focused())
	assert.False(t, e.RequestFocus())
	assert.Empty(t, tk.ViewIDs())
	_, ok := tk.Focused()
	assert.False(t, ok)

	e.SetText("late")
	assert.Equal(t, "", e.Text())
}

func TestFactory(t *testing.T) {
	tk := NewToolkit()
	w, err := tk.Factory()(3)
	require.NoError(t, err)
	got, ok := tk.Widget(3)
	require.True(t, ok)
	assert.Same(t, got, w)
}

func boolStr(b bool) string {
	if b {
		return "+"
	}
	return "-"
}
