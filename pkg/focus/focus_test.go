package focus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	events []string
}

func (r *recorder) node(label string) *FocusNode {
	n := &FocusNode{CanRequestFocus: true, DebugLabel: label}
	n.OnFocusChange = func(hasFocus bool) {
		if hasFocus {
			r.events = append(r.events, label+"+")
		} else {
			r.events = append(r.events, label+"-")
		}
	}
	return n
}

func TestRequestFocusMovesPrimary(t *testing.T) {
	rec := &recorder{}
	m := NewManager()
	a, b := rec.node("a"), rec.node("b")
	m.Attach(a)
	m.Attach(b)

	require.True(t, a.RequestFocus())
	require.True(t, b.RequestFocus())

	assert.False(t, a.HasFocus())
	assert.True(t, b.HasFocus())
	assert.Same(t, b, m.PrimaryFocus())
	assert.Equal(t, []string{"a+", "a-", "b+"}, rec.events)
}

func TestRequestFocusAlreadyFocusedIsSilent(t *testing.T) {
	rec := &recorder{}
	m := NewManager()
	a := rec.node("a")
	m.Attach(a)

	a.RequestFocus()
	a.RequestFocus()
	assert.Equal(t, []string{"a+"}, rec.events)
}

func TestRequestFocusRefusedWhenDisabled(t *testing.T) {
	rec := &recorder{}
	m := NewManager()
	a := rec.node("a")
	a.CanRequestFocus = false
	m.Attach(a)

	assert.False(t, a.RequestFocus())
	assert.Nil(t, m.PrimaryFocus())
	assert.Empty(t, rec.events)
}

func TestUnfocusOnlyAffectsPrimary(t *testing.T) {
	rec := &recorder{}
	m := NewManager()
	a, b := rec.node("a"), rec.node("b")
	m.Attach(a)
	m.Attach(b)

	a.RequestFocus()
	b.Unfocus()
	assert.True(t, a.HasFocus())

	a.Unfocus()
	assert.False(t, a.HasFocus())
	assert.Nil(t, m.PrimaryFocus())
	assert.Equal(t, []string{"a+", "a-"}, rec.events)
}

func TestDetachClearsFocus(t *testing.T) {
	rec := &recorder{}
	m := NewManager()
	a := rec.node("a")
	m.Attach(a)
	a.RequestFocus()

	m.Detach(a)
	assert.Nil(t, m.PrimaryFocus())
	assert.False(t, a.RequestFocus())
	assert.Equal(t, []string{"a+", "a-"}, rec.events)
}

func TestMoveFocusWrapsAndSkips(t *testing.T) {
	rec := &recorder{}
	m := NewManager()
	a, b, c := rec.node("a"), rec.node("b"), rec.node("c")
	b.CanRequestFocus = false
	m.Attach(a)
	m.Attach(b)
	m.Attach(c)

	require.True(t, m.MoveFocus(1))
	assert.Same(t, a, m.PrimaryFocus())
	require.True(t, m.MoveFocus(1))
	assert.Same(t, c, m.PrimaryFocus())
	require.True(t, m.MoveFocus(1))
	assert.Same(t, a, m.PrimaryFocus())

	m.PrimaryFocus().Unfocus()
	require.True(t, m.MoveFocus(-1))
	assert.Same(t, c, m.PrimaryFocus())
}

func TestMoveFocusNoCandidates(t *testing.T) {
	m := NewManager()
	assert.False(t, m.MoveFocus(1))

	n := &FocusNode{}
	m.Attach(n)
	assert.False(t, m.MoveFocus(1))
}
