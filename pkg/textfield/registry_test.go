package textfield

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAdapter(id int64) *Adapter {
	return NewAdapter(id, newFakeWidget(), defaultParams(id), &recordingSink{})
}

func TestRegistryRegisterLookup(t *testing.T) {
	r := NewRegistry()
	a := newTestAdapter(1)
	require.NoError(t, r.Register(1, a))

	got, ok := r.Lookup(1)
	require.True(t, ok)
	assert.Same(t, a, got)

	_, ok = r.Lookup(2)
	assert.False(t, ok)
}

func TestRegistryRejectsDuplicate(t *testing.T) {
	r := NewRegistry()
	first := newTestAdapter(1)
	require.NoError(t, r.Register(1, first))

	err := r.Register(1, newTestAdapter(1))
	assert.ErrorIs(t, err, ErrDuplicateInstance)

	got, _ := r.Lookup(1)
	assert.Same(t, first, got)
}

func TestRegistryUnregisterIdempotent(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(1, newTestAdapter(1)))

	r.Unregister(1)
	r.Unregister(1)
	r.Unregister(42)
	assert.Zero(t, r.Len())

	// Ids can be reused after disposal.
	require.NoError(t, r.Register(1, newTestAdapter(1)))
}

func TestRegistryRemoveChecksIdentity(t *testing.T) {
	r := NewRegistry()
	a, b := newTestAdapter(1), newTestAdapter(1)
	require.NoError(t, r.Register(1, a))

	r.remove(1, b)
	assert.Equal(t, 1, r.Len())
	r.remove(1, a)
	assert.Zero(t, r.Len())
}

func TestRegistryIDsAndClear(t *testing.T) {
	r := NewRegistry()
	for _, id := range []int64{5, 1, 3} {
		require.NoError(t, r.Register(id, newTestAdapter(id)))
	}
	assert.Equal(t, []int64{1, 3, 5}, r.IDs())

	removed := r.Clear()
	require.Len(t, removed, 3)
	assert.Equal(t, int64(1), removed[0].ID())
	assert.Equal(t, int64(5), removed[2].ID())
	assert.Zero(t, r.Len())
	assert.Empty(t, r.IDs())
}
