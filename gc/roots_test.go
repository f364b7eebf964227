package gc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoot_ReleaseMiddle(t *testing.T) {
	h := newTestHeap(t)

	a, b, c := allocLeaf(t, h), allocLeaf(t, h), allocLeaf(t, h)
	ra := h.NewRoot(a)
	rb := h.NewRoot(b)
	rc := h.NewRoot(c)
	require.Equal(t, 3, h.Stats().Roots)

	rb.Release()
	assert.False(t, rb.Registered())
	assert.Equal(t, 2, h.Stats().Roots)
	require.NoError(t, h.Verify())

	st := h.Collect()
	assert.Equal(t, 1, st.Freed)
	assert.True(t, h.Valid(a))
	assert.False(t, h.Valid(b))
	assert.True(t, h.Valid(c))

	// releasing twice is a no-op
	rb.Release()
	assert.Equal(t, 2, h.Stats().Roots)

	// newest root is the list head
	rc.Release()
	ra.Release()
	assert.Zero(t, h.Stats().Roots)
	require.NoError(t, h.Verify())

	st = h.Collect()
	assert.Equal(t, 2, st.Freed)
}

func TestRoot_ScopedPin(t *testing.T) {
	h := newTestHeap(t)

	spawn := func() Handle[*node] {
		p, err := New(h, func() (*node, error) { return &node{name: "temp"}, nil })
		require.NoError(t, err)
		return p
	}

	var p Handle[*node]
	func() {
		p = spawn()
		root := Pin(h, p)
		defer root.Release()

		h.Collect()
		_, ok := p.Get(h)
		require.True(t, ok, "pinned while in scope")
	}()

	h.Collect()
	_, ok := p.Get(h)
	assert.False(t, ok)
}

func TestRoot_SetAndGet(t *testing.T) {
	h := newTestHeap(t)

	a, b := allocLeaf(t, h), allocLeaf(t, h)
	root := h.NewRoot(Nil)
	assert.Equal(t, Nil, root.Get())

	root.Set(a)
	h.Collect()
	assert.True(t, h.Valid(a))
	assert.False(t, h.Valid(b))

	root.Set(Nil)
	st := h.Collect()
	assert.Equal(t, 1, st.Freed)
	assert.Equal(t, 1, st.Roots, "nil roots are still registered")
}

func TestRoot_SharedTarget(t *testing.T) {
	h := newTestHeap(t)

	a := allocLeaf(t, h)
	r1 := h.NewRoot(a)
	r2 := h.NewRoot(a)

	st := h.Collect()
	assert.Equal(t, 1, st.Marked, "marked once")

	r1.Release()
	h.Collect()
	assert.True(t, h.Valid(a))

	r2.Release()
	h.Collect()
	assert.False(t, h.Valid(a))
}

func TestForEachRoot(t *testing.T) {
	h := newTestHeap(t)

	a, b := allocLeaf(t, h), allocLeaf(t, h)
	h.NewRoot(a)
	h.NewRoot(Nil)
	h.NewRoot(b)

	var got []Ref
	h.ForEachRoot(func(r Ref) bool {
		got = append(got, r)
		return true
	})
	assert.Equal(t, []Ref{b, a}, got)

	got = got[:0]
	h.ForEachRoot(func(r Ref) bool {
		got = append(got, r)
		return false
	})
	assert.Len(t, got, 1)
}
