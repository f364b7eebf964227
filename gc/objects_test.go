package gc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForEachObject(t *testing.T) {
	h := newTestHeap(t)

	leaf := allocLeaf(t, h)
	n := newNode(t, h, "n", leaf, nil)
	arr, err := h.Alloc(cellType, 4)
	require.NoError(t, err)

	var infos []ObjectInfo
	h.ForEachObject(func(o ObjectInfo) bool {
		infos = append(infos, o)
		return true
	})
	require.Len(t, infos, 3)

	// newest first
	assert.Equal(t, arr, infos[0].Ref)
	assert.Equal(t, "cell", infos[0].Type)
	assert.Equal(t, 4, infos[0].Count)
	assert.False(t, infos[0].Traced)

	assert.Equal(t, n, infos[1].Ref)
	assert.True(t, infos[1].Traced)
	assert.Equal(t, 1, infos[1].Count)

	assert.Equal(t, leaf, infos[2].Ref)
	assert.Equal(t, HeaderSize+16, infos[2].Size)

	var count int
	h.ForEachObject(func(ObjectInfo) bool {
		count++
		return false
	})
	assert.Equal(t, 1, count)
}

func TestReferences(t *testing.T) {
	h := newTestHeap(t)

	x, y := allocLeaf(t, h), allocLeaf(t, h)
	p := allocPair(t, h, x, Nil)
	f, err := New(h, func() (*fanout, error) {
		return &fanout{refs: []Ref{x, Nil, y, p}}, nil
	})
	require.NoError(t, err)

	collect := func(r Ref) []Ref {
		var out []Ref
		h.References(r, func(dst Ref) { out = append(out, dst) })
		return out
	}

	assert.Equal(t, []Ref{x}, collect(p))
	assert.Equal(t, []Ref{x, y, p}, collect(f.Ref()))
	assert.Empty(t, collect(x))
	assert.Empty(t, collect(Ref(1234)))

	// inspection does not disturb liveness flags
	require.NoError(t, h.Verify())
	st := h.Collect()
	assert.Equal(t, 4, st.Freed)
}
