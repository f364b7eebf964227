package gc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// node is a traced test object with a single outgoing reference.
type node struct {
	name string
	next Ref
	log  *[]string
}

func (n *node) Trace(m *Marker) { m.Mark(n.next) }

func (n *node) Finalize() {
	if n.log != nil {
		*n.log = append(*n.log, n.name)
	}
}

// fanout is a traced test object with a variable number of references.
type fanout struct {
	refs []Ref
}

func (f *fanout) Trace(m *Marker) { m.MarkAll(f.refs...) }

func (f *fanout) Size() int { return 24 + 4*len(f.refs) }

var (
	pairType = MustType("pair", 8, 0, 4)
	leafType = MustType("leaf", 16)
	cellType = MustType("cell", 12, 0, 4)
)

func newTestHeap(t testing.TB) *Heap {
	t.Helper()
	opts := DefaultOptions()
	opts.Verify = true
	h, err := NewHeap(opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.Close() })
	return h
}

func newNode(t testing.TB, h *Heap, name string, next Ref, log *[]string) Ref {
	t.Helper()
	p, err := New(h, func() (*node, error) {
		return &node{name: name, next: next, log: log}, nil
	})
	require.NoError(t, err)
	return p.Ref()
}

func allocLeaf(t testing.TB, h *Heap) Ref {
	t.Helper()
	r, err := h.Alloc(leafType, 1)
	require.NoError(t, err)
	return r
}

func allocPair(t testing.TB, h *Heap, a, b Ref) Ref {
	t.Helper()
	r, err := h.Alloc(pairType, 1)
	require.NoError(t, err)
	require.NoError(t, h.StoreRef(r, 0, a))
	require.NoError(t, h.StoreRef(r, 4, b))
	return r
}

// liveBytes sums accounted sizes over the allocation list.
func liveBytes(h *Heap) (int, int64) {
	var n int
	var b int64
	h.ForEachObject(func(o ObjectInfo) bool {
		n++
		b += int64(o.Size)
		return true
	})
	return n, b
}
