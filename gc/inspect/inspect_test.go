package inspect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/enginegc/gc"
	"github.com/joshuapare/enginegc/internal/format"
)

var linkType = gc.MustType("link", 8, 0, 4)

type testGraph struct {
	t *testing.T
	h *gc.Heap
}

func newTestGraph(t *testing.T) *testGraph {
	t.Helper()
	opts := gc.DefaultOptions()
	opts.Verify = true
	h, err := gc.NewHeap(opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.Close() })
	return &testGraph{t: t, h: h}
}

// obj allocates a link object pointing at up to two targets.
func (g *testGraph) obj(targets ...gc.Ref) gc.Ref {
	g.t.Helper()
	r, err := g.h.Alloc(linkType, 1)
	require.NoError(g.t, err)
	for i, dst := range targets {
		require.NoError(g.t, g.h.StoreRef(r, 4*i, dst))
	}
	return r
}

func (g *testGraph) set(r gc.Ref, field int, dst gc.Ref) {
	g.t.Helper()
	require.NoError(g.t, g.h.StoreRef(r, 4*field, dst))
}

func TestTake(t *testing.T) {
	g := newTestGraph(t)
	c := g.obj()
	b := g.obj(c)
	a := g.obj(b, c)
	g.h.NewRoot(a)
	g.h.NewRoot(a)
	g.h.NewRoot(gc.Nil)

	s := Take(g.h)
	require.Len(t, s.Objects, 3)
	assert.Equal(t, []gc.Ref{a}, s.Roots, "roots are deduplicated")

	obj, ok := s.Object(a)
	require.True(t, ok)
	assert.Equal(t, []gc.Ref{b, c}, obj.Ptrs)
	assert.Equal(t, "link", obj.Type)
	assert.Equal(t, uint64(gc.HeaderSize+8), obj.Size)

	_, ok = s.Object(gc.Ref(999))
	assert.False(t, ok)
	assert.Zero(t, s.Dangling)
}

func TestGarbage_MatchesCollect(t *testing.T) {
	g := newTestGraph(t)

	// rooted chain, unrooted cycle, unrooted leaf hanging off the cycle
	tail := g.obj()
	head := g.obj(tail)
	g.h.NewRoot(head)

	x := g.obj()
	y := g.obj(x)
	g.set(x, 0, y)
	leaf := g.obj()
	g.set(y, 1, leaf)

	// unrooted object pointing into the live set
	g.obj(head)

	s := Take(g.h)
	garbage := s.Garbage()
	assert.Len(t, garbage, 4)
	assert.NotContains(t, garbage, head)
	assert.NotContains(t, garbage, tail)

	st := g.h.Collect()
	assert.Equal(t, len(garbage), st.Freed)
	for _, r := range garbage {
		assert.False(t, g.h.Valid(r))
	}
	assert.Empty(t, Take(g.h).Garbage())
}

func TestGarbage_SkipsConstructing(t *testing.T) {
	g := newTestGraph(t)

	leaf := g.obj()
	stray := g.obj()
	var s *Snapshot
	parent, err := g.h.AllocInit(linkType, 1, func(p []byte) error {
		format.PutU32(p, 0, uint32(leaf))
		s = Take(g.h)
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, []gc.Ref{parent}, s.Pinned)
	assert.Equal(t, []gc.Ref{stray}, s.Garbage())
	assert.True(t, s.Reachable()[leaf])

	st := g.h.Collect()
	assert.Equal(t, 3, st.Freed, "parent is complete now and unrooted")
	assert.False(t, g.h.Valid(stray))
}

func TestHistogram(t *testing.T) {
	g := newTestGraph(t)
	big := gc.MustType("big", 100)

	for range 3 {
		g.obj()
	}
	r, err := g.h.Alloc(big, 2)
	require.NoError(t, err)
	g.h.NewRoot(r)

	rows := Take(g.h).Histogram()
	require.Len(t, rows, 2)
	assert.Equal(t, TypeStat{Type: "big", Count: 1, Bytes: gc.HeaderSize + 200, Live: 1}, rows[0])
	assert.Equal(t, TypeStat{Type: "link", Count: 3, Bytes: 3 * (gc.HeaderSize + 8), Live: 0}, rows[1])
}

func TestPathsToRoots(t *testing.T) {
	g := newTestGraph(t)

	//   r1 -> a -> target
	//   r2 -> b -> c -> target
	//   target -> a (cycle back)
	target := g.obj()
	a := g.obj(target)
	c := g.obj(target)
	b := g.obj(c)
	r1 := g.obj(a)
	r2 := g.obj(b)
	g.set(target, 0, a)
	g.h.NewRoot(r1)
	g.h.NewRoot(r2)

	s := Take(g.h)
	paths := s.PathsToRoots(target, 5)
	require.Len(t, paths, 2)
	assert.Equal(t, Path{target, a, r1}, paths[0], "shortest first")
	assert.Equal(t, Path{target, c, b, r2}, paths[1])

	assert.Len(t, s.PathsToRoots(target, 1), 1)
	assert.Equal(t, []Path{{r1}}, s.PathsToRoots(r1, 3))
	assert.Nil(t, s.PathsToRoots(target, 0))
	assert.Nil(t, s.PathsToRoots(gc.Ref(999), 3))

	orphan := g.obj(target)
	assert.Empty(t, Take(g.h).PathsToRoots(orphan, 3))
}

func TestDominators(t *testing.T) {
	g := newTestGraph(t)

	//   root -> a -> b -> d
	//             -> c -> d
	//   d -> e
	//   f (second root) -> e
	e := g.obj()
	d := g.obj(e)
	b := g.obj(d)
	c := g.obj(d)
	a := g.obj(b, c)
	f := g.obj(e)
	g.h.NewRoot(a)
	g.h.NewRoot(f)
	unreachable := g.obj(a)

	idom := Take(g.h).Dominators()
	assert.Equal(t, gc.Nil, idom[a])
	assert.Equal(t, gc.Nil, idom[f])
	assert.Equal(t, a, idom[b])
	assert.Equal(t, a, idom[c])
	assert.Equal(t, a, idom[d], "two paths join at d")
	assert.Equal(t, gc.Nil, idom[e], "reachable from both roots")
	assert.NotContains(t, idom, unreachable)
}

func TestRetainedSizes(t *testing.T) {
	g := newTestGraph(t)
	const sz = gc.HeaderSize + 8

	//   root -> a -> b -> c
	//             -> d
	//   c -> a (back edge)
	c := g.obj()
	b := g.obj(c)
	d := g.obj()
	a := g.obj(b, d)
	g.set(c, 0, a)
	g.h.NewRoot(a)

	s := Take(g.h)
	ret := s.RetainedSizes()
	assert.Equal(t, uint64(4*sz), ret[a])
	assert.Equal(t, uint64(2*sz), ret[b])
	assert.Equal(t, uint64(sz), ret[c])
	assert.Equal(t, uint64(sz), ret[d])

	top := s.TopRetainers(2)
	require.Len(t, top, 2)
	assert.Equal(t, a, top[0].Ref)
	assert.Equal(t, b, top[1].Ref)
	assert.Len(t, s.TopRetainers(0), 4)
}

func TestRetainedSizes_DeepChain(t *testing.T) {
	g := newTestGraph(t)
	const n = 5000

	head := gc.Nil
	for range n {
		head = g.obj(head)
	}
	g.h.NewRoot(head)

	ret := Take(g.h).RetainedSizes()
	assert.Equal(t, uint64(n*(gc.HeaderSize+8)), ret[head])
}

type dangler struct{ ref gc.Ref }

func (d *dangler) Trace(m *gc.Marker) { m.Mark(d.ref) }

func TestTake_CountsDanglingRefs(t *testing.T) {
	g := newTestGraph(t)

	p, err := gc.New(g.h, func() (*dangler, error) { return &dangler{ref: gc.Ref(4242)}, nil })
	require.NoError(t, err)
	g.h.NewRoot(p.Ref())

	s := Take(g.h)
	assert.Equal(t, 1, s.Dangling)
	obj, _ := s.Object(p.Ref())
	assert.Empty(t, obj.Ptrs)
	assert.Empty(t, s.Garbage())
}
