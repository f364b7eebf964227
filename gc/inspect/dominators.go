package inspect

import (
	"cmp"
	"slices"

	"github.com/joshuapare/enginegc/gc"
)

// superRoot is the virtual node that points at every root and every
// allocation under construction. Nil never names
// an object, so it is free to use.
const superRoot = gc.Nil

// domGraph is the reachable part of the snapshot in reverse postorder from
// the super-root, with dense indices.
type domGraph struct {
	order []gc.Ref       // reverse postorder; order[0] is the super-root
	num   map[gc.Ref]int // ref -> position in order
	preds [][]int
}

func (s *Snapshot) domGraph() *domGraph {
	seeds := s.seeds()
	succ := func(r gc.Ref) []gc.Ref {
		if r == superRoot {
			return seeds
		}
		obj, _ := s.Object(r)
		return obj.Ptrs
	}

	// iterative DFS for postorder
	type frame struct {
		ref  gc.Ref
		next int
	}
	visited := map[gc.Ref]bool{superRoot: true}
	var post []gc.Ref
	stack := []frame{{ref: superRoot}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		out := succ(top.ref)
		if top.next < len(out) {
			w := out[top.next]
			top.next++
			if !visited[w] {
				visited[w] = true
				stack = append(stack, frame{ref: w})
			}
			continue
		}
		post = append(post, top.ref)
		stack = stack[:len(stack)-1]
	}

	slices.Reverse(post)
	g := &domGraph{order: post, num: make(map[gc.Ref]int, len(post)), preds: make([][]int, len(post))}
	for i, r := range post {
		g.num[r] = i
	}
	for i, r := range post {
		for _, w := range succ(r) {
			j := g.num[w]
			g.preds[j] = append(g.preds[j], i)
		}
	}
	return g
}

// idoms computes immediate dominators by position with the iterative
// Cooper-Harvey-Kennedy algorithm.
func (g *domGraph) idoms() []int {
	idom := make([]int, len(g.order))
	for i := range idom {
		idom[i] = -1
	}
	idom[0] = 0

	intersect := func(a, b int) int {
		for a != b {
			for a > b {
				a = idom[a]
			}
			for b > a {
				b = idom[b]
			}
		}
		return a
	}

	for changed := true; changed; {
		changed = false
		for b := 1; b < len(g.order); b++ {
			nd := -1
			for _, p := range g.preds[b] {
				if idom[p] == -1 {
					continue
				}
				if nd == -1 {
					nd = p
				} else {
					nd = intersect(p, nd)
				}
			}
			if idom[b] != nd {
				idom[b] = nd
				changed = true
			}
		}
	}
	return idom
}

// Dominators maps every reachable object to its immediate dominator. Objects
// dominated only by the set of roots as a whole map to Nil.
func (s *Snapshot) Dominators() map[gc.Ref]gc.Ref {
	g := s.domGraph()
	idom := g.idoms()
	out := make(map[gc.Ref]gc.Ref, len(g.order)-1)
	for i := 1; i < len(g.order); i++ {
		out[g.order[i]] = g.order[idom[i]]
	}
	return out
}

// RetainedSizes maps every reachable object to the bytes that would become
// garbage if it were unreachable: its own size plus everything it
// dominates.
func (s *Snapshot) RetainedSizes() map[gc.Ref]uint64 {
	g := s.domGraph()
	idom := g.idoms()

	retained := make([]uint64, len(g.order))
	// dominators precede what they dominate in reverse postorder
	for i := len(g.order) - 1; i > 0; i-- {
		obj, _ := s.Object(g.order[i])
		retained[i] += obj.Size
		retained[idom[i]] += retained[i]
	}

	out := make(map[gc.Ref]uint64, len(g.order)-1)
	for i := 1; i < len(g.order); i++ {
		out[g.order[i]] = retained[i]
	}
	return out
}

// Retainer is one row of TopRetainers.
type Retainer struct {
	Ref      gc.Ref `json:"ref"`
	Type     string `json:"type"`
	Size     uint64 `json:"size"`
	Retained uint64 `json:"retained"`
}

// TopRetainers returns the n reachable objects with the largest retained
// size, largest first. n <= 0 returns all of them.
func (s *Snapshot) TopRetainers(n int) []Retainer {
	sizes := s.RetainedSizes()
	out := make([]Retainer, 0, len(sizes))
	for r, ret := range sizes {
		obj, _ := s.Object(r)
		out = append(out, Retainer{Ref: r, Type: obj.Type, Size: obj.Size, Retained: ret})
	}
	slices.SortFunc(out, func(a, b Retainer) int {
		if c := cmp.Compare(b.Retained, a.Retained); c != 0 {
			return c
		}
		return cmp.Compare(a.Ref, b.Ref)
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
