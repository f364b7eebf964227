package inspect

import (
	"cmp"
	"slices"

	"github.com/joshuapare/enginegc/gc"
)

// Object is one node of the snapshot graph.
type Object struct {
	Ref   gc.Ref
	Type  string
	Size  uint64   // accounted bytes, header included
	Count int      // element count
	Ptrs  []gc.Ref // outgoing references to live objects
}

// Snapshot is a frozen copy of the heap's object graph.
type Snapshot struct {
	Objects  []Object // newest first, as enumerated
	Roots    []gc.Ref // distinct non-Nil root targets
	Pinned   []gc.Ref // allocations still under construction
	Dangling int      // reported references naming no live object

	index map[gc.Ref]int
}

// Take copies the current object graph out of h.
func Take(h *gc.Heap) *Snapshot {
	s := &Snapshot{index: make(map[gc.Ref]int)}
	h.ForEachObject(func(o gc.ObjectInfo) bool {
		s.index[o.Ref] = len(s.Objects)
		s.Objects = append(s.Objects, Object{
			Ref:   o.Ref,
			Type:  o.Type,
			Size:  uint64(o.Size),
			Count: o.Count,
		})
		if o.Constructing {
			s.Pinned = append(s.Pinned, o.Ref)
		}
		return true
	})

	for i := range s.Objects {
		obj := &s.Objects[i]
		h.References(obj.Ref, func(dst gc.Ref) {
			if _, ok := s.index[dst]; !ok {
				s.Dangling++
				return
			}
			obj.Ptrs = append(obj.Ptrs, dst)
		})
	}

	seen := make(map[gc.Ref]bool)
	h.ForEachRoot(func(r gc.Ref) bool {
		if _, ok := s.index[r]; ok && !seen[r] {
			seen[r] = true
			s.Roots = append(s.Roots, r)
		}
		return true
	})
	return s
}

// Object returns the snapshot node for r.
func (s *Snapshot) Object(r gc.Ref) (*Object, bool) {
	i, ok := s.index[r]
	if !ok {
		return nil, false
	}
	return &s.Objects[i], true
}

// seeds returns the objects Collect marks from: root targets, then
// allocations under construction that no root names.
func (s *Snapshot) seeds() []gc.Ref {
	if len(s.Pinned) == 0 {
		return s.Roots
	}
	out := slices.Clone(s.Roots)
	for _, r := range s.Pinned {
		if !slices.Contains(s.Roots, r) {
			out = append(out, r)
		}
	}
	return out
}

// Reachable returns the set of objects reachable from the roots or from an
// allocation under construction.
func (s *Snapshot) Reachable() map[gc.Ref]bool {
	live := make(map[gc.Ref]bool, len(s.Objects))
	stack := slices.Clone(s.seeds())
	for _, r := range stack {
		live[r] = true
	}
	for len(stack) > 0 {
		r := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		obj, _ := s.Object(r)
		for _, p := range obj.Ptrs {
			if !live[p] {
				live[p] = true
				stack = append(stack, p)
			}
		}
	}
	return live
}

// Garbage returns the unreachable objects in ascending Ref order. Unless
// the heap changes first, these are exactly the objects the next Collect
// frees.
func (s *Snapshot) Garbage() []gc.Ref {
	live := s.Reachable()
	var out []gc.Ref
	for _, obj := range s.Objects {
		if !live[obj.Ref] {
			out = append(out, obj.Ref)
		}
	}
	slices.Sort(out)
	return out
}

// TypeStat is one histogram row.
type TypeStat struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
	Bytes uint64 `json:"bytes"`
	Live  int    `json:"live"` // reachable objects of this type
}

// Histogram groups objects by type, largest byte total first.
func (s *Snapshot) Histogram() []TypeStat {
	live := s.Reachable()
	rows := make(map[string]*TypeStat)
	for _, obj := range s.Objects {
		row, ok := rows[obj.Type]
		if !ok {
			row = &TypeStat{Type: obj.Type}
			rows[obj.Type] = row
		}
		row.Count++
		row.Bytes += obj.Size
		if live[obj.Ref] {
			row.Live++
		}
	}

	out := make([]TypeStat, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row)
	}
	slices.SortFunc(out, func(a, b TypeStat) int {
		if c := cmp.Compare(b.Bytes, a.Bytes); c != 0 {
			return c
		}
		return cmp.Compare(a.Type, b.Type)
	})
	return out
}

// reverse maps each object to the objects that point at it.
func (s *Snapshot) reverse() map[gc.Ref][]gc.Ref {
	rev := make(map[gc.Ref][]gc.Ref)
	for _, obj := range s.Objects {
		for _, p := range obj.Ptrs {
			rev[p] = append(rev[p], obj.Ref)
		}
	}
	return rev
}
