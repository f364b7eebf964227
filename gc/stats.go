package gc

import "github.com/joshuapare/enginegc/gc/arena"

// Stats is a point-in-time view of the heap.
type Stats struct {
	Objects     int    // objects on the allocation list
	Bytes       int64  // sum of their accounted sizes
	Roots       int    // registered roots
	Slots       int    // slot table length (live + reusable)
	Collections uint64 // completed collections
	TotalAllocs uint64 // allocations ever linked
	TotalFrees  uint64 // allocations ever released
	Arena       arena.Stats
}

// Stats returns current statistics. It has no side effects.
func (h *Heap) Stats() Stats {
	st := Stats{
		Objects:     h.objects,
		Bytes:       h.bytes,
		Roots:       h.rootCount,
		Slots:       len(h.slots),
		Collections: h.totals.collections,
		TotalAllocs: h.totals.allocs,
		TotalFrees:  h.totals.frees,
	}
	if !h.closed {
		st.Arena = h.arena.Stats()
	}
	return st
}
