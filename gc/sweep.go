package gc

// sweep walks the allocation list once. Objects still flagged unreferenced
// are unlinked, finalized and released; the rest have their flag reset for
// the next cycle. Allocations whose initializer is still running were
// seeded by markRoots; the constructing check keeps them even so.
func (h *Heap) sweep() {
	var prev *header
	for r := h.allocHead; r != Nil; {
		hdr := &h.slots[r-1]
		next := hdr.allocNext

		if hdr.unreferenced && !hdr.constructing {
			if prev == nil {
				h.allocHead = next
			} else {
				prev.allocNext = next
			}
			h.cycle.Freed++
			h.cycle.FreedBytes += int64(hdr.size)
			h.release(r, true)
		} else {
			hdr.unreferenced = true
			prev = hdr
			h.cycle.Survivors++
		}
		r = next
	}
}
