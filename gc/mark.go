package gc

import "github.com/joshuapare/enginegc/internal/format"

// shade applies the marking rule to r: if r is live and still flagged
// unreferenced, clear the flag and push it onto the mark list.
func (h *Heap) shade(r Ref) {
	hdr := h.header(r)
	if hdr == nil {
		h.cycle.InvalidRefs++
		if h.opts.Verify {
			h.logger.Warn("reference to dead slot", "ref", r, "cycle", h.cycle.Cycle)
		}
		return
	}
	if !hdr.unreferenced {
		return
	}
	hdr.unreferenced = false
	hdr.markNext = h.markHead
	h.markHead = r
	h.cycle.Marked++
}

// markRoots is the seed phase. Allocations whose initializer is still
// running are seeded too, so whatever their payload already points at
// survives with them. A traced object has no value to scan until its
// constructor returns, so its outgoing references only count once it is
// stored.
func (h *Heap) markRoots() {
	for root := h.roots; root != nil; root = root.next {
		h.cycle.Roots++
		if root.target != Nil {
			h.shade(root.target)
		}
	}
	for r := h.allocHead; r != Nil; r = h.slots[r-1].allocNext {
		if h.slots[r-1].constructing {
			h.shade(r)
		}
	}
}

// drain is the drain phase: detach the whole mark list, scan every entry
// (which may build a new list) and repeat until a pass leaves it empty.
func (h *Heap) drain() {
	for h.markHead != Nil {
		list := h.markHead
		h.markHead = Nil
		h.cycle.Passes++

		for r := list; r != Nil; {
			hdr := &h.slots[r-1]
			next := hdr.markNext
			hdr.markNext = Nil
			h.scan(hdr, &h.marker)
			r = next
		}
	}
}

// scan reports every outgoing reference of hdr's object to m.
func (h *Heap) scan(hdr *header, m *Marker) {
	if hdr.obj != nil {
		hdr.obj.Trace(m)
		return
	}
	t := hdr.typ
	if t == nil || len(t.refs) == 0 {
		return
	}
	p := h.arena.Payload(hdr.off)
	for e := range hdr.count {
		base := e * t.size
		for _, off := range t.refs {
			m.Mark(Ref(format.ReadU32(p, base+off)))
		}
	}
}
