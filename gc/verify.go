package gc

import (
	"errors"
	"fmt"
)

// Verify walks the heap's bookkeeping and reports every inconsistency it
// finds, joined into one error. It does not modify the heap and must not
// be called during a collection.
//
// Checks:
//   - alloc-list: every linked Ref names an in-use slot exactly once
//   - flags: between collections every object is flagged unreferenced and
//     the mark list is empty
//   - stats: object and byte counts match the list
//   - slots: in-use slots are all linked, free slots are all clear
//   - roots: the root list is doubly linked consistently and counted
//   - refs: every reference reported by a live object names a live object
func (h *Heap) Verify() error {
	if h.closed {
		return ErrClosed
	}
	var errs []error
	add := func(check string, r Ref, format string, args ...any) {
		errs = append(errs, &ValidationError{Check: check, Ref: r, Message: fmt.Sprintf(format, args...)})
	}

	if h.markHead != Nil && !h.collecting {
		add("flags", h.markHead, "mark list not empty outside a collection")
	}

	seen := make([]bool, len(h.slots))
	var objects int
	var bytes int64
	for r := h.allocHead; r != Nil; {
		if uint64(r) > uint64(len(h.slots)) {
			add("alloc-list", r, "ref out of range (%d slots)", len(h.slots))
			break
		}
		if seen[r-1] {
			add("alloc-list", r, "linked twice (cycle in allocation list)")
			break
		}
		seen[r-1] = true
		hdr := &h.slots[r-1]
		if !hdr.inUse {
			add("alloc-list", r, "linked slot is not in use")
		}
		if !h.collecting && !hdr.unreferenced {
			add("flags", r, "liveness flag not reset after collection")
		}
		if hdr.markNext != Nil {
			add("flags", r, "stale mark link to %d", hdr.markNext)
		}
		if hdr.typ != nil && h.arena.Payload(hdr.off) == nil {
			add("alloc-list", r, "arena block %d not allocated", hdr.off)
		}
		objects++
		bytes += int64(hdr.size)
		r = hdr.allocNext
	}

	if objects != h.objects {
		add("stats", Nil, "object count %d, list holds %d", h.objects, objects)
	}
	if bytes != h.bytes {
		add("stats", Nil, "byte count %d, list holds %d", h.bytes, bytes)
	}

	for i := range h.slots {
		if h.slots[i].inUse && !seen[i] {
			add("slots", Ref(i+1), "in-use slot not on allocation list")
		}
	}
	if len(h.freeSlots)+objects != len(h.slots) {
		add("slots", Nil, "%d free + %d linked != %d slots", len(h.freeSlots), objects, len(h.slots))
	}
	for _, idx := range h.freeSlots {
		if int(idx) < len(h.slots) && h.slots[idx].inUse {
			add("slots", Ref(idx+1), "slot on free stack is in use")
		}
	}

	var roots int
	var prev *Root
	for root := h.roots; root != nil; root = root.next {
		if root.prev != prev {
			add("roots", root.target, "broken prev link at position %d", roots)
		}
		if root.h != h {
			add("roots", root.target, "root registered with another heap")
		}
		prev = root
		roots++
		if roots > h.rootCount {
			break
		}
	}
	if roots != h.rootCount {
		add("roots", Nil, "root count %d, list holds %d", h.rootCount, roots)
	}

	for i := range h.slots {
		if !h.slots[i].inUse || h.slots[i].constructing {
			continue
		}
		src := Ref(i + 1)
		h.References(src, func(dst Ref) {
			if h.header(dst) == nil {
				add("refs", src, "references dead ref %d", dst)
			}
		})
	}

	return errors.Join(errs...)
}
