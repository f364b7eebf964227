package gc

import (
	"fmt"

	"github.com/joshuapare/enginegc/gc/arena"
)

// header is the per-allocation control block. It sits in the slot table at
// index ref-1, beside (not inside) the object's storage.
type header struct {
	inUse bool

	// unreferenced is the liveness flag: true means "not yet proven
	// reachable this cycle". Every linked header carries true between
	// collections; marking clears it, the sweep frees or resets.
	unreferenced bool

	// constructing pins the allocation while its initializer runs.
	constructing bool

	size      int // accounted bytes, HeaderSize included
	allocNext Ref // allocation list link
	markNext  Ref // mark list link, only meaningful during marking

	// descriptor strategy
	typ   *Type
	count int
	off   arena.Offset

	// dispatch strategy
	obj Tracer
}

// header returns the header for r, or nil if r does not name a live slot.
func (h *Heap) header(r Ref) *header {
	if r == Nil || uint64(r) > uint64(len(h.slots)) {
		return nil
	}
	hdr := &h.slots[r-1]
	if !hdr.inUse {
		return nil
	}
	return hdr
}

// typeName describes the object behind hdr.
func (hdr *header) typeName() string {
	switch {
	case hdr.typ != nil:
		return hdr.typ.name
	case hdr.obj != nil:
		return fmt.Sprintf("%T", hdr.obj)
	default:
		return "<constructing>"
	}
}

// payloadLen is the descriptor payload length in bytes.
func (hdr *header) payloadLen() int {
	if hdr.typ == nil {
		return 0
	}
	return hdr.typ.size * hdr.count
}
