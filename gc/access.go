package gc

import (
	"fmt"

	"github.com/joshuapare/enginegc/internal/format"
)

// Valid reports whether r names a live object.
func (h *Heap) Valid(r Ref) bool {
	return h.header(r) != nil
}

// TypeName returns the descriptor name or Go type of r, or "" if r is not
// live.
func (h *Heap) TypeName(r Ref) string {
	hdr := h.header(r)
	if hdr == nil {
		return ""
	}
	return hdr.typeName()
}

// SizeOf returns the accounted size of r in bytes, header included.
func (h *Heap) SizeOf(r Ref) int {
	hdr := h.header(r)
	if hdr == nil {
		return 0
	}
	return hdr.size
}

// Len returns the element count of a descriptor object (1 for traced
// objects, 0 if r is not live).
func (h *Heap) Len(r Ref) int {
	hdr := h.header(r)
	switch {
	case hdr == nil:
		return 0
	case hdr.typ != nil:
		return hdr.count
	default:
		return 1
	}
}

// Value returns the traced value behind r, or nil.
func (h *Heap) Value(r Ref) Tracer {
	hdr := h.header(r)
	if hdr == nil {
		return nil
	}
	return hdr.obj
}

// Bytes returns the payload of a descriptor object, or nil. The slice is
// only valid until the next allocation.
func (h *Heap) Bytes(r Ref) []byte {
	hdr := h.header(r)
	if hdr == nil || hdr.typ == nil {
		return nil
	}
	p := h.arena.Payload(hdr.off)
	if p == nil {
		return nil
	}
	return p[:hdr.payloadLen()]
}

// LoadRef reads the Ref field at byte offset off of a descriptor object's
// payload. For arrays, off is Type.ElemOffset(i) plus the field offset.
func (h *Heap) LoadRef(r Ref, off int) (Ref, error) {
	p, err := h.refField(r, off)
	if err != nil {
		return Nil, err
	}
	return Ref(format.ReadU32(p, off)), nil
}

// StoreRef writes v into the Ref field at byte offset off. With
// Options.Verify, v must be Nil or live.
func (h *Heap) StoreRef(r Ref, off int, v Ref) error {
	p, err := h.refField(r, off)
	if err != nil {
		return err
	}
	if h.opts.Verify && v != Nil && !h.Valid(v) {
		return fmt.Errorf("%w: storing dead ref %d into %d+%d", ErrBadRef, v, r, off)
	}
	format.PutU32(p, off, uint32(v))
	return nil
}

func (h *Heap) refField(r Ref, off int) ([]byte, error) {
	if h.closed {
		return nil, ErrClosed
	}
	p := h.Bytes(r)
	if p == nil {
		return nil, fmt.Errorf("%w: %d is not a live descriptor object", ErrBadRef, r)
	}
	if err := format.CheckRefField(len(p), off); err != nil {
		return nil, fmt.Errorf("%w: field %d of %s: %w", ErrBadRef, off, h.TypeName(r), err)
	}
	return p, nil
}
