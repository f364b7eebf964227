package gc

import (
	"fmt"
	"math"
)

// Alloc allocates count zeroed elements of the descriptor type t and returns
// the new object's Ref.
func (h *Heap) Alloc(t *Type, count int) (Ref, error) {
	return h.AllocInit(t, count, nil)
}

// AllocInit allocates count zeroed elements of t and runs init on the
// payload. If init returns an error or panics, the allocation is unlinked
// and released before the failure propagates.
//
// The payload slice passed to init is only valid until init allocates.
func (h *Heap) AllocInit(t *Type, count int, init func(payload []byte) error) (Ref, error) {
	if err := h.usable(); err != nil {
		return Nil, err
	}
	if t == nil {
		return Nil, fmt.Errorf("%w: nil descriptor", ErrBadType)
	}
	if count < 1 {
		return Nil, fmt.Errorf("%w: %s[%d]", ErrBadCount, t.name, count)
	}
	n := int64(t.size) * int64(count)
	if n > math.MaxInt32 {
		return Nil, fmt.Errorf("%w: %s[%d] needs %d bytes", ErrOutOfMemory, t.name, count, n)
	}
	if err := h.checkObjectLimit(); err != nil {
		return Nil, err
	}

	off, _, err := h.arena.Alloc(int32(n))
	if err != nil {
		return Nil, fmt.Errorf("%w: %s[%d]: %w", ErrOutOfMemory, t.name, count, err)
	}

	r, err := h.claim()
	if err != nil {
		_ = h.arena.Free(off)
		return Nil, err
	}
	h.slots[r-1] = header{
		inUse:        true,
		unreferenced: true,
		constructing: init != nil,
		size:         HeaderSize + int(n),
		typ:          t,
		count:        count,
		off:          off,
	}
	h.link(r)

	if init != nil {
		if err := h.construct(r, func() error { return init(h.Bytes(r)) }); err != nil {
			return Nil, err
		}
	}
	return r, nil
}

// allocTraced links a slot for a traced value that is about to be built.
func (h *Heap) allocTraced(size int) (Ref, error) {
	if err := h.usable(); err != nil {
		return Nil, err
	}
	if err := h.checkObjectLimit(); err != nil {
		return Nil, err
	}
	r, err := h.claim()
	if err != nil {
		return Nil, err
	}
	h.slots[r-1] = header{
		inUse:        true,
		unreferenced: true,
		constructing: true,
		size:         size,
	}
	h.link(r)
	return r, nil
}

func (h *Heap) checkObjectLimit() error {
	if h.opts.MaxObjects > 0 && h.objects >= h.opts.MaxObjects {
		return fmt.Errorf("%w: %d live objects (limit %d)", ErrOutOfMemory, h.objects, h.opts.MaxObjects)
	}
	return nil
}

// claim returns an unused slot. The slot table may grow, so callers must
// not hold *header values across claim.
func (h *Heap) claim() (Ref, error) {
	if n := len(h.freeSlots); n > 0 {
		idx := h.freeSlots[n-1]
		h.freeSlots = h.freeSlots[:n-1]
		return Ref(idx + 1), nil
	}
	if int64(len(h.slots)) >= maxSlots {
		return Nil, fmt.Errorf("%w: slot table full", ErrOutOfMemory)
	}
	h.slots = append(h.slots, header{})
	return Ref(len(h.slots)), nil
}

// link pushes r onto the allocation list and accounts for it.
func (h *Heap) link(r Ref) {
	hdr := &h.slots[r-1]
	hdr.allocNext = h.allocHead
	h.allocHead = r
	h.objects++
	h.bytes += int64(hdr.size)
	h.totals.allocs++
}

// unlink removes r from the allocation list. Used on rollback, where r is
// almost always at or near the head.
func (h *Heap) unlink(r Ref) {
	var prev Ref
	for cur := h.allocHead; cur != Nil; cur = h.slots[cur-1].allocNext {
		if cur != r {
			prev = cur
			continue
		}
		next := h.slots[cur-1].allocNext
		if prev == Nil {
			h.allocHead = next
		} else {
			h.slots[prev-1].allocNext = next
		}
		return
	}
}

// construct runs fn for the freshly linked r, rolling the allocation back if
// fn fails or panics.
func (h *Heap) construct(r Ref, fn func() error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			h.rollback(r)
			panic(p)
		}
	}()
	if cerr := fn(); cerr != nil {
		h.rollback(r)
		return fmt.Errorf("%w: %w", ErrConstruct, cerr)
	}
	h.slots[r-1].constructing = false
	return nil
}

// rollback unlinks and releases a half-built allocation without running its
// finalizer.
func (h *Heap) rollback(r Ref) {
	h.unlink(r)
	h.release(r, false)
}

// release frees r's storage, updates statistics and returns the slot. The
// caller has already unlinked r from the allocation list.
func (h *Heap) release(r Ref, finalize bool) {
	hdr := &h.slots[r-1]
	if finalize {
		h.finalize(r, hdr)
	}
	if hdr.typ != nil {
		if err := h.arena.Free(hdr.off); err != nil {
			h.logger.Error("arena free failed", "ref", r, "type", hdr.typ.name, "err", err)
		}
	}
	h.objects--
	h.bytes -= int64(hdr.size)
	h.totals.frees++
	*hdr = header{}
	h.freeSlots = append(h.freeSlots, uint32(r-1))
}

// finalize runs the object's finalizer, containing any panic.
func (h *Heap) finalize(r Ref, hdr *header) {
	defer func() {
		if p := recover(); p != nil {
			h.logger.Error("finalizer panicked", "ref", r, "type", hdr.typeName(), "panic", p)
		}
	}()
	switch {
	case hdr.obj != nil:
		if f, ok := hdr.obj.(Finalizer); ok {
			f.Finalize()
		}
	case hdr.typ != nil && hdr.typ.finalize != nil:
		p := h.arena.Payload(hdr.off)
		hdr.typ.finalize(p[:hdr.payloadLen()])
	}
}
