package gc

// ObjectInfo describes one live allocation.
type ObjectInfo struct {
	Ref    Ref
	Type   string // descriptor name or Go type
	Size   int    // accounted bytes, header included
	Count  int    // element count (1 for traced objects)
	Traced bool   // dispatch strategy

	// Constructing is set while the initializer runs. Collect keeps
	// such objects and everything their payload references.
	Constructing bool
}

// ForEachObject calls fn for every allocation on the allocation list,
// newest first, until fn returns false. It never touches liveness state, so
// it is safe to use for diagnostics between collections. fn must not
// allocate.
func (h *Heap) ForEachObject(fn func(ObjectInfo) bool) {
	for r := h.allocHead; r != Nil; {
		hdr := &h.slots[r-1]
		next := hdr.allocNext
		info := ObjectInfo{
			Ref:    r,
			Type:   hdr.typeName(),
			Size:   hdr.size,
			Count:  1,
			Traced: hdr.typ == nil,

			Constructing: hdr.constructing,
		}
		if hdr.typ != nil {
			info.Count = hdr.count
		}
		if !fn(info) {
			return
		}
		r = next
	}
}

// References calls fn for every non-Nil reference r currently reports
// through its marking contract. Dead references are reported as-is.
func (h *Heap) References(r Ref, fn func(Ref)) {
	hdr := h.header(r)
	if hdr == nil {
		return
	}
	m := Marker{visit: fn}
	h.scan(hdr, &m)
}
