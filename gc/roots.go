package gc

// Root pins its target (and everything reachable from it) across
// collections. Roots live on an intrusive doubly linked list owned by the
// heap: NewRoot inserts at the head, Release splices the node out from any
// position.
//
// Roots must not be created or released during a collection.
type Root struct {
	h          *Heap
	target     Ref
	prev, next *Root
}

// NewRoot registers a root holding target (which may be Nil).
func (h *Heap) NewRoot(target Ref) *Root {
	r := &Root{h: h, target: target}
	if h.closed {
		return r
	}
	r.next = h.roots
	if h.roots != nil {
		h.roots.prev = r
	}
	h.roots = r
	h.rootCount++
	return r
}

// Set changes the pinned target. No validation is done; Nil is legal.
func (r *Root) Set(target Ref) { r.target = target }

// Get returns the pinned target.
func (r *Root) Get() Ref { return r.target }

// Registered reports whether the root is still on its heap's root list.
func (r *Root) Registered() bool { return r.h != nil }

// Release deregisters the root. Releasing twice is a no-op.
func (r *Root) Release() {
	h := r.h
	if h == nil {
		return
	}
	if r.prev != nil {
		r.prev.next = r.next
	} else {
		h.roots = r.next
	}
	if r.next != nil {
		r.next.prev = r.prev
	}
	r.h, r.prev, r.next = nil, nil, nil
	h.rootCount--
}

// ForEachRoot calls fn with the target of every registered root that holds
// a non-Nil reference, newest root first, until fn returns false.
func (h *Heap) ForEachRoot(fn func(Ref) bool) {
	for root := h.roots; root != nil; root = root.next {
		if root.target == Nil {
			continue
		}
		if !fn(root.target) {
			return
		}
	}
}
