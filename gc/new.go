package gc

import (
	"fmt"
	"reflect"
)

// Handle is a typed Ref to a traced object. Like Ref it does not own the
// object: the collector alone decides when the storage is reclaimed.
type Handle[T Tracer] struct {
	ref Ref
}

// Ref returns the untyped reference.
func (p Handle[T]) Ref() Ref { return p.ref }

// IsNil reports whether the handle names no object.
func (p Handle[T]) IsNil() bool { return p.ref == Nil }

// Get returns the object if it is still live and of type T.
func (p Handle[T]) Get(h *Heap) (T, bool) {
	var zero T
	hdr := h.header(p.ref)
	if hdr == nil || hdr.obj == nil {
		return zero, false
	}
	v, ok := hdr.obj.(T)
	return v, ok
}

// HandleOf returns a typed handle for r if r names a live object of type T.
func HandleOf[T Tracer](h *Heap, r Ref) (Handle[T], bool) {
	p := Handle[T]{ref: r}
	if _, ok := p.Get(h); !ok {
		return Handle[T]{}, false
	}
	return p, true
}

// New allocates a traced object: it links a new allocation, runs construct,
// and stores the returned value. If construct returns an error or panics,
// the allocation is unlinked and released before the failure propagates.
//
// Constructor arguments are captured by the closure:
//
//	p, err := gc.New(h, func() (*Actor, error) { return NewActor(name, hp) })
func New[T Tracer](h *Heap, construct func() (T, error)) (Handle[T], error) {
	if construct == nil {
		return Handle[T]{}, fmt.Errorf("%w: nil constructor", ErrConstruct)
	}
	r, err := h.allocTraced(sizeOf[T]())
	if err != nil {
		return Handle[T]{}, err
	}

	var v T
	err = h.construct(r, func() error {
		var cerr error
		v, cerr = construct()
		if cerr == nil && isNil(v) {
			cerr = fmt.Errorf("constructor returned a nil %T", v)
		}
		return cerr
	})
	if err != nil {
		return Handle[T]{}, err
	}

	hdr := &h.slots[r-1]
	hdr.obj = v
	if s, ok := any(v).(Sizer); ok {
		h.resize(hdr, HeaderSize+s.Size())
	}
	return Handle[T]{ref: r}, nil
}

// Pin registers a root for p. Release the returned root to unpin.
func Pin[T Tracer](h *Heap, p Handle[T]) *Root {
	return h.NewRoot(p.ref)
}

// sizeOf is the accounted size of a traced value of type T. Pointer types
// are charged for what they point at.
func sizeOf[T any]() int {
	t := reflect.TypeFor[T]()
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return HeaderSize + int(t.Size())
}

// isNil reports whether v holds no value, typed nils included.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// resize changes an allocation's accounted size.
func (h *Heap) resize(hdr *header, size int) {
	h.bytes += int64(size - hdr.size)
	hdr.size = size
}
