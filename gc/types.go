package gc

import (
	"fmt"
	"slices"

	"github.com/joshuapare/enginegc/internal/format"
)

// Ref names a managed object. It is the slot index plus one; Nil never
// names an object.
type Ref uint32

// Nil is the null reference.
const Nil Ref = 0

// HeaderSize is the number of bytes each allocation is charged for its
// header in addition to its payload.
const HeaderSize = 32

// maxSlots is the number of slots a 32-bit Ref can name.
const maxSlots = 1<<32 - 1

// Tracer is the dispatch form of the marking contract: Trace must call
// m.Mark for every Ref the value currently holds.
type Tracer interface {
	Trace(m *Marker)
}

// Finalizer is implemented by traced values that need a hook when they are
// collected. Finalize runs during the sweep; it must not allocate, and must
// not dereference other managed objects, which may already be gone.
type Finalizer interface {
	Finalize()
}

// Sizer lets a traced value report its accounted payload size. Without it
// the size of the value's Go type is used.
type Sizer interface {
	Size() int
}

// Marker accumulates references reported by the marking contract. During a
// collection it shades objects onto the mark list; for inspection it just
// forwards each reference.
type Marker struct {
	visit func(Ref)
}

// Mark reports one reference. Nil is ignored.
func (m *Marker) Mark(r Ref) {
	if r != Nil {
		m.visit(r)
	}
}

// MarkAll reports every reference in refs.
func (m *Marker) MarkAll(refs ...Ref) {
	for _, r := range refs {
		m.Mark(r)
	}
}

// Type is the descriptor form of the marking contract: a fixed-size payload
// element with Ref fields at known byte offsets. Allocations of count > 1
// hold count consecutive elements sharing the layout.
//
// A Type is immutable once created and may be shared by any number of heaps.
type Type struct {
	name     string
	size     int
	refs     []int
	finalize func(payload []byte)
}

// NewType builds a descriptor for elements of size bytes whose Ref fields
// start at the given byte offsets. Offsets must be 4-byte aligned, distinct
// and inside the element.
func NewType(name string, size int, refs ...int) (*Type, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty name", ErrBadType)
	}
	if size <= 0 {
		return nil, fmt.Errorf("%w: %s: size %d", ErrBadType, name, size)
	}
	sorted := slices.Clone(refs)
	slices.Sort(sorted)
	for i, off := range sorted {
		if err := format.CheckRefField(size, off); err != nil {
			return nil, fmt.Errorf("%w: %s: field at %d: %w", ErrBadType, name, off, err)
		}
		if i > 0 && sorted[i-1] == off {
			return nil, fmt.Errorf("%w: %s: duplicate field at %d", ErrBadType, name, off)
		}
	}
	return &Type{name: name, size: size, refs: sorted}, nil
}

// MustType is like NewType but panics on error. Intended for package-level
// descriptor variables.
func MustType(name string, size int, refs ...int) *Type {
	t, err := NewType(name, size, refs...)
	if err != nil {
		panic(err)
	}
	return t
}

// WithFinalizer returns a copy of t that calls fn with the payload of every
// collected allocation of the type.
func (t *Type) WithFinalizer(fn func(payload []byte)) *Type {
	c := *t
	c.finalize = fn
	return &c
}

// Name returns the descriptor name.
func (t *Type) Name() string { return t.name }

// Size returns the element size in bytes.
func (t *Type) Size() int { return t.size }

// Refs returns the sorted Ref field offsets within one element.
func (t *Type) Refs() []int { return slices.Clone(t.refs) }

// ElemOffset returns the byte offset of element i within a payload.
func (t *Type) ElemOffset(i int) int { return i * t.size }
