// Package workload provides engine-shaped managed types and canned object
// graphs for exercising the collector.
package workload

import (
	"github.com/joshuapare/enginegc/gc"
	"github.com/joshuapare/enginegc/internal/format"
)

// Actor is a scene object. Its references are variable-length, so it uses
// the traced strategy.
type Actor struct {
	Name     string
	Parent   gc.Ref
	Children []gc.Ref
	Package  gc.Ref

	// OnFinalize, if set, is called with Name when the actor is collected.
	OnFinalize func(name string)
}

// Trace reports the parent, package and children.
func (a *Actor) Trace(m *gc.Marker) {
	m.Mark(a.Parent)
	m.Mark(a.Package)
	m.MarkAll(a.Children...)
}

// Finalize runs OnFinalize.
func (a *Actor) Finalize() {
	if a.OnFinalize != nil {
		a.OnFinalize(a.Name)
	}
}

// Size charges the fixed fields plus the child list.
func (a *Actor) Size() int {
	return 64 + len(a.Name) + format.RefSize*cap(a.Children)
}

// Package layout: a loaded resource bundle.
//
//	0  Ref    dependency
//	4  Ref    next (loader chain)
//	8  uint32 id
//	12 uint32 bytes
const (
	PackageDep   = 0
	PackageNext  = 4
	PackageID    = 8
	PackageBytes = 12
)

// PackageType is the descriptor for packages.
var PackageType = gc.MustType("package", 16, PackageDep, PackageNext)

// UI node layout: a widget tree with parent back-links.
//
//	0  Ref    parent
//	4  Ref    first child
//	8  Ref    next sibling
//	12 uint32 widget id
const (
	UIParent  = 0
	UIChild   = 4
	UISibling = 8
	UIWidget  = 12
)

// UINodeType is the descriptor for UI nodes.
var UINodeType = gc.MustType("ui-node", 16, UIParent, UIChild, UISibling)

// NewActor allocates an actor.
func NewActor(h *gc.Heap, name string, onFinalize func(string)) (gc.Handle[*Actor], error) {
	return gc.New(h, func() (*Actor, error) {
		return &Actor{Name: name, OnFinalize: onFinalize}, nil
	})
}

// Attach makes child a child of parent. Both must be live actors.
func Attach(h *gc.Heap, parent, child gc.Handle[*Actor]) bool {
	p, ok := parent.Get(h)
	if !ok {
		return false
	}
	c, ok := child.Get(h)
	if !ok {
		return false
	}
	p.Children = append(p.Children, child.Ref())
	c.Parent = parent.Ref()
	return true
}

// Detach removes child from parent's child list. The child keeps its
// parent back-reference, as a despawned actor would.
func Detach(h *gc.Heap, parent, child gc.Handle[*Actor]) bool {
	p, ok := parent.Get(h)
	if !ok {
		return false
	}
	for i, r := range p.Children {
		if r == child.Ref() {
			p.Children = append(p.Children[:i], p.Children[i+1:]...)
			return true
		}
	}
	return false
}

// NewPackage allocates a package with the given id, size and dependency.
func NewPackage(h *gc.Heap, id, size uint32, dep gc.Ref) (gc.Ref, error) {
	return h.AllocInit(PackageType, 1, func(p []byte) error {
		format.PutU32(p, PackageDep, uint32(dep))
		format.PutU32(p, PackageID, id)
		format.PutU32(p, PackageBytes, size)
		return nil
	})
}

// PackageInfo reads a package's id and size.
func PackageInfo(h *gc.Heap, r gc.Ref) (id, size uint32, ok bool) {
	p := h.Bytes(r)
	if len(p) < PackageType.Size() {
		return 0, 0, false
	}
	return format.ReadU32(p, PackageID), format.ReadU32(p, PackageBytes), true
}

// NewUINode allocates a UI node and links it as the first child of parent
// (which may be Nil).
func NewUINode(h *gc.Heap, parent gc.Ref, widget uint32) (gc.Ref, error) {
	r, err := h.AllocInit(UINodeType, 1, func(p []byte) error {
		format.PutU32(p, UIWidget, widget)
		return nil
	})
	if err != nil {
		return gc.Nil, err
	}
	if parent == gc.Nil {
		return r, nil
	}
	first, err := h.LoadRef(parent, UIChild)
	if err != nil {
		return gc.Nil, err
	}
	if err := h.StoreRef(r, UIParent, parent); err != nil {
		return gc.Nil, err
	}
	if err := h.StoreRef(r, UISibling, first); err != nil {
		return gc.Nil, err
	}
	if err := h.StoreRef(parent, UIChild, r); err != nil {
		return gc.Nil, err
	}
	return r, nil
}
