// Package gc implements a stop-the-world, non-generational mark-and-sweep
// collector for engine objects (actors, packages, UI nodes) whose references
// form cyclic graphs.
//
// # Overview
//
// A Heap owns every managed object. Objects are named by Ref, a 32-bit handle
// (slot index + 1, with Nil == 0). Each slot carries the allocation header:
// the liveness flag, the accounted byte size, the link into the allocation
// list, the transient link into the mark list, and the type metadata. The
// header lives in a slot table beside the object's storage, so resolving a
// header from a Ref is an index, never a search.
//
// # Marking Contract
//
// Every managed type reports its outgoing references in one of two ways:
//
//   - Tracer: a Go value whose Trace method calls Marker.Mark for each Ref it
//     holds. Use this when references are variable-length or conditional.
//   - Type: a static descriptor listing the byte offsets of 4-byte Ref fields
//     inside a fixed-size payload element. The payload lives in the heap's
//     arena and arrays repeat the layout once per element. Use this for
//     plain-data types.
//
// A type that under-reports its references lets the collector free objects
// that are still referenced. The collector never dereferences a Ref that does
// not name a live slot; such references are counted and, with
// Options.Verify, logged.
//
// # Allocation
//
//	h, err := gc.NewHeap(gc.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	defer h.Close()
//
//	// dispatch strategy
//	actor, err := gc.New(h, func() (*Actor, error) {
//	    return &Actor{Name: "player"}, nil
//	})
//
//	// descriptor strategy
//	node := gc.MustType("node", 8, 0, 4) // two Ref fields
//	r, err := h.Alloc(node, 1)
//
// If an initializer fails or panics, the allocation is unlinked and released
// before the failure is returned (or the panic re-raised).
//
// # Roots
//
// A Root pins whatever it targets. Roots register on creation and deregister
// on Release, so scope-tied protection reads:
//
//	root := h.NewRoot(actor.Ref())
//	defer root.Release()
//
// # Collection
//
// Collect marks from every root, draining the mark list pass by pass until
// it is empty, then sweeps the allocation list: unmarked objects are
// finalized and released, marked ones have their flag reset for the next
// cycle. Collect never fails and always runs to completion.
//
// # Handles Do Not Own
//
// Handle and Ref are observers of collector-owned storage. Dropping one never
// frees anything and holding one never keeps anything alive; only roots and
// references from reachable objects do. A Handle to a collected object is
// stale and Get reports false for it until the slot is reused.
//
// # Thread Safety
//
// A Heap is not thread-safe and contains no locks. All allocation, graph
// mutation, root changes and collections must happen on one goroutine or
// under a caller-provided mutex.
package gc
