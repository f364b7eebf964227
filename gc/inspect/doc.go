// Package inspect builds read-only diagnostics over a gc.Heap: an object
// graph snapshot, per-type histograms, the garbage the next collection will
// free, paths from an object back to its roots, and dominator-based
// retained sizes.
//
// A Snapshot is taken through the heap's enumeration view and never touches
// liveness state, so it is safe to take between any two collections:
//
//	snap := inspect.Take(h)
//	for _, row := range snap.Histogram() {
//	    fmt.Println(row.Type, row.Count, row.Bytes)
//	}
//	leaks := snap.Garbage() // exactly what h.Collect() will free
//
// Snapshots are not updated when the heap changes.
package inspect
