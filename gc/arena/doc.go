// Package arena provides the byte storage behind descriptor-typed managed
// objects.
//
// # Overview
//
// An arena is a single contiguous byte region carved into blocks. Every block
// starts with a 4-byte header holding its signed size: a negative size marks
// an allocated block, a positive size a free one, and the absolute value is the total block size
// including the header. Blocks are 8-byte aligned.
//
//	[hdr|payload........][hdr|free.....][hdr|payload..]...
//
// # Slab
//
// Slab is the production implementation:
//
//   - segregated free lists keyed by size class (see SizeClassConfig)
//   - splitting of oversized free blocks on allocation
//   - coalescing with both neighbours on Free
//   - chunked growth up to Options.MaxBytes; exhaustion reports ErrNoSpace
//   - payloads are zeroed on allocation
//
// # Backing Memory
//
// The byte region comes from a backing store:
//
//   - BackingHeap: an ordinary Go byte slice that is reallocated on growth
//   - BackingMmap: an anonymous private mapping reserved once at MaxBytes;
//     growth only commits more of it, so the region never moves
//
// Payload slices returned by Alloc and Payload are only guaranteed valid
// until the next Alloc when the heap backing is in use. Callers that hold
// payloads across allocations must re-resolve them by offset.
//
// # Thread Safety
//
// Slab instances are not thread-safe. The gc package serialises all access.
package arena
