package gc

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/joshuapare/enginegc/gc/arena"
)

// Heap is the collector context: slot table, allocation list, root
// registry, arena and statistics. Independent heaps share nothing.
type Heap struct {
	opts   Options
	logger *slog.Logger
	arena  arena.Arena

	slots     []header
	freeSlots []uint32 // indices of unused slots, reused LIFO

	allocHead Ref // newest allocation; list is singly linked, no sentinel
	markHead  Ref // pending mark list, empty outside marking

	roots     *Root
	rootCount int

	objects int
	bytes   int64
	totals  totals

	marker     Marker
	cycle      CycleStats
	collecting bool
	closed     bool
}

// totals holds cumulative counters.
type totals struct {
	allocs      uint64
	frees       uint64
	collections uint64
}

// NewHeap creates an empty heap.
func NewHeap(opts Options) (*Heap, error) {
	def := DefaultOptions()
	if opts.MaxBytes == 0 {
		opts.MaxBytes = def.MaxBytes
	}
	if opts.ChunkSize == 0 {
		opts.ChunkSize = def.ChunkSize
	}
	if opts.InitialSlots <= 0 {
		opts.InitialSlots = def.InitialSlots
	}
	if opts.MaxObjects < 0 {
		return nil, fmt.Errorf("gc: MaxObjects must be >= 0, got %d", opts.MaxObjects)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	a, err := arena.NewSlab(arena.Options{
		MaxBytes:    opts.MaxBytes,
		ChunkSize:   opts.ChunkSize,
		Backing:     opts.Backing,
		SizeClasses: opts.SizeClasses,
		Logger:      logger,
	})
	if err != nil {
		return nil, fmt.Errorf("gc: create arena: %w", err)
	}

	h := &Heap{
		opts:   opts,
		logger: logger,
		arena:  a,
		slots:  make([]header, 0, opts.InitialSlots),
	}
	h.marker = Marker{visit: h.shade}
	return h, nil
}

// Close finalizes and releases every remaining object, detaches all roots
// and releases the arena. Further use of the heap returns ErrClosed.
// Calling Close from a finalizer returns ErrCollecting.
func (h *Heap) Close() error {
	if h.closed {
		return nil
	}
	if h.collecting {
		return ErrCollecting
	}
	// finalizers must not allocate while the heap is torn down
	h.collecting = true
	for r := h.allocHead; r != Nil; {
		next := h.slots[r-1].allocNext
		h.release(r, true)
		r = next
	}
	h.allocHead = Nil

	for root := h.roots; root != nil; {
		next := root.next
		root.h, root.prev, root.next = nil, nil, nil
		root = next
	}
	h.roots, h.rootCount = nil, 0

	h.collecting = false
	h.closed = true
	h.slots, h.freeSlots = nil, nil
	h.logger.Debug("heap closed", "allocs", h.totals.allocs, "collections", h.totals.collections)
	return h.arena.Close()
}

// usable reports whether the heap accepts mutations right now.
func (h *Heap) usable() error {
	switch {
	case h.closed:
		return ErrClosed
	case h.collecting:
		return ErrCollecting
	}
	return nil
}
