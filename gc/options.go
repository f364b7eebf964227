package gc

import (
	"log/slog"

	"github.com/joshuapare/enginegc/gc/arena"
)

const (
	// defaultMaxBytes is the default arena ceiling (64MB).
	defaultMaxBytes = 64 << 20

	// defaultChunkSize is the default arena growth step (64KB).
	defaultChunkSize = 64 << 10

	// defaultInitialSlots pre-sizes the slot table.
	defaultInitialSlots = 1024
)

// Options configures a Heap.
//
// Use DefaultOptions() for production-ready defaults.
type Options struct {
	// MaxBytes caps the arena that stores descriptor payloads.
	// Allocations beyond it fail with ErrOutOfMemory.
	// Default: 64MB
	MaxBytes int

	// MaxObjects caps the number of live objects (0 = limited only by the
	// 32-bit Ref space). Allocations beyond it fail with ErrOutOfMemory.
	// Default: 0
	MaxObjects int

	// ChunkSize is the arena growth step in bytes (rounded to 4096).
	// Default: 64KB
	ChunkSize int

	// Backing selects where the arena's bytes live.
	// Default: arena.BackingHeap
	Backing arena.Backing

	// SizeClasses selects the arena free-list segregation. Nil uses
	// arena.DefaultConfig.
	SizeClasses *arena.SizeClassConfig

	// InitialSlots pre-sizes the slot table.
	// Default: 1024
	InitialSlots int

	// Verify runs Verify after every collection, validates stored
	// references in StoreRef and logs references to dead slots found while
	// marking. Intended for tests and debugging; it costs a full heap pass.
	// Default: false
	Verify bool

	// Logger receives collection events at Debug level and contract
	// violations at Warn/Error. Nil discards.
	Logger *slog.Logger
}

// DefaultOptions returns production-ready defaults.
func DefaultOptions() Options {
	return Options{
		MaxBytes:     defaultMaxBytes,
		ChunkSize:    defaultChunkSize,
		Backing:      arena.BackingHeap,
		InitialSlots: defaultInitialSlots,
	}
}
