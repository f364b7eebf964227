package arena

import (
	"fmt"
	"log/slog"
	"strings"
)

// Offset is the position of a block header inside the arena.
type Offset = uint32

// Arena is the storage contract the collector allocates descriptor payloads
// from.
type Arena interface {
	// Alloc reserves a zeroed block whose payload holds at least need bytes.
	// It returns the block offset and the first need bytes of the payload.
	Alloc(need int32) (Offset, []byte, error)

	// Free returns the block at off to the arena.
	Free(off Offset) error

	// Payload returns the full payload of the allocated block at off, or nil
	// if off does not name an allocated block.
	Payload(off Offset) []byte

	// Stats returns a copy of the arena counters.
	Stats() Stats

	// Close releases the backing memory.
	Close() error
}

// Backing selects where the arena's bytes live.
type Backing int

const (
	// BackingHeap stores the arena in a Go byte slice.
	BackingHeap Backing = iota

	// BackingMmap stores the arena in an anonymous memory mapping reserved
	// up front. Falls back to BackingHeap where mmap is unavailable.
	BackingMmap
)

func (b Backing) String() string {
	switch b {
	case BackingHeap:
		return "heap"
	case BackingMmap:
		return "mmap"
	default:
		return fmt.Sprintf("backing(%d)", int(b))
	}
}

// ParseBacking converts a backing name ("heap" or "mmap") into a Backing.
func ParseBacking(s string) (Backing, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "heap":
		return BackingHeap, nil
	case "mmap":
		return BackingMmap, nil
	default:
		return 0, fmt.Errorf("%w: unknown backing %q", ErrBadOptions, s)
	}
}

const (
	// defaultMaxBytes is the default arena ceiling (64MB).
	defaultMaxBytes = 64 << 20

	// defaultChunkSize is the default growth step (64KB).
	defaultChunkSize = 64 << 10
)

// Options configures a Slab.
//
// Use DefaultOptions() for production-ready defaults.
type Options struct {
	// MaxBytes caps the arena size. Allocations that would need more fail
	// with ErrNoSpace.
	// Default: 64MB
	MaxBytes int

	// ChunkSize is the minimum growth step in bytes (rounded to 4096).
	// Default: 64KB
	ChunkSize int

	// Backing selects the memory source.
	// Default: BackingHeap
	Backing Backing

	// SizeClasses selects the free-list segregation. Nil uses DefaultConfig.
	SizeClasses *SizeClassConfig

	// Logger receives growth events at Debug level. Nil discards.
	Logger *slog.Logger
}

// DefaultOptions returns production-ready defaults.
func DefaultOptions() Options {
	return Options{
		MaxBytes:  defaultMaxBytes,
		ChunkSize: defaultChunkSize,
		Backing:   BackingHeap,
	}
}

// Stats holds arena counters.
type Stats struct {
	Backing    string // backing store name
	Capacity   int64  // bytes committed to blocks
	InUse      int64  // bytes in allocated blocks, headers included
	Blocks     int    // allocated blocks
	FreeBlocks int    // free blocks
	Grows      int    // growth steps taken
	AllocCalls int    // successful Alloc calls
	FreeCalls  int    // successful Free calls
	Splits     int    // free blocks split on allocation
	Coalesces  int    // neighbour merges on Free
}
