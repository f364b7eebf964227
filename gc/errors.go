package gc

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfMemory indicates the arena or the slot table cannot satisfy an
	// allocation. Callers may Collect and retry.
	ErrOutOfMemory = errors.New("gc: out of memory")

	// ErrConstruct wraps an error returned by an object initializer.
	ErrConstruct = errors.New("gc: constructor failed")

	// ErrBadType indicates a nil or malformed type descriptor.
	ErrBadType = errors.New("gc: bad type descriptor")

	// ErrBadCount indicates a non-positive element count.
	ErrBadCount = errors.New("gc: element count must be >= 1")

	// ErrBadRef indicates a Ref that does not name a live object, or a field
	// offset outside the object's payload.
	ErrBadRef = errors.New("gc: bad reference")

	// ErrCollecting indicates a heap mutation attempted during a collection
	// (typically from a finalizer).
	ErrCollecting = errors.New("gc: collection in progress")

	// ErrClosed indicates use of a closed heap.
	ErrClosed = errors.New("gc: heap closed")
)

// ValidationError describes a broken heap invariant found by Verify.
type ValidationError struct {
	Check   string // which invariant failed
	Message string
	Ref     Ref // offending object, Nil when not object-specific
}

func (e *ValidationError) Error() string {
	if e.Ref != Nil {
		return fmt.Sprintf("%s at ref %d: %s", e.Check, e.Ref, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Check, e.Message)
}
