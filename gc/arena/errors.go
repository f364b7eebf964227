package arena

import "errors"

var (
	// ErrNoSpace indicates the arena cannot grow to satisfy an allocation.
	ErrNoSpace = errors.New("arena: no space")

	// ErrBadRef indicates an out-of-bounds block offset.
	ErrBadRef = errors.New("arena: bad block offset")

	// ErrNotAllocated indicates a Free of a block that is not allocated.
	ErrNotAllocated = errors.New("arena: block not allocated")

	// ErrNeedSmall indicates a negative allocation request.
	ErrNeedSmall = errors.New("arena: need must be >= 0")

	// ErrBadOptions indicates invalid Options.
	ErrBadOptions = errors.New("arena: bad options")

	// ErrClosed indicates use of a closed arena.
	ErrClosed = errors.New("arena: closed")

	// errLimit is returned by a backing store asked to exceed its ceiling.
	errLimit = errors.New("arena: backing limit reached")
)
