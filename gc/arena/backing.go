package arena

// backing is a growable byte region. bytes() always returns exactly the
// committed prefix.
type backing interface {
	bytes() []byte
	grow(n int) error
	close() error
	name() string
}

// sliceBacking keeps the arena in a Go slice. Growth may move the region.
type sliceBacking struct {
	buf []byte
	max int
}

func newSliceBacking(maxBytes int) *sliceBacking {
	return &sliceBacking{max: maxBytes}
}

func (b *sliceBacking) bytes() []byte { return b.buf }

func (b *sliceBacking) grow(n int) error {
	if len(b.buf)+n > b.max {
		return errLimit
	}
	b.buf = append(b.buf, make([]byte, n)...)
	return nil
}

func (b *sliceBacking) close() error {
	b.buf = nil
	return nil
}

func (b *sliceBacking) name() string { return BackingHeap.String() }

// newBacking selects the backing store for kind.
func newBacking(kind Backing, maxBytes int) (backing, error) {
	switch kind {
	case BackingHeap:
		return newSliceBacking(maxBytes), nil
	case BackingMmap:
		return newMmapBacking(maxBytes)
	default:
		return nil, ErrBadOptions
	}
}
