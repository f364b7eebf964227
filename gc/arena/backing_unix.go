//go:build linux || darwin || freebsd

package arena

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// mmapBacking reserves the whole arena as one anonymous private mapping.
// Pages are only touched (and so only become resident) as blocks are
// committed, and the region never moves.
type mmapBacking struct {
	mem []byte
	n   int
}

func newMmapBacking(maxBytes int) (backing, error) {
	mem, err := unix.Mmap(-1, 0, maxBytes, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("arena: mmap %d bytes: %w", maxBytes, err)
	}
	return &mmapBacking{mem: mem}, nil
}

func (b *mmapBacking) bytes() []byte { return b.mem[:b.n] }

func (b *mmapBacking) grow(n int) error {
	if b.n+n > len(b.mem) {
		return errLimit
	}
	b.n += n
	return nil
}

func (b *mmapBacking) close() error {
	if b.mem == nil {
		return nil
	}
	err := unix.Munmap(b.mem)
	b.mem, b.n = nil, 0
	if errors.Is(err, unix.EINVAL) {
		// Treat double-unmap as no-op for callers.
		return nil
	}
	return err
}

func (b *mmapBacking) name() string { return BackingMmap.String() }
