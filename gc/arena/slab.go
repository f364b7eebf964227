package arena

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/joshuapare/enginegc/internal/format"
)

// maxFirstClassScan bounds how many entries of the first candidate size
// class are inspected before moving to larger classes. Blocks in larger
// classes always fit, so this only limits the best-fit search. The large
// list is always scanned in full.
const maxFirstClassScan = 16

// Slab is a size-class segregated block allocator over a growable byte
// region.
//   - freeLists hold candidate offsets per class (LIFO, validated lazily)
//   - free/ends index every free block by start and end for O(1) coalescing
type Slab struct {
	mem       backing
	opts      Options
	sizeTable *sizeClassTable
	logger    *slog.Logger

	// freeLists[c] holds offsets of free blocks in class c; the last entry
	// is the large list. Entries may be stale and are checked against free.
	freeLists [][]int32

	// free maps a free block's offset to its size.
	free map[int32]int32

	// ends maps a free block's end offset to its start offset.
	ends map[int32]int32

	stats  Stats
	closed bool
}

// NewSlab creates an empty arena. No memory is committed until the first
// allocation.
func NewSlab(opts Options) (*Slab, error) {
	if opts.MaxBytes <= 0 || opts.MaxBytes > format.MaxArenaSize {
		return nil, fmt.Errorf("%w: MaxBytes=%d", ErrBadOptions, opts.MaxBytes)
	}
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = defaultChunkSize
	}
	opts.ChunkSize = format.AlignChunk(opts.ChunkSize)

	config := DefaultConfig
	if opts.SizeClasses != nil {
		config = *opts.SizeClasses
	}
	if !config.validate() {
		return nil, fmt.Errorf("%w: size classes %q", ErrBadOptions, config.Name)
	}

	mem, err := newBacking(opts.Backing, opts.MaxBytes)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	sizeTable := newSizeClassTable(config)
	s := &Slab{
		mem:       mem,
		opts:      opts,
		sizeTable: sizeTable,
		logger:    logger,
		freeLists: make([][]int32, sizeTable.NumClasses()+1),
		free:      make(map[int32]int32),
		ends:      make(map[int32]int32),
	}
	s.stats.Backing = mem.name()
	return s, nil
}

// Alloc reserves a zeroed block with room for need payload bytes.
func (s *Slab) Alloc(need int32) (Offset, []byte, error) {
	if s.closed {
		return 0, nil, ErrClosed
	}
	if need < 0 {
		return 0, nil, ErrNeedSmall
	}
	if int64(need)+format.BlockHeaderSize > int64(s.opts.MaxBytes) {
		return 0, nil, fmt.Errorf("%w: need %d exceeds arena limit %d", ErrNoSpace, need, s.opts.MaxBytes)
	}

	size := format.Align8I32(need + format.BlockHeaderSize)
	if size < format.MinBlockSize {
		size = format.MinBlockSize
	}

	off, ok := s.take(size)
	if !ok {
		if err := s.grow(size); err != nil {
			return 0, nil, err
		}
		if off, ok = s.take(size); !ok {
			return 0, nil, ErrNoSpace
		}
	}

	data := s.mem.bytes()
	payload := data[off+format.BlockHeaderSize : off+format.BlockHeaderSize+need]
	s.stats.AllocCalls++
	return Offset(off), payload, nil
}

// Free releases the block at off and merges it with free neighbours.
func (s *Slab) Free(off Offset) error {
	if s.closed {
		return ErrClosed
	}
	data := s.mem.bytes()
	o := int32(off)
	if o < 0 || int(o)+format.BlockHeaderSize > len(data) {
		return ErrBadRef
	}
	raw := format.ReadI32(data, int(o))
	if raw >= 0 {
		return ErrNotAllocated
	}
	size := -raw

	s.stats.FreeCalls++
	s.stats.Blocks--
	s.stats.InUse -= int64(size)

	s.release(o, size)
	return nil
}

// Payload returns the payload of the allocated block at off.
func (s *Slab) Payload(off Offset) []byte {
	if s.closed {
		return nil
	}
	data := s.mem.bytes()
	o := int(off)
	if o+format.BlockHeaderSize > len(data) {
		return nil
	}
	raw := format.ReadI32(data, o)
	if raw >= 0 || o+int(-raw) > len(data) {
		return nil
	}
	return data[o+format.BlockHeaderSize : o+int(-raw)]
}

// Stats returns a copy of the arena counters.
func (s *Slab) Stats() Stats {
	st := s.stats
	st.FreeBlocks = len(s.free)
	return st
}

// Close releases the backing memory. Subsequent calls return ErrClosed.
func (s *Slab) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.free, s.ends, s.freeLists = nil, nil, nil
	return s.mem.close()
}

// take finds a free block of at least size bytes and carves it.
func (s *Slab) take(size int32) (int32, bool) {
	first := s.sizeTable.getSizeClass(size)
	large := s.sizeTable.NumClasses()
	for c := first; c < len(s.freeLists); c++ {
		list := s.freeLists[c]
		scanned := 0
		for i := len(list) - 1; i >= 0; i-- {
			off := list[i]
			bsize, ok := s.free[off]
			if !ok || s.classOf(bsize) != c {
				// stale: block was taken or merged since it was listed
				list = append(list[:i], list[i+1:]...)
				continue
			}
			if bsize < size {
				scanned++
				if c == first && c < large && scanned >= maxFirstClassScan {
					break
				}
				continue
			}
			s.freeLists[c] = append(list[:i], list[i+1:]...)
			s.unmarkFree(off, bsize)
			s.carve(off, bsize, size)
			return off, true
		}
		s.freeLists[c] = list
	}
	return 0, false
}

// carve marks [off, off+size) allocated and returns any usable tail to the
// free lists.
func (s *Slab) carve(off, bsize, size int32) {
	data := s.mem.bytes()
	if rem := bsize - size; rem >= format.MinBlockSize {
		s.stats.Splits++
		format.PutI32(data, int(off), -size)
		s.insertFree(off+size, rem)
	} else {
		size = bsize
		format.PutI32(data, int(off), -size)
	}
	clear(data[off+format.BlockHeaderSize : off+size])
	s.stats.Blocks++
	s.stats.InUse += int64(size)
}

// release returns [off, off+size) to the free lists, merging neighbours.
func (s *Slab) release(off, size int32) {
	// forward
	if nsize, ok := s.free[off+size]; ok {
		s.unmarkFree(off+size, nsize)
		size += nsize
		s.stats.Coalesces++
	}
	// backward
	if prev, ok := s.ends[off]; ok {
		psize := s.free[prev]
		s.unmarkFree(prev, psize)
		off = prev
		size += psize
		s.stats.Coalesces++
	}
	s.insertFree(off, size)
}

func (s *Slab) insertFree(off, size int32) {
	format.PutI32(s.mem.bytes(), int(off), size)
	s.free[off] = size
	s.ends[off+size] = off
	c := s.classOf(size)
	s.freeLists[c] = append(s.freeLists[c], off)
}

func (s *Slab) unmarkFree(off, size int32) {
	delete(s.free, off)
	delete(s.ends, off+size)
}

func (s *Slab) classOf(size int32) int {
	return s.sizeTable.getSizeClass(size)
}

// grow commits at least size more bytes at the end of the arena. The new
// range is merged with a trailing free block, so only the shortfall is
// strictly required.
func (s *Slab) grow(size int32) error {
	top := int32(len(s.mem.bytes()))
	short := size
	if prev, ok := s.ends[top]; ok {
		short = max(size-s.free[prev], format.MinBlockSize)
	}

	step := max(s.opts.ChunkSize, format.AlignChunk(int(size)))
	if err := s.mem.grow(step); err != nil {
		// retry with the bare minimum before giving up
		step = format.AlignChunk(int(short))
		if err := s.mem.grow(step); err != nil {
			s.logger.Debug("arena grow failed",
				"need", size, "capacity", top, "max", s.opts.MaxBytes)
			return fmt.Errorf("%w: need %d bytes, capacity %d of %d", ErrNoSpace, size, top, s.opts.MaxBytes)
		}
	}

	s.stats.Grows++
	s.stats.Capacity += int64(step)
	s.logger.Debug("arena grow",
		"step", step, "capacity", s.stats.Capacity, "backing", s.mem.name())

	s.release(top, int32(step))
	return nil
}

// Compile-time interface check
var _ Arena = (*Slab)(nil)
