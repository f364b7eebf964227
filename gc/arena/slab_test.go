package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/enginegc/internal/format"
)

// newTestSlab creates a slab with a small ceiling so growth paths are hit.
func newTestSlab(t testing.TB, maxBytes int) *Slab {
	t.Helper()
	opts := DefaultOptions()
	opts.MaxBytes = maxBytes
	opts.ChunkSize = format.ChunkAlignment
	s, err := NewSlab(opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSlab_SimpleAlloc(t *testing.T) {
	s := newTestSlab(t, 1<<20)

	off, payload, err := s.Alloc(20)
	require.NoError(t, err)
	require.Len(t, payload, 20)

	// header is negative (allocated) and 8-byte aligned
	data := s.mem.bytes()
	raw := format.ReadI32(data, int(off))
	assert.Equal(t, int32(-24), raw, "20+4 rounds to 24")
	assert.Zero(t, int(off)%format.BlockAlignment)

	st := s.Stats()
	assert.Equal(t, 1, st.Blocks)
	assert.Equal(t, int64(24), st.InUse)
	assert.Equal(t, 1, st.Grows)
	assert.Equal(t, int64(format.ChunkAlignment), st.Capacity)
}

func TestSlab_ExactClassReuse(t *testing.T) {
	s := newTestSlab(t, 1<<20)

	_, _, err := s.Alloc(20)
	require.NoError(t, err)
	mid, _, err := s.Alloc(20)
	require.NoError(t, err)
	_, _, err = s.Alloc(20)
	require.NoError(t, err)

	require.NoError(t, s.Free(mid))
	off, _, err := s.Alloc(17)
	require.NoError(t, err)
	assert.Equal(t, mid, off, "same 24-byte class, no split from the tail")
}

func TestSlab_ZeroSizeAlloc(t *testing.T) {
	s := newTestSlab(t, 1<<20)

	off, payload, err := s.Alloc(0)
	require.NoError(t, err)
	assert.Empty(t, payload)
	assert.Len(t, s.Payload(off), format.MinBlockSize-format.BlockHeaderSize)
}

func TestSlab_NegativeNeed(t *testing.T) {
	s := newTestSlab(t, 1<<20)
	_, _, err := s.Alloc(-1)
	require.ErrorIs(t, err, ErrNeedSmall)
}

func TestSlab_PayloadIsZeroedOnReuse(t *testing.T) {
	s := newTestSlab(t, 1<<20)

	off, payload, err := s.Alloc(32)
	require.NoError(t, err)
	for i := range payload {
		payload[i] = 0xAA
	}
	require.NoError(t, s.Free(off))

	off2, payload2, err := s.Alloc(32)
	require.NoError(t, err)
	assert.Equal(t, off, off2, "freed block should be reused")
	for i, b := range payload2 {
		require.Zero(t, b, "byte %d not zeroed", i)
	}
}

func TestSlab_DoubleFree(t *testing.T) {
	s := newTestSlab(t, 1<<20)

	off, _, err := s.Alloc(16)
	require.NoError(t, err)
	require.NoError(t, s.Free(off))
	require.ErrorIs(t, s.Free(off), ErrNotAllocated)
}

func TestSlab_FreeBadOffset(t *testing.T) {
	s := newTestSlab(t, 1<<20)
	require.ErrorIs(t, s.Free(1<<30), ErrBadRef)
}

func TestSlab_CoalescesNeighbours(t *testing.T) {
	s := newTestSlab(t, 1<<20)

	a, _, err := s.Alloc(60)
	require.NoError(t, err)
	b, _, err := s.Alloc(60)
	require.NoError(t, err)
	c, _, err := s.Alloc(60)
	require.NoError(t, err)

	require.NoError(t, s.Free(a))
	require.NoError(t, s.Free(c))
	require.NoError(t, s.Free(b))

	// everything merged back into a single free block covering the chunk
	st := s.Stats()
	assert.Equal(t, 0, st.Blocks)
	assert.Equal(t, int64(0), st.InUse)
	assert.Equal(t, 1, st.FreeBlocks)
	assert.GreaterOrEqual(t, st.Coalesces, 3)
}

func TestSlab_GrowsAcrossChunks(t *testing.T) {
	s := newTestSlab(t, 1<<20)

	var offs []Offset
	for range 200 {
		off, _, err := s.Alloc(100)
		require.NoError(t, err)
		offs = append(offs, off)
	}
	st := s.Stats()
	assert.Greater(t, st.Grows, 1)
	assert.Equal(t, 200, st.Blocks)

	seen := make(map[Offset]bool)
	for _, off := range offs {
		require.False(t, seen[off], "offset %d handed out twice", off)
		seen[off] = true
	}
}

func TestSlab_LargeAllocation(t *testing.T) {
	s := newTestSlab(t, 1<<20)

	off, payload, err := s.Alloc(40000)
	require.NoError(t, err)
	require.Len(t, payload, 40000)
	require.NoError(t, s.Free(off))
}

func TestSlab_NoSpace(t *testing.T) {
	s := newTestSlab(t, 2*format.ChunkAlignment)

	_, _, err := s.Alloc(3 * format.ChunkAlignment)
	require.ErrorIs(t, err, ErrNoSpace)

	// fill the arena, then one more must fail
	for {
		if _, _, err = s.Alloc(512); err != nil {
			break
		}
	}
	require.ErrorIs(t, err, ErrNoSpace)
	assert.LessOrEqual(t, s.Stats().Capacity, int64(2*format.ChunkAlignment))
}

func TestSlab_Closed(t *testing.T) {
	s := newTestSlab(t, 1<<20)
	require.NoError(t, s.Close())

	_, _, err := s.Alloc(8)
	require.ErrorIs(t, err, ErrClosed)
	require.ErrorIs(t, s.Free(0), ErrClosed)
	assert.Nil(t, s.Payload(0))
	require.NoError(t, s.Close(), "second Close is a no-op")
}

func TestNewSlab_BadOptions(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxBytes = 0
	_, err := NewSlab(opts)
	require.ErrorIs(t, err, ErrBadOptions)

	opts = DefaultOptions()
	opts.SizeClasses = &SizeClassConfig{Name: "broken"}
	_, err = NewSlab(opts)
	require.ErrorIs(t, err, ErrBadOptions)
}

func TestSlab_MmapBacking(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxBytes = 1 << 20
	opts.Backing = BackingMmap
	s, err := NewSlab(opts)
	require.NoError(t, err)
	defer s.Close()

	off, payload, err := s.Alloc(64)
	require.NoError(t, err)
	copy(payload, "hello")

	// the mapping never moves, so later growth keeps earlier payloads valid
	for range 100 {
		_, _, err = s.Alloc(512)
		require.NoError(t, err)
	}
	assert.Equal(t, "hello", string(s.Payload(off)[:5]))
}

func TestParseBacking(t *testing.T) {
	b, err := ParseBacking("mmap")
	require.NoError(t, err)
	assert.Equal(t, BackingMmap, b)

	b, err = ParseBacking("")
	require.NoError(t, err)
	assert.Equal(t, BackingHeap, b)

	_, err = ParseBacking("disk")
	require.ErrorIs(t, err, ErrBadOptions)
	assert.Equal(t, "heap", BackingHeap.String())
}
