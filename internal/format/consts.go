// Package format holds the fixed layout rules shared by the arena and the
// collector: block header size, alignment and the encoding of reference
// fields inside descriptor-typed payloads. Keeping them here lets the arena
// and the gc package agree on byte layout without importing each other.
package format

const (
	// BlockHeaderSize is the number of bytes used by the block header
	// preceding every arena block (free or in use). The header is a signed
	// little-endian int32: negative means allocated, positive means free, and
	// the absolute value is the total block size including the header.
	BlockHeaderSize = 4

	// BlockAlignment is the alignment of every arena block. Block sizes are
	// always a multiple of this value.
	BlockAlignment = 8

	// BlockAlignmentMask masks the low bits of a block-aligned value.
	BlockAlignmentMask = BlockAlignment - 1

	// MinBlockSize is the smallest legal block (header plus one aligned word).
	MinBlockSize = 8

	// ChunkAlignment is the granularity of arena growth (one page).
	ChunkAlignment = 0x1000

	// ChunkAlignmentMask masks the low bits of a chunk-aligned value.
	ChunkAlignmentMask = ChunkAlignment - 1

	// RefSize is the width of a reference field stored in a payload.
	RefSize = 4

	// RefAlignment is the required alignment of reference field offsets.
	RefAlignment = 4

	// MaxArenaSize is the largest arena the block format can address.
	// Block offsets and sizes are int32.
	MaxArenaSize = 0x7FFFFFFF
)
