package format

// Align8I32 returns n aligned up to the next 8-byte boundary.
//
// Example:
//
//	Align8I32(1)  = 8
//	Align8I32(8)  = 8
//	Align8I32(9)  = 16
func Align8I32(n int32) int32 {
	return (n + BlockAlignmentMask) & ^BlockAlignmentMask
}

// AlignChunk returns n aligned up to the next 4KB boundary.
//
// Example:
//
//	AlignChunk(1)    = 4096
//	AlignChunk(4096) = 4096
//	AlignChunk(4097) = 8192
func AlignChunk(n int) int {
	return (n + ChunkAlignmentMask) & ^ChunkAlignmentMask
}
