package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlign8I32(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, 0}, {1, 8}, {7, 8}, {8, 8}, {9, 16}, {16, 16}, {17, 24},
	}
	for _, tt := range tests {
		assert.Equal(t, int32(tt.want), Align8I32(int32(tt.in)), "Align8I32(%d)", tt.in)
	}
}

func TestAlignChunk(t *testing.T) {
	assert.Equal(t, 4096, AlignChunk(1))
	assert.Equal(t, 4096, AlignChunk(4096))
	assert.Equal(t, 8192, AlignChunk(4097))
}

func TestEncodingRoundTrip(t *testing.T) {
	buf := make([]byte, 8)

	PutU32(buf, 0, 0xDEADBEEF)
	PutI32(buf, 4, -24)

	assert.Equal(t, uint32(0xDEADBEEF), ReadU32(buf, 0))
	assert.Equal(t, int32(-24), ReadI32(buf, 4))
	// little-endian on the wire
	assert.Equal(t, byte(0xEF), buf[0])
}

func TestCheckRefField(t *testing.T) {
	require.NoError(t, CheckRefField(8, 0))
	require.NoError(t, CheckRefField(8, 4))
	require.ErrorIs(t, CheckRefField(8, 6), ErrTruncated)
	require.ErrorIs(t, CheckRefField(8, -4), ErrTruncated)
	require.ErrorIs(t, CheckRefField(12, 2), ErrMisaligned)
}
