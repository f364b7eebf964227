package arena

import (
	"math"
	"slices"

	"github.com/joshuapare/enginegc/internal/format"
)

// SizeClassConfig defines the free-list segregation.
//
// Every block size is a multiple of format.BlockAlignment. Up to ExactMax
// each block size gets a class of its own, so small node-sized requests are
// served from a list whose blocks always fit. Between ExactMax and LargeMin
// class bounds grow by Growth. Blocks of LargeMin bytes or more share the
// large list.
type SizeClassConfig struct {
	Name string

	ExactMax int32   // largest block size with its own class
	LargeMin int32   // smallest block size kept on the large list
	Growth   float64 // ratio between consecutive bounds above ExactMax
}

// Predefined configurations.
var (
	// ConfigNodes suits heaps of small reference records: a few Ref
	// fields plus a block header rarely exceed 256 bytes.
	ConfigNodes = SizeClassConfig{
		Name:     "Nodes",
		ExactMax: 256,
		LargeMin: 16384,
		Growth:   1.5,
	}

	// ConfigArrays suits heaps dominated by element arrays, whose sizes
	// spread over a wide range.
	ConfigArrays = SizeClassConfig{
		Name:     "Arrays",
		ExactMax: 64,
		LargeMin: 1 << 16,
		Growth:   1.25,
	}

	// ConfigCoarse keeps few lists at the cost of more scanning.
	ConfigCoarse = SizeClassConfig{
		Name:     "Coarse",
		ExactMax: 32,
		LargeMin: 4096,
		Growth:   2,
	}

	// DefaultConfig is used when Options.SizeClasses is nil.
	DefaultConfig = ConfigNodes
)

// maxLargeMin keeps bound arithmetic inside int32.
const maxLargeMin = 1 << 30

// validate reports whether the config can produce a usable table.
func (c SizeClassConfig) validate() bool {
	switch {
	case c.ExactMax < format.BlockAlignment || c.ExactMax&format.BlockAlignmentMask != 0:
		return false
	case c.LargeMin <= c.ExactMax || c.LargeMin > maxLargeMin || c.LargeMin&format.BlockAlignmentMask != 0:
		return false
	}
	return c.Growth > 1 || c.LargeMin == c.ExactMax+format.BlockAlignment
}

// sizeClassTable maps block sizes to free-list indices. Classes
// [0, exact) are exact sizes; the rest are geometric with inclusive upper
// bounds in bounds.
type sizeClassTable struct {
	config SizeClassConfig
	exact  int
	bounds []int32
}

func newSizeClassTable(config SizeClassConfig) *sizeClassTable {
	t := &sizeClassTable{
		config: config,
		exact:  int(config.ExactMax / format.BlockAlignment),
	}

	last := config.LargeMin - format.BlockAlignment
	for prev := config.ExactMax; prev < last; {
		f := math.Min(math.Ceil(float64(prev)*config.Growth), float64(last))
		next := format.Align8I32(int32(f))
		next = min(max(next, prev+format.BlockAlignment), last)
		t.bounds = append(t.bounds, next)
		prev = next
	}
	return t
}

// getSizeClass returns the class holding blocks of size bytes, or
// NumClasses for the large list.
func (t *sizeClassTable) getSizeClass(size int32) int {
	if size <= t.config.ExactMax {
		return max(int(size+format.BlockAlignmentMask)/format.BlockAlignment-1, 0)
	}
	i, _ := slices.BinarySearch(t.bounds, size)
	return t.exact + i
}

// String returns the configuration name.
func (t *sizeClassTable) String() string {
	return t.config.Name
}

// NumClasses returns the number of size classes, not counting the large list.
func (t *sizeClassTable) NumClasses() int {
	return t.exact + len(t.bounds)
}
