//go:build !linux && !darwin && !freebsd

package arena

// newMmapBacking falls back to a slice where anonymous mappings are not
// wired up.
func newMmapBacking(maxBytes int) (backing, error) {
	return newSliceBacking(maxBytes), nil
}
