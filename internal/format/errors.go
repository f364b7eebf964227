package format

import "errors"

var (
	// ErrTruncated indicates the buffer lacked the bytes required for a field.
	ErrTruncated = errors.New("format: truncated buffer")

	// ErrMisaligned indicates a reference field offset is not 4-byte aligned.
	ErrMisaligned = errors.New("format: misaligned reference field")
)

// CheckRefField reports whether a reference field at off fits inside a
// payload element of size bytes.
func CheckRefField(size, off int) error {
	if off < 0 || off+RefSize > size {
		return ErrTruncated
	}
	if off%RefAlignment != 0 {
		return ErrMisaligned
	}
	return nil
}
