package gc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// checks extracts the failed check names from a Verify error.
func checks(err error) []string {
	var out []string
	var joined interface{ Unwrap() []error }
	if !errors.As(err, &joined) {
		return nil
	}
	for _, e := range joined.Unwrap() {
		var ve *ValidationError
		if errors.As(e, &ve) {
			out = append(out, ve.Check)
		}
	}
	return out
}

func TestVerify_Clean(t *testing.T) {
	h := newTestHeap(t)

	a := newNode(t, h, "a", allocLeaf(t, h), nil)
	h.NewRoot(a)
	allocPair(t, h, a, Nil)
	require.NoError(t, h.Verify())

	h.Collect()
	require.NoError(t, h.Verify())
}

func TestVerify_DetectsCorruption(t *testing.T) {
	tests := []struct {
		name    string
		corrupt func(h *Heap, r Ref)
		want    string
	}{
		{"object count", func(h *Heap, _ Ref) { h.objects++ }, "stats"},
		{"byte count", func(h *Heap, _ Ref) { h.bytes-- }, "stats"},
		{"flag not reset", func(h *Heap, r Ref) { h.slots[r-1].unreferenced = false }, "flags"},
		{"stale mark link", func(h *Heap, r Ref) { h.slots[r-1].markNext = r }, "flags"},
		{"orphan slot", func(h *Heap, r Ref) { h.allocHead = h.slots[r-1].allocNext }, "slots"},
		{"alloc cycle", func(h *Heap, r Ref) { h.slots[r-1].allocNext = r }, "alloc-list"},
		{"root count", func(h *Heap, _ Ref) { h.rootCount++ }, "roots"},
		{"dangling ref", func(h *Heap, r Ref) { h.Value(r).(*node).next = Ref(4000) }, "refs"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := NewHeap(DefaultOptions())
			require.NoError(t, err)

			allocLeaf(t, h)
			r := newNode(t, h, "victim", Nil, nil)
			h.NewRoot(r)
			require.NoError(t, h.Verify())

			tt.corrupt(h, r)
			err = h.Verify()
			require.Error(t, err)
			assert.Contains(t, checks(err), tt.want)

			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.NotEmpty(t, ve.Error())
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	e := &ValidationError{Check: "stats", Message: "off by one"}
	assert.Equal(t, "stats: off by one", e.Error())

	e.Ref = 7
	assert.Equal(t, "stats at ref 7: off by one", e.Error())
}
