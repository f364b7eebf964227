package arena

import "testing"

func BenchmarkSlab_AllocFree(b *testing.B) {
	opts := DefaultOptions()
	s, err := NewSlab(opts)
	if err != nil {
		b.Fatal(err)
	}
	defer s.Close()

	offs := make([]Offset, 0, 1024)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		off, _, err := s.Alloc(int32(16 + (i%8)*16))
		if err != nil {
			b.Fatal(err)
		}
		offs = append(offs, off)
		if len(offs) == cap(offs) {
			for _, o := range offs {
				_ = s.Free(o)
			}
			offs = offs[:0]
		}
	}
}
