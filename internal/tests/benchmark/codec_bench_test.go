package benchmark

import (
	"testing"

	"github.com/Mesbahzade/tdesktop/internal/core/domain"
	"github.com/Mesbahzade/tdesktop/internal/core/settings"
)

func BenchmarkEncode(b *testing.B) {
	for _, n := range CollectionSizes {
		b.Run(sizeLabel(n), func(b *testing.B) {
			snap := populatedSnapshot(n)
			b.SetBytes(int64(len(settings.Encode(snap))))
			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				settings.Encode(snap)
			}
		})
	}
}

func BenchmarkDecode(b *testing.B) {
	for _, n := range CollectionSizes {
		b.Run(sizeLabel(n), func(b *testing.B) {
			blob := settings.Encode(populatedSnapshot(n))
			defaults := domain.DefaultSettings()
			b.SetBytes(int64(len(blob)))
			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				if _, _, err := settings.Decode(blob, defaults); err != nil {
					b.Fatalf("Decode failed: %v", err)
				}
			}
		})
	}
}

// BenchmarkDecodeTruncated measures blobs written by older builds.
func BenchmarkDecodeTruncated(b *testing.B) {
	blob := settings.Encode(populatedSnapshot(10))
	cut := blob[:len(blob)/2]
	defaults := domain.DefaultSettings()
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, _, err := settings.Decode(cut, defaults); err != nil {
			b.Fatalf("Decode failed: %v", err)
		}
	}
}

func BenchmarkConstructFromSerialized(b *testing.B) {
	blob := settings.Encode(populatedSnapshot(100))
	s := populatedSettings(0)
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		s.ConstructFromSerialized(blob)
	}
}
