package settings

import (
	"maps"
	"slices"

	"github.com/Mesbahzade/tdesktop/internal/core/domain"
	"github.com/Mesbahzade/tdesktop/internal/storage/stream"
)

// Encode writes every layout group of s in order. Collections are written
// in sorted order so equal snapshots encode to equal bytes.
func Encode(s domain.SettingsSnapshot) []byte {
	w := stream.NewWriter(encodedSizeHint(s))
	for _, group := range schema {
		group.encode(w, &s)
	}
	return w.Bytes()
}

func encodedSizeHint(s domain.SettingsSnapshot) int {
	size := 256 + len(s.GroupStickersSectionHidden)*8
	for k, v := range s.SoundOverrides {
		size += stream.StringSize(k) + stream.StringSize(v)
	}
	return size
}

func sortedKeys(m map[string]string) []string {
	return slices.Sorted(maps.Keys(m))
}
