package benchmark

import (
	"fmt"

	"github.com/Mesbahzade/tdesktop/internal/core/domain"
	"github.com/Mesbahzade/tdesktop/internal/core/settings"
	"github.com/Mesbahzade/tdesktop/internal/telemetry/logger"
)

// CollectionSizes is the number of sound overrides and hidden sections
// in a benchmarked snapshot.
var CollectionSizes = []int{0, 10, 100, 1000}

// sizeLabel formats a byte or item count for sub-benchmark names.
func sizeLabel(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%dMB", n>>20)
	case n >= 1<<10:
		return fmt.Sprintf("%dKB", n>>10)
	default:
		return fmt.Sprintf("%d", n)
	}
}

// populatedSnapshot returns defaults plus n sound overrides and n hidden
// sticker sections.
func populatedSnapshot(n int) domain.SettingsSnapshot {
	s := domain.DefaultSettings()
	for i := 0; i < n; i++ {
		s.SoundOverrides[fmt.Sprintf("sound_%04d", i)] = fmt.Sprintf("/home/user/sounds/%04d.ogg", i)
		s.GroupStickersSectionHidden[domain.PeerFromChannel(uint32(i+1))] = struct{}{}
	}
	return s
}

// populatedSettings returns a live store hydrated from populatedSnapshot.
func populatedSettings(n int) *settings.Settings {
	s := settings.New(settings.Options{Logger: logger.Discard()})
	s.ConstructFromSerialized(settings.Encode(populatedSnapshot(n)))
	return s
}
