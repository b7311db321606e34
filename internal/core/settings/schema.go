package settings

import (
	"fmt"
	"math"

	"github.com/Mesbahzade/tdesktop/internal/core/domain"
	"github.com/Mesbahzade/tdesktop/internal/storage/stream"
)

const (
	ratioScale = 1_000_000

	// legacyCallsPeerToPeerNobody is the retired "peer-to-peer calls: nobody"
	// privacy code.
	legacyCallsPeerToPeerNobody = 4
)

// fieldGroup is one append-only unit of the settings layout. Groups are
// never reordered or removed; new groups go at the end of schema.
type fieldGroup struct {
	name string

	// decode reads the group into s. Enum fields are validated against the
	// value s already holds, so an unknown code keeps the current value. A
	// returned error rejects the whole blob.
	decode func(r *stream.Reader, s *domain.SettingsSnapshot) error

	encode func(w *stream.Writer, s *domain.SettingsSnapshot)

	// absent, when set, stores the fixed values a blob without this group
	// decodes to. Groups without it keep the current values.
	absent func(s *domain.SettingsSnapshot)
}

// schema lists every group in historical order.
var schema = []fieldGroup{
	{
		name: "selector",
		decode: func(r *stream.Reader, s *domain.SettingsSnapshot) error {
			s.SelectorTab = domain.ValidateEnum(r.ReadInt32(), domain.SelectorTabs, s.SelectorTab)
			s.LastSeenWarningSeen = readBool(r)
			return nil
		},
		encode: func(w *stream.Writer, s *domain.SettingsSnapshot) {
			w.WriteInt32(int32(s.SelectorTab))
			w.WriteBool(s.LastSeenWarningSeen)
		},
		absent: func(s *domain.SettingsSnapshot) {
			s.SelectorTab = domain.SelectorTabEmoji
			s.LastSeenWarningSeen = false
		},
	},
	{
		name: "tabbedSection",
		decode: func(r *stream.Reader, s *domain.SettingsSnapshot) error {
			s.TabbedSelectorSectionEnabled = readBool(r)
			return nil
		},
		encode: func(w *stream.Writer, s *domain.SettingsSnapshot) {
			w.WriteBool(s.TabbedSelectorSectionEnabled)
		},
		absent: func(s *domain.SettingsSnapshot) { s.TabbedSelectorSectionEnabled = true },
	},
	{
		name:   "soundOverrides",
		decode: decodeSoundOverrides,
		encode: encodeSoundOverrides,
		absent: func(s *domain.SettingsSnapshot) { s.SoundOverrides = make(map[string]string) },
	},
	{
		name: "tooltipShown",
		decode: func(r *stream.Reader, s *domain.SettingsSnapshot) error {
			s.TabbedSelectorSectionTooltipShown = int(r.ReadInt32())
			return nil
		},
		encode: func(w *stream.Writer, s *domain.SettingsSnapshot) {
			w.WriteInt32(int32(s.TabbedSelectorSectionTooltipShown))
		},
		absent: func(s *domain.SettingsSnapshot) { s.TabbedSelectorSectionTooltipShown = 0 },
	},
	{
		name: "floatPlayer",
		decode: func(r *stream.Reader, s *domain.SettingsSnapshot) error {
			s.FloatPlayerColumn = domain.ValidateEnum(r.ReadInt32(), domain.Columns, s.FloatPlayerColumn)
			s.FloatPlayerCorner = domain.ValidateEnum(r.ReadInt32(), domain.FloatPlayerCorners, s.FloatPlayerCorner)
			return nil
		},
		encode: func(w *stream.Writer, s *domain.SettingsSnapshot) {
			w.WriteInt32(int32(s.FloatPlayerColumn))
			w.WriteInt32(int32(s.FloatPlayerCorner))
		},
		absent: func(s *domain.SettingsSnapshot) {
			s.FloatPlayerColumn = domain.ColumnSecond
			s.FloatPlayerCorner = domain.RectPartTopRight
		},
	},
	{
		name:   "hiddenSections",
		decode: decodeHiddenSections,
		encode: encodeHiddenSections,
		absent: func(s *domain.SettingsSnapshot) { s.GroupStickersSectionHidden = make(domain.PeerSet) },
	},
	{
		name: "thirdSection",
		decode: func(r *stream.Reader, s *domain.SettingsSnapshot) error {
			s.ThirdSectionInfoEnabled = readBool(r)
			s.SmallDialogsList = readBool(r)
			return nil
		},
		encode: func(w *stream.Writer, s *domain.SettingsSnapshot) {
			w.WriteBool(s.ThirdSectionInfoEnabled)
			w.WriteBool(s.SmallDialogsList)
		},
		absent: func(s *domain.SettingsSnapshot) {
			s.ThirdSectionInfoEnabled = false
			s.SmallDialogsList = false
		},
	},
	{
		name: "columns",
		decode: func(r *stream.Reader, s *domain.SettingsSnapshot) error {
			micros := r.ReadInt32()
			// Keep an in-range in-memory ratio when it encodes to the same micros.
			if micros != ratioToMicros(s.DialogsWidthRatio) || !validRatio(s.DialogsWidthRatio) {
				s.DialogsWidthRatio = microsToRatio(micros)
			}
			s.ThirdColumnWidth = int(r.ReadInt32())
			s.ThirdSectionExtendedBy = int(r.ReadInt32())
			return nil
		},
		encode: func(w *stream.Writer, s *domain.SettingsSnapshot) {
			w.WriteInt32(ratioToMicros(s.DialogsWidthRatio))
			w.WriteInt32(int32(s.ThirdColumnWidth))
			w.WriteInt32(int32(s.ThirdSectionExtendedBy))
		},
	},
	{
		name: "sendFiles",
		decode: func(r *stream.Reader, s *domain.SettingsSnapshot) error {
			s.SendFilesWay = domain.ValidateEnum(r.ReadInt32(), domain.SendFilesWays, s.SendFilesWay)
			return nil
		},
		encode: func(w *stream.Writer, s *domain.SettingsSnapshot) {
			w.WriteInt32(int32(s.SendFilesWay))
		},
	},
	{
		name: "legacyCalls",
		decode: func(r *stream.Reader, s *domain.SettingsSnapshot) error {
			s.HadLegacyCallsPeerToPeerNobody = r.ReadInt32() == legacyCallsPeerToPeerNobody
			return nil
		},
		encode: func(w *stream.Writer, _ *domain.SettingsSnapshot) {
			w.WriteInt32(0)
		},
		absent: func(s *domain.SettingsSnapshot) { s.HadLegacyCallsPeerToPeerNobody = false },
	},
	{
		name: "submitSupport",
		decode: func(r *stream.Reader, s *domain.SettingsSnapshot) error {
			s.SendSubmitWay = domain.ValidateEnum(r.ReadInt32(), domain.StorableSubmitWays, s.SendSubmitWay)
			s.SupportSwitch = domain.ValidateEnum(r.ReadInt32(), domain.SupportSwitches, s.SupportSwitch)
			s.SupportFixChatsOrder = readBool(r)
			return nil
		},
		encode: func(w *stream.Writer, s *domain.SettingsSnapshot) {
			w.WriteInt32(int32(s.SendSubmitWay))
			w.WriteInt32(int32(s.SupportSwitch))
			w.WriteBool(s.SupportFixChatsOrder)
		},
	},
	boolGroup("templates", func(s *domain.SettingsSnapshot) *bool { return &s.SupportTemplatesAutocomplete }),
	{
		name: "timeSlice",
		decode: func(r *stream.Reader, s *domain.SettingsSnapshot) error {
			s.SupportChatsTimeSlice = int(r.ReadInt32())
			return nil
		},
		encode: func(w *stream.Writer, s *domain.SettingsSnapshot) {
			w.WriteInt32(int32(s.SupportChatsTimeSlice))
		},
	},
	{
		name: "counters",
		decode: func(r *stream.Reader, s *domain.SettingsSnapshot) error {
			s.IncludeMutedCounter = readBool(r)
			s.CountUnreadMessages = readBool(r)
			return nil
		},
		encode: func(w *stream.Writer, s *domain.SettingsSnapshot) {
			w.WriteBool(s.IncludeMutedCounter)
			w.WriteBool(s.CountUnreadMessages)
		},
	},
	boolGroup("exeLaunch", func(s *domain.SettingsSnapshot) *bool { return &s.ExeLaunchWarning }),
	{
		name: "autoDownload",
		decode: func(r *stream.Reader, s *domain.SettingsSnapshot) error {
			blob := r.ReadBytes()
			if r.Status() != stream.StatusOK || len(blob) == 0 {
				return nil
			}
			if err := s.AutoDownload.SetFromSerialized(blob); err != nil {
				return domain.ErrAutoDownloadRejected.WithCause(err)
			}
			return nil
		},
		encode: func(w *stream.Writer, s *domain.SettingsSnapshot) {
			w.WriteBytes(s.AutoDownload.Serialize())
		},
	},
	boolGroup("allSearchResults", func(s *domain.SettingsSnapshot) *bool { return &s.SupportAllSearchResults }),
	boolGroup("archive", func(s *domain.SettingsSnapshot) *bool { return &s.ArchiveCollapsed }),
	boolGroup("pinned", func(s *domain.SettingsSnapshot) *bool { return &s.NotifyAboutPinned }),
}

// boolGroup builds a group holding a single boolean field.
func boolGroup(name string, field func(*domain.SettingsSnapshot) *bool) fieldGroup {
	return fieldGroup{
		name: name,
		decode: func(r *stream.Reader, s *domain.SettingsSnapshot) error {
			*field(s) = readBool(r)
			return nil
		},
		encode: func(w *stream.Writer, s *domain.SettingsSnapshot) {
			w.WriteBool(*field(s))
		},
	}
}

// GroupNames returns the layout groups in order.
func GroupNames() []string {
	names := make([]string, len(schema))
	for i, g := range schema {
		names[i] = g.name
	}
	return names
}

func readBool(r *stream.Reader) bool {
	return r.ReadInt32() == 1
}

func decodeSoundOverrides(r *stream.Reader, s *domain.SettingsSnapshot) error {
	count := r.ReadInt32()
	if r.Status() != stream.StatusOK {
		return nil
	}
	if count < 0 {
		return fmt.Errorf("sound overrides count %d", count)
	}
	// Each entry holds at least two length prefixes.
	if int64(count)*8 > int64(r.Remaining()) {
		r.SetStatus(stream.StatusReadPastEnd)
		return nil
	}

	overrides := make(map[string]string, count)
	for i := int32(0); i < count; i++ {
		key := r.ReadString()
		value := r.ReadString()
		if r.Status() != stream.StatusOK {
			return nil
		}
		overrides[key] = value
	}
	s.SoundOverrides = overrides
	return nil
}

func encodeSoundOverrides(w *stream.Writer, s *domain.SettingsSnapshot) {
	keys := sortedKeys(s.SoundOverrides)
	w.WriteInt32(int32(len(keys)))
	for _, k := range keys {
		w.WriteString(k)
		w.WriteString(s.SoundOverrides[k])
	}
}

func decodeHiddenSections(r *stream.Reader, s *domain.SettingsSnapshot) error {
	count := r.ReadInt32()
	if r.Status() != stream.StatusOK {
		return nil
	}
	if count < 0 {
		return fmt.Errorf("hidden sections count %d", count)
	}
	if int64(count)*8 > int64(r.Remaining()) {
		r.SetStatus(stream.StatusReadPastEnd)
		return nil
	}

	hidden := make(domain.PeerSet, count)
	for i := int32(0); i < count; i++ {
		peer := domain.PeerID(r.ReadUint64())
		if r.Status() != stream.StatusOK {
			return nil
		}
		hidden[peer] = struct{}{}
	}
	s.GroupStickersSectionHidden = hidden
	return nil
}

func encodeHiddenSections(w *stream.Writer, s *domain.SettingsSnapshot) {
	peers := s.GroupStickersSectionHidden.Sorted()
	w.WriteInt32(int32(len(peers)))
	for _, p := range peers {
		w.WriteUint64(uint64(p))
	}
}

// microsToRatio converts persisted micros to a ratio clamped to [0, 1].
func microsToRatio(micros int32) float64 {
	return math.Max(0, math.Min(1, float64(micros)/ratioScale))
}

func validRatio(ratio float64) bool {
	return ratio >= 0 && ratio <= 1
}

// ratioToMicros converts a ratio to micros clamped to [0, 1e6].
func ratioToMicros(ratio float64) int32 {
	if math.IsNaN(ratio) {
		return 0
	}
	micros := math.Round(ratio * ratioScale)
	return int32(math.Max(0, math.Min(ratioScale, micros)))
}
