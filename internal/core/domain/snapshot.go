package domain

import (
	"maps"

	"github.com/Mesbahzade/tdesktop/internal/core/autodownload"
)

// Default values that are not the zero value of their type.
const (
	DefaultDialogsWidthRatio      = 5.0 / 14.0
	DefaultThirdSectionExtendedBy = -1
	DefaultSupportChatsTimeSlice  = 7 * 24 * 60 * 60
)

// SettingsSnapshot is the complete settings record of one session.
type SettingsSnapshot struct {
	SelectorTab                       SelectorTab
	LastSeenWarningSeen               bool
	TabbedSelectorSectionEnabled      bool
	TabbedSelectorSectionTooltipShown int
	SoundOverrides                    map[string]string
	FloatPlayerColumn                 Column
	FloatPlayerCorner                 RectPart
	GroupStickersSectionHidden        PeerSet
	ThirdSectionInfoEnabled           bool
	SmallDialogsList                  bool
	ThirdSectionExtendedBy            int
	DialogsWidthRatio                 float64
	ThirdColumnWidth                  int
	SendFilesWay                      SendFilesWay

	// HadLegacyCallsPeerToPeerNobody is derived from a retired field and is
	// never written back.
	HadLegacyCallsPeerToPeerNobody bool

	SendSubmitWay                InputSubmitSettings
	SupportSwitch                SupportSwitch
	SupportFixChatsOrder         bool
	SupportTemplatesAutocomplete bool
	SupportChatsTimeSlice        int
	IncludeMutedCounter          bool
	CountUnreadMessages          bool
	ExeLaunchWarning             bool
	AutoDownload                 autodownload.Full
	SupportAllSearchResults      bool
	ArchiveCollapsed             bool
	NotifyAboutPinned            bool
}

// DefaultSettings returns the settings of a fresh session.
func DefaultSettings() SettingsSnapshot {
	return SettingsSnapshot{
		SelectorTab:                  SelectorTabEmoji,
		SoundOverrides:               make(map[string]string),
		FloatPlayerColumn:            ColumnSecond,
		FloatPlayerCorner:            RectPartTopRight,
		GroupStickersSectionHidden:   make(PeerSet),
		ThirdSectionInfoEnabled:      true,
		ThirdSectionExtendedBy:       DefaultThirdSectionExtendedBy,
		DialogsWidthRatio:            DefaultDialogsWidthRatio,
		SendFilesWay:                 SendFilesWayAlbum,
		SendSubmitWay:                InputSubmitEnter,
		SupportSwitch:                SupportSwitchNext,
		SupportFixChatsOrder:         true,
		SupportTemplatesAutocomplete: true,
		SupportChatsTimeSlice:        DefaultSupportChatsTimeSlice,
		IncludeMutedCounter:          true,
		CountUnreadMessages:          true,
		ExeLaunchWarning:             true,
		AutoDownload:                 autodownload.Defaults(),
		NotifyAboutPinned:            true,
	}
}

// Clone returns a deep copy. Nil collections become empty ones.
func (s SettingsSnapshot) Clone() SettingsSnapshot {
	out := s
	out.SoundOverrides = make(map[string]string, len(s.SoundOverrides))
	maps.Copy(out.SoundOverrides, s.SoundOverrides)
	out.GroupStickersSectionHidden = s.GroupStickersSectionHidden.Clone()
	return out
}

// Equal reports whether two snapshots hold the same values. A nil
// collection equals an empty one.
func (s SettingsSnapshot) Equal(o SettingsSnapshot) bool {
	if !maps.Equal(s.SoundOverrides, o.SoundOverrides) {
		return false
	}
	if !maps.Equal(s.GroupStickersSectionHidden, o.GroupStickersSectionHidden) {
		return false
	}
	return s.SelectorTab == o.SelectorTab &&
		s.LastSeenWarningSeen == o.LastSeenWarningSeen &&
		s.TabbedSelectorSectionEnabled == o.TabbedSelectorSectionEnabled &&
		s.TabbedSelectorSectionTooltipShown == o.TabbedSelectorSectionTooltipShown &&
		s.FloatPlayerColumn == o.FloatPlayerColumn &&
		s.FloatPlayerCorner == o.FloatPlayerCorner &&
		s.ThirdSectionInfoEnabled == o.ThirdSectionInfoEnabled &&
		s.SmallDialogsList == o.SmallDialogsList &&
		s.ThirdSectionExtendedBy == o.ThirdSectionExtendedBy &&
		s.DialogsWidthRatio == o.DialogsWidthRatio &&
		s.ThirdColumnWidth == o.ThirdColumnWidth &&
		s.SendFilesWay == o.SendFilesWay &&
		s.HadLegacyCallsPeerToPeerNobody == o.HadLegacyCallsPeerToPeerNobody &&
		s.SendSubmitWay == o.SendSubmitWay &&
		s.SupportSwitch == o.SupportSwitch &&
		s.SupportFixChatsOrder == o.SupportFixChatsOrder &&
		s.SupportTemplatesAutocomplete == o.SupportTemplatesAutocomplete &&
		s.SupportChatsTimeSlice == o.SupportChatsTimeSlice &&
		s.IncludeMutedCounter == o.IncludeMutedCounter &&
		s.CountUnreadMessages == o.CountUnreadMessages &&
		s.ExeLaunchWarning == o.ExeLaunchWarning &&
		s.AutoDownload == o.AutoDownload &&
		s.SupportAllSearchResults == o.SupportAllSearchResults &&
		s.ArchiveCollapsed == o.ArchiveCollapsed &&
		s.NotifyAboutPinned == o.NotifyAboutPinned
}

// Normalize enforces the cross-field invariants: the info section and the
// tabbed selector section are never enabled together, the info section
// taking precedence.
func (s *SettingsSnapshot) Normalize() {
	if s.ThirdSectionInfoEnabled {
		s.TabbedSelectorSectionEnabled = false
	}
}
