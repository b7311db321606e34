package settings

import (
	"maps"

	"github.com/Mesbahzade/tdesktop/internal/core/autodownload"
	"github.com/Mesbahzade/tdesktop/internal/core/domain"
	"github.com/Mesbahzade/tdesktop/internal/reactive"
	"github.com/Mesbahzade/tdesktop/internal/telemetry/logger"
)

// Options configures a Settings store.
type Options struct {
	// Logger receives decode diagnostics. Defaults to logger.Default().
	Logger logger.Logger

	// OnDecode, when set, observes every ConstructFromSerialized outcome.
	OnDecode func(report DecodeReport, err error)
}

// Settings is the live settings store of one session.
//
// Every mutation goes through a setter that enforces the cross-field rules
// and notifies subscribers. Settings is meant to be driven from a single
// execution context; the reactive cells are safe to observe from anywhere.
type Settings struct {
	log      logger.Logger
	onDecode func(DecodeReport, error)

	// values holds the fields without a reactive cell.
	values domain.SettingsSnapshot

	dialogsWidthRatio            *reactive.Variable[float64]
	thirdColumnWidth             *reactive.Variable[int]
	supportChatsTimeSlice        *reactive.Variable[int]
	supportAllSearchResults      *reactive.Variable[bool]
	archiveCollapsed             *reactive.Variable[bool]
	notifyAboutPinned            *reactive.Variable[bool]
	thirdSectionInfoEnabled      *reactive.Variable[bool]
	tabbedSelectorSectionEnabled *reactive.Variable[bool]
	tabbedReplacedWithInfo       *reactive.Variable[bool]

	changed *reactive.EventStream[string]
}

// New creates a store holding the default settings.
func New(opts Options) *Settings {
	log := opts.Logger
	if log == nil {
		log = logger.Default()
	}

	d := domain.DefaultSettings()
	s := &Settings{
		log:                          log,
		onDecode:                     opts.OnDecode,
		dialogsWidthRatio:            reactive.NewVariable(d.DialogsWidthRatio),
		thirdColumnWidth:             reactive.NewVariable(d.ThirdColumnWidth),
		supportChatsTimeSlice:        reactive.NewVariable(d.SupportChatsTimeSlice),
		supportAllSearchResults:      reactive.NewVariable(d.SupportAllSearchResults),
		archiveCollapsed:             reactive.NewVariable(d.ArchiveCollapsed),
		notifyAboutPinned:            reactive.NewVariable(d.NotifyAboutPinned),
		thirdSectionInfoEnabled:      reactive.NewVariable(d.ThirdSectionInfoEnabled),
		tabbedSelectorSectionEnabled: reactive.NewVariable(d.TabbedSelectorSectionEnabled),
		tabbedReplacedWithInfo:       reactive.NewVariable(false),
		changed:                      reactive.NewEventStream[string](),
	}
	s.values = d
	return s
}

// Snapshot returns a deep copy of the current values.
func (s *Settings) Snapshot() domain.SettingsSnapshot {
	out := s.values.Clone()
	out.DialogsWidthRatio = s.dialogsWidthRatio.Current()
	out.ThirdColumnWidth = s.thirdColumnWidth.Current()
	out.SupportChatsTimeSlice = s.supportChatsTimeSlice.Current()
	out.SupportAllSearchResults = s.supportAllSearchResults.Current()
	out.ArchiveCollapsed = s.archiveCollapsed.Current()
	out.NotifyAboutPinned = s.notifyAboutPinned.Current()
	out.ThirdSectionInfoEnabled = s.thirdSectionInfoEnabled.Current()
	out.TabbedSelectorSectionEnabled = s.tabbedSelectorSectionEnabled.Current()
	return out
}

// Serialize encodes the current values.
func (s *Settings) Serialize() []byte {
	return Encode(s.Snapshot())
}

// ConstructFromSerialized hydrates the store from a persisted blob. A
// malformed blob is logged and leaves every value as it was.
func (s *Settings) ConstructFromSerialized(data []byte) {
	result, report, err := Decode(data, s.Snapshot())
	if s.onDecode != nil {
		s.onDecode(report, err)
	}
	if err != nil {
		s.log.Error("bad data for settings",
			"error", err,
			"bytes", report.Bytes,
			"groups_applied", report.GroupsApplied)
		return
	}
	if report.Truncated() {
		s.log.Debug("settings blob ended inside a group",
			"group", report.StoppedAt,
			"groups_applied", report.GroupsApplied)
	}
	s.apply(result)
}

// apply commits a snapshot through the reactive cells without firing
// Changed.
func (s *Settings) apply(v domain.SettingsSnapshot) {
	s.values = v.Clone()
	s.dialogsWidthRatio.Set(v.DialogsWidthRatio)
	s.thirdColumnWidth.Set(v.ThirdColumnWidth)
	s.supportChatsTimeSlice.Set(v.SupportChatsTimeSlice)
	s.supportAllSearchResults.Set(v.SupportAllSearchResults)
	s.archiveCollapsed.Set(v.ArchiveCollapsed)
	s.notifyAboutPinned.Set(v.NotifyAboutPinned)
	// Clear before enabling so the pair is never observed both true.
	if v.ThirdSectionInfoEnabled {
		s.tabbedSelectorSectionEnabled.Set(false)
		s.thirdSectionInfoEnabled.Set(true)
	} else {
		s.thirdSectionInfoEnabled.Set(false)
		s.tabbedSelectorSectionEnabled.Set(v.TabbedSelectorSectionEnabled)
	}
}

// MoveFrom adopts every value of other. other keeps its values and
// subscribers.
func (s *Settings) MoveFrom(other *Settings) {
	s.apply(other.Snapshot())
}

// Changed streams the name of every field changed through a setter.
func (s *Settings) Changed() *reactive.EventStream[string] {
	return s.changed
}

func (s *Settings) touch(field string) {
	s.changed.Fire(field)
}

// setValue assigns a plain field and fires Changed when it differs.
func setValue[T comparable](s *Settings, field string, dst *T, v T) {
	if *dst == v {
		return
	}
	*dst = v
	s.touch(field)
}

// setVariable assigns a reactive field and fires Changed when it differs.
func setVariable[T comparable](s *Settings, field string, v *reactive.Variable[T], value T) bool {
	if !v.Set(value) {
		return false
	}
	s.touch(field)
	return true
}

// ============================================================================
// Chat section
// ============================================================================

// SelectorTab returns the last opened tab of the emoji and sticker selector.
func (s *Settings) SelectorTab() domain.SelectorTab { return s.values.SelectorTab }

// SetSelectorTab rejects values outside domain.SelectorTabs.
func (s *Settings) SetSelectorTab(tab domain.SelectorTab) error {
	if !domain.IsAllowed(tab, domain.SelectorTabs) {
		return domain.ErrInvalidSettingValue.WithDetails("selector_tab: " + tab.String())
	}
	setValue(s, FieldSelectorTab, &s.values.SelectorTab, tab)
	return nil
}

// LastSeenWarningSeen reports whether the last-seen privacy warning was shown.
func (s *Settings) LastSeenWarningSeen() bool { return s.values.LastSeenWarningSeen }

// SetLastSeenWarningSeen marks the last-seen warning as shown and schedules a save.
func (s *Settings) SetLastSeenWarningSeen(seen bool) {
	setValue(s, FieldLastSeenWarningSeen, &s.values.LastSeenWarningSeen, seen)
}

// TabbedSelectorSectionEnabled reports whether the selector is shown as a third column.
func (s *Settings) TabbedSelectorSectionEnabled() bool {
	return s.tabbedSelectorSectionEnabled.Current()
}

// SetTabbedSelectorSectionEnabled enables or disables the selector column.
// Enabling it disables the info section. The replaced-with-info flag is
// always cleared.
func (s *Settings) SetTabbedSelectorSectionEnabled(enabled bool) {
	if enabled {
		s.SetThirdSectionInfoEnabled(false)
	}
	setVariable(s, FieldTabbedSelectorSectionEnabled, s.tabbedSelectorSectionEnabled, enabled)
	s.SetTabbedReplacedWithInfo(false)
}

// TabbedSelectorSectionEnabledValue calls fn with the current value and then on every change.
func (s *Settings) TabbedSelectorSectionEnabledValue(fn func(bool)) *reactive.Subscription {
	return s.tabbedSelectorSectionEnabled.Value(fn)
}

// TabbedSelectorSectionTooltipShown counts how many times the selector column tooltip was shown.
func (s *Settings) TabbedSelectorSectionTooltipShown() int {
	return s.values.TabbedSelectorSectionTooltipShown
}

// SetTabbedSelectorSectionTooltipShown stores the tooltip counter and schedules a save.
func (s *Settings) SetTabbedSelectorSectionTooltipShown(shown int) {
	setValue(s, FieldTabbedSelectorSectionTooltipShown, &s.values.TabbedSelectorSectionTooltipShown, shown)
}

// ThirdSectionInfoEnabled reports whether the chat info is shown as a third column.
func (s *Settings) ThirdSectionInfoEnabled() bool {
	return s.thirdSectionInfoEnabled.Current()
}

// SetThirdSectionInfoEnabled enables or disables the info section. Enabling
// it disables the selector column. An actual change clears the
// replaced-with-info flag.
func (s *Settings) SetThirdSectionInfoEnabled(enabled bool) {
	if s.thirdSectionInfoEnabled.Current() == enabled {
		return
	}
	if enabled {
		setVariable(s, FieldTabbedSelectorSectionEnabled, s.tabbedSelectorSectionEnabled, false)
	}
	setVariable(s, FieldThirdSectionInfoEnabled, s.thirdSectionInfoEnabled, enabled)
	s.SetTabbedReplacedWithInfo(false)
}

// ThirdSectionInfoEnabledValue calls fn with the current value and then on every change.
func (s *Settings) ThirdSectionInfoEnabledValue(fn func(bool)) *reactive.Subscription {
	return s.thirdSectionInfoEnabled.Value(fn)
}

// TabbedReplacedWithInfo is a transient flag, never persisted.
func (s *Settings) TabbedReplacedWithInfo() bool {
	return s.tabbedReplacedWithInfo.Current()
}

// SetTabbedReplacedWithInfo updates the transient flag. It does not schedule a save.
func (s *Settings) SetTabbedReplacedWithInfo(replaced bool) {
	s.tabbedReplacedWithInfo.Set(replaced)
}

// TabbedReplacedWithInfoValue calls fn with the current value and then on every change.
func (s *Settings) TabbedReplacedWithInfoValue(fn func(bool)) *reactive.Subscription {
	return s.tabbedReplacedWithInfo.Value(fn)
}

// SmallDialogsList reports whether the chat list uses the narrow layout.
func (s *Settings) SmallDialogsList() bool { return s.values.SmallDialogsList }

// SetSmallDialogsList switches the chat list layout and schedules a save.
func (s *Settings) SetSmallDialogsList(enabled bool) {
	setValue(s, FieldSmallDialogsList, &s.values.SmallDialogsList, enabled)
}

// ThirdSectionExtendedBy is the width the window grew by to fit the third column, or -1.
func (s *Settings) ThirdSectionExtendedBy() int { return s.values.ThirdSectionExtendedBy }

// SetThirdSectionExtendedBy records the window growth and schedules a save.
func (s *Settings) SetThirdSectionExtendedBy(by int) {
	setValue(s, FieldThirdSectionExtendedBy, &s.values.ThirdSectionExtendedBy, by)
}

// DialogsWidthRatio is the share of the window taken by the chat list.
func (s *Settings) DialogsWidthRatio() float64 { return s.dialogsWidthRatio.Current() }

// SetDialogsWidthRatio stores ratio as given. Callers pass a value in
// [0, 1]; it is clamped only when read back from disk.
func (s *Settings) SetDialogsWidthRatio(ratio float64) {
	setVariable(s, FieldDialogsWidthRatio, s.dialogsWidthRatio, ratio)
}

// DialogsWidthRatioChanges calls fn on every later change of the ratio.
func (s *Settings) DialogsWidthRatioChanges(fn func(float64)) *reactive.Subscription {
	return s.dialogsWidthRatio.Changes(fn)
}

// ThirdColumnWidth is the width of the third column in pixels.
func (s *Settings) ThirdColumnWidth() int { return s.thirdColumnWidth.Current() }

// SetThirdColumnWidth stores the width, notifies subscribers and schedules a save.
func (s *Settings) SetThirdColumnWidth(width int) {
	setVariable(s, FieldThirdColumnWidth, s.thirdColumnWidth, width)
}

// ThirdColumnWidthChanges calls fn on every later change of the width.
func (s *Settings) ThirdColumnWidthChanges(fn func(int)) *reactive.Subscription {
	return s.thirdColumnWidth.Changes(fn)
}

// ============================================================================
// Media
// ============================================================================

// SoundPath returns the override for key or the bundled sound.
func (s *Settings) SoundPath(key string) string {
	if path, ok := s.values.SoundOverrides[key]; ok {
		return path
	}
	return ":/sounds/" + key + ".mp3"
}

// SoundOverrides returns a copy of the overrides.
func (s *Settings) SoundOverrides() map[string]string {
	return maps.Clone(s.values.SoundOverrides)
}

// SetSoundOverride replaces the sound for key with path. Setting the same path again does nothing.
func (s *Settings) SetSoundOverride(key, path string) {
	if current, ok := s.values.SoundOverrides[key]; ok && current == path {
		return
	}
	if s.values.SoundOverrides == nil {
		s.values.SoundOverrides = make(map[string]string)
	}
	s.values.SoundOverrides[key] = path
	s.touch(FieldSoundOverrides)
}

// ClearSoundOverrides restores every bundled sound and schedules a save if any override existed.
func (s *Settings) ClearSoundOverrides() {
	if len(s.values.SoundOverrides) == 0 {
		return
	}
	s.values.SoundOverrides = make(map[string]string)
	s.touch(FieldSoundOverrides)
}

// FloatPlayerColumn is the column the floating player is docked to.
func (s *Settings) FloatPlayerColumn() domain.Column { return s.values.FloatPlayerColumn }

// SetFloatPlayerColumn rejects values outside domain.Columns.
func (s *Settings) SetFloatPlayerColumn(column domain.Column) error {
	if !domain.IsAllowed(column, domain.Columns) {
		return domain.ErrInvalidSettingValue.WithDetails("float_player_column: " + column.String())
	}
	setValue(s, FieldFloatPlayerColumn, &s.values.FloatPlayerColumn, column)
	return nil
}

// FloatPlayerCorner is the corner the floating player is docked to.
func (s *Settings) FloatPlayerCorner() domain.RectPart { return s.values.FloatPlayerCorner }

// SetFloatPlayerCorner only accepts the four corners.
func (s *Settings) SetFloatPlayerCorner(corner domain.RectPart) error {
	if !domain.IsAllowed(corner, domain.FloatPlayerCorners) {
		return domain.ErrInvalidSettingValue.WithDetails("float_player_corner: " + corner.String())
	}
	setValue(s, FieldFloatPlayerCorner, &s.values.FloatPlayerCorner, corner)
	return nil
}

// SendFilesWay is the default grouping for sent files.
func (s *Settings) SendFilesWay() domain.SendFilesWay { return s.values.SendFilesWay }

// SetSendFilesWay rejects values outside domain.SendFilesWays.
func (s *Settings) SetSendFilesWay(way domain.SendFilesWay) error {
	if !domain.IsAllowed(way, domain.SendFilesWays) {
		return domain.ErrInvalidSettingValue.WithDetails("send_files_way: " + way.String())
	}
	setValue(s, FieldSendFilesWay, &s.values.SendFilesWay, way)
	return nil
}

// AutoDownload returns the automatic download policy.
func (s *Settings) AutoDownload() autodownload.Full { return s.values.AutoDownload }

// SetAutoDownload replaces the whole policy and schedules a save.
func (s *Settings) SetAutoDownload(policy autodownload.Full) {
	setValue(s, FieldAutoDownload, &s.values.AutoDownload, policy)
}

// ============================================================================
// Stickers
// ============================================================================

// IsGroupStickersSectionHidden reports whether peer hid its group sticker set section.
func (s *Settings) IsGroupStickersSectionHidden(peer domain.PeerID) bool {
	return s.values.GroupStickersSectionHidden.Has(peer)
}

// SetGroupStickersSectionHidden hides the group sticker section for peer and schedules a save.
func (s *Settings) SetGroupStickersSectionHidden(peer domain.PeerID) {
	if s.values.GroupStickersSectionHidden.Has(peer) {
		return
	}
	if s.values.GroupStickersSectionHidden == nil {
		s.values.GroupStickersSectionHidden = make(domain.PeerSet)
	}
	s.values.GroupStickersSectionHidden[peer] = struct{}{}
	s.touch(FieldGroupStickersSectionHidden)
}

// RemoveGroupStickersSectionHidden shows the section for peer again.
func (s *Settings) RemoveGroupStickersSectionHidden(peer domain.PeerID) {
	if !s.values.GroupStickersSectionHidden.Has(peer) {
		return
	}
	delete(s.values.GroupStickersSectionHidden, peer)
	s.touch(FieldGroupStickersSectionHidden)
}

// GroupStickersSectionsHidden lists the hidden peers in ascending order.
func (s *Settings) GroupStickersSectionsHidden() []domain.PeerID {
	return s.values.GroupStickersSectionHidden.Sorted()
}

// ============================================================================
// Input and support mode
// ============================================================================

// SendSubmitWay is the key combination that sends a message.
func (s *Settings) SendSubmitWay() domain.InputSubmitSettings { return s.values.SendSubmitWay }

// SetSendSubmitWay only accepts the storable submit ways.
func (s *Settings) SetSendSubmitWay(way domain.InputSubmitSettings) error {
	if !domain.IsAllowed(way, domain.StorableSubmitWays) {
		return domain.ErrInvalidSettingValue.WithDetails("send_submit_way: " + way.String())
	}
	setValue(s, FieldSendSubmitWay, &s.values.SendSubmitWay, way)
	return nil
}

// SupportSwitch is what support mode does after a message is sent.
func (s *Settings) SupportSwitch() domain.SupportSwitch { return s.values.SupportSwitch }

// SetSupportSwitch rejects values outside domain.SupportSwitches.
func (s *Settings) SetSupportSwitch(value domain.SupportSwitch) error {
	if !domain.IsAllowed(value, domain.SupportSwitches) {
		return domain.ErrInvalidSettingValue.WithDetails("support_switch: " + value.String())
	}
	setValue(s, FieldSupportSwitch, &s.values.SupportSwitch, value)
	return nil
}

// SupportFixChatsOrder reports whether support mode pins the chat order.
func (s *Settings) SupportFixChatsOrder() bool { return s.values.SupportFixChatsOrder }

// SetSupportFixChatsOrder toggles the pinned order and schedules a save.
func (s *Settings) SetSupportFixChatsOrder(fix bool) {
	setValue(s, FieldSupportFixChatsOrder, &s.values.SupportFixChatsOrder, fix)
}

// SupportTemplatesAutocomplete reports whether support templates are suggested while typing.
func (s *Settings) SupportTemplatesAutocomplete() bool {
	return s.values.SupportTemplatesAutocomplete
}

// SetSupportTemplatesAutocomplete toggles template suggestions and schedules a save.
func (s *Settings) SetSupportTemplatesAutocomplete(enabled bool) {
	setValue(s, FieldSupportTemplatesAutocomplete, &s.values.SupportTemplatesAutocomplete, enabled)
}

// SupportChatsTimeSlice is in seconds.
func (s *Settings) SupportChatsTimeSlice() int { return s.supportChatsTimeSlice.Current() }

// SetSupportChatsTimeSlice stores the slice, notifies subscribers and schedules a save.
func (s *Settings) SetSupportChatsTimeSlice(slice int) {
	setVariable(s, FieldSupportChatsTimeSlice, s.supportChatsTimeSlice, slice)
}

// SupportChatsTimeSliceValue calls fn with the current slice and then on every change.
func (s *Settings) SupportChatsTimeSliceValue(fn func(int)) *reactive.Subscription {
	return s.supportChatsTimeSlice.Value(fn)
}

// SupportAllSearchResults reports whether support search shows every result.
func (s *Settings) SupportAllSearchResults() bool { return s.supportAllSearchResults.Current() }

// SetSupportAllSearchResults toggles full search results and schedules a save.
func (s *Settings) SetSupportAllSearchResults(all bool) {
	setVariable(s, FieldSupportAllSearchResults, s.supportAllSearchResults, all)
}

// SupportAllSearchResultsValue calls fn with the current value and then on every change.
func (s *Settings) SupportAllSearchResultsValue(fn func(bool)) *reactive.Subscription {
	return s.supportAllSearchResults.Value(fn)
}

// ============================================================================
// Counters and notifications
// ============================================================================

// IncludeMutedCounter reports whether muted chats count toward the unread badge.
func (s *Settings) IncludeMutedCounter() bool { return s.values.IncludeMutedCounter }

// SetIncludeMutedCounter toggles muted chats in the badge and schedules a save.
func (s *Settings) SetIncludeMutedCounter(include bool) {
	setValue(s, FieldIncludeMutedCounter, &s.values.IncludeMutedCounter, include)
}

// CountUnreadMessages reports whether the badge counts messages rather than chats.
func (s *Settings) CountUnreadMessages() bool { return s.values.CountUnreadMessages }

// SetCountUnreadMessages switches the badge unit and schedules a save.
func (s *Settings) SetCountUnreadMessages(count bool) {
	setValue(s, FieldCountUnreadMessages, &s.values.CountUnreadMessages, count)
}

// ExeLaunchWarning reports whether opening an executable asks for confirmation.
func (s *Settings) ExeLaunchWarning() bool { return s.values.ExeLaunchWarning }

// SetExeLaunchWarning toggles the confirmation and schedules a save.
func (s *Settings) SetExeLaunchWarning(warning bool) {
	setValue(s, FieldExeLaunchWarning, &s.values.ExeLaunchWarning, warning)
}

// ArchiveCollapsed reports whether the archive folder row is collapsed.
func (s *Settings) ArchiveCollapsed() bool { return s.archiveCollapsed.Current() }

// SetArchiveCollapsed stores the flag, notifies subscribers and schedules a save.
func (s *Settings) SetArchiveCollapsed(collapsed bool) {
	setVariable(s, FieldArchiveCollapsed, s.archiveCollapsed, collapsed)
}

// ArchiveCollapsedChanges calls fn on every later change of the flag.
func (s *Settings) ArchiveCollapsedChanges(fn func(bool)) *reactive.Subscription {
	return s.archiveCollapsed.Changes(fn)
}

// NotifyAboutPinned reports whether pinned messages raise notifications.
func (s *Settings) NotifyAboutPinned() bool { return s.notifyAboutPinned.Current() }

// SetNotifyAboutPinned stores the flag, notifies subscribers and schedules a save.
func (s *Settings) SetNotifyAboutPinned(notify bool) {
	setVariable(s, FieldNotifyAboutPinned, s.notifyAboutPinned, notify)
}

// NotifyAboutPinnedChanges calls fn on every later change of the flag.
func (s *Settings) NotifyAboutPinnedChanges(fn func(bool)) *reactive.Subscription {
	return s.notifyAboutPinned.Changes(fn)
}

// HadLegacyCallsPeerToPeerNobody reports whether the blob carried the retired
// "calls: nobody" privacy value.
func (s *Settings) HadLegacyCallsPeerToPeerNobody() bool {
	return s.values.HadLegacyCallsPeerToPeerNobody
}
