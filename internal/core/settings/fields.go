package settings

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Mesbahzade/tdesktop/internal/core/domain"
)

// Field names used by Changed and the field registry.
const (
	FieldSelectorTab                       = "selector_tab"
	FieldLastSeenWarningSeen               = "last_seen_warning_seen"
	FieldTabbedSelectorSectionEnabled      = "tabbed_selector_section_enabled"
	FieldTabbedSelectorSectionTooltipShown = "tabbed_selector_section_tooltip_shown"
	FieldSoundOverrides                    = "sound_overrides"
	FieldFloatPlayerColumn                 = "float_player_column"
	FieldFloatPlayerCorner                 = "float_player_corner"
	FieldGroupStickersSectionHidden        = "group_stickers_section_hidden"
	FieldThirdSectionInfoEnabled           = "third_section_info_enabled"
	FieldSmallDialogsList                  = "small_dialogs_list"
	FieldThirdSectionExtendedBy            = "third_section_extended_by"
	FieldDialogsWidthRatio                 = "dialogs_width_ratio"
	FieldThirdColumnWidth                  = "third_column_width"
	FieldSendFilesWay                      = "send_files_way"
	FieldSendSubmitWay                     = "send_submit_way"
	FieldSupportSwitch                     = "support_switch"
	FieldSupportFixChatsOrder              = "support_fix_chats_order"
	FieldSupportTemplatesAutocomplete      = "support_templates_autocomplete"
	FieldSupportChatsTimeSlice             = "support_chats_time_slice"
	FieldIncludeMutedCounter               = "include_muted_counter"
	FieldCountUnreadMessages               = "count_unread_messages"
	FieldExeLaunchWarning                  = "exe_launch_warning"
	FieldAutoDownload                      = "auto_download"
	FieldSupportAllSearchResults           = "support_all_search_results"
	FieldArchiveCollapsed                  = "archive_collapsed"
	FieldNotifyAboutPinned                 = "notify_about_pinned"
)

// Field is a scalar setting addressable by name.
type Field struct {
	Name string
	// Kind is bool, int, float or enum.
	Kind string
	// Values lists the accepted names for enum fields.
	Values []string
	get    func(*Settings) string
	set    func(*Settings, string) error
}

// Get formats the field's current value.
func (f Field) Get(s *Settings) string {
	return f.get(s)
}

// Set parses value and assigns it through the field's setter.
func (f Field) Set(s *Settings, value string) error {
	return f.set(s, value)
}

var fields = []Field{
	enumField(FieldSelectorTab, domain.SelectorTabs, (*Settings).SelectorTab, (*Settings).SetSelectorTab),
	boolField(FieldLastSeenWarningSeen, (*Settings).LastSeenWarningSeen, (*Settings).SetLastSeenWarningSeen),
	boolField(FieldTabbedSelectorSectionEnabled, (*Settings).TabbedSelectorSectionEnabled, (*Settings).SetTabbedSelectorSectionEnabled),
	intField(FieldTabbedSelectorSectionTooltipShown, (*Settings).TabbedSelectorSectionTooltipShown, (*Settings).SetTabbedSelectorSectionTooltipShown),
	enumField(FieldFloatPlayerColumn, domain.Columns, (*Settings).FloatPlayerColumn, (*Settings).SetFloatPlayerColumn),
	enumField(FieldFloatPlayerCorner, domain.FloatPlayerCorners, (*Settings).FloatPlayerCorner, (*Settings).SetFloatPlayerCorner),
	boolField(FieldThirdSectionInfoEnabled, (*Settings).ThirdSectionInfoEnabled, (*Settings).SetThirdSectionInfoEnabled),
	boolField(FieldSmallDialogsList, (*Settings).SmallDialogsList, (*Settings).SetSmallDialogsList),
	intField(FieldThirdSectionExtendedBy, (*Settings).ThirdSectionExtendedBy, (*Settings).SetThirdSectionExtendedBy),
	{
		Name: FieldDialogsWidthRatio,
		Kind: "float",
		get: func(s *Settings) string {
			return strconv.FormatFloat(s.DialogsWidthRatio(), 'g', -1, 64)
		},
		set: func(s *Settings, value string) error {
			ratio, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
			if err != nil || ratio < 0 || ratio > 1 {
				return invalidValue(FieldDialogsWidthRatio, value, err)
			}
			s.SetDialogsWidthRatio(ratio)
			return nil
		},
	},
	intField(FieldThirdColumnWidth, (*Settings).ThirdColumnWidth, (*Settings).SetThirdColumnWidth),
	enumField(FieldSendFilesWay, domain.SendFilesWays, (*Settings).SendFilesWay, (*Settings).SetSendFilesWay),
	enumField(FieldSendSubmitWay, domain.StorableSubmitWays, (*Settings).SendSubmitWay, (*Settings).SetSendSubmitWay),
	enumField(FieldSupportSwitch, domain.SupportSwitches, (*Settings).SupportSwitch, (*Settings).SetSupportSwitch),
	boolField(FieldSupportFixChatsOrder, (*Settings).SupportFixChatsOrder, (*Settings).SetSupportFixChatsOrder),
	boolField(FieldSupportTemplatesAutocomplete, (*Settings).SupportTemplatesAutocomplete, (*Settings).SetSupportTemplatesAutocomplete),
	intField(FieldSupportChatsTimeSlice, (*Settings).SupportChatsTimeSlice, (*Settings).SetSupportChatsTimeSlice),
	boolField(FieldIncludeMutedCounter, (*Settings).IncludeMutedCounter, (*Settings).SetIncludeMutedCounter),
	boolField(FieldCountUnreadMessages, (*Settings).CountUnreadMessages, (*Settings).SetCountUnreadMessages),
	boolField(FieldExeLaunchWarning, (*Settings).ExeLaunchWarning, (*Settings).SetExeLaunchWarning),
	boolField(FieldSupportAllSearchResults, (*Settings).SupportAllSearchResults, (*Settings).SetSupportAllSearchResults),
	boolField(FieldArchiveCollapsed, (*Settings).ArchiveCollapsed, (*Settings).SetArchiveCollapsed),
	boolField(FieldNotifyAboutPinned, (*Settings).NotifyAboutPinned, (*Settings).SetNotifyAboutPinned),
}

// Fields returns every scalar field in display order.
func Fields() []Field {
	out := make([]Field, len(fields))
	copy(out, fields)
	return out
}

// FieldNames returns the names of every scalar field.
func FieldNames() []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names
}

// LookupField finds a field by name. Dashes are accepted for underscores.
func LookupField(name string) (Field, error) {
	name = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	for _, f := range fields {
		if f.Name == name {
			return f, nil
		}
	}
	return Field{}, domain.ErrUnknownSetting.WithDetails(name)
}

func invalidValue(field, value string, cause error) error {
	err := domain.ErrInvalidSettingValue.WithDetails(fmt.Sprintf("%s: %q", field, value))
	if cause != nil {
		return err.WithCause(cause)
	}
	return err
}

func boolField(name string, get func(*Settings) bool, set func(*Settings, bool)) Field {
	return Field{
		Name: name,
		Kind: "bool",
		get:  func(s *Settings) string { return strconv.FormatBool(get(s)) },
		set: func(s *Settings, value string) error {
			v, err := strconv.ParseBool(strings.TrimSpace(value))
			if err != nil {
				return invalidValue(name, value, err)
			}
			set(s, v)
			return nil
		},
	}
}

func intField(name string, get func(*Settings) int, set func(*Settings, int)) Field {
	return Field{
		Name: name,
		Kind: "int",
		get:  func(s *Settings) string { return strconv.Itoa(get(s)) },
		set: func(s *Settings, value string) error {
			v, err := strconv.ParseInt(strings.TrimSpace(value), 10, 32)
			if err != nil {
				return invalidValue(name, value, err)
			}
			set(s, int(v))
			return nil
		},
	}
}

func enumField[T interface {
	~int32
	fmt.Stringer
}](name string, allowed []T, get func(*Settings) T, set func(*Settings, T) error) Field {
	values := make([]string, len(allowed))
	for i, v := range allowed {
		values[i] = v.String()
	}
	return Field{
		Name:   name,
		Kind:   "enum",
		Values: values,
		get:    func(s *Settings) string { return get(s).String() },
		set: func(s *Settings, value string) error {
			v, err := domain.ParseEnum(value, allowed)
			if err != nil {
				return err
			}
			return set(s, v)
		},
	}
}
