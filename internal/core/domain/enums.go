package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// SelectorTab is the tab shown when the emoji/sticker selector opens.
type SelectorTab int32

const (
	SelectorTabEmoji SelectorTab = iota
	SelectorTabStickers
	SelectorTabGifs
)

// Column is one of the three main window columns.
type Column int32

const (
	ColumnFirst Column = iota
	ColumnSecond
	ColumnThird
)

// RectPart is a corner of a rectangle. Values are bit flags so that the
// persisted codes stay compatible with older builds.
type RectPart int32

const (
	RectPartTopLeft     RectPart = 1 << 0
	RectPartTopRight    RectPart = 1 << 2
	RectPartBottomLeft  RectPart = 1 << 6
	RectPartBottomRight RectPart = 1 << 8
)

// SendFilesWay is how dropped files are sent.
type SendFilesWay int32

const (
	SendFilesWayAlbum SendFilesWay = iota
	SendFilesWayPhotos
	SendFilesWayFiles
)

// InputSubmitSettings is the key combination that sends a message.
type InputSubmitSettings int32

const (
	InputSubmitEnter InputSubmitSettings = iota
	InputSubmitCtrlEnter
	InputSubmitBoth
	InputSubmitNone
)

// SupportSwitch is the chat the support mode jumps to after a reply.
type SupportSwitch int32

const (
	SupportSwitchNone SupportSwitch = iota
	SupportSwitchNext
	SupportSwitchPrevious
)

// Allowed sets used when decoding persisted codes.
var (
	SelectorTabs       = []SelectorTab{SelectorTabEmoji, SelectorTabStickers, SelectorTabGifs}
	Columns            = []Column{ColumnFirst, ColumnSecond, ColumnThird}
	FloatPlayerCorners = []RectPart{RectPartTopLeft, RectPartTopRight, RectPartBottomLeft, RectPartBottomRight}
	SendFilesWays      = []SendFilesWay{SendFilesWayAlbum, SendFilesWayPhotos, SendFilesWayFiles}
	// Both and None are runtime-only and never persisted.
	StorableSubmitWays = []InputSubmitSettings{InputSubmitEnter, InputSubmitCtrlEnter}
	SupportSwitches    = []SupportSwitch{SupportSwitchNone, SupportSwitchNext, SupportSwitchPrevious}
)

var (
	selectorTabNames = map[SelectorTab]string{
		SelectorTabEmoji:    "emoji",
		SelectorTabStickers: "stickers",
		SelectorTabGifs:     "gifs",
	}
	columnNames = map[Column]string{
		ColumnFirst:  "first",
		ColumnSecond: "second",
		ColumnThird:  "third",
	}
	rectPartNames = map[RectPart]string{
		RectPartTopLeft:     "top_left",
		RectPartTopRight:    "top_right",
		RectPartBottomLeft:  "bottom_left",
		RectPartBottomRight: "bottom_right",
	}
	sendFilesWayNames = map[SendFilesWay]string{
		SendFilesWayAlbum:  "album",
		SendFilesWayPhotos: "photos",
		SendFilesWayFiles:  "files",
	}
	submitNames = map[InputSubmitSettings]string{
		InputSubmitEnter:     "enter",
		InputSubmitCtrlEnter: "ctrl_enter",
		InputSubmitBoth:      "both",
		InputSubmitNone:      "none",
	}
	supportSwitchNames = map[SupportSwitch]string{
		SupportSwitchNone:     "none",
		SupportSwitchNext:     "next",
		SupportSwitchPrevious: "previous",
	}
)

func enumName[T ~int32](names map[T]string, v T, kind string) string {
	if name, ok := names[v]; ok {
		return name
	}
	return fmt.Sprintf("%s(%d)", kind, int32(v))
}

func (v SelectorTab) String() string { return enumName(selectorTabNames, v, "selector_tab") }
func (v Column) String() string      { return enumName(columnNames, v, "column") }
func (v RectPart) String() string    { return enumName(rectPartNames, v, "rect_part") }
func (v SendFilesWay) String() string {
	return enumName(sendFilesWayNames, v, "send_files_way")
}
func (v InputSubmitSettings) String() string {
	return enumName(submitNames, v, "submit")
}
func (v SupportSwitch) String() string {
	return enumName(supportSwitchNames, v, "support_switch")
}

// ParseEnum resolves s against allowed by name (case-insensitive) or by
// numeric code. Values outside allowed return ErrInvalidSettingValue.
func ParseEnum[T interface {
	~int32
	fmt.Stringer
}](s string, allowed []T) (T, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for _, v := range allowed {
		if v.String() == needle {
			return v, nil
		}
	}
	if n, err := strconv.ParseInt(needle, 10, 32); err == nil {
		for _, v := range allowed {
			if int64(v) == n {
				return v, nil
			}
		}
	}

	var zero T
	names := make([]string, len(allowed))
	for i, v := range allowed {
		names[i] = v.String()
	}
	return zero, ErrInvalidSettingValue.WithDetails(
		fmt.Sprintf("%q not one of %s", s, strings.Join(names, ", ")))
}
