// Package autodownload holds the per-chat-kind media auto-download policy.
//
// The policy is persisted as an opaque blob nested inside the session
// settings: a version byte followed by one int32 byte limit for every
// (source, type) pair.
package autodownload

import (
	"errors"
	"fmt"

	"github.com/Mesbahzade/tdesktop/internal/storage/stream"
)

// Errors returned by SetFromSerialized.
var (
	ErrEmpty              = errors.New("autodownload: empty blob")
	ErrUnsupportedVersion = errors.New("autodownload: unsupported version")
	ErrTruncated          = errors.New("autodownload: truncated blob")
)

const (
	// Version is the current blob format version.
	Version int8 = 1

	// MaxBytesLimit is the largest size limit the policy accepts.
	MaxBytesLimit int32 = 1500 * 1024 * 1024

	// DefaultAutoPlayLimit applies to auto-played videos by default.
	DefaultAutoPlayLimit int32 = 10 * 1024 * 1024
)

// Source is the kind of chat a file comes from.
type Source int

const (
	SourceUser Source = iota
	SourceGroup
	SourceChannel

	sourcesCount
)

// String returns the source name.
func (s Source) String() string {
	switch s {
	case SourceUser:
		return "user"
	case SourceGroup:
		return "group"
	case SourceChannel:
		return "channel"
	default:
		return fmt.Sprintf("source(%d)", int(s))
	}
}

// Type is the kind of media.
type Type int

const (
	TypePhoto Type = iota
	TypeAutoPlayVideo
	TypeVoiceMessage
	TypeAutoPlayVideoMessage
	TypeMusic
	TypeAutoPlayGIF
	TypeFile

	typesCount
)

// String returns the media type name.
func (t Type) String() string {
	switch t {
	case TypePhoto:
		return "photo"
	case TypeAutoPlayVideo:
		return "autoplay_video"
	case TypeVoiceMessage:
		return "voice_message"
	case TypeAutoPlayVideoMessage:
		return "autoplay_video_message"
	case TypeMusic:
		return "music"
	case TypeAutoPlayGIF:
		return "autoplay_gif"
	case TypeFile:
		return "file"
	default:
		return fmt.Sprintf("type(%d)", int(t))
	}
}

// Sources lists every source in serialization order.
func Sources() []Source {
	return []Source{SourceUser, SourceGroup, SourceChannel}
}

// Types lists every media type in serialization order.
func Types() []Type {
	return []Type{
		TypePhoto,
		TypeAutoPlayVideo,
		TypeVoiceMessage,
		TypeAutoPlayVideoMessage,
		TypeMusic,
		TypeAutoPlayGIF,
		TypeFile,
	}
}

// Set holds the byte limits for one source.
type Set struct {
	limits [typesCount]int32
}

// Full is the complete policy. The zero value disables every download;
// use Defaults for the shipped policy. Full is comparable with ==.
type Full struct {
	data [sourcesCount]Set
}

// Defaults returns the policy a fresh session starts with.
func Defaults() Full {
	var f Full
	for _, source := range Sources() {
		f.SetLimit(source, TypePhoto, MaxBytesLimit)
		f.SetLimit(source, TypeVoiceMessage, MaxBytesLimit)
		f.SetLimit(source, TypeAutoPlayVideoMessage, MaxBytesLimit)
		f.SetLimit(source, TypeAutoPlayGIF, MaxBytesLimit)
		f.SetLimit(source, TypeAutoPlayVideo, DefaultAutoPlayLimit)
	}
	f.SetLimit(SourceChannel, TypeVoiceMessage, 0)
	return f
}

func valid(source Source, kind Type) bool {
	return source >= 0 && source < sourcesCount && kind >= 0 && kind < typesCount
}

// Limit returns the byte limit for a source and media type.
func (f Full) Limit(source Source, kind Type) int32 {
	if !valid(source, kind) {
		return 0
	}
	return f.data[source].limits[kind]
}

// SetLimit sets the byte limit, clamped to [0, MaxBytesLimit].
func (f *Full) SetLimit(source Source, kind Type, limit int32) {
	if !valid(source, kind) {
		return
	}
	if limit < 0 {
		limit = 0
	} else if limit > MaxBytesLimit {
		limit = MaxBytesLimit
	}
	f.data[source].limits[kind] = limit
}

// ShouldDownload reports whether a file of size bytes is downloaded
// automatically.
func (f Full) ShouldDownload(source Source, kind Type, size int64) bool {
	limit := f.Limit(source, kind)
	return limit > 0 && size <= int64(limit)
}

// Serialize encodes the policy.
func (f Full) Serialize() []byte {
	w := stream.NewWriter(1 + int(sourcesCount)*int(typesCount)*4)
	w.WriteInt8(Version)
	for _, set := range f.data {
		for _, limit := range set.limits {
			w.WriteInt32(limit)
		}
	}
	return w.Bytes()
}

// SetFromSerialized replaces the policy with a decoded blob. On error the
// policy is left untouched.
func (f *Full) SetFromSerialized(data []byte) error {
	if len(data) == 0 {
		return ErrEmpty
	}

	r := stream.NewReader(data)
	version := r.ReadInt8()
	if version != Version {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}

	var result Full
	for i := range result.data {
		for j := range result.data[i].limits {
			limit := r.ReadInt32()
			if r.Status() != stream.StatusOK {
				return ErrTruncated
			}
			result.SetLimit(Source(i), Type(j), limit)
		}
	}

	*f = result
	return nil
}
