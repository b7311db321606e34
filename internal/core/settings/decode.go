package settings

import (
	"fmt"

	"github.com/Mesbahzade/tdesktop/internal/core/domain"
	"github.com/Mesbahzade/tdesktop/internal/storage/stream"
)

// DecodeReport describes how much of a blob was applied.
type DecodeReport struct {
	// Bytes is the blob size.
	Bytes int
	// GroupsApplied counts the layout groups committed to the result.
	GroupsApplied int
	// StoppedAt names the group the stream ended in, empty when the blob
	// ended on a group boundary.
	StoppedAt string
	// TrailingBytes counts bytes left after the last known group. They are
	// written by newer builds and ignored.
	TrailingBytes int
}

// Truncated reports whether the stream ended inside a group.
func (r DecodeReport) Truncated() bool {
	return r.StoppedAt != ""
}

// Result classifies the outcome for metrics.
func (r DecodeReport) Result(err error) string {
	switch {
	case err != nil:
		return "malformed"
	case r.Bytes == 0:
		return "empty"
	case r.Truncated():
		return "truncated"
	case r.GroupsApplied < len(schema):
		return "partial"
	default:
		return "ok"
	}
}

// Decode applies a persisted blob on top of current and returns the result.
//
// An empty blob yields current unchanged. Groups are read in layout order
// while bytes remain; a stream that ends inside a group discards that group
// and stops, older blobs simply lacking the newer groups. Every group not
// read takes its fixed absent values, or keeps current when it has none, so
// the result never depends on state older than the blob. Malformed content
// (negative counts, invalid UTF-8, a rejected auto-download policy) fails the
// whole decode with ErrMalformedSettings, and the caller keeps current.
func Decode(data []byte, current domain.SettingsSnapshot) (domain.SettingsSnapshot, DecodeReport, error) {
	report := DecodeReport{Bytes: len(data)}
	result := current.Clone()
	if len(data) == 0 {
		return result, report, nil
	}

	r := stream.NewReader(data)
	for i, group := range schema {
		if i > 0 && r.AtEnd() {
			break
		}

		scratch := result.Clone()
		if err := group.decode(r, &scratch); err != nil {
			return current, report, malformed(group.name, err)
		}

		switch r.Status() {
		case stream.StatusOK:
			result = scratch
			report.GroupsApplied++
			continue
		case stream.StatusReadPastEnd:
			report.StoppedAt = group.name
		default:
			return current, report, malformed(group.name, r.Err())
		}
		break
	}

	report.TrailingBytes = r.Remaining()
	for _, group := range schema[report.GroupsApplied:] {
		if group.absent != nil {
			group.absent(&result)
		}
	}
	result.Normalize()
	return result, report, nil
}

func malformed(group string, cause error) error {
	if domain.IsDomainError(cause, domain.ErrAutoDownloadRejected.Code) {
		return domain.ErrMalformedSettings.WithDetails(fmt.Sprintf("group %s", group)).WithCause(cause)
	}
	return domain.ErrMalformedSettings.WithDetails(fmt.Sprintf("group %s: %v", group, cause)).WithCause(cause)
}
