package stream

import (
	"encoding/binary"
	"errors"
	"unicode/utf8"
)

// Errors reported by Reader.Err.
var (
	ErrReadPastEnd = errors.New("stream: read past end")
	ErrCorruptData = errors.New("stream: corrupt data")
)

// nullLength is the length prefix written for null strings and blobs.
const nullLength = 0xFFFFFFFF

// Status is the sticky state of a Reader.
type Status int

const (
	StatusOK Status = iota
	StatusReadPastEnd
	StatusReadCorruptData
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusReadPastEnd:
		return "read_past_end"
	case StatusReadCorruptData:
		return "read_corrupt_data"
	default:
		return "unknown"
	}
}

// Reader decodes primitives from an in-memory byte slice.
type Reader struct {
	data   []byte
	pos    int
	status Status
}

// NewReader creates a reader over data. The slice is not copied.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// AtEnd reports whether every byte has been consumed.
func (r *Reader) AtEnd() bool {
	return r.pos >= len(r.data)
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

// Offset returns the current read position.
func (r *Reader) Offset() int {
	return r.pos
}

// Status returns the current status.
func (r *Reader) Status() Status {
	return r.status
}

// SetStatus records a failure. The first non-OK status wins.
func (r *Reader) SetStatus(status Status) {
	if r.status == StatusOK {
		r.status = status
	}
}

// Err maps the status to an error, or nil when the stream is healthy.
func (r *Reader) Err() error {
	switch r.status {
	case StatusOK:
		return nil
	case StatusReadPastEnd:
		return ErrReadPastEnd
	default:
		return ErrCorruptData
	}
}

func (r *Reader) take(n int) []byte {
	if r.status != StatusOK {
		return nil
	}
	if n < 0 || r.Remaining() < n {
		r.status = StatusReadPastEnd
		r.pos = len(r.data)
		return nil
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b
}

// ReadInt8 reads a signed byte.
func (r *Reader) ReadInt8() int8 {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return int8(b[0])
}

// ReadInt32 reads a little-endian int32.
func (r *Reader) ReadInt32() int32 {
	return int32(r.ReadUint32())
}

// ReadUint32 reads a little-endian uint32.
func (r *Reader) ReadUint32() uint32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

// ReadUint64 reads a little-endian uint64.
func (r *Reader) ReadUint64() uint64 {
	b := r.take(8)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

// ReadBytes reads a length-prefixed blob. A null blob yields nil.
// The returned slice is a copy.
func (r *Reader) ReadBytes() []byte {
	length := r.ReadUint32()
	if r.status != StatusOK || length == nullLength {
		return nil
	}
	if uint64(length) > uint64(r.Remaining()) {
		r.SetStatus(StatusReadPastEnd)
		r.pos = len(r.data)
		return nil
	}
	b := r.take(int(length))
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// ReadString reads a length-prefixed UTF-8 string. Invalid UTF-8 marks the
// stream as corrupt.
func (r *Reader) ReadString() string {
	b := r.ReadBytes()
	if b == nil {
		return ""
	}
	if !utf8.Valid(b) {
		r.SetStatus(StatusReadCorruptData)
		return ""
	}
	return string(b)
}
