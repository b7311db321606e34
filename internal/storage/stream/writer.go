package stream

import "encoding/binary"

// Writer encodes primitives into a growable buffer.
type Writer struct {
	buf []byte
}

// NewWriter creates a writer with the given capacity hint.
func NewWriter(capacity int) *Writer {
	if capacity < 0 {
		capacity = 0
	}
	return &Writer{buf: make([]byte, 0, capacity)}
}

// WriteInt8 appends a signed byte.
func (w *Writer) WriteInt8(v int8) {
	w.buf = append(w.buf, byte(v))
}

// WriteInt32 appends a little-endian int32.
func (w *Writer) WriteInt32(v int32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, uint32(v))
}

// WriteBool appends a boolean as int32 1 or 0.
func (w *Writer) WriteBool(v bool) {
	if v {
		w.WriteInt32(1)
		return
	}
	w.WriteInt32(0)
}

// WriteUint32 appends a little-endian uint32.
func (w *Writer) WriteUint32(v uint32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

// WriteUint64 appends a little-endian uint64.
func (w *Writer) WriteUint64(v uint64) {
	w.buf = binary.LittleEndian.AppendUint64(w.buf, v)
}

// WriteBytes appends a length-prefixed blob. A nil slice is written as null.
func (w *Writer) WriteBytes(b []byte) {
	if b == nil {
		w.WriteUint32(nullLength)
		return
	}
	w.WriteUint32(uint32(len(b)))
	w.buf = append(w.buf, b...)
}

// WriteString appends a length-prefixed UTF-8 string.
func (w *Writer) WriteString(s string) {
	w.WriteUint32(uint32(len(s)))
	w.buf = append(w.buf, s...)
}

// Len returns the number of bytes written.
func (w *Writer) Len() int {
	return len(w.buf)
}

// Bytes returns the encoded buffer.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// StringSize returns the encoded size of s.
func StringSize(s string) int {
	return 4 + len(s)
}

// BytesSize returns the encoded size of b.
func BytesSize(b []byte) int {
	return 4 + len(b)
}
