// Package stream provides the binary data stream used by persisted settings.
//
// All integers are little-endian. Strings and byte blobs carry a uint32
// length prefix; the prefix 0xFFFFFFFF marks a null value.
//
// A Reader never fails a single call. Instead it keeps a sticky status in
// the same spirit as a framed WAL reader:
//
//   - StatusOK: every read so far succeeded
//   - StatusReadPastEnd: a read needed more bytes than remained (truncation)
//   - StatusReadCorruptData: the bytes were present but malformed
//
// After the status leaves StatusOK every further read returns the zero value.
package stream
