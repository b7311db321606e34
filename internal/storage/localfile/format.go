package localfile

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
)

// File layout, little-endian:
//
//	magic    [4]byte "TDF$"
//	version  int32   application version that wrote the file
//	flags    uint8   flagEncrypted
//	length   uint32  payload length
//	payload  []byte  settings blob, sealed when flagEncrypted is set
//	checksum [32]byte sha256 of everything above
var magic = []byte("TDF$")

const (
	flagEncrypted byte = 1 << 0

	headerSize   = 4 + 4 + 1 + 4
	checksumSize = sha256.Size
)

var (
	ErrInvalidMagic     = errors.New("localfile: invalid magic")
	ErrChecksumMismatch = errors.New("localfile: checksum mismatch")
	ErrTruncated        = errors.New("localfile: truncated file")
)

type header struct {
	Version   int32
	Encrypted bool
}

func encodeFile(h header, payload []byte) []byte {
	buf := make([]byte, 0, headerSize+len(payload)+checksumSize)
	buf = append(buf, magic...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(h.Version))
	var flags byte
	if h.Encrypted {
		flags |= flagEncrypted
	}
	buf = append(buf, flags)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(payload)))
	buf = append(buf, payload...)
	sum := sha256.Sum256(buf)
	return append(buf, sum[:]...)
}

// decodeFile validates data and returns its header and payload. The
// payload aliases data.
func decodeFile(data []byte) (header, []byte, error) {
	if len(data) < headerSize+checksumSize {
		return header{}, nil, ErrTruncated
	}
	if !bytes.Equal(data[:len(magic)], magic) {
		return header{}, nil, ErrInvalidMagic
	}

	body := data[:len(data)-checksumSize]
	sum := sha256.Sum256(body)
	if !bytes.Equal(sum[:], data[len(body):]) {
		return header{}, nil, ErrChecksumMismatch
	}

	h := header{
		Version:   int32(binary.LittleEndian.Uint32(body[4:8])),
		Encrypted: body[8]&flagEncrypted != 0,
	}
	length := binary.LittleEndian.Uint32(body[9:13])
	if uint64(length) != uint64(len(body)-headerSize) {
		return header{}, nil, fmt.Errorf("localfile: payload length %d, have %d: %w", length, len(body)-headerSize, ErrTruncated)
	}
	return h, body[headerSize:], nil
}

// corrupt reports errors that make a file unusable but leave older
// backups worth trying.
func corrupt(err error) bool {
	return errors.Is(err, ErrInvalidMagic) ||
		errors.Is(err, ErrChecksumMismatch) ||
		errors.Is(err, ErrTruncated)
}
