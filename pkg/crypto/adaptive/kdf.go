package adaptive

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/hkdf"
)

const (
	// SaltLength is the salt size produced by NewSalt.
	SaltLength = 16

	// KeyLength is the size of keys returned by DeriveKey.
	KeyLength = 32

	// MinKeyLength is the shortest master key DeriveSubkey accepts.
	MinKeyLength = 16

	argon2Time    = 3
	argon2Memory  = 64 * 1024
	argon2Threads = 4
)

var (
	ErrEmptyPasscode = errors.New("adaptive: empty passcode")
	ErrShortSalt     = errors.New("adaptive: salt too short")
	ErrKeyTooShort   = errors.New("adaptive: key too short")
)

// NewSalt returns SaltLength random bytes.
func NewSalt() ([]byte, error) {
	salt := make([]byte, SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("adaptive: salt: %w", err)
	}
	return salt, nil
}

// DeriveKey stretches a local passcode into a KeyLength key with argon2id.
// The same passcode and salt always give the same key.
func DeriveKey(passcode, salt []byte) ([]byte, error) {
	if len(passcode) == 0 {
		return nil, ErrEmptyPasscode
	}
	if len(salt) < SaltLength {
		return nil, ErrShortSalt
	}
	return argon2.IDKey(passcode, salt, argon2Time, argon2Memory, argon2Threads, KeyLength), nil
}

// DeriveSubkey derives a purpose-bound key from a master key using HKDF.
func DeriveSubkey(masterKey []byte, info string, length int) ([]byte, error) {
	if len(masterKey) < MinKeyLength {
		return nil, ErrKeyTooShort
	}

	reader := hkdf.New(sha256.New, masterKey, nil, []byte(info))
	key := make([]byte, length)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, fmt.Errorf("adaptive: derive subkey: %w", err)
	}
	return key, nil
}

// ZeroKey overwrites key in place.
func ZeroKey(key []byte) {
	clear(key)
}
