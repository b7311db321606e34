package adaptive

import (
	"bytes"
	"errors"
	"testing"
)

var key32 = make([]byte, 32)

func init() {
	for i := range key32 {
		key32[i] = byte(i)
	}
}

func allCiphers(t *testing.T) []Cipher {
	t.Helper()
	gcm, err := NewAESGCM(key32)
	if err != nil {
		t.Fatalf("NewAESGCM() error = %v", err)
	}
	cc, err := NewChaCha20(key32)
	if err != nil {
		t.Fatalf("NewChaCha20() error = %v", err)
	}
	return []Cipher{gcm, cc}
}

func TestNew(t *testing.T) {
	c, err := New(key32)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if c.Type() != CipherAESGCM && c.Type() != CipherChaCha20 {
		t.Errorf("New() returned unknown cipher type: %s", c.Type())
	}
}

func TestNewWithType(t *testing.T) {
	tests := []struct {
		kind    CipherType
		keyLen  int
		wantErr bool
	}{
		{CipherAESGCM, 16, false},
		{CipherAESGCM, 24, false},
		{CipherAESGCM, 32, false},
		{CipherAESGCM, 15, true},
		{CipherChaCha20, 32, false},
		{CipherChaCha20, 16, true},
		{"", 32, false},
		{"rot13", 32, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			c, err := NewWithType(make([]byte, tt.keyLen), tt.kind)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewWithType(%q, %d) error = %v, wantErr %v", tt.kind, tt.keyLen, err, tt.wantErr)
			}
			if err == nil && tt.kind != "" && c.Type() != tt.kind {
				t.Errorf("Type() = %s, want %s", c.Type(), tt.kind)
			}
		})
	}
}

func TestParseCipherType(t *testing.T) {
	if got, err := ParseCipherType("chacha20-poly1305"); err != nil || got != CipherChaCha20 {
		t.Errorf("ParseCipherType(chacha20-poly1305) = %q, %v", got, err)
	}
	if _, err := ParseCipherType("des"); err == nil {
		t.Error("expected error for unknown type")
	}
}

func TestEncryptDecrypt(t *testing.T) {
	for _, c := range allCiphers(t) {
		t.Run(string(c.Type()), func(t *testing.T) {
			plaintexts := [][]byte{
				{},
				[]byte("a"),
				bytes.Repeat([]byte("settings"), 512),
			}
			aad := []byte("account-1")

			for _, p := range plaintexts {
				sealed, err := c.Encrypt(p, aad)
				if err != nil {
					t.Fatalf("Encrypt() error = %v", err)
				}
				if len(sealed) != len(p)+c.NonceSize()+c.Overhead() {
					t.Errorf("sealed length = %d, want %d", len(sealed), len(p)+c.NonceSize()+c.Overhead())
				}
				got, err := c.Decrypt(sealed, aad)
				if err != nil {
					t.Fatalf("Decrypt() error = %v", err)
				}
				if !bytes.Equal(got, p) {
					t.Error("Decrypt() returned different plaintext")
				}
			}
		})
	}
}

func TestDecryptFailures(t *testing.T) {
	for _, c := range allCiphers(t) {
		t.Run(string(c.Type()), func(t *testing.T) {
			sealed, err := c.Encrypt([]byte("payload"), []byte("a"))
			if err != nil {
				t.Fatal(err)
			}

			tampered := bytes.Clone(sealed)
			tampered[len(tampered)-1] ^= 0xFF
			if _, err := c.Decrypt(tampered, []byte("a")); !errors.Is(err, ErrDecrypt) {
				t.Errorf("tampered: error = %v, want ErrDecrypt", err)
			}

			if _, err := c.Decrypt(sealed, []byte("b")); !errors.Is(err, ErrDecrypt) {
				t.Errorf("wrong aad: error = %v, want ErrDecrypt", err)
			}

			if _, err := c.Decrypt(sealed[:c.NonceSize()], nil); !errors.Is(err, ErrCiphertextTooShort) {
				t.Errorf("short: error = %v, want ErrCiphertextTooShort", err)
			}
		})
	}
}

func TestEncrypt_Uniqueness(t *testing.T) {
	c, err := New(key32)
	if err != nil {
		t.Fatal(err)
	}
	a, _ := c.Encrypt([]byte("same"), nil)
	b, _ := c.Encrypt([]byte("same"), nil)
	if bytes.Equal(a, b) {
		t.Error("two encryptions of the same plaintext should differ")
	}
}

func TestDeriveKey(t *testing.T) {
	salt, err := NewSalt()
	if err != nil {
		t.Fatal(err)
	}

	k1, err := DeriveKey([]byte("1234"), salt)
	if err != nil {
		t.Fatal(err)
	}
	k2, _ := DeriveKey([]byte("1234"), salt)
	if !bytes.Equal(k1, k2) || len(k1) != KeyLength {
		t.Error("DeriveKey should be deterministic for passcode and salt")
	}

	other, _ := NewSalt()
	k3, _ := DeriveKey([]byte("1234"), other)
	if bytes.Equal(k1, k3) {
		t.Error("different salts should give different keys")
	}

	if _, err := DeriveKey(nil, salt); !errors.Is(err, ErrEmptyPasscode) {
		t.Errorf("empty passcode: error = %v", err)
	}
	if _, err := DeriveKey([]byte("x"), salt[:4]); !errors.Is(err, ErrShortSalt) {
		t.Errorf("short salt: error = %v", err)
	}
}

func TestDeriveSubkey(t *testing.T) {
	a, err := DeriveSubkey(key32, "settings", 32)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := DeriveSubkey(key32, "other", 32)
	if bytes.Equal(a, b) {
		t.Error("subkeys for different purposes should differ")
	}
	if _, err := DeriveSubkey(key32[:8], "x", 32); !errors.Is(err, ErrKeyTooShort) {
		t.Errorf("short master: error = %v", err)
	}

	ZeroKey(a)
	if !bytes.Equal(a, make([]byte, 32)) {
		t.Error("ZeroKey should clear the key")
	}
}

func BenchmarkEncrypt_1KB(b *testing.B) {
	c, _ := New(key32)
	data := make([]byte, 1024)
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = c.Encrypt(data, nil)
	}
}
