// Package adaptive provides authenticated encryption for local settings
// files.
//
// New picks AES-256-GCM on architectures where Go accelerates AES and
// ChaCha20-Poly1305 elsewhere. Keys come from a local passcode through
// DeriveKey (argon2id) and are split per purpose with DeriveSubkey (HKDF).
//
//	key, err := adaptive.DeriveKey(passcode, salt)
//	c, err := adaptive.New(key)
//	sealed, err := c.Encrypt(plaintext, []byte(accountID))
package adaptive
