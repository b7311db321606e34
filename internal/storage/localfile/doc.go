// Package localfile stores settings blobs as one file per account.
//
// Files are written to a temp name and renamed into place; the previous
// file moves into a short backup chain that ReadSettings falls back to
// when the primary fails its checksum. With a passcode, payloads are
// sealed with a key derived from the passcode and a per-directory salt,
// and bound to the account id.
package localfile
