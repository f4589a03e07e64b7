package object

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash is a 64-character lowercase hex-encoded SHA-256 digest. It is both
// the object's address in the store and its integrity check: the stored
// bytes must hash back to their filename.
type Hash string

// HashBytes computes the SHA-256 digest of the exact byte content. No
// normalization is applied; two inputs hash equal iff they are byte-equal.
func HashBytes(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// Short returns the abbreviated form used in human-facing output.
func (h Hash) Short() string {
	if len(h) > 8 {
		return string(h[:8])
	}
	return string(h)
}
