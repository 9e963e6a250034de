package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// ShortHash returns the first n hex characters of the SHA-256 of s.
// n is clamped to the full digest length.
func ShortHash(s string, n int) string {
	sum := sha256.Sum256([]byte(s))
	full := hex.EncodeToString(sum[:])
	if n <= 0 || n > len(full) {
		return full
	}
	return full[:n]
}
