// Package crypto holds the two primitives everything above it relies on:
// collision-resistant digests and constant-time equality. Secret-vs-supplied
// comparisons must go through Equal so response latency carries no information
// about where the first mismatching byte sits.
package crypto

import (
	"crypto/sha256"
	"crypto/subtle"
)

// DigestSize is the size in bytes of a Digest result.
const DigestSize = sha256.Size

// Digest returns the SHA-256 digest of the concatenation of the given parts.
func Digest(parts ...[]byte) []byte {
	h := sha256.New()
	for _, p := range parts {
		h.Write(p)
	}
	return h.Sum(nil)
}

// Equal compares two byte slices in time independent of their contents.
// Slices of different lengths compare unequal, but the comparison over the
// common fixed-size digest form still runs to completion.
func Equal(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}
