// Package crypto provides the password digest used for group access gating.
package crypto

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashPassword returns the hex-encoded sha256 digest of password. Groups are
// looked up by digest equality, so the digest must be deterministic (a salted
// scheme would break the lookup).
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}
