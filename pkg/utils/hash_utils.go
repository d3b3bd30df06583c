package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint returns a stable SHA-256 hex digest of s. Empty input yields "".
func Fingerprint(s string) string {
	if s == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// ShortFingerprint returns the first 8 characters of Fingerprint, for log output.
func ShortFingerprint(s string) string {
	full := Fingerprint(s)
	if len(full) >= 8 {
		return full[:8]
	}
	return full
}
