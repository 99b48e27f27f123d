package token

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
)

// DefaultSecretBytes is the entropy used for opaque secrets (refresh token
// parts, verification tokens) when callers do not override it.
const DefaultSecretBytes = 32

// NewSecret returns a URL-safe random secret built from nBytes of entropy.
// The encoding is base64url without padding, so the result never contains
// the "." used as the refresh-token delimiter.
func NewSecret(nBytes int) (string, error) {
	if nBytes <= 0 {
		nBytes = DefaultSecretBytes
	}
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// HashSHA256Hex returns a SHA-256 hex digest of s.
// Secrets are always hashed before persistence; the plain value is never stored.
func HashSHA256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// HashHMACSHA256Hex returns an HMAC-SHA256 hex digest of s using key.
func HashHMACSHA256Hex(s string, key []byte) string {
	m := hmac.New(sha256.New, key)
	_, _ = m.Write([]byte(s))
	return hex.EncodeToString(m.Sum(nil))
}

// Equal compares two strings in constant time.
// A length mismatch returns false immediately; digest strings compared here
// are fixed-length, so that path carries no signal.
func Equal(a, b string) bool {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
