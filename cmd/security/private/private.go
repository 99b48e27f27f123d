// Package private hashes personally identifying strings (login handles,
// emails, phone numbers) so the store can index and equality-match them
// without ever holding the plaintext.
package private

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"chittersync/cmd/security/token"
)

const (
	// PepperEnvKey is the env var name for the identifier-hash pepper.
	// This secret is distinct from the password pepper.
	PepperEnvKey = "CHITTER_PRIVATE_PEPPER"

	minPepperLength = 32

	// devPepper keeps local development working without configuration.
	// Production refuses to start without a real pepper.
	devPepper = "dev-private-pepper"
)

// Public, stable errors for callers.
var (
	ErrPepperMissing  = errors.New("private: pepper not configured")
	ErrPepperTooShort = errors.New("private: pepper too short")
)

// Hasher computes deterministic keyed hashes of normalized identifiers.
// Determinism is the point: the same normalized input always yields the same
// output, so "does this login handle exist" is a plain equality lookup.
type Hasher struct {
	pepper []byte
}

// New constructs a Hasher with an explicit pepper (tests, tooling).
func New(pepper string) *Hasher {
	return &Hasher{pepper: []byte(pepper)}
}

// FromEnv builds a Hasher from CHITTER_PRIVATE_PEPPER.
// In production a missing pepper or one shorter than 32 characters is a
// startup error; in development a fixed dev pepper is substituted.
func FromEnv(production bool) (*Hasher, error) {
	pepper := strings.TrimSpace(os.Getenv(PepperEnvKey))
	if pepper == "" {
		if production {
			return nil, fmt.Errorf("%w: set %s", ErrPepperMissing, PepperEnvKey)
		}
		pepper = devPepper
	} else if len(pepper) < minPepperLength && production {
		return nil, fmt.Errorf("%w: %s must be at least %d characters", ErrPepperTooShort, PepperEnvKey, minPepperLength)
	}
	return New(pepper), nil
}

// Normalize canonicalizes an identifier before hashing or lookup.
// Write-time and query-time must agree or lookups silently fail, so every
// caller goes through this exact function.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// HashIdentifier returns the hex HMAC-SHA256 of the normalized value.
func (h *Hasher) HashIdentifier(value string) string {
	return token.HashHMACSHA256Hex(Normalize(value), h.pepper)
}
