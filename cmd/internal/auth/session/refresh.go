package session

import (
	"strings"

	"chittersync/cmd/security/token"
)

// refreshDelimiter separates the session id from the secret in the composite
// token handed to clients. "." appears in neither a ULID nor base64url, so
// splitting is unambiguous.
const refreshDelimiter = "."

// maxRawTokenLen bounds pathological inputs before any parsing.
const maxRawTokenLen = 4096

func buildRefreshToken(sessionID string, nBytes int) (composite, hashHex string, err error) {
	secret, err := token.NewSecret(nBytes)
	if err != nil {
		return "", "", err
	}
	return sessionID + refreshDelimiter + secret, token.HashSHA256Hex(secret), nil
}

// parseRefreshToken splits a composite token into session id and secret.
// The id part lets the rotate/validate path locate the session row in O(1)
// before any hashing happens.
func parseRefreshToken(raw string) (sessionID, secret string, ok bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || len(raw) > maxRawTokenLen {
		return "", "", false
	}
	id, rest, found := strings.Cut(raw, refreshDelimiter)
	if !found || id == "" || rest == "" {
		return "", "", false
	}
	return id, rest, true
}

// secretMatches compares the presented secret against the stored hash in
// constant time, via hashes on both sides.
func secretMatches(stored Session, secret string) bool {
	return token.Equal(stored.RefreshHash, token.HashSHA256Hex(secret))
}
