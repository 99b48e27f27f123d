// Package session issues, rotates, and revokes refresh tokens bound to
// server-side session records.
//
// A refresh token handed to a client is the composite "sessionID.secret";
// only the SHA-256 hash of the secret is persisted. Rotation replaces the
// stored hash atomically, and presentation of an already-superseded secret
// is treated as evidence of token theft: the session is revoked on the spot.
package session
