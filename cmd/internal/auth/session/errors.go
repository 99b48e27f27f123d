package session

import "errors"

var (
	// ErrSessionNotFound is returned when a session id matches no row.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionNotActive is the single indistinguishable failure returned by
	// Validate. Missing, revoked, and hash-mismatched sessions all map here so
	// callers cannot be used as a probing oracle.
	ErrSessionNotActive = errors.New("session not active")
)
