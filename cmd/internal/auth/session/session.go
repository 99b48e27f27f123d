package session

import (
	"context"
	"net"
	"time"
)

// Metadata is the last-seen client context attached to a session.
type Metadata struct {
	UserAgent *string
	IP        *net.IP
}

// Session represents one authenticated device/browser binding.
// IDs are ULIDs, so natural sort order equals creation order.
// RefreshHash holds the hash of the current refresh secret; the secret
// itself is never persisted.
type Session struct {
	ID          string
	UserID      string
	RefreshHash string

	UserAgent *string
	IP        *net.IP

	CreatedAt  time.Time
	LastSeenAt time.Time
	RevokedAt  *time.Time
}

// Active reports whether the session can still be rotated or validated.
// Revocation is terminal: a revoked session never becomes active again.
func (s Session) Active() bool { return s.RevokedAt == nil }

// Store abstracts persistence for session state.
//
// ReplaceRefreshHash is the rotation-safety primitive: implementations must
// make the "compare stored hash, write new hash" sequence atomic per row
// (a single conditional update or equivalent). A concurrent rotation racing
// on the same secret must observe false, never a double win.
type Store interface {
	// Create inserts a new session row.
	Create(ctx context.Context, s Session) error

	// GetByID loads a session row by id. Returns ErrSessionNotFound.
	GetByID(ctx context.Context, sessionID string) (Session, error)

	// ListByUser returns all of a user's sessions, newest first.
	ListByUser(ctx context.Context, userID string) ([]Session, error)

	// ReplaceRefreshHash atomically swaps oldHash for newHash on an active
	// session, bumping last-seen and client metadata. It reports false when
	// no active row with oldHash matched (already rotated or revoked).
	ReplaceRefreshHash(ctx context.Context, now time.Time, sessionID, oldHash, newHash string, meta Metadata) (bool, error)

	// Revoke stamps revoked_at on one session. Idempotent: revoking an
	// already-revoked session is a safe no-op.
	Revoke(ctx context.Context, now time.Time, sessionID string) error

	// RevokeAll stamps revoked_at on all of a user's active sessions.
	RevokeAll(ctx context.Context, now time.Time, userID string) error
}
