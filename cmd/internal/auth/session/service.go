package session

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
)

// RotateStatus classifies the outcome of a Rotate call. The full enum is
// internal: the HTTP boundary collapses everything except StatusRotated into
// one generic failure, while audit logging keeps the distinction.
type RotateStatus string

const (
	// StatusInvalid: malformed token or unknown session id.
	StatusInvalid RotateStatus = "invalid"
	// StatusRevoked: the session exists but is already terminal.
	StatusRevoked RotateStatus = "revoked"
	// StatusReused: an already-superseded secret was replayed; the session
	// has been revoked as a side effect.
	StatusReused RotateStatus = "reused"
	// StatusRotated: the secret matched and was replaced.
	StatusRotated RotateStatus = "rotated"
)

// RotateResult carries the outcome of a rotation attempt.
// Session is populated for every status except StatusInvalid;
// RefreshToken only for StatusRotated.
type RotateResult struct {
	Status       RotateStatus
	Session      Session
	RefreshToken string
}

// Config controls session issuance.
type Config struct {
	// SecretBytes is the entropy of the refresh secret.
	SecretBytes int
}

// DefaultConfig returns a secure default configuration.
func DefaultConfig() Config {
	return Config{SecretBytes: 32}
}

// Service implements the session lifecycle: issue, rotate, validate, revoke.
type Service struct {
	cfg   Config
	store Store
}

// NewService constructs a Service over the given store.
func NewService(cfg Config, store Store) *Service {
	if cfg.SecretBytes <= 0 {
		cfg.SecretBytes = 32
	}
	return &Service{cfg: cfg, store: store}
}

// Create mints a new session for userID and returns it together with the
// composite refresh token. The token is shown to the client exactly once
// and never logged or persisted in plain form.
func (s *Service) Create(ctx context.Context, now time.Time, userID string, meta Metadata) (Session, string, error) {
	id := ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String()

	composite, hash, err := buildRefreshToken(id, s.cfg.SecretBytes)
	if err != nil {
		return Session{}, "", err
	}

	sess := Session{
		ID:          id,
		UserID:      userID,
		RefreshHash: hash,
		UserAgent:   meta.UserAgent,
		IP:          meta.IP,
		CreatedAt:   now,
		LastSeenAt:  now,
	}
	if err := s.store.Create(ctx, sess); err != nil {
		return Session{}, "", err
	}
	return sess, composite, nil
}

// Rotate replaces the session's refresh secret.
//
// Outcomes:
//   - StatusInvalid: malformed token or unknown session id.
//   - StatusRevoked: the session is terminal.
//   - StatusReused: the presented secret does not match the stored hash.
//     An old, already-rotated token was replayed; the session is revoked
//     immediately as theft mitigation.
//   - StatusRotated: a fresh secret was stored; the returned composite token
//     supersedes the old one, which is invalid from this instant.
//
// The hash swap goes through Store.ReplaceRefreshHash, so two concurrent
// rotations of the same token resolve to exactly one StatusRotated; the
// loser observes the mismatch and lands on StatusReused.
func (s *Service) Rotate(ctx context.Context, now time.Time, rawToken string, meta Metadata) (RotateResult, error) {
	sessionID, secret, ok := parseRefreshToken(rawToken)
	if !ok {
		return RotateResult{Status: StatusInvalid}, nil
	}

	sess, err := s.store.GetByID(ctx, sessionID)
	if err == ErrSessionNotFound {
		return RotateResult{Status: StatusInvalid}, nil
	}
	if err != nil {
		return RotateResult{}, err
	}

	if !sess.Active() {
		return RotateResult{Status: StatusRevoked, Session: sess}, nil
	}

	if !secretMatches(sess, secret) {
		return s.markReused(ctx, now, sess)
	}

	composite, newHash, err := buildRefreshToken(sess.ID, s.cfg.SecretBytes)
	if err != nil {
		return RotateResult{}, err
	}

	swapped, err := s.store.ReplaceRefreshHash(ctx, now, sess.ID, sess.RefreshHash, newHash, meta)
	if err != nil {
		return RotateResult{}, err
	}
	if !swapped {
		// Lost a race: someone rotated or revoked between read and swap.
		current, err := s.store.GetByID(ctx, sess.ID)
		if err == ErrSessionNotFound {
			return RotateResult{Status: StatusInvalid}, nil
		}
		if err != nil {
			return RotateResult{}, err
		}
		if !current.Active() {
			return RotateResult{Status: StatusRevoked, Session: current}, nil
		}
		return s.markReused(ctx, now, current)
	}

	sess.RefreshHash = newHash
	sess.LastSeenAt = now
	if meta.UserAgent != nil {
		sess.UserAgent = meta.UserAgent
	}
	if meta.IP != nil {
		sess.IP = meta.IP
	}
	return RotateResult{Status: StatusRotated, Session: sess, RefreshToken: composite}, nil
}

func (s *Service) markReused(ctx context.Context, now time.Time, sess Session) (RotateResult, error) {
	if err := s.store.Revoke(ctx, now, sess.ID); err != nil {
		return RotateResult{}, err
	}
	revoked := now
	sess.RevokedAt = &revoked
	return RotateResult{Status: StatusReused, Session: sess}, nil
}

// Validate is the read-only identity resolution path: it matches the hash
// but mutates nothing. Every failure mode returns ErrSessionNotActive.
func (s *Service) Validate(ctx context.Context, rawToken string) (Session, error) {
	sessionID, secret, ok := parseRefreshToken(rawToken)
	if !ok {
		return Session{}, ErrSessionNotActive
	}

	sess, err := s.store.GetByID(ctx, sessionID)
	if err == ErrSessionNotFound {
		return Session{}, ErrSessionNotActive
	}
	if err != nil {
		return Session{}, err
	}
	if !sess.Active() || !secretMatches(sess, secret) {
		return Session{}, ErrSessionNotActive
	}
	return sess, nil
}

// Revoke stamps one session terminal (e.g. logout from a device). Idempotent.
func (s *Service) Revoke(ctx context.Context, now time.Time, sessionID string) error {
	return s.store.Revoke(ctx, now, sessionID)
}

// RevokeAll stamps all of a user's sessions terminal ("log out everywhere").
func (s *Service) RevokeAll(ctx context.Context, now time.Time, userID string) error {
	return s.store.RevokeAll(ctx, now, userID)
}

// ListForUser returns the user's sessions, newest first.
func (s *Service) ListForUser(ctx context.Context, userID string) ([]Session, error) {
	return s.store.ListByUser(ctx, userID)
}
