package session

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store used when no database is configured and
// as the substitute store in tests. All methods copy rows in and out so
// callers never share mutable state with the store.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]Session
}

// NewMemoryStore constructs an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]Session)}
}

// Create inserts a new session row.
func (s *MemoryStore) Create(ctx context.Context, sess Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
	return nil
}

// GetByID loads a session row by id.
func (s *MemoryStore) GetByID(ctx context.Context, sessionID string) (Session, error) {
	if err := ctx.Err(); err != nil {
		return Session{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	return sess, nil
}

// ListByUser returns a user's sessions newest first (descending ULID order).
func (s *MemoryStore) ListByUser(ctx context.Context, userID string) ([]Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Session
	for _, sess := range s.sessions {
		if sess.UserID == userID {
			out = append(out, sess)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

// ReplaceRefreshHash performs the compare-and-swap under the store mutex.
func (s *MemoryStore) ReplaceRefreshHash(ctx context.Context, now time.Time, sessionID, oldHash, newHash string, meta Metadata) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok || sess.RevokedAt != nil || sess.RefreshHash != oldHash {
		return false, nil
	}

	sess.RefreshHash = newHash
	sess.LastSeenAt = now
	if meta.UserAgent != nil {
		sess.UserAgent = meta.UserAgent
	}
	if meta.IP != nil {
		sess.IP = meta.IP
	}
	s.sessions[sessionID] = sess
	return true, nil
}

// Revoke stamps revoked_at once. Idempotent.
func (s *MemoryStore) Revoke(ctx context.Context, now time.Time, sessionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok || sess.RevokedAt != nil {
		return nil
	}
	revoked := now
	sess.RevokedAt = &revoked
	s.sessions[sessionID] = sess
	return nil
}

// RevokeAll stamps revoked_at on every active session of a user.
func (s *MemoryStore) RevokeAll(ctx context.Context, now time.Time, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, sess := range s.sessions {
		if sess.UserID == userID && sess.RevokedAt == nil {
			revoked := now
			sess.RevokedAt = &revoked
			s.sessions[id] = sess
		}
	}
	return nil
}
