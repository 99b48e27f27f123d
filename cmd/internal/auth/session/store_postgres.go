package session

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements Store using PostgreSQL (chitter.sessions).
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a Postgres-backed session store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Create inserts a new session row.
func (s *PostgresStore) Create(ctx context.Context, sess Session) error {
	var ip any
	if sess.IP != nil {
		ip = sess.IP.String()
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO chitter.sessions (
			id, user_id, refresh_hash,
			user_agent, ip,
			created_at, last_seen_at, revoked_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, NULL)
	`, sess.ID, sess.UserID, sess.RefreshHash, sess.UserAgent, ip, sess.CreatedAt, sess.LastSeenAt)
	return err
}

// GetByID loads a session row by id.
func (s *PostgresStore) GetByID(ctx context.Context, sessionID string) (Session, error) {
	row, err := scanSession(s.pool.QueryRow(ctx, `
		SELECT id, user_id, refresh_hash, user_agent, ip,
		       created_at, last_seen_at, revoked_at
		FROM chitter.sessions
		WHERE id = $1
	`, sessionID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Session{}, ErrSessionNotFound
	}
	return row, err
}

// ListByUser returns a user's sessions newest first. ULIDs sort by creation
// time, so ordering by id is ordering by age.
func (s *PostgresStore) ListByUser(ctx context.Context, userID string) ([]Session, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, refresh_hash, user_agent, ip,
		       created_at, last_seen_at, revoked_at
		FROM chitter.sessions
		WHERE user_id = $1
		ORDER BY id DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sess)
	}
	return out, rows.Err()
}

// ReplaceRefreshHash swaps the refresh hash in a single conditional UPDATE.
// The WHERE clause is the compare half of the compare-and-swap: a concurrent
// rotation or revocation makes it match zero rows.
func (s *PostgresStore) ReplaceRefreshHash(ctx context.Context, now time.Time, sessionID, oldHash, newHash string, meta Metadata) (bool, error) {
	var ip any
	if meta.IP != nil {
		ip = meta.IP.String()
	}

	tag, err := s.pool.Exec(ctx, `
		UPDATE chitter.sessions
		SET refresh_hash = $1,
		    last_seen_at = $2,
		    user_agent = COALESCE($3, user_agent),
		    ip = COALESCE($4, ip)
		WHERE id = $5
		  AND refresh_hash = $6
		  AND revoked_at IS NULL
	`, newHash, now, meta.UserAgent, ip, sessionID, oldHash)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// Revoke stamps revoked_at once; already-revoked rows are left untouched.
func (s *PostgresStore) Revoke(ctx context.Context, now time.Time, sessionID string) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE chitter.sessions
		SET revoked_at = $1
		WHERE id = $2
		  AND revoked_at IS NULL
	`, now, sessionID)
	return err
}

// RevokeAll stamps revoked_at on every active session of a user.
func (s *PostgresStore) RevokeAll(ctx context.Context, now time.Time, userID string) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE chitter.sessions
		SET revoked_at = $1
		WHERE user_id = $2
		  AND revoked_at IS NULL
	`, now, userID)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(r rowScanner) (Session, error) {
	var sess Session
	var ip *string
	err := r.Scan(
		&sess.ID,
		&sess.UserID,
		&sess.RefreshHash,
		&sess.UserAgent,
		&ip,
		&sess.CreatedAt,
		&sess.LastSeenAt,
		&sess.RevokedAt,
	)
	if err != nil {
		return Session{}, err
	}
	if ip != nil {
		if parsed := net.ParseIP(strings.TrimSpace(*ip)); parsed != nil {
			sess.IP = &parsed
		}
	}
	return sess, nil
}
