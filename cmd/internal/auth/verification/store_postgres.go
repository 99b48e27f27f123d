package verification

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements Store using PostgreSQL (chitter.verification_tokens).
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a Postgres-backed verification token store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// DeleteOutstanding removes unconsumed tokens for an identifier and purpose.
func (s *PostgresStore) DeleteOutstanding(ctx context.Context, identifier string, typ Type) error {
	_, err := s.pool.Exec(ctx, `
		DELETE FROM chitter.verification_tokens
		WHERE identifier = $1
		  AND type = $2
		  AND consumed_at IS NULL
	`, identifier, typ)
	return err
}

// Create inserts a new token row.
func (s *PostgresStore) Create(ctx context.Context, tok Token) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO chitter.verification_tokens (
			id, identifier, type, secret_hash,
			created_at, expires_at, consumed_at
		) VALUES ($1, $2, $3, $4, $5, $6, NULL)
	`, tok.ID, tok.Identifier, tok.Type, tok.SecretHash, tok.CreatedAt, tok.ExpiresAt)
	return err
}

// Consume stamps consumed_at in a single conditional UPDATE. The WHERE
// clause only matches a live token, so a concurrent consumption of the same
// token makes the second update match zero rows.
func (s *PostgresStore) Consume(ctx context.Context, now time.Time, identifier string, typ Type, secretHash string) (Token, error) {
	var tok Token
	err := s.pool.QueryRow(ctx, `
		UPDATE chitter.verification_tokens
		SET consumed_at = $1
		WHERE identifier = $2
		  AND type = $3
		  AND secret_hash = $4
		  AND consumed_at IS NULL
		  AND expires_at > $1
		RETURNING id, identifier, type, secret_hash,
		          created_at, expires_at, consumed_at
	`, now, identifier, typ, secretHash).Scan(
		&tok.ID,
		&tok.Identifier,
		&tok.Type,
		&tok.SecretHash,
		&tok.CreatedAt,
		&tok.ExpiresAt,
		&tok.ConsumedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Token{}, ErrTokenInvalid
	}
	if err != nil {
		return Token{}, err
	}
	return tok, nil
}
