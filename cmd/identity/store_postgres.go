package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements user persistence over PostgreSQL (chitter.users).
// The pgx pool is owned by the caller; this store must not close it.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a Postgres-backed user store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const userColumns = `id, login_id_hash, username, password_hash,
       email_hashes, email_verified_at, created_at`

// CreateUser inserts a new user row.
func (s *PostgresStore) CreateUser(ctx context.Context, in CreateUserInput) (User, error) {
	const op = "identity.CreateUser"

	if strings.TrimSpace(in.ID) == "" || strings.TrimSpace(in.Username) == "" {
		return User{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "missing id or username"}
	}
	if in.LoginIDHash == "" || in.PasswordHash == "" {
		return User{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "missing credential material"}
	}

	emailHashes := []string{}
	if in.EmailHash != "" {
		emailHashes = append(emailHashes, in.EmailHash)
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO chitter.users (
			id, login_id_hash, username, password_hash,
			email_hashes, email_verified_at, created_at
		) VALUES ($1, $2, $3, $4, $5, NULL, $6)
	`, in.ID, in.LoginIDHash, in.Username, in.PasswordHash, emailHashes, in.Now)
	if err != nil {
		if field, ok := classifyUniqueViolation(err); ok {
			return User{}, ConflictError{Op: op, Field: field}
		}
		return User{}, err
	}

	return User{
		ID:           in.ID,
		LoginIDHash:  in.LoginIDHash,
		Username:     in.Username,
		PasswordHash: in.PasswordHash,
		EmailHashes:  emailHashes,
		CreatedAt:    in.Now,
	}, nil
}

// GetByID loads a user by id.
func (s *PostgresStore) GetByID(ctx context.Context, userID string) (User, error) {
	return s.queryOne(ctx, `
		SELECT `+userColumns+`
		FROM chitter.users
		WHERE id = $1
	`, userID)
}

// FindByLogin resolves a user by login-id hash or normalized username.
func (s *PostgresStore) FindByLogin(ctx context.Context, loginIDHash, username string) (User, error) {
	return s.queryOne(ctx, `
		SELECT `+userColumns+`
		FROM chitter.users
		WHERE login_id_hash = $1
		   OR username = $2
	`, loginIDHash, username)
}

// FindByEmailHash resolves the user owning a hashed email address.
func (s *PostgresStore) FindByEmailHash(ctx context.Context, emailHash string) (User, error) {
	return s.queryOne(ctx, `
		SELECT `+userColumns+`
		FROM chitter.users
		WHERE $1 = ANY(email_hashes)
	`, emailHash)
}

// SetPasswordHash replaces the stored credential hash.
func (s *PostgresStore) SetPasswordHash(ctx context.Context, now time.Time, userID, passwordHash string) error {
	const op = "identity.SetPasswordHash"

	if passwordHash == "" {
		return OpError{Op: op, Kind: ErrInvalidInput, Msg: "missing password_hash"}
	}

	tag, err := s.pool.Exec(ctx, `
		UPDATE chitter.users
		SET password_hash = $1
		WHERE id = $2
	`, passwordHash, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkEmailVerified stamps email_verified_at once; COALESCE keeps the first
// verification time on repeat confirmations.
func (s *PostgresStore) MarkEmailVerified(ctx context.Context, now time.Time, emailHash string) (User, error) {
	return s.queryOne(ctx, `
		UPDATE chitter.users
		SET email_verified_at = COALESCE(email_verified_at, $1)
		WHERE $2 = ANY(email_hashes)
		RETURNING `+userColumns, now, emailHash)
}

func (s *PostgresStore) queryOne(ctx context.Context, sql string, args ...any) (User, error) {
	var u User
	err := s.pool.QueryRow(ctx, sql, args...).Scan(
		&u.ID,
		&u.LoginIDHash,
		&u.Username,
		&u.PasswordHash,
		&u.EmailHashes,
		&u.EmailVerifiedAt,
		&u.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	return u, nil
}

func classifyUniqueViolation(err error) (field string, ok bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return "", false
	}
	if pgErr.Code != "23505" { // unique_violation
		return "", false
	}

	// Prefer stable schema constraint names, then heuristic matching.
	c := strings.ToLower(strings.TrimSpace(pgErr.ConstraintName))
	switch c {
	case "uq_users_username":
		return "username", true
	case "uq_users_login_id_hash":
		return "login", true
	default:
		switch {
		case strings.Contains(c, "username"):
			return "username", true
		case strings.Contains(c, "login"):
			return "login", true
		case strings.Contains(c, "email"):
			return "email", true
		default:
			return "unique", true
		}
	}
}
