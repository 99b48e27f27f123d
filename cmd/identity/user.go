package identity

import (
	"context"
	"time"
)

// User is the canonical security principal.
//
// LoginIDHash is the keyed hash of the user's primary login identifier;
// EmailHashes holds the keyed hashes of every email address bound to the
// account. The plain identifiers are never persisted.
type User struct {
	ID           string
	LoginIDHash  string
	Username     string
	PasswordHash string

	EmailHashes     []string
	EmailVerifiedAt *time.Time

	CreatedAt time.Time
}

// EmailVerified reports whether the account has a confirmed email address.
func (u User) EmailVerified() bool { return u.EmailVerifiedAt != nil }

// CreateUserInput describes a registration request. Username must already
// be normalized and the hashes already computed by the caller.
type CreateUserInput struct {
	ID           string
	LoginIDHash  string
	Username     string
	PasswordHash string
	EmailHash    string
	Now          time.Time
}

// Store is the user persistence boundary.
type Store interface {
	// CreateUser inserts a new user. Returns ConflictError when the
	// username or a hashed identifier is already taken.
	CreateUser(ctx context.Context, in CreateUserInput) (User, error)

	// GetByID loads a user by id. Returns ErrNotFound.
	GetByID(ctx context.Context, userID string) (User, error)

	// FindByLogin resolves the user whose login-id hash or normalized
	// username matches. Returns ErrNotFound.
	FindByLogin(ctx context.Context, loginIDHash, username string) (User, error)

	// FindByEmailHash resolves the user owning a hashed email address.
	// Returns ErrNotFound.
	FindByEmailHash(ctx context.Context, emailHash string) (User, error)

	// SetPasswordHash replaces the stored credential hash.
	SetPasswordHash(ctx context.Context, now time.Time, userID, passwordHash string) error

	// MarkEmailVerified stamps the verification time for the account owning
	// emailHash. Idempotent: an already-verified account keeps its original
	// timestamp.
	MarkEmailVerified(ctx context.Context, now time.Time, emailHash string) (User, error)
}
