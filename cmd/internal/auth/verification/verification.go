// Package verification implements single-use, expiring verification tokens
// for out-of-band confirmation flows (email verification, password reset).
//
// A token's secret is shown to the caller exactly once at issuance; only its
// hash is persisted. Issuing a token invalidates any outstanding token for
// the same identifier and purpose, so at most one token per flow is live.
package verification

import (
	"context"
	"errors"
	"time"
)

// Type names the confirmation flow a token belongs to.
type Type string

const (
	TypeVerifyEmail   Type = "verify_email"
	TypePasswordReset Type = "password_reset"
)

// ErrTokenInvalid covers every consumption failure: unknown, expired,
// already consumed, or wrong secret. Callers cannot distinguish them.
var ErrTokenInvalid = errors.New("verification: token invalid")

// Token is one issued verification token. SecretHash is the hash of the
// secret; the secret itself is never stored.
type Token struct {
	ID         string
	Identifier string
	Type       Type
	SecretHash string

	CreatedAt  time.Time
	ExpiresAt  time.Time
	ConsumedAt *time.Time
}

// Store abstracts persistence for verification tokens.
//
// Consume must make the "check live, stamp consumed" sequence atomic per row
// so that two concurrent consumptions of the same token resolve to exactly
// one success.
type Store interface {
	// DeleteOutstanding removes all unconsumed tokens for an identifier
	// and purpose.
	DeleteOutstanding(ctx context.Context, identifier string, typ Type) error

	// Create inserts a new token row.
	Create(ctx context.Context, tok Token) error

	// Consume atomically stamps consumed_at on the live token matching
	// (identifier, typ, secretHash). Returns ErrTokenInvalid when no such
	// live token exists.
	Consume(ctx context.Context, now time.Time, identifier string, typ Type, secretHash string) (Token, error)
}
