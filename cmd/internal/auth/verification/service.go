package verification

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"

	"chittersync/cmd/security/token"
)

// Config controls token issuance.
type Config struct {
	// SecretBytes is the entropy of the token secret.
	SecretBytes int
	// TTL is how long an issued token stays consumable.
	TTL time.Duration
}

// DefaultConfig returns a secure default configuration.
func DefaultConfig() Config {
	return Config{
		SecretBytes: token.DefaultSecretBytes,
		TTL:         30 * time.Minute,
	}
}

// Service issues and consumes verification tokens over a Store.
type Service struct {
	cfg   Config
	store Store
}

// NewService constructs a Service over the given store.
func NewService(cfg Config, store Store) *Service {
	if cfg.SecretBytes <= 0 {
		cfg.SecretBytes = token.DefaultSecretBytes
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Minute
	}
	return &Service{cfg: cfg, store: store}
}

// Issue mints a fresh token for identifier and purpose, invalidating any
// outstanding one first. The returned secret is shown to the caller exactly
// once and never persisted or logged.
func (s *Service) Issue(ctx context.Context, now time.Time, identifier string, typ Type) (Token, string, error) {
	if err := s.store.DeleteOutstanding(ctx, identifier, typ); err != nil {
		return Token{}, "", err
	}

	secret, err := token.NewSecret(s.cfg.SecretBytes)
	if err != nil {
		return Token{}, "", err
	}

	tok := Token{
		ID:         ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String(),
		Identifier: identifier,
		Type:       typ,
		SecretHash: token.HashSHA256Hex(secret),
		CreatedAt:  now,
		ExpiresAt:  now.Add(s.cfg.TTL),
	}
	if err := s.store.Create(ctx, tok); err != nil {
		return Token{}, "", err
	}
	return tok, secret, nil
}

// Consume redeems a token. The token is spent on success; every failure
// mode collapses into ErrTokenInvalid.
func (s *Service) Consume(ctx context.Context, now time.Time, identifier string, typ Type, secret string) (Token, error) {
	if secret == "" {
		return Token{}, ErrTokenInvalid
	}
	return s.store.Consume(ctx, now, identifier, typ, token.HashSHA256Hex(secret))
}
