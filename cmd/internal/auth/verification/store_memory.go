package verification

import (
	"context"
	"sync"
	"time"

	"chittersync/cmd/security/token"
)

// MemoryStore is an in-memory Store for databaseless runs and tests.
type MemoryStore struct {
	mu     sync.Mutex
	tokens map[string]Token
}

// NewMemoryStore constructs an empty in-memory verification token store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tokens: make(map[string]Token)}
}

// DeleteOutstanding removes unconsumed tokens for an identifier and purpose.
func (s *MemoryStore) DeleteOutstanding(ctx context.Context, identifier string, typ Type) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, tok := range s.tokens {
		if tok.Identifier == identifier && tok.Type == typ && tok.ConsumedAt == nil {
			delete(s.tokens, id)
		}
	}
	return nil
}

// Create inserts a new token row.
func (s *MemoryStore) Create(ctx context.Context, tok Token) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[tok.ID] = tok
	return nil
}

// Consume stamps consumed_at under the store mutex, matching the conditional
// UPDATE semantics of the Postgres store.
func (s *MemoryStore) Consume(ctx context.Context, now time.Time, identifier string, typ Type, secretHash string) (Token, error) {
	if err := ctx.Err(); err != nil {
		return Token{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, tok := range s.tokens {
		if tok.Identifier != identifier || tok.Type != typ || tok.ConsumedAt != nil {
			continue
		}
		if !token.Equal(tok.SecretHash, secretHash) {
			continue
		}
		if !tok.ExpiresAt.After(now) {
			continue
		}
		consumed := now
		tok.ConsumedAt = &consumed
		s.tokens[id] = tok
		return tok, nil
	}
	return Token{}, ErrTokenInvalid
}
