package identity

import (
	"context"
	"slices"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store for databaseless runs and tests.
type MemoryStore struct {
	mu    sync.Mutex
	users map[string]User
}

// NewMemoryStore constructs an empty in-memory user store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]User)}
}

// CreateUser inserts a new user, enforcing the same uniqueness rules as the
// Postgres schema.
func (s *MemoryStore) CreateUser(ctx context.Context, in CreateUserInput) (User, error) {
	const op = "identity.CreateUser"

	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	if in.ID == "" || in.Username == "" {
		return User{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "missing id or username"}
	}
	if in.LoginIDHash == "" || in.PasswordHash == "" {
		return User{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "missing credential material"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == in.Username {
			return User{}, ConflictError{Op: op, Field: "username"}
		}
		if u.LoginIDHash == in.LoginIDHash {
			return User{}, ConflictError{Op: op, Field: "login"}
		}
		if in.EmailHash != "" && slices.Contains(u.EmailHashes, in.EmailHash) {
			return User{}, ConflictError{Op: op, Field: "email"}
		}
	}

	u := User{
		ID:           in.ID,
		LoginIDHash:  in.LoginIDHash,
		Username:     in.Username,
		PasswordHash: in.PasswordHash,
		EmailHashes:  []string{},
		CreatedAt:    in.Now,
	}
	if in.EmailHash != "" {
		u.EmailHashes = append(u.EmailHashes, in.EmailHash)
	}
	s.users[u.ID] = u
	return cloneUser(u), nil
}

// GetByID loads a user by id.
func (s *MemoryStore) GetByID(ctx context.Context, userID string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return User{}, ErrNotFound
	}
	return cloneUser(u), nil
}

// FindByLogin resolves a user by login-id hash or normalized username.
func (s *MemoryStore) FindByLogin(ctx context.Context, loginIDHash, username string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.LoginIDHash == loginIDHash || u.Username == username {
			return cloneUser(u), nil
		}
	}
	return User{}, ErrNotFound
}

// FindByEmailHash resolves the user owning a hashed email address.
func (s *MemoryStore) FindByEmailHash(ctx context.Context, emailHash string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if slices.Contains(u.EmailHashes, emailHash) {
			return cloneUser(u), nil
		}
	}
	return User{}, ErrNotFound
}

// SetPasswordHash replaces the stored credential hash.
func (s *MemoryStore) SetPasswordHash(ctx context.Context, now time.Time, userID, passwordHash string) error {
	const op = "identity.SetPasswordHash"

	if err := ctx.Err(); err != nil {
		return err
	}
	if passwordHash == "" {
		return OpError{Op: op, Kind: ErrInvalidInput, Msg: "missing password_hash"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return ErrNotFound
	}
	u.PasswordHash = passwordHash
	s.users[userID] = u
	return nil
}

// MarkEmailVerified stamps the verification time once.
func (s *MemoryStore) MarkEmailVerified(ctx context.Context, now time.Time, emailHash string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, u := range s.users {
		if !slices.Contains(u.EmailHashes, emailHash) {
			continue
		}
		if u.EmailVerifiedAt == nil {
			verified := now
			u.EmailVerifiedAt = &verified
			s.users[id] = u
		}
		return cloneUser(u), nil
	}
	return User{}, ErrNotFound
}

func cloneUser(u User) User {
	u.EmailHashes = slices.Clone(u.EmailHashes)
	if u.EmailVerifiedAt != nil {
		t := *u.EmailVerifiedAt
		u.EmailVerifiedAt = &t
	}
	return u
}
