package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"chittersync/cmd/security/token"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

const (
	argon2Version = 19 // argon2.Version is 0x13 (19)

	// pepperedPrefix marks hashes produced with a configured pepper, so
	// Verify knows to re-apply it before running the cost function.
	pepperedPrefix = "$peppered"

	bcryptCost = 12
)

// Hasher turns a plaintext password into a stored hash and verifies a
// plaintext against one. Implementations are selected once at startup.
type Hasher interface {
	Hash(password string) (string, error)
	// Verify reports whether password matches encoded. It returns
	// (false, nil) for a plain mismatch and an error only for malformed or
	// unverifiable hashes.
	Verify(password, encoded string) (bool, error)
}

// Select returns the hashing strategy for cfg: Argon2id unless the fallback
// bcrypt family was requested for this runtime.
func Select(cfg Config) Hasher {
	if cfg.PreferBcrypt {
		return &bcryptHasher{cfg: cfg}
	}
	return &argon2idHasher{cfg: cfg}
}

type argon2idHasher struct {
	cfg Config
}

// Hash hashes a password using Argon2id and returns an encoded hash string.
// Format:
// $argon2id$v=19$m=<mem>,t=<iter>,p=<par>$<salt_b64>$<hash_b64>
// with a leading "$peppered" marker when a pepper was applied.
func (h *argon2idHasher) Hash(password string) (string, error) {
	input := password
	peppered := false
	if h.cfg.Pepper != "" {
		input = prePepper(password, h.cfg.Pepper)
		peppered = true
	}

	salt := make([]byte, h.cfg.Params.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("salt: %w", err)
	}

	key := argon2.IDKey(
		[]byte(input),
		salt,
		h.cfg.Params.Iterations,
		h.cfg.Params.MemoryKiB,
		h.cfg.Params.Parallelism,
		h.cfg.Params.KeyLength,
	)

	b64 := base64.RawStdEncoding
	enc := fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2Version,
		h.cfg.Params.MemoryKiB,
		h.cfg.Params.Iterations,
		h.cfg.Params.Parallelism,
		b64.EncodeToString(salt),
		b64.EncodeToString(key),
	)
	if peppered {
		enc = pepperedPrefix + enc
	}
	return enc, nil
}

func (h *argon2idHasher) Verify(password, encoded string) (bool, error) {
	return verify(h.cfg, password, encoded)
}

type bcryptHasher struct {
	cfg Config
}

// Hash uses a fixed-cost bcrypt hash. No pepper support: bcrypt truncates
// long inputs, so a pre-hash would change the effective credential silently.
func (h *bcryptHasher) Hash(password string) (string, error) {
	out, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (h *bcryptHasher) Verify(password, encoded string) (bool, error) {
	return verify(h.cfg, password, encoded)
}

// verify dispatches on the encoded hash family so either strategy can check
// records written by the other. The pepper branch and the plain branch both
// end in a constant-time digest comparison.
func verify(cfg Config, password, encoded string) (bool, error) {
	if encoded == "" {
		return false, ErrInvalidHash
	}

	input := password
	if strings.HasPrefix(encoded, pepperedPrefix) {
		if cfg.Pepper == "" {
			return false, ErrPepperMissing
		}
		input = prePepper(password, cfg.Pepper)
		encoded = strings.TrimPrefix(encoded, pepperedPrefix)
	}

	switch {
	case strings.HasPrefix(encoded, "$argon2"):
		return verifyArgon2id(cfg, input, encoded)
	case strings.HasPrefix(encoded, "$2a$"), strings.HasPrefix(encoded, "$2b$"), strings.HasPrefix(encoded, "$2y$"):
		err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(input))
		if err == nil {
			return true, nil
		}
		if err == bcrypt.ErrMismatchedHashAndPassword {
			return false, nil
		}
		return false, ErrInvalidHash
	default:
		return false, ErrInvalidHash
	}
}

func verifyArgon2id(cfg Config, input, encoded string) (bool, error) {
	params, salt, expected, err := decode(encoded)
	if err != nil {
		return false, err
	}

	// Refuse hashes whose parameters wildly exceed our configured maximums,
	// so attacker-controlled hash strings cannot drive pathological cost.
	if !withinReasonableBounds(params, cfg.Params) {
		return false, ErrInvalidHash
	}

	key := argon2.IDKey(
		[]byte(input),
		salt,
		params.Iterations,
		params.MemoryKiB,
		params.Parallelism,
		uint32(len(expected)),
	)

	if subtle.ConstantTimeCompare(key, expected) == 1 {
		return true, nil
	}
	return false, nil
}

// prePepper folds the pepper into the password via HMAC-SHA256 before the
// cost function. Hex output keeps the intermediate within bcrypt-safe bounds
// should the encoding ever be shared.
func prePepper(password, pepper string) string {
	return token.HashHMACSHA256Hex(password, []byte(pepper))
}

func withinReasonableBounds(got Argon2idParams, limits Argon2idParams) bool {
	// Allow verifying hashes generated with older/smaller settings,
	// but reject wildly larger settings.
	if got.MemoryKiB > limits.MemoryKiB*4 {
		return false
	}
	if got.Iterations > limits.Iterations*4 {
		return false
	}
	if got.Parallelism > limits.Parallelism*4 {
		return false
	}
	if got.SaltLength < 8 || got.SaltLength > 64 {
		return false
	}
	if got.KeyLength < 16 || got.KeyLength > 128 {
		return false
	}
	return true
}

// decode parses the encoded hash and returns params, salt and expected key.
func decode(encoded string) (Argon2idParams, []byte, []byte, error) {
	// Expected:
	// $argon2id$v=19$m=19456,t=2,p=1$<salt>$<hash>
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return Argon2idParams{}, nil, nil, ErrInvalidHash
	}

	if parts[2] != fmt.Sprintf("v=%d", argon2Version) {
		return Argon2idParams{}, nil, nil, ErrInvalidHash
	}

	var mem, it, par uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &mem, &it, &par); err != nil {
		return Argon2idParams{}, nil, nil, ErrInvalidHash
	}
	if mem == 0 || it == 0 || par == 0 || par > 255 {
		return Argon2idParams{}, nil, nil, ErrInvalidHash
	}

	b64 := base64.RawStdEncoding
	salt, err := b64.DecodeString(parts[4])
	if err != nil {
		return Argon2idParams{}, nil, nil, ErrInvalidHash
	}
	hash, err := b64.DecodeString(parts[5])
	if err != nil {
		return Argon2idParams{}, nil, nil, ErrInvalidHash
	}

	params := Argon2idParams{
		MemoryKiB:   mem,
		Iterations:  it,
		Parallelism: uint8(par),
		SaltLength:  uint32(len(salt)),
		KeyLength:   uint32(len(hash)),
	}
	return params, salt, hash, nil
}
