package password

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const minPepperLength = 32

// Argon2idParams controls Argon2id hashing cost.
// MemoryKiB is in KiB as required by argon2.IDKey.
type Argon2idParams struct {
	MemoryKiB   uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// Config is the single configuration surface for this package.
//
// Pepper is a server-side secret mixed into the hash in addition to the
// per-record salt. It is never derivable from stored hashes or the database.
type Config struct {
	Params Argon2idParams

	// Pepper, when non-empty, is applied as an HMAC-SHA256 pre-hash of the
	// password before the cost function runs. Peppered hashes carry a marker
	// prefix so Verify knows to re-apply it.
	Pepper string

	// RequirePepper makes a missing/short pepper a startup error.
	// It is implied in production.
	RequirePepper bool

	// PreferBcrypt selects the bcrypt strategy instead of Argon2id.
	// Intended for runtimes where the memory-hard hash cannot be afforded.
	PreferBcrypt bool
}

// DefaultConfig returns a baseline suitable for interactive logins.
func DefaultConfig() Config {
	return Config{
		Params: Argon2idParams{
			MemoryKiB:   19 * 1024, // 19 MiB, OWASP interactive baseline
			Iterations:  2,
			Parallelism: 1,
			SaltLength:  16,
			KeyLength:   32,
		},
	}
}

// FromEnv loads config from environment variables.
//
// Env surface:
// - CHITTER_PASSWORD_PEPPER
// - CHITTER_PASSWORD_REQUIRE_PEPPER (true/false)
// - CHITTER_PASSWORD_PREFER_BCRYPT (true/false)
// - CHITTER_ARGON2_MEMORY_KIB
// - CHITTER_ARGON2_ITERATIONS
// - CHITTER_ARGON2_PARALLELISM
//
// production selects production policy: a configured-but-short pepper is
// always an error, and RequirePepper additionally makes a missing pepper one.
func FromEnv(production bool) (Config, error) {
	cfg := DefaultConfig()

	cfg.Pepper = strings.TrimSpace(os.Getenv("CHITTER_PASSWORD_PEPPER"))
	cfg.RequirePepper = envBool("CHITTER_PASSWORD_REQUIRE_PEPPER", false)
	cfg.PreferBcrypt = envBool("CHITTER_PASSWORD_PREFER_BCRYPT", false)

	if v, ok := os.LookupEnv("CHITTER_ARGON2_MEMORY_KIB"); ok {
		u, err := atou32(v, 8*1024, 1024*1024) // 8 MiB .. 1 GiB
		if err != nil {
			return Config{}, fmt.Errorf("CHITTER_ARGON2_MEMORY_KIB: %w", err)
		}
		cfg.Params.MemoryKiB = u
	}
	if v, ok := os.LookupEnv("CHITTER_ARGON2_ITERATIONS"); ok {
		u, err := atou32(v, 1, 20)
		if err != nil {
			return Config{}, fmt.Errorf("CHITTER_ARGON2_ITERATIONS: %w", err)
		}
		cfg.Params.Iterations = u
	}
	if v, ok := os.LookupEnv("CHITTER_ARGON2_PARALLELISM"); ok {
		u, err := atou32(v, 1, 64)
		if err != nil {
			return Config{}, fmt.Errorf("CHITTER_ARGON2_PARALLELISM: %w", err)
		}
		if u > 255 {
			return Config{}, fmt.Errorf("CHITTER_ARGON2_PARALLELISM: out of range")
		}
		cfg.Params.Parallelism = uint8(u)
	}

	if err := cfg.validate(production); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate(production bool) error {
	if c.Pepper != "" && len(c.Pepper) < minPepperLength {
		if production {
			return fmt.Errorf("%w: CHITTER_PASSWORD_PEPPER must be at least %d characters", ErrConfig, minPepperLength)
		}
	}
	if production && c.RequirePepper && c.Pepper == "" {
		return ErrPepperMissing
	}
	if c.RequirePepper && c.PreferBcrypt {
		// bcrypt strategy has no pepper support; requiring both is a contradiction.
		return fmt.Errorf("%w: pepper required but bcrypt strategy selected", ErrConfig)
	}
	return nil
}

func envBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func atou32(s string, minVal, maxVal uint32) (uint32, error) {
	s = strings.TrimSpace(s)
	u64, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("not an unsigned integer")
	}
	u := uint32(u64)
	if u < minVal || u > maxVal {
		return 0, fmt.Errorf("out of range [%d..%d]", minVal, maxVal)
	}
	return u, nil
}
