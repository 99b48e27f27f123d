package app

import (
	"strings"
	"time"
)

// Config contains all runtime configuration loaded from environment variables.
type Config struct {
	// Env selects the runtime policy: "production" refuses missing peppers
	// and hardens cookies. Anything else is development.
	Env string

	HTTPAddr string
	LogLevel string

	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int

	DatabaseURL string
	DBMaxConns  int32
	DBMinConns  int32

	// If true, /readyz returns 503 unless the DB is configured and reachable.
	ReadinessRequireDB bool
}

// Production reports whether production policy is in effect.
func (c Config) Production() bool {
	return strings.EqualFold(strings.TrimSpace(c.Env), "production")
}

// LoadConfig loads Config from environment variables with defaults.
func LoadConfig() Config {
	return Config{
		Env: EnvString("CHITTER_ENV", "development"),

		HTTPAddr: EnvString("CHITTER_HTTP_ADDR", "0.0.0.0:8080"),
		LogLevel: EnvString("CHITTER_LOG_LEVEL", "info"),

		ReadHeaderTimeout: EnvDuration("CHITTER_HTTP_READ_HEADER_TIMEOUT", 5*time.Second),
		ReadTimeout:       EnvDuration("CHITTER_HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:      EnvDuration("CHITTER_HTTP_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:       EnvDuration("CHITTER_HTTP_IDLE_TIMEOUT", 60*time.Second),

		MaxHeaderBytes: EnvInt("CHITTER_HTTP_MAX_HEADER_BYTES", 1<<20),

		DatabaseURL: EnvString("CHITTER_DATABASE_URL", ""),
		DBMaxConns:  EnvInt32("CHITTER_DB_MAX_CONNS", 10),
		DBMinConns:  EnvInt32("CHITTER_DB_MIN_CONNS", 0),

		ReadinessRequireDB: EnvBool("CHITTER_READINESS_REQUIRE_DB", false),
	}
}
