package authapi

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config controls auth API behavior and security defaults.
type Config struct {
	// Production hardens cookie attributes (__Host- prefix, Secure).
	Production bool

	TrustProxy   bool
	MaxBodyBytes int64

	RefreshCookieName string
	CookiePath        string
	CookieTTL         time.Duration

	// Fixed-window limits per operation.
	RegisterMax    int
	RegisterWindow time.Duration
	LoginMax       int
	LoginWindow    time.Duration
	RefreshMax     int
	RefreshWindow  time.Duration
	RequestMax     int
	RequestWindow  time.Duration
	ConfirmMax     int
	ConfirmWindow  time.Duration

	// VerificationTTL bounds email verification and password reset tokens.
	VerificationTTL time.Duration
}

// LoadConfigFromEnv loads auth config from environment variables with safe
// defaults. production also hardens cookies.
func LoadConfigFromEnv(production bool) Config {
	cfg := Config{
		Production:        production,
		TrustProxy:        envBool("CHITTER_AUTH_TRUST_PROXY", false),
		MaxBodyBytes:      envInt64("CHITTER_AUTH_MAX_BODY_BYTES", 1<<20), // 1 MiB
		RefreshCookieName: envString("CHITTER_AUTH_REFRESH_COOKIE", "ch_auth_refresh"),
		CookiePath:        "/",
		CookieTTL:         envDuration("CHITTER_AUTH_COOKIE_TTL", 30*24*time.Hour),
		RegisterMax:       envInt("CHITTER_AUTH_REGISTER_MAX", 5),
		RegisterWindow:    envDuration("CHITTER_AUTH_REGISTER_WINDOW", time.Minute),
		LoginMax:          envInt("CHITTER_AUTH_LOGIN_MAX", 10),
		LoginWindow:       envDuration("CHITTER_AUTH_LOGIN_WINDOW", time.Minute),
		RefreshMax:        envInt("CHITTER_AUTH_REFRESH_MAX", 20),
		RefreshWindow:     envDuration("CHITTER_AUTH_REFRESH_WINDOW", time.Minute),
		RequestMax:        envInt("CHITTER_AUTH_REQUEST_MAX", 5),
		RequestWindow:     envDuration("CHITTER_AUTH_REQUEST_WINDOW", time.Minute),
		ConfirmMax:        envInt("CHITTER_AUTH_CONFIRM_MAX", 10),
		ConfirmWindow:     envDuration("CHITTER_AUTH_CONFIRM_WINDOW", time.Minute),
		VerificationTTL:   envDuration("CHITTER_AUTH_VERIFICATION_TTL", 30*time.Minute),
	}

	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 1 << 20
	}
	if cfg.RefreshCookieName == "" {
		cfg.RefreshCookieName = "ch_auth_refresh"
	}
	return cfg
}

func envString(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
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

func envInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func envInt64(key string, def int64) int64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
