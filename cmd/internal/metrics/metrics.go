// Package metrics defines the Prometheus instruments for the auth service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles every instrument the service emits. Construct one per
// process with New and share it by pointer.
type Metrics struct {
	RegistrationsTotal prometheus.Counter

	// LoginsTotal counts login attempts by outcome:
	// "success", "invalid_credentials", "rate_limited".
	LoginsTotal *prometheus.CounterVec

	// RotationsTotal counts refresh rotations by outcome:
	// "rotated", "invalid", "revoked", "reused".
	RotationsTotal *prometheus.CounterVec

	// ReuseDetectedTotal counts replayed refresh tokens; each increment is a
	// session revoked on suspicion of theft.
	ReuseDetectedTotal prometheus.Counter

	// VerificationIssuedTotal and VerificationConsumedTotal count token
	// flows by purpose: "verify_email", "password_reset".
	VerificationIssuedTotal   *prometheus.CounterVec
	VerificationConsumedTotal *prometheus.CounterVec

	// RateLimitedTotal counts refused requests by operation.
	RateLimitedTotal *prometheus.CounterVec
}

// New creates and registers all instruments on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RegistrationsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "chitter_auth_registrations_total",
			Help: "Total number of accounts created.",
		}),
		LoginsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "chitter_auth_logins_total",
			Help: "Total number of login attempts by outcome.",
		}, []string{"outcome"}),
		RotationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "chitter_auth_refresh_rotations_total",
			Help: "Total number of refresh token rotations by outcome.",
		}, []string{"outcome"}),
		ReuseDetectedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "chitter_auth_refresh_reuse_detected_total",
			Help: "Total number of replayed refresh tokens (sessions revoked).",
		}),
		VerificationIssuedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "chitter_auth_verification_issued_total",
			Help: "Total number of verification tokens issued by purpose.",
		}, []string{"purpose"}),
		VerificationConsumedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "chitter_auth_verification_consumed_total",
			Help: "Total number of verification tokens consumed by purpose.",
		}, []string{"purpose"}),
		RateLimitedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "chitter_auth_rate_limited_total",
			Help: "Total number of requests refused by the rate limiter, by operation.",
		}, []string{"operation"}),
	}
}

// NewUnregistered creates instruments on a private registry, for tests.
func NewUnregistered() *Metrics {
	return New(prometheus.NewRegistry())
}
