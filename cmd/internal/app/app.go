// Package app wires the ChitterSync auth server runtime: config, logging,
// security primitives, stores, and the HTTP surface.
//
// It is intentionally small and deterministic to keep behavior predictable.
package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"

	"chittersync/cmd/identity"
	authapi "chittersync/cmd/internal/auth/api"
	"chittersync/cmd/internal/auth/ratelimit"
	"chittersync/cmd/internal/auth/session"
	"chittersync/cmd/internal/auth/verification"
	"chittersync/cmd/internal/metrics"
	"chittersync/cmd/security/password"
	"chittersync/cmd/security/private"
)

// App is the server runtime: it owns the HTTP server and store lifecycles.
type App struct {
	cfg Config
	log Logger

	dbPool    *pgxpool.Pool
	dbEnabled bool

	auth *authapi.Handler
}

// New constructs a fully wired App instance from config and logger.
func New(cfg Config, log Logger) (*App, error) {
	if log == nil {
		log = NewLogger(cfg.LogLevel)
	}

	production := cfg.Production()

	pwCfg, err := password.FromEnv(production)
	if err != nil {
		return nil, err
	}
	privHasher, err := private.FromEnv(production)
	if err != nil {
		return nil, err
	}

	var (
		pool       *pgxpool.Pool
		dbEnabled  bool
		users      identity.Store
		sessStore  session.Store
		tokenStore verification.Store
	)
	if cfg.DatabaseURL == "" {
		log.Info("db.disabled.inmemory_store")
		users = identity.NewMemoryStore()
		sessStore = session.NewMemoryStore()
		tokenStore = verification.NewMemoryStore()
	} else {
		pool, err = NewDBPool(context.Background(), cfg)
		if err != nil {
			return nil, err
		}
		log.Info("db.enabled.postgres_store")
		dbEnabled = true
		users = identity.NewPostgresStore(pool)
		sessStore = session.NewPostgresStore(pool)
		tokenStore = verification.NewPostgresStore(pool)
	}

	authCfg := authapi.LoadConfigFromEnv(production)

	authHandler, err := authapi.NewHandler(log, authCfg, authapi.Deps{
		Users:    users,
		Sessions: session.NewService(session.DefaultConfig(), sessStore),
		Verifications: verification.NewService(verification.Config{
			SecretBytes: 32,
			TTL:         authCfg.VerificationTTL,
		}, tokenStore),
		Passwords: password.Select(pwCfg),
		Private:   privHasher,
		Limiter:   ratelimit.New(),
		Metrics:   metrics.New(prometheus.DefaultRegisterer),
		Email:     authapi.LogEmailSender{Log: log},
	})
	if err != nil {
		if pool != nil {
			pool.Close()
		}
		return nil, err
	}

	return &App{
		cfg:       cfg,
		log:       log,
		dbPool:    pool,
		dbEnabled: dbEnabled,
		auth:      authHandler,
	}, nil
}

// Run starts the HTTP server and blocks until context cancellation or a
// fatal server error.
func (a *App) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	registerHTTP(mux, a.log, a.cfg, a.dbPool, a.dbEnabled, a.auth)

	srv := &http.Server{
		Addr:              a.cfg.HTTPAddr,
		Handler:           WithRequestLogging(mux, a.log),
		ReadHeaderTimeout: nonZeroDuration(a.cfg.ReadHeaderTimeout, 5*time.Second),
		ReadTimeout:       nonZeroDuration(a.cfg.ReadTimeout, 15*time.Second),
		WriteTimeout:      nonZeroDuration(a.cfg.WriteTimeout, 15*time.Second),
		IdleTimeout:       nonZeroDuration(a.cfg.IdleTimeout, 60*time.Second),
		MaxHeaderBytes:    nonZeroInt(a.cfg.MaxHeaderBytes, 1<<20),
	}

	a.log.Info("server.start", "addr", a.cfg.HTTPAddr, "db_enabled", a.dbEnabled)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		a.log.Info("server.stop", "reason", "context_done")
	case err := <-errCh:
		a.log.Error("server.fail", "err", err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.log.Error("server.shutdown.fail", "err", err)
		return err
	}

	if a.dbPool != nil {
		a.dbPool.Close()
	}

	a.log.Info("server.stopped")
	return nil
}

func nonZeroDuration(v, def time.Duration) time.Duration {
	if v <= 0 {
		return def
	}
	return v
}

func nonZeroInt(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
