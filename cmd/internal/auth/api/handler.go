// Package authapi wires the HTTP auth endpoints to the identity, session,
// and verification services.
//
// Response shaping is deliberately conservative: login failures, refresh
// failures, and the verification request/confirm flows return generic bodies
// so that responses never reveal whether an account exists.
package authapi

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"chittersync/cmd/identity"
	"chittersync/cmd/internal/auth/ratelimit"
	"chittersync/cmd/internal/auth/session"
	"chittersync/cmd/internal/auth/verification"
	"chittersync/cmd/internal/metrics"
	"chittersync/cmd/security/password"
	"chittersync/cmd/security/private"
)

// Deps are the collaborators a Handler needs. All fields are required
// except Email, which defaults to NoopEmailSender.
type Deps struct {
	Users         identity.Store
	Sessions      *session.Service
	Verifications *verification.Service
	Passwords     password.Hasher
	Private       *private.Hasher
	Limiter       *ratelimit.Limiter
	Metrics       *metrics.Metrics
	Email         EmailSender
}

// Handler serves the account authentication HTTP surface.
type Handler struct {
	log *slog.Logger
	cfg Config

	users    identity.Store
	sessions *session.Service
	verify   *verification.Service
	pw       password.Hasher
	priv     *private.Hasher
	limiter  *ratelimit.Limiter
	metrics  *metrics.Metrics
	email    EmailSender

	dummyHash string
	now       func() time.Time
}

// NewHandler constructs an auth Handler.
func NewHandler(log *slog.Logger, cfg Config, deps Deps) (*Handler, error) {
	if log == nil {
		log = slog.Default()
	}
	if deps.Users == nil || deps.Sessions == nil || deps.Verifications == nil {
		return nil, errors.New("authapi: missing store or service dependency")
	}
	if deps.Passwords == nil || deps.Private == nil || deps.Limiter == nil || deps.Metrics == nil {
		return nil, errors.New("authapi: missing security dependency")
	}
	if deps.Email == nil {
		deps.Email = NoopEmailSender{}
	}

	h := &Handler{
		log:      log,
		cfg:      cfg,
		users:    deps.Users,
		sessions: deps.Sessions,
		verify:   deps.Verifications,
		pw:       deps.Passwords,
		priv:     deps.Private,
		limiter:  deps.Limiter,
		metrics:  deps.Metrics,
		email:    deps.Email,
		now:      func() time.Time { return time.Now().UTC() },
	}

	// Dummy hash for timing-resistant login checks against unknown accounts.
	if hash, err := deps.Passwords.Hash("dummy-password-for-timing-only"); err == nil {
		h.dummyHash = hash
	}

	return h, nil
}

// Register wires auth routes onto the provided mux.
func (h *Handler) Register(mux *http.ServeMux) {
	if h == nil || mux == nil {
		return
	}
	mux.HandleFunc("/auth/register", h.handleRegister)
	mux.HandleFunc("/auth/login", h.handleLogin)
	mux.HandleFunc("/auth/refresh", h.handleRefresh)
	mux.HandleFunc("/auth/logout", h.handleLogout)
	mux.HandleFunc("/auth/sessions", h.handleSessions)
	mux.HandleFunc("/auth/sessions/", h.handleSessionRevoke)
	mux.HandleFunc("/auth/verify-email/request", h.handleVerifyEmailRequest)
	mux.HandleFunc("/auth/verify-email/confirm", h.handleVerifyEmailConfirm)
	mux.HandleFunc("/auth/password-reset/request", h.handlePasswordResetRequest)
	mux.HandleFunc("/auth/password-reset/confirm", h.handlePasswordResetConfirm)
	mux.HandleFunc("/me", h.handleMe)
}

// ---- handlers ----

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req registerRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}

	username := identity.NormalizeUsername(req.Username)
	email := private.Normalize(req.Email)
	if !validUsername(username) || !validEmail(email) || !validPassword(req.Password) {
		writeError(w, http.StatusBadRequest, "invalid_request", "username, email and password are required")
		return
	}

	ctx := r.Context()
	now := h.now()
	ip := clientIP(r, h.cfg.TrustProxy)

	if !h.allow(w, "register", h.cfg.RegisterMax, h.cfg.RegisterWindow, ip, "", now) {
		return
	}

	pwHash, err := h.pw.Hash(req.Password)
	if err != nil {
		h.log.Error("auth.register.hash.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}

	emailHash := h.priv.HashIdentifier(email)
	user, err := h.users.CreateUser(ctx, identity.CreateUserInput{
		ID:           ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String(),
		LoginIDHash:  emailHash,
		Username:     username,
		PasswordHash: pwHash,
		EmailHash:    emailHash,
		Now:          now,
	})
	if err != nil {
		if identity.IsConflict(err) {
			writeError(w, http.StatusConflict, "conflict", "username or email already in use")
			return
		}
		if identity.IsInvalidInput(err) {
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid input")
			return
		}
		h.log.Error("auth.register.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}

	h.metrics.RegistrationsTotal.Inc()
	h.auditRegistered(user.ID, ip)
	h.issueVerification(ctx, now, emailHash, email, verification.TypeVerifyEmail, ip)

	_, refreshToken, err := h.sessions.Create(ctx, now, user.ID, requestMetadata(r, h.cfg.TrustProxy))
	if err != nil {
		h.log.Error("auth.register.session.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}
	h.setRefreshCookie(w, refreshToken, now)

	writeJSON(w, http.StatusCreated, authResponse{User: toUserResponse(user)})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req loginRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}

	login := private.Normalize(req.Login)
	if login == "" || strings.TrimSpace(req.Password) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "login and password are required")
		return
	}

	ctx := r.Context()
	now := h.now()
	ip := clientIP(r, h.cfg.TrustProxy)
	loginHash := h.priv.HashIdentifier(login)

	// Keyed by IP and hashed identifier, so a single target cannot be
	// hammered from many addresses without tripping the identifier bucket.
	if !h.allow(w, "login", h.cfg.LoginMax, h.cfg.LoginWindow, ip, loginHash, now) {
		h.metrics.LoginsTotal.WithLabelValues("rate_limited").Inc()
		return
	}

	user, err := h.users.FindByLogin(ctx, loginHash, identity.NormalizeUsername(login))
	if err != nil {
		if identity.IsNotFound(err) {
			// Timing resistance: burn a verify against the dummy hash.
			if h.dummyHash != "" {
				_, _ = h.pw.Verify(req.Password, h.dummyHash)
			}
			h.loginFailed(w, ip, "not_found")
			return
		}
		h.log.Error("auth.login.lookup.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}

	ok, err := h.pw.Verify(req.Password, user.PasswordHash)
	if err != nil || !ok {
		h.loginFailed(w, ip, "bad_password")
		return
	}

	sess, refreshToken, err := h.sessions.Create(ctx, now, user.ID, requestMetadata(r, h.cfg.TrustProxy))
	if err != nil {
		h.log.Error("auth.login.session.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}

	h.metrics.LoginsTotal.WithLabelValues("success").Inc()
	h.auditLoginSuccess(user.ID, sess.ID, ip)
	h.setRefreshCookie(w, refreshToken, now)

	writeJSON(w, http.StatusOK, authResponse{User: toUserResponse(user)})
}

func (h *Handler) loginFailed(w http.ResponseWriter, ip net.IP, reason string) {
	h.metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
	h.auditLoginFailed(ip, reason)
	writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	now := h.now()
	ip := clientIP(r, h.cfg.TrustProxy)

	if !h.allow(w, "refresh", h.cfg.RefreshMax, h.cfg.RefreshWindow, ip, "", now) {
		return
	}

	raw, ok := h.refreshTokenFromCookie(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "session_not_active", "session not active")
		return
	}

	res, err := h.sessions.Rotate(ctx, now, raw, requestMetadata(r, h.cfg.TrustProxy))
	if err != nil {
		h.log.Error("auth.refresh.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}

	h.metrics.RotationsTotal.WithLabelValues(string(res.Status)).Inc()

	switch res.Status {
	case session.StatusRotated:
		h.auditRefresh(string(res.Status), res.Session.ID, ip)
		h.setRefreshCookie(w, res.RefreshToken, now)
		writeJSON(w, http.StatusOK, okStatus())
	case session.StatusReused:
		h.metrics.ReuseDetectedTotal.Inc()
		h.auditReuseDetected(res.Session.ID, res.Session.UserID, ip)
		h.clearRefreshCookie(w)
		writeError(w, http.StatusUnauthorized, "session_not_active", "session not active")
	default:
		h.auditRefresh(string(res.Status), res.Session.ID, ip)
		h.clearRefreshCookie(w)
		writeError(w, http.StatusUnauthorized, "session_not_active", "session not active")
	}
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	now := h.now()

	// Logout never fails from the client's point of view: the cookie is
	// cleared whether or not the session was still live.
	if raw, ok := h.refreshTokenFromCookie(r); ok {
		if sess, err := h.sessions.Validate(ctx, raw); err == nil {
			if err := h.sessions.Revoke(ctx, now, sess.ID); err != nil {
				h.log.Error("auth.logout.revoke.fail", "err", err)
			} else {
				h.auditLogout(sess.ID, clientIP(r, h.cfg.TrustProxy))
			}
		}
	}

	h.clearRefreshCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	sess, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	user, err := h.users.GetByID(r.Context(), sess.UserID)
	if err != nil {
		if identity.IsNotFound(err) {
			writeError(w, http.StatusUnauthorized, "unauthorized", "session not active")
			return
		}
		h.log.Error("auth.me.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, meResponse{User: toUserResponse(user)})
}

func (h *Handler) handleSessions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
	case http.MethodDelete:
		h.handleSessionsRevokeAll(w, r)
		return
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	current, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	list, err := h.sessions.ListForUser(r.Context(), current.UserID)
	if err != nil {
		h.log.Error("auth.sessions.list.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}

	resp := sessionsResponse{Sessions: make([]sessionResponse, 0, len(list))}
	for _, s := range list {
		resp.Sessions = append(resp.Sessions, toSessionResponse(s, s.ID == current.ID))
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleSessionsRevokeAll is "log out everywhere": every session of the
// caller is revoked, including the current one.
func (h *Handler) handleSessionsRevokeAll(w http.ResponseWriter, r *http.Request) {
	current, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	now := h.now()
	if err := h.sessions.RevokeAll(r.Context(), now, current.UserID); err != nil {
		h.log.Error("auth.sessions.revoke_all.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}

	h.auditSessionRevoked(current.UserID, "all", clientIP(r, h.cfg.TrustProxy))
	h.clearRefreshCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSessionRevoke(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	sessionID := strings.TrimPrefix(r.URL.Path, "/auth/sessions/")
	if sessionID == "" || strings.Contains(sessionID, "/") {
		writeError(w, http.StatusNotFound, "not_found", "session not found")
		return
	}

	current, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	target, err := h.sessions.ListForUser(ctx, current.UserID)
	if err != nil {
		h.log.Error("auth.sessions.revoke.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}

	// Ownership check: only the caller's own sessions are addressable.
	var owned bool
	for _, s := range target {
		if s.ID == sessionID {
			owned = true
			break
		}
	}
	if !owned {
		writeError(w, http.StatusNotFound, "not_found", "session not found")
		return
	}

	now := h.now()
	if err := h.sessions.Revoke(ctx, now, sessionID); err != nil {
		h.log.Error("auth.sessions.revoke.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}

	h.auditSessionRevoked(current.UserID, sessionID, clientIP(r, h.cfg.TrustProxy))
	if sessionID == current.ID {
		h.clearRefreshCookie(w)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleVerifyEmailRequest(w http.ResponseWriter, r *http.Request) {
	h.handleVerificationRequest(w, r, verification.TypeVerifyEmail)
}

func (h *Handler) handlePasswordResetRequest(w http.ResponseWriter, r *http.Request) {
	h.handleVerificationRequest(w, r, verification.TypePasswordReset)
}

// handleVerificationRequest serves both "send me a link" flows. The response
// is identical whether or not the account exists.
func (h *Handler) handleVerificationRequest(w http.ResponseWriter, r *http.Request, typ verification.Type) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req verificationRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}

	email := private.Normalize(req.Email)
	if !validEmail(email) {
		writeError(w, http.StatusBadRequest, "invalid_request", "email is required")
		return
	}

	ctx := r.Context()
	now := h.now()
	ip := clientIP(r, h.cfg.TrustProxy)
	emailHash := h.priv.HashIdentifier(email)

	if !h.allow(w, "request", h.cfg.RequestMax, h.cfg.RequestWindow, ip, emailHash, now) {
		return
	}

	user, err := h.users.FindByEmailHash(ctx, emailHash)
	switch {
	case err == nil:
		if typ == verification.TypeVerifyEmail && user.EmailVerified() {
			break // nothing to verify, stay silent
		}
		h.issueVerification(ctx, now, emailHash, email, typ, ip)
	case identity.IsNotFound(err):
		// Silent: the generic acknowledgement below hides the miss.
	default:
		h.log.Error("auth.verification.lookup.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, okStatus())
}

func (h *Handler) handleVerifyEmailConfirm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req verifyEmailConfirmRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}

	email := private.Normalize(req.Email)
	if !validEmail(email) || strings.TrimSpace(req.Token) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "email and token are required")
		return
	}

	ctx := r.Context()
	now := h.now()
	ip := clientIP(r, h.cfg.TrustProxy)
	emailHash := h.priv.HashIdentifier(email)

	if !h.allow(w, "confirm", h.cfg.ConfirmMax, h.cfg.ConfirmWindow, ip, emailHash, now) {
		return
	}

	// Every outcome below the rate limiter gets the same generic body:
	// a different answer for a bad token would hand guessers an oracle.
	if _, err := h.verify.Consume(ctx, now, emailHash, verification.TypeVerifyEmail, strings.TrimSpace(req.Token)); err != nil {
		if !errors.Is(err, verification.ErrTokenInvalid) {
			h.log.Error("auth.verify_email.consume.fail", "err", err)
			writeError(w, http.StatusInternalServerError, "server_error", "internal error")
			return
		}
		writeJSON(w, http.StatusOK, okStatus())
		return
	}

	user, err := h.users.MarkEmailVerified(ctx, now, emailHash)
	if err != nil {
		if !identity.IsNotFound(err) {
			h.log.Error("auth.verify_email.mark.fail", "err", err)
			writeError(w, http.StatusInternalServerError, "server_error", "internal error")
			return
		}
		writeJSON(w, http.StatusOK, okStatus())
		return
	}

	h.metrics.VerificationConsumedTotal.WithLabelValues(string(verification.TypeVerifyEmail)).Inc()
	h.auditVerificationConsumed(string(verification.TypeVerifyEmail), user.ID, ip)
	writeJSON(w, http.StatusOK, okStatus())
}

func (h *Handler) handlePasswordResetConfirm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req passwordResetConfirmRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}

	email := private.Normalize(req.Email)
	if !validEmail(email) || strings.TrimSpace(req.Token) == "" || !validPassword(req.Password) {
		writeError(w, http.StatusBadRequest, "invalid_request", "email, token and password are required")
		return
	}

	ctx := r.Context()
	now := h.now()
	ip := clientIP(r, h.cfg.TrustProxy)
	emailHash := h.priv.HashIdentifier(email)

	if !h.allow(w, "confirm", h.cfg.ConfirmMax, h.cfg.ConfirmWindow, ip, emailHash, now) {
		return
	}

	// Same generic body on every outcome, as with verify-email confirm.
	if _, err := h.verify.Consume(ctx, now, emailHash, verification.TypePasswordReset, strings.TrimSpace(req.Token)); err != nil {
		if !errors.Is(err, verification.ErrTokenInvalid) {
			h.log.Error("auth.password_reset.consume.fail", "err", err)
			writeError(w, http.StatusInternalServerError, "server_error", "internal error")
			return
		}
		writeJSON(w, http.StatusOK, okStatus())
		return
	}

	user, err := h.users.FindByEmailHash(ctx, emailHash)
	if err != nil {
		if !identity.IsNotFound(err) {
			h.log.Error("auth.password_reset.lookup.fail", "err", err)
			writeError(w, http.StatusInternalServerError, "server_error", "internal error")
			return
		}
		writeJSON(w, http.StatusOK, okStatus())
		return
	}

	pwHash, err := h.pw.Hash(req.Password)
	if err != nil {
		h.log.Error("auth.password_reset.hash.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}
	if err := h.users.SetPasswordHash(ctx, now, user.ID, pwHash); err != nil {
		h.log.Error("auth.password_reset.set.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}

	// A credential reset terminates every session: whoever requested the
	// reset has just proven control of the mailbox, not of the devices.
	if err := h.sessions.RevokeAll(ctx, now, user.ID); err != nil {
		h.log.Error("auth.password_reset.revoke_all.fail", "err", err)
	}
	h.clearRefreshCookie(w)

	h.metrics.VerificationConsumedTotal.WithLabelValues(string(verification.TypePasswordReset)).Inc()
	h.auditVerificationConsumed(string(verification.TypePasswordReset), user.ID, ip)
	writeJSON(w, http.StatusOK, okStatus())
}

// ---- helpers ----

func (h *Handler) requireSession(w http.ResponseWriter, r *http.Request) (session.Session, bool) {
	raw, ok := h.refreshTokenFromCookie(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "session not active")
		return session.Session{}, false
	}
	sess, err := h.sessions.Validate(r.Context(), raw)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotActive) {
			writeError(w, http.StatusUnauthorized, "unauthorized", "session not active")
			return session.Session{}, false
		}
		h.log.Error("auth.validate.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		return session.Session{}, false
	}
	return sess, true
}

func (h *Handler) allow(w http.ResponseWriter, op string, limit int, window time.Duration, ip net.IP, extra string, now time.Time) bool {
	res := h.limiter.Check(now, rateLimitKey(op, ip, extra), limit, window)
	if res.Allowed {
		return true
	}
	retryAfter := res.ResetAt.Sub(now)
	h.metrics.RateLimitedTotal.WithLabelValues(op).Inc()
	h.auditRateLimited(op, ip, retryAfter)
	writeRateLimited(w, retryAfter)
	return false
}

func (h *Handler) issueVerification(ctx context.Context, now time.Time, identifier, email string, typ verification.Type, ip net.IP) {
	_, secret, err := h.verify.Issue(ctx, now, identifier, typ)
	if err != nil {
		h.log.Error("auth.verification.issue.fail", "err", err, "purpose", string(typ))
		return
	}

	msg := VerificationMessage{Email: email, Token: secret}
	switch typ {
	case verification.TypePasswordReset:
		err = h.email.SendPasswordReset(ctx, msg)
	default:
		err = h.email.SendEmailVerification(ctx, msg)
	}
	if err != nil {
		h.log.Error("auth.verification.send.fail", "err", err, "purpose", string(typ))
		return
	}

	h.metrics.VerificationIssuedTotal.WithLabelValues(string(typ)).Inc()
	h.auditVerificationIssued(string(typ), ip)
}

func toUserResponse(u identity.User) userResponse {
	return userResponse{
		ID:            u.ID,
		Username:      u.Username,
		EmailVerified: u.EmailVerified(),
		CreatedAt:     u.CreatedAt,
	}
}

func toSessionResponse(s session.Session, current bool) sessionResponse {
	resp := sessionResponse{
		ID:         s.ID,
		Current:    current,
		UserAgent:  s.UserAgent,
		CreatedAt:  s.CreatedAt,
		LastSeenAt: s.LastSeenAt,
		RevokedAt:  s.RevokedAt,
	}
	if s.IP != nil {
		resp.IP = s.IP.String()
	}
	return resp
}

func validUsername(username string) bool {
	if len(username) < 3 || len(username) > 32 {
		return false
	}
	for _, c := range username {
		switch {
		case c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9':
		case c == '_' || c == '-' || c == '.':
		default:
			return false
		}
	}
	return true
}

func validEmail(email string) bool {
	if len(email) < 3 || len(email) > 254 {
		return false
	}
	at := strings.IndexByte(email, '@')
	return at > 0 && at < len(email)-1
}

func validPassword(password string) bool {
	return len(password) >= 8 && len(password) <= 512
}
