package authapi

import (
	"net"
	"time"
)

// Audit events go through the structured logger. Identifiers are already
// hashed by the time they reach this file; plain emails and tokens never do.

func (h *Handler) auditRegistered(userID string, ip net.IP) {
	h.log.Info("auth.register.success", "user_id", userID, "ip", ipString(ip))
}

func (h *Handler) auditLoginSuccess(userID, sessionID string, ip net.IP) {
	h.log.Info("auth.login.success", "user_id", userID, "session_id", sessionID, "ip", ipString(ip))
}

func (h *Handler) auditLoginFailed(ip net.IP, reason string) {
	h.log.Info("auth.login.failed", "reason", reason, "ip", ipString(ip))
}

func (h *Handler) auditRateLimited(op string, ip net.IP, retryAfter time.Duration) {
	h.log.Info("auth.rate_limited", "op", op, "ip", ipString(ip),
		"retry_after_s", int64(retryAfter.Seconds()))
}

func (h *Handler) auditRefresh(status, sessionID string, ip net.IP) {
	h.log.Info("auth.refresh", "status", status, "session_id", sessionID, "ip", ipString(ip))
}

func (h *Handler) auditReuseDetected(sessionID, userID string, ip net.IP) {
	h.log.Warn("auth.refresh.reuse_detected",
		"session_id", sessionID, "user_id", userID, "ip", ipString(ip))
}

func (h *Handler) auditLogout(sessionID string, ip net.IP) {
	h.log.Info("auth.logout", "session_id", sessionID, "ip", ipString(ip))
}

func (h *Handler) auditSessionRevoked(userID, sessionID string, ip net.IP) {
	h.log.Info("auth.session.revoked", "user_id", userID, "session_id", sessionID, "ip", ipString(ip))
}

func (h *Handler) auditVerificationIssued(purpose string, ip net.IP) {
	h.log.Info("auth.verification.issued", "purpose", purpose, "ip", ipString(ip))
}

func (h *Handler) auditVerificationConsumed(purpose, userID string, ip net.IP) {
	h.log.Info("auth.verification.consumed", "purpose", purpose, "user_id", userID, "ip", ipString(ip))
}

func ipString(ip net.IP) string {
	if ip == nil {
		return ""
	}
	return ip.String()
}
