package authapi

import (
	"net"
	"net/http"
	"strings"

	"chittersync/cmd/internal/auth/session"
)

func clientIP(r *http.Request, trustProxy bool) net.IP {
	if trustProxy {
		if ip := parseForwardedIP(r.Header.Get("X-Forwarded-For")); ip != nil {
			return ip
		}
		if ip := net.ParseIP(strings.TrimSpace(r.Header.Get("X-Real-IP"))); ip != nil {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil {
		if ip := net.ParseIP(host); ip != nil {
			return ip
		}
	}
	return nil
}

func parseForwardedIP(raw string) net.IP {
	if raw == "" {
		return nil
	}
	for _, p := range strings.Split(raw, ",") {
		if ip := net.ParseIP(strings.TrimSpace(p)); ip != nil {
			return ip
		}
	}
	return nil
}

func requestMetadata(r *http.Request, trustProxy bool) session.Metadata {
	var meta session.Metadata
	if ua := strings.TrimSpace(r.UserAgent()); ua != "" {
		meta.UserAgent = &ua
	}
	if ip := clientIP(r, trustProxy); ip != nil {
		meta.IP = &ip
	}
	return meta
}

// rateLimitKey scopes a limiter bucket to an operation and subject
// (client IP or hashed identifier).
func rateLimitKey(op string, subject net.IP, extra string) string {
	var b strings.Builder
	b.WriteString(op)
	b.WriteByte(':')
	if subject != nil {
		b.WriteString(subject.String())
	}
	if extra != "" {
		b.WriteByte(':')
		b.WriteString(extra)
	}
	return b.String()
}
