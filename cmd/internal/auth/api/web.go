package authapi

import (
	"net/http"
	"strings"
	"time"
)

// cookieName returns the effective refresh cookie name. In production the
// __Host- prefix locks the cookie to this origin, Secure, and Path=/.
func (h *Handler) cookieName() string {
	if h.cfg.Production {
		return "__Host-" + h.cfg.RefreshCookieName
	}
	return h.cfg.RefreshCookieName
}

func (h *Handler) setRefreshCookie(w http.ResponseWriter, value string, now time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName(),
		Value:    value,
		Path:     h.cfg.CookiePath,
		Expires:  now.Add(h.cfg.CookieTTL),
		HttpOnly: true,
		Secure:   h.cfg.Production,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName(),
		Value:    "",
		Path:     h.cfg.CookiePath,
		Expires:  time.Unix(0, 0).UTC(),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.Production,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) refreshTokenFromCookie(r *http.Request) (string, bool) {
	c, err := r.Cookie(h.cookieName())
	if err != nil {
		return "", false
	}
	v := strings.TrimSpace(c.Value)
	if v == "" {
		return "", false
	}
	return v, true
}
