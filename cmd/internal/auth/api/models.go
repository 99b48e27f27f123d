package authapi

import "time"

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type verificationRequest struct {
	Email string `json:"email"`
}

type verifyEmailConfirmRequest struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

type passwordResetConfirmRequest struct {
	Email    string `json:"email"`
	Token    string `json:"token"`
	Password string `json:"password"`
}

type userResponse struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	EmailVerified bool      `json:"email_verified"`
	CreatedAt     time.Time `json:"created_at"`
}

type sessionResponse struct {
	ID         string     `json:"id"`
	Current    bool       `json:"current"`
	UserAgent  *string    `json:"user_agent,omitempty"`
	IP         string     `json:"ip,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	LastSeenAt time.Time  `json:"last_seen_at"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty"`
}

type authResponse struct {
	User userResponse `json:"user"`
}

type meResponse struct {
	User userResponse `json:"user"`
}

type sessionsResponse struct {
	Sessions []sessionResponse `json:"sessions"`
}

// statusResponse is the deliberately uninformative acknowledgement used by
// flows that must not reveal account existence.
type statusResponse struct {
	Status string `json:"status"`
}

func okStatus() statusResponse { return statusResponse{Status: "ok"} }
