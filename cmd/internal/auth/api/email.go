package authapi

import (
	"context"
	"log/slog"
)

// VerificationMessage carries everything an email backend needs to deliver a
// confirmation link. Token is the plain secret; it must never be logged.
type VerificationMessage struct {
	Email string
	Token string
}

// EmailSender delivers verification and password reset messages.
type EmailSender interface {
	SendEmailVerification(ctx context.Context, msg VerificationMessage) error
	SendPasswordReset(ctx context.Context, msg VerificationMessage) error
}

// NoopEmailSender drops messages. Default when no backend is wired.
type NoopEmailSender struct{}

func (NoopEmailSender) SendEmailVerification(context.Context, VerificationMessage) error {
	return nil
}

func (NoopEmailSender) SendPasswordReset(context.Context, VerificationMessage) error {
	return nil
}

// LogEmailSender records that a message would have been sent, without the
// token. Useful in development.
type LogEmailSender struct {
	Log *slog.Logger
}

func (s LogEmailSender) SendEmailVerification(_ context.Context, msg VerificationMessage) error {
	s.logger().Info("auth.email.verification.send", "email", msg.Email)
	return nil
}

func (s LogEmailSender) SendPasswordReset(_ context.Context, msg VerificationMessage) error {
	s.logger().Info("auth.email.password_reset.send", "email", msg.Email)
	return nil
}

func (s LogEmailSender) logger() *slog.Logger {
	if s.Log != nil {
		return s.Log
	}
	return slog.Default()
}
