package password

import "errors"

// Public, stable errors for callers.
var (
	ErrConfig        = errors.New("password: invalid config")
	ErrInvalidHash   = errors.New("password: invalid hash")
	ErrPepperMissing = errors.New("password: pepper required but not configured")
)
