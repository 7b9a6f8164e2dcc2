package domain

import "errors"

// Sentinel errors returned by identity providers. The form controller never shows
// them to the user, but they are logged and published with each outcome.
var (
	ErrUserAlreadyExists  = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials provided")
	ErrUserNotFound       = errors.New("user not found")
	ErrMissingEmail       = errors.New("email address is required")
	ErrInvalidEmail       = errors.New("email address is malformed")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrNotFound           = errors.New("requested resource not found")
)
