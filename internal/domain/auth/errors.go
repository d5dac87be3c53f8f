package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionInvalid     = errors.New("session missing, unknown or expired")
	ErrUsernameTaken      = errors.New("username already exists")
)
