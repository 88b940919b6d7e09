package services

import "errors"

// Common service-level errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrAccountTaken       = errors.New("account already exists")
	ErrInvalidCredentials = errors.New("invalid account or password")
	ErrPasswordTooLong    = errors.New("password is longer than 72 bytes")
)
