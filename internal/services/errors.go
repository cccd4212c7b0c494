// File: internal/services/errors.go
package services

import "errors"

// Sentinel errors the handlers map onto HTTP status codes.
var (
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("resource not found")
	ErrForbidden          = errors.New("not authorized")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")

	ErrEmptyFile            = errors.New("file is empty")
	ErrFileTooLarge         = errors.New("file exceeds the maximum allowed size")
	ErrUnsupportedExtension = errors.New("unsupported file extension")
)
