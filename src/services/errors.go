package services

import "errors"

// Sentinel errors for explicit error handling
// Handlers map these to HTTP status codes with errors.Is()

var (
	// ErrValidation indicates a request is missing or has malformed fields
	ErrValidation = errors.New("validation failed")

	// ErrInvalidCredentials indicates authentication failed
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthorized indicates a bearer token is missing, malformed or expired
	ErrUnauthorized = errors.New("unauthorized")

	// ErrTrackingNotFound indicates no tracking record has the requested number
	ErrTrackingNotFound = errors.New("tracking not found")

	// ErrConflict indicates a write collided with a unique field
	ErrConflict = errors.New("conflict")
)
