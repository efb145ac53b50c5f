package services

import "errors"

// Sentinel errors the API layer maps to HTTP status codes.
var (
	// ErrNotFound means the referenced record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate means a uniqueness constraint would be violated.
	ErrDuplicate = errors.New("record already exists")

	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password so the response never reveals which factor failed.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
