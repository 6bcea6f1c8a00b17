package service

import "errors"

var (
	// ErrCodeConflict means the requested custom code is already taken.
	ErrCodeConflict = errors.New("short code already exists")
	// ErrAllocationExhausted means every generated candidate collided.
	ErrAllocationExhausted = errors.New("could not allocate a unique short code")
	// ErrNotFound covers both unknown and expired codes.
	ErrNotFound = errors.New("short code not found")
	// ErrBackend wraps any unexpected storage failure.
	ErrBackend = errors.New("storage backend failure")
	// ErrInvalidRequest is returned by request validation at the transport boundary.
	ErrInvalidRequest = errors.New("invalid request")
)
