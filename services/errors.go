package services

import "errors"

// Sentinel errors returned by the services layer. Controllers translate
// these to HTTP status codes.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflicting state")
)
