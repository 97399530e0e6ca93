package domain

import "errors"

// Sentinel errors raised by the repository layer. The API boundary maps
// these to HTTP status codes; everything else surfaces as a 500.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateName indicates a unique name constraint was violated,
	// e.g. creating a saved filter whose (entityType, name) pair is taken.
	ErrDuplicateName = errors.New("name already in use")
)
