package models

import "errors"

// Shared storage-level sentinels. Services classify these with errors.Is and
// translate them into their own error taxonomy.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a uniqueness violation (email, PAN, symbol).
	ErrAlreadyExists = errors.New("already exists")

	// ErrConflict indicates a storage transaction lost a concurrency conflict
	// and may be retried.
	ErrConflict = errors.New("transaction conflict")
)
