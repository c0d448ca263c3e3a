package repository

import "errors"

var (
	// ErrNotFound is returned when a document lookup matches nothing.
	ErrNotFound = errors.New("document not found")
	// ErrDuplicate is returned when a unique index rejects a write.
	ErrDuplicate = errors.New("document already exists")
)
