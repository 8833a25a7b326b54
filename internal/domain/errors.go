package domain

import "errors"

var (
	// ErrStorageFull marks a write rejected because the local store ran out
	// of space. Recoverable: the operator deletes old items and retries.
	ErrStorageFull = errors.New("local storage is full")

	// ErrDuplicateID marks an insert whose id already exists locally.
	ErrDuplicateID = errors.New("duplicate booking id")

	ErrNotFound = errors.New("not found")
)
