package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrConflict indicates a uniqueness violation, e.g. a duplicate email.
	ErrConflict = errors.New("already exists")
	// ErrStatusTransition indicates an illegal transaction status change.
	ErrStatusTransition = errors.New("illegal status transition")
)
