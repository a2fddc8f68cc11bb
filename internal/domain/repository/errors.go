package repository

import "errors"

var (
	// ErrNotFound is returned when a record does not exist or belongs
	// to another user.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail is returned when a user insert hits the unique
	// email constraint.
	ErrDuplicateEmail = errors.New("email already exists")
)
