// Package usecase implements profile reads and updates for the authenticated user.
package usecase

import "errors"

var (
	// ErrUserNotFound is returned when the caller's record no longer exists.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailAlreadyExists is returned when the new email belongs to another user.
	ErrEmailAlreadyExists = errors.New("email already exists")
)
