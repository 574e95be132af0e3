// Package usecase implements the business logic for the auth feature.
package usecase

import "errors"

var (
	// ErrUserNotFound is returned when a user cannot be found by email, username or ID.
	ErrUserNotFound = errors.New("user not found")

	// ErrUserAlreadyExists is returned when the username or email is already taken.
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrRefreshTokenMismatch is returned when the stored refresh token is not the expected one.
	ErrRefreshTokenMismatch = errors.New("refresh token mismatch")
)
