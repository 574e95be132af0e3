package usecase

import "errors"

var (
	// ErrChannelNotFound is returned when no user has the requested username.
	ErrChannelNotFound = errors.New("channel not found")
	// ErrUserNotFound is returned when the caller's record is gone.
	ErrUserNotFound = errors.New("user not found")
)
