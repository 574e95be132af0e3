// Package validate holds the account field rules shared by registration and profile updates.
// Every rule fails with an apperror validation error whose message is shown to clients as is.
package validate

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"videotube_backend/internal/shared/apperror"
)

const (
	MinUsernameLength = 5
	MaxUsernameLength = 15
	MinFullNameLength = 5
	MaxFullNameLength = 50
	MinPasswordLength = 8
	MaxPasswordBytes  = 72 // bcrypt input limit
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+$`)

// Username checks the length bounds of a username.
func Username(username string) error {
	if n := utf8.RuneCountInString(username); n < MinUsernameLength || n > MaxUsernameLength {
		return apperror.Validation(fmt.Sprintf("Username must be between %d and %d characters", MinUsernameLength, MaxUsernameLength))
	}
	return nil
}

// FullName checks the length bounds of a display name.
func FullName(fullName string) error {
	if n := utf8.RuneCountInString(fullName); n < MinFullNameLength || n > MaxFullNameLength {
		return apperror.Validation(fmt.Sprintf("fullName must be between %d and %d characters", MinFullNameLength, MaxFullNameLength))
	}
	return nil
}

// Email checks the address against the accepted pattern.
func Email(email string) error {
	if !emailPattern.MatchString(email) {
		return apperror.Validation("Invalid email format")
	}
	return nil
}

// Password checks the length bounds of a password.
func Password(password string) error {
	if len(password) < MinPasswordLength {
		return apperror.Validation(fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}
	if len(password) > MaxPasswordBytes {
		return apperror.Validation(fmt.Sprintf("password must be at most %d bytes", MaxPasswordBytes))
	}
	return nil
}
