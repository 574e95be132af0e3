// Package apperror defines the error taxonomy surfaced to the transport boundary.
package apperror

import (
	"errors"
	"net/http"
)

// Kind classifies an application error.
type Kind int

const (
	// KindInternal is an unexpected storage or signing failure.
	KindInternal Kind = iota
	// KindValidation is malformed or missing input.
	KindValidation
	// KindConflict is a uniqueness violation.
	KindConflict
	// KindNotFound means the requested resource does not exist.
	KindNotFound
	// KindAuthentication covers bad credentials and invalid or stale tokens.
	KindAuthentication
	// KindUpload is a media host failure.
	KindUpload
)

// String returns the taxonomy name of the kind.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "ValidationError"
	case KindConflict:
		return "ConflictError"
	case KindNotFound:
		return "NotFoundError"
	case KindAuthentication:
		return "AuthenticationError"
	case KindUpload:
		return "UploadError"
	default:
		return "InternalError"
	}
}

// HTTPStatus maps the kind to its response status code.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation, KindUpload:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	case KindAuthentication:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Error is an error with a kind and a client-safe message.
// Err keeps the underlying cause for logging; it is never rendered to clients.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Kind.String() + ": " + e.Message + ": " + e.Err.Error()
	}
	return e.Kind.String() + ": " + e.Message
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an Error without a cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an Error around cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

func Validation(message string) *Error     { return New(KindValidation, message) }
func Conflict(message string) *Error       { return New(KindConflict, message) }
func NotFound(message string) *Error       { return New(KindNotFound, message) }
func Authentication(message string) *Error { return New(KindAuthentication, message) }

func Upload(message string, cause error) *Error   { return Wrap(KindUpload, message, cause) }
func Internal(message string, cause error) *Error { return Wrap(KindInternal, message, cause) }

// KindOf reports the kind of err. Errors outside the taxonomy are internal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}
