// Package apperror defines the closed set of outcome tags every service
// operation can produce.
//
// OUTCOME TAXONOMY:
// Every operation in the marketplace core resolves to exactly one of:
//   - ErrNotFound — the entity simply isn't there (app, user, rating)
//   - ErrDenied   — a business rule said no (wrong password, duplicate name,
//     referenced app missing, insufficient role)
//   - ErrInfra    — the storage engine or token signer failed; the detail is
//     wrapped for logs but never shown to the caller
//
// Services return one of these (wrapped), never a value AND an error.
// The HTTP layer translates them to transport status in exactly one place
// (handler/response.go) — nothing else interprets them.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("not found")
	ErrDenied   = errors.New("denied")
	ErrInfra    = errors.New("infrastructure error")
)

// AppError carries a sentinel tag plus the human-readable message that the
// response envelope will surface. Message is safe to show to clients;
// Err's chain is only for logs.
type AppError struct {
	Err     error  // one of the sentinels above
	Message string // client-visible message
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound reports an absent entity, e.g. NotFound("app", "com.example.todo").
func NotFound(resource, key string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s %q does not exist", resource, key),
	}
}

// Denied reports a business-rule violation. The message is shown to the
// caller verbatim, so keep it free of internal detail.
func Denied(message string) *AppError {
	return &AppError{
		Err:     ErrDenied,
		Message: message,
	}
}

// Infra wraps a storage or signing failure. cause goes into the error chain
// for logging; the client only ever sees a generic message.
func Infra(cause error) *AppError {
	return &AppError{
		Err:     fmt.Errorf("%w: %w", ErrInfra, cause),
		Message: "unknown error",
	}
}
