// Package apperr defines the recoverable business error taxonomy shared by all
// services. Anything that does not match one of these sentinels is treated as an
// infrastructure failure and propagates to the caller unchanged.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers unknown entities and entities hidden on purpose
	// (an inactive link answers NotFound, same as a missing one).
	ErrNotFound = errors.New("not found")

	// ErrForbidden is returned when the caller is not the resource owner.
	ErrForbidden = errors.New("forbidden")

	// ErrBadRequest covers business-rule violations: link limit exceeded,
	// malformed schedule, invalid link_type/url combination.
	ErrBadRequest = errors.New("bad request")
)

// NotFound wraps ErrNotFound with a formatted detail message.
func NotFound(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// Forbidden wraps ErrForbidden with a formatted detail message.
func Forbidden(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrForbidden, fmt.Sprintf(format, args...))
}

// BadRequest wraps ErrBadRequest with a formatted detail message.
func BadRequest(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrBadRequest, fmt.Sprintf(format, args...))
}

// IsBusiness reports whether err belongs to the recoverable taxonomy.
func IsBusiness(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrForbidden) || errors.Is(err, ErrBadRequest)
}
