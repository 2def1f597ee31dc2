// Package apperr defines the application error taxonomy.
package apperr

import "errors"

// ErrNotFound covers both a note that does not exist and a note owned by a
// different identity. The two cases are indistinguishable to callers so that
// note ids cannot be enumerated.
var ErrNotFound = errors.New("note not found")

// ValidationError reports a violated input rule. The message is safe to
// return to the client.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validation builds a ValidationError with the given message.
func Validation(msg string) error {
	return &ValidationError{Msg: msg}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
