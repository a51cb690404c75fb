package service

import "errors"

// ValidationError marks malformed caller input. It is the only error class
// that surfaces to the end user; everything provider-side is recovered via
// fallbacks.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")
