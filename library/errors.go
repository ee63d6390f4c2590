package library

import "errors"

// Sentinel errors for lookup and session failures. All of them are
// recoverable: the menu layer reports them and keeps going.
var (
	// ErrNotAvailable means no copy with the requested title is free.
	ErrNotAvailable = errors.New("no available copy with that title")
	// ErrNoSuchOpenLoan means the patron has no open loan for the title.
	ErrNoSuchOpenLoan = errors.New("no open loan with that title")
	// ErrAuthFailure means login and password matched no user.
	ErrAuthFailure = errors.New("invalid login or password")
	// ErrInputClosed means the interactive input source reached EOF.
	ErrInputClosed = errors.New("input closed")
)

// ValidationError reports an empty or malformed user-supplied field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
