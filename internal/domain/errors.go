package domain

import "errors"

var (
	// ErrDuplicateEmail is returned when signing up with an already registered email
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrInvalidCredentials covers both unknown email and wrong password
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrLotNotFound covers both a missing lot and a lot owned by someone else
	ErrLotNotFound = errors.New("lot not found or access denied")
	// ErrUserNotFound is returned when a session points at a user that no longer exists
	ErrUserNotFound = errors.New("user not found")
	// ErrExport wraps document generation failures
	ErrExport = errors.New("export failed")
)

// ValidationError is a user input problem whose Message is safe to show
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Invalid builds a ValidationError
func Invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err is or wraps a ValidationError
func IsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
