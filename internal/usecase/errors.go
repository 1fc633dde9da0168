package usecase

import (
	"errors"
)

// Error classes. Concrete errors wrap one of these so the HTTP layer can
// pick a status code with errors.Is.
var (
	ErrValidation      = errors.New("validation failed")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrExternal        = errors.New("external service error")
)

var (
	ErrDateRequired           = newError(ErrValidation, "date required")
	ErrAuthenticationRequired = newError(ErrUnauthenticated, "authentication required")
	ErrInvalidCredentials     = newError(ErrUnauthenticated, "invalid credentials")
	ErrAccountDeactivated     = newError(ErrForbidden, "account is deactivated")
	ErrInvalidCode            = newError(ErrValidation, "invalid or expired code")

	// ErrStaleAvailability means a newer month was requested before this one resolved.
	ErrStaleAvailability = errors.New("availability result superseded")

	ErrInvalidTransition = errors.New("invalid state transition")
)

// classError reads as its own message and matches its class with errors.Is.
type classError struct {
	class error
	msg   string
}

func newError(class error, msg string) error {
	return &classError{class: class, msg: msg}
}

func (e *classError) Error() string { return e.msg }
func (e *classError) Unwrap() error { return e.class }

// ExternalError carries a message from an outside service that is shown to
// the user unchanged.
type ExternalError struct {
	Message string
	Err     error
}

func (e *ExternalError) Error() string { return e.Message }

func (e *ExternalError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrExternal}
	}
	return []error{ErrExternal, e.Err}
}

func validationError(msg string) error {
	return newError(ErrValidation, msg)
}

func notFound(what string) error {
	return newError(ErrNotFound, what+" not found")
}
