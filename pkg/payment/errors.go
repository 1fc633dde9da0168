package payment

import (
	"errors"
	"fmt"
)

var (
	// ErrInternal is returned when the request could not be built or sent.
	ErrInternal = errors.New("payment client: internal error")

	// ErrInvalidResponse is returned when the response body cannot be decoded.
	ErrInvalidResponse = errors.New("payment client: invalid response")

	// ErrTimeout is returned when the provider did not answer in time.
	ErrTimeout = errors.New("payment provider did not respond in time")
)

// APIError carries the provider's own message so it can be shown as is.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("payment provider returned status %d", e.StatusCode)
	}
	return e.Message
}
