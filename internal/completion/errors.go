package completion

import (
	"errors"
	"fmt"
)

// ErrNoChoices is returned when a successful response carries no choices.
var ErrNoChoices = errors.New("response contained no choices")

// TransportError wraps a failure to reach the provider or read its reply.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return e.Err.Error() }
func (e *TransportError) Unwrap() error { return e.Err }

// APIError is a non-2xx reply whose body named the problem.
type APIError struct {
	StatusCode int
	Message    string
	Type       string
}

func (e *APIError) Error() string { return e.Message }

// DecodeError is a reply body that could not be understood.
type DecodeError struct {
	StatusCode int
	Err        error
}

func (e *DecodeError) Error() string {
	if e.StatusCode >= 200 && e.StatusCode < 300 {
		return fmt.Sprintf("parsing response: %v", e.Err)
	}
	return fmt.Sprintf("parsing error response (status %d): %v", e.StatusCode, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
