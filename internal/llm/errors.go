package llm

import (
	"errors"
	"fmt"
)

// ErrMissingAPIKey is returned when a client is constructed without credentials
var ErrMissingAPIKey = errors.New("API key not configured")

// ServiceError reports a failed call to the hosted model service
type ServiceError struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *ServiceError) Error() string {
	msg := "llm " + e.Op + " failed"
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" with status %d", e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}
