package client

import (
	"errors"
	"fmt"
)

// ErrSuperseded is returned when an attempt was replaced by a newer one before
// it finished; its late-arriving events are discarded, not applied.
var ErrSuperseded = errors.New("analysis attempt superseded")

// RequestError represents a failed HTTP exchange with the analysis service.
type RequestError struct {
	Endpoint string
	Status   int
	Message  string
	Cause    error
}

func (e *RequestError) Error() string {
	switch {
	case e.Cause != nil:
		return fmt.Sprintf("request to %s failed: %s: %v", e.Endpoint, e.Message, e.Cause)
	case e.Status != 0:
		return fmt.Sprintf("request to %s failed: %s (HTTP %d)", e.Endpoint, e.Message, e.Status)
	default:
		return fmt.Sprintf("request to %s failed: %s", e.Endpoint, e.Message)
	}
}

func (e *RequestError) Unwrap() error {
	return e.Cause
}
