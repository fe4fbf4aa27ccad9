package prediction

import (
	"context"
	"errors"
	"fmt"
)

// ServiceError is a completed request answered with a non-success status.
type ServiceError struct {
	StatusCode int
	// Detail is the body's detail field: the string itself, or compact JSON
	// when the service sent a structured value. Empty when absent.
	Detail string
	// Code is the optional machine-readable error code.
	Code string
}

func (e *ServiceError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("prediction service returned %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("prediction service returned %d", e.StatusCode)
}

// TransportError is a request that never produced a response.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("prediction request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the request ran out of time.
func (e *TransportError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var t interface{ Timeout() bool }
	return errors.As(e.Err, &t) && t.Timeout()
}

// ResponseError is a success status whose body could not be used.
type ResponseError struct {
	Err error
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("invalid prediction response: %v", e.Err)
}

func (e *ResponseError) Unwrap() error {
	return e.Err
}

// ErrInvalidRequest marks a payload rejected by the request schema before sending.
var ErrInvalidRequest = errors.New("INVALID_PREDICTION_REQUEST")
