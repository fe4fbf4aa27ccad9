// Package errors provides the standardized error taxonomy of the career advisor.
// Message always carries the text shown to the student; Details keeps the
// technical cause for logs.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"

	ErrCodeServiceUnavailable ErrorCode = "PREDICTION_SERVICE_UNAVAILABLE"
	ErrCodeServiceError       ErrorCode = "PREDICTION_SERVICE_ERROR"
	ErrCodePredictionTimeout  ErrorCode = "PREDICTION_TIMEOUT"
	ErrCodeDataProcessing     ErrorCode = "DATA_PROCESSING_FAILED"
	ErrCodePredictionFailed   ErrorCode = "PREDICTION_FAILED"
	ErrCodeTransportFailed    ErrorCode = "PREDICTION_TRANSPORT_FAILED"
	ErrCodeInvalidResponse    ErrorCode = "INVALID_PREDICTION_RESPONSE"

	ErrCodeSubmissionInFlight ErrorCode = "SUBMISSION_IN_FLIGHT"
	ErrCodeInternal           ErrorCode = "INTERNAL_ERROR"
)

// User-facing messages.
const (
	MsgServiceUnavailable = "Unable to connect to the prediction service. Please ensure the server is running."
	MsgDataProcessing     = "Error processing your data. Please check your input values."
	MsgPredictionFailed   = "Error generating career prediction. Please try again."
	MsgPredictionTimeout  = "The prediction service did not respond in time. Please try again."
	MsgServiceFallback    = "Failed to get prediction"
	MsgGenericFailure     = "Failed to get prediction. Please try again."
	MsgSubmissionInFlight = "A prediction request is already in progress. Please wait for it to finish."
	MsgValidationFailed   = "Please correct the highlighted fields."
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// WithMetadata attaches a key/value pair and returns the same error.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// ==========================
// 2. Error Constructors
// ==========================

func newError(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

// NewValidationFailedError reports rejected form input; the per-field messages travel separately.
func NewValidationFailedError(fieldCount int) *StandardError {
	return newError(ErrCodeValidationFailed, MsgValidationFailed,
		fmt.Sprintf("%d invalid fields", fieldCount), false)
}

// NewServiceUnavailableError is used when the prediction service cannot be reached.
func NewServiceUnavailableError(err error) *StandardError {
	return newError(ErrCodeServiceUnavailable, MsgServiceUnavailable, errDetails(err), true)
}

// NewServiceError reports a non-success response. message is shown as is.
func NewServiceError(statusCode int, message string) *StandardError {
	if message == "" {
		message = MsgServiceFallback
	}
	return newError(ErrCodeServiceError, message, fmt.Sprintf("status %d", statusCode), statusCode >= 500).
		WithMetadata("statusCode", statusCode)
}

func NewPredictionTimeoutError(err error) *StandardError {
	return newError(ErrCodePredictionTimeout, MsgPredictionTimeout, errDetails(err), true)
}

func NewDataProcessingError(details string) *StandardError {
	return newError(ErrCodeDataProcessing, MsgDataProcessing, details, false)
}

func NewPredictionFailedError(details string) *StandardError {
	return newError(ErrCodePredictionFailed, MsgPredictionFailed, details, true)
}

// NewTransportError passes the raw transport message through to the user.
func NewTransportError(err error) *StandardError {
	msg := MsgGenericFailure
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return newError(ErrCodeTransportFailed, msg, errDetails(err), true)
}

func NewInvalidResponseError(err error) *StandardError {
	return newError(ErrCodeInvalidResponse, MsgGenericFailure, errDetails(err), true)
}

func NewSubmissionInFlightError() *StandardError {
	return newError(ErrCodeSubmissionInFlight, MsgSubmissionInFlight, "", true)
}

func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, MsgGenericFailure, errDetails(err), false)
}

func errDetails(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// ==========================
// 3. Utility Functions
// ==========================

// AsStandardError unwraps err to a *StandardError if one is in the chain.
func AsStandardError(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// HTTPStatus maps an error code to the status returned by the JSON API.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeValidationFailed:
		return http.StatusUnprocessableEntity
	case ErrCodeSubmissionInFlight:
		return http.StatusConflict
	case ErrCodePredictionTimeout:
		return http.StatusGatewayTimeout
	case ErrCodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusBadGateway
	}
}

// GetErrorCategory groups codes for logging and dashboards.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeValidationFailed:
		return "VALIDATION"
	case ErrCodeServiceError, ErrCodeDataProcessing, ErrCodePredictionFailed, ErrCodeInvalidResponse:
		return "SERVICE_REPORTED"
	case ErrCodeServiceUnavailable, ErrCodePredictionTimeout, ErrCodeTransportFailed:
		return "TRANSPORT"
	case ErrCodeSubmissionInFlight:
		return "CONCURRENCY"
	default:
		return "INTERNAL"
	}
}
