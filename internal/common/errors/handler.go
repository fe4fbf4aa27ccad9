// internal/common/errors/handler.go
package errors

import (
	"context"

	"career-advisor/internal/common/metrics"
)

// ErrorHandler normalizes submission failures, logs them and counts them by code.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Handle returns the StandardError for err. fields are added to the log entry.
func (h *ErrorHandler) Handle(_ context.Context, err error, fields map[string]interface{}) *StandardError {
	stdErr := Normalize(err)

	metrics.SubmissionErrors.WithLabelValues(string(stdErr.Code)).Inc()
	h.logError(stdErr, fields)

	return stdErr
}

// Normalize ensures we always have a StandardError
func Normalize(err error) *StandardError {
	if stdErr, ok := AsStandardError(err); ok {
		return stdErr
	}
	return NewInternalError(err)
}

func (h *ErrorHandler) logError(stdErr *StandardError, fields map[string]interface{}) {
	entry := map[string]interface{}{
		"errorCode":     string(stdErr.Code),
		"message":       stdErr.Message,
		"details":       stdErr.Details,
		"retryable":     stdErr.Retryable,
		"errorCategory": GetErrorCategory(stdErr.Code),
	}
	for k, v := range stdErr.Metadata {
		entry[k] = v
	}
	for k, v := range fields {
		entry[k] = v
	}
	h.logger.Error("submission failed", entry)
}
