// internal/form/failure.go
package form

import (
	"errors"
	"net"
	"net/url"
	"strings"
	"syscall"

	apperrors "career-advisor/internal/common/errors"
	"career-advisor/internal/prediction"
)

// Codes the prediction service may send next to detail.
const (
	serviceCodeDataScaling = "DATA_SCALING_FAILED"
	serviceCodeScaling     = "SCALING_FAILED"
	serviceCodePrediction  = "PREDICTION_FAILED"
	serviceCodeUnavailable = "SERVICE_UNAVAILABLE"
)

// Classify turns a submission failure into the error shown to the student.
func Classify(err error) *apperrors.StandardError {
	if stdErr, ok := apperrors.AsStandardError(err); ok {
		return stdErr
	}

	var (
		serr *prediction.ServiceError
		terr *prediction.TransportError
		rerr *prediction.ResponseError
	)
	switch {
	case errors.Is(err, ErrSubmissionInFlight):
		return apperrors.NewSubmissionInFlightError()
	case errors.As(err, &serr):
		return classifyServiceError(serr)
	case errors.As(err, &terr):
		return classifyTransportError(terr)
	case errors.As(err, &rerr):
		return apperrors.NewInvalidResponseError(rerr)
	default:
		return apperrors.NewInternalError(err)
	}
}

func classifyServiceError(serr *prediction.ServiceError) *apperrors.StandardError {
	var stdErr *apperrors.StandardError
	switch serr.Code {
	case serviceCodeDataScaling, serviceCodeScaling:
		stdErr = apperrors.NewDataProcessingError(serr.Detail)
	case serviceCodePrediction:
		stdErr = apperrors.NewPredictionFailedError(serr.Detail)
	case serviceCodeUnavailable:
		stdErr = apperrors.NewServiceUnavailableError(serr)
	default:
		return apperrors.NewServiceError(serr.StatusCode, serr.Detail)
	}
	return stdErr.WithMetadata("statusCode", serr.StatusCode).WithMetadata("serviceCode", serr.Code)
}

func classifyTransportError(terr *prediction.TransportError) *apperrors.StandardError {
	if terr.Timeout() {
		return apperrors.NewPredictionTimeoutError(terr)
	}
	if unreachable(terr.Err) {
		return apperrors.NewServiceUnavailableError(terr)
	}

	cause := transportCause(terr.Err)
	msg := strings.ToLower(cause.Error())
	switch {
	case strings.Contains(msg, "failed to fetch"), strings.Contains(msg, "connection refused"):
		return apperrors.NewServiceUnavailableError(terr)
	case strings.Contains(msg, "scaling"):
		return apperrors.NewDataProcessingError(cause.Error())
	case strings.Contains(msg, "prediction"):
		return apperrors.NewPredictionFailedError(cause.Error())
	default:
		return apperrors.NewTransportError(cause)
	}
}

func unreachable(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}

// transportCause strips the url.Error wrapper so the request URL is not
// matched or shown.
func transportCause(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		return urlErr.Err
	}
	return err
}
