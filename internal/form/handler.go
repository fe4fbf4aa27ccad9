// internal/form/handler.go
package form

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	apperrors "career-advisor/internal/common/errors"
	"career-advisor/internal/common/logger"
	"career-advisor/internal/common/metrics"
	"career-advisor/internal/models"
)

const releaseTimeout = 2 * time.Second

// Predictor is the prediction service as seen by the workflow.
type Predictor interface {
	Predict(ctx context.Context, req models.PredictionRequest) (*models.PredictionResponse, error)
}

// Recorder receives OpenTelemetry measurements.
type Recorder interface {
	RecordSubmission(ctx context.Context, outcome string)
	RecordPredictionDuration(ctx context.Context, d time.Duration, status string)
}

type Config struct {
	// Timeout bounds each prediction call. Zero leaves only the caller's deadline.
	Timeout time.Duration
}

// Handler runs the validate, transform, request, display workflow.
type Handler struct {
	config    *Config
	predictor Predictor
	guard     Guard
	errors    *apperrors.ErrorHandler
	recorder  Recorder
	logger    logger.Logger
}

// NewHandler builds the workflow. A nil log discards output.
func NewHandler(cfg *Config, predictor Predictor, guard Guard, recorder Recorder, log logger.Logger) *Handler {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	log = log.With(map[string]interface{}{
		"component": "submission",
	})
	return &Handler{
		config:    cfg,
		predictor: predictor,
		guard:     guard,
		errors:    apperrors.NewErrorHandler(log),
		recorder:  recorder,
		logger:    log,
	}
}

// Submit validates raw and, when it is valid, asks the prediction service
// once. sessionKey identifies the browser session for the in-flight guard.
// The returned Session is always non-nil.
func (h *Handler) Submit(ctx context.Context, sessionKey string, raw RawInput) *Session {
	session := NewSession()
	submissionID := uuid.NewString()
	log := h.logger.With(map[string]interface{}{
		"submissionId": submissionID,
		"session":      sessionKey,
	})

	input, errs := Parse(raw)
	if !errs.Empty() {
		for _, f := range errs.Fields() {
			metrics.ValidationFailures.WithLabelValues(string(f)).Inc()
		}
		log.Info("form rejected", map[string]interface{}{
			"invalidFields": len(errs),
		})
		session.Invalid(errs)
		h.record(ctx, "invalid")
		return session
	}

	session.Begin()

	token, err := h.guard.Acquire(ctx, sessionKey)
	switch {
	case errors.Is(err, ErrSubmissionInFlight):
		h.fail(ctx, session, err, submissionID)
		return session
	case err != nil:
		log.WithError(err).Warn("submission guard unavailable, continuing without lock", nil)
	default:
		defer h.release(ctx, log, sessionKey, token)
	}

	metrics.SubmissionsInFlight.Inc()
	defer metrics.SubmissionsInFlight.Dec()

	callCtx := ctx
	if h.config.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, h.config.Timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := h.predictor.Predict(callCtx, input.ToRequest())
	elapsed := time.Since(start)

	if err == nil && len(resp.Predictions) == 0 {
		err = apperrors.NewPredictionFailedError("prediction service returned no predictions")
	}
	if err != nil {
		stdErr := h.fail(ctx, session, err, submissionID)
		h.recorder.RecordPredictionDuration(ctx, elapsed, string(stdErr.Code))
		return session
	}

	h.recorder.RecordPredictionDuration(ctx, elapsed, "ok")
	log.Info("prediction displayed", map[string]interface{}{
		"topCareer":   resp.Predictions[0].Career,
		"predictions": len(resp.Predictions),
		"duration":    elapsed.String(),
	})
	session.Succeed(resp.Predictions)
	h.record(ctx, "succeeded")
	return session
}

func (h *Handler) fail(ctx context.Context, session *Session, err error, submissionID string) *apperrors.StandardError {
	stdErr := h.errors.Handle(ctx, Classify(err), map[string]interface{}{
		"submissionId": submissionID,
		"cause":        err.Error(),
	})
	session.Fail(stdErr)
	h.record(ctx, "failed")
	return stdErr
}

func (h *Handler) release(ctx context.Context, log logger.Logger, sessionKey, token string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
	defer cancel()
	if err := h.guard.Release(ctx, sessionKey, token); err != nil {
		log.WithError(err).Warn("failed to release submission lock", map[string]interface{}{
			"sessionKey": sessionKey,
		})
	}
}

func (h *Handler) record(ctx context.Context, outcome string) {
	metrics.FormSubmissions.WithLabelValues(outcome).Inc()
	h.recorder.RecordSubmission(ctx, outcome)
}
