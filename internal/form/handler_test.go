package form

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	apperrors "career-advisor/internal/common/errors"
	"career-advisor/internal/common/logger"
	"career-advisor/internal/common/observability"
	"career-advisor/internal/models"
	"career-advisor/internal/prediction"
)

type fakePredictor struct {
	mu    sync.Mutex
	calls []models.PredictionRequest
	fn    func(ctx context.Context) (*models.PredictionResponse, error)
}

func (f *fakePredictor) Predict(ctx context.Context, req models.PredictionRequest) (*models.PredictionResponse, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	f.mu.Unlock()
	return f.fn(ctx)
}

func (f *fakePredictor) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type brokenGuard struct{}

func (brokenGuard) Acquire(context.Context, string) (string, error) {
	return "", errors.New("redis: connection pool timeout")
}

func (brokenGuard) Release(context.Context, string, string) error { return nil }

func respond(predictions ...models.Prediction) func(context.Context) (*models.PredictionResponse, error) {
	return func(context.Context) (*models.PredictionResponse, error) {
		return &models.PredictionResponse{Predictions: predictions}, nil
	}
}

func newTestHandler(t *testing.T, p Predictor, g Guard, timeout time.Duration) *Handler {
	t.Helper()
	if g == nil {
		g = NewLocalGuard(time.Minute)
	}
	return NewHandler(&Config{Timeout: timeout}, p, g, observability.NewNoop(), logger.NewTestLogger(t))
}

func TestHandler_Submit_Success(t *testing.T) {
	p := &fakePredictor{fn: respond(
		models.Prediction{Career: "Engineer", Probability: 91},
		models.Prediction{Career: "Analyst", Probability: 62},
	)}
	h := newTestHandler(t, p, nil, time.Second)

	s := h.Submit(context.Background(), "s1", validRaw())

	assert.Equal(t, StateSucceeded, s.State)
	assert.True(t, s.SuccessOpen)
	assert.False(t, s.ErrorOpen)
	assert.False(t, s.Loading)
	assert.Empty(t, s.Errors)
	require.Len(t, s.Predictions, 2)
	assert.Equal(t, "Engineer", s.Predictions[0].Career)

	require.Equal(t, 1, p.callCount())
	assert.Equal(t, 1, p.calls[0].Gender)
	assert.Equal(t, 1, p.calls[0].PartTimeJob)
	assert.Equal(t, 0, p.calls[0].ExtracurricularActivities)
	assert.Equal(t, 20, p.calls[0].WeeklyStudyHours)
}

func TestHandler_Submit_InvalidInputNeverCallsService(t *testing.T) {
	p := &fakePredictor{fn: respond(models.Prediction{Career: "X", Probability: 1})}
	h := newTestHandler(t, p, nil, time.Second)

	raw := validRaw()
	raw[FieldStudyHours] = "51"
	raw[FieldMath] = ""

	s := h.Submit(context.Background(), "s1", raw)

	assert.Equal(t, StateIdle, s.State)
	assert.False(t, s.ErrorOpen)
	assert.False(t, s.SuccessOpen)
	assert.Len(t, s.Errors, 2)
	assert.Contains(t, s.Errors, FieldStudyHours)
	assert.Contains(t, s.Errors, FieldMath)
	assert.Equal(t, 0, p.callCount())
}

func TestHandler_Submit_Failures(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{
			name:    "service detail",
			err:     &prediction.ServiceError{StatusCode: 500, Detail: "scaling failed"},
			wantMsg: "scaling failed",
		},
		{
			name:    "failed to fetch",
			err:     &prediction.TransportError{Err: errors.New("Failed to fetch")},
			wantMsg: apperrors.MsgServiceUnavailable,
		},
		{
			name:    "bad body",
			err:     &prediction.ResponseError{Err: errors.New("eof")},
			wantMsg: apperrors.MsgGenericFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &fakePredictor{fn: func(context.Context) (*models.PredictionResponse, error) {
				return nil, tt.err
			}}
			h := newTestHandler(t, p, nil, time.Second)

			s := h.Submit(context.Background(), "s1", validRaw())

			assert.Equal(t, StateFailed, s.State)
			assert.True(t, s.ErrorOpen)
			assert.False(t, s.SuccessOpen)
			assert.False(t, s.Loading)
			assert.Equal(t, tt.wantMsg, s.ErrorMessage)
			assert.Equal(t, 1, p.callCount(), "no retries")
		})
	}
}

func TestHandler_Submit_EmptyPredictions(t *testing.T) {
	h := newTestHandler(t, &fakePredictor{fn: respond()}, nil, time.Second)

	s := h.Submit(context.Background(), "s1", validRaw())

	assert.Equal(t, StateFailed, s.State)
	assert.Equal(t, apperrors.MsgPredictionFailed, s.ErrorMessage)
}

func TestHandler_Submit_Timeout(t *testing.T) {
	p := &fakePredictor{fn: func(ctx context.Context) (*models.PredictionResponse, error) {
		<-ctx.Done()
		return nil, &prediction.TransportError{Err: ctx.Err()}
	}}
	h := newTestHandler(t, p, nil, 20*time.Millisecond)

	s := h.Submit(context.Background(), "s1", validRaw())

	assert.Equal(t, StateFailed, s.State)
	assert.Equal(t, apperrors.MsgPredictionTimeout, s.ErrorMessage)
	assert.Equal(t, apperrors.ErrCodePredictionTimeout, s.Failure.Code)
	assert.Equal(t, 1, p.callCount())
}

func TestHandler_Submit_OneInFlightPerSession(t *testing.T) {
	started := make(chan struct{})
	unblock := make(chan struct{})
	p := &fakePredictor{fn: func(ctx context.Context) (*models.PredictionResponse, error) {
		close(started)
		<-unblock
		return &models.PredictionResponse{Predictions: []models.Prediction{{Career: "Engineer", Probability: 91}}}, nil
	}}
	h := newTestHandler(t, p, nil, time.Second)

	done := make(chan *Session)
	go func() { done <- h.Submit(context.Background(), "s1", validRaw()) }()
	<-started

	second := h.Submit(context.Background(), "s1", validRaw())
	assert.Equal(t, StateFailed, second.State)
	assert.Equal(t, apperrors.MsgSubmissionInFlight, second.ErrorMessage)
	assert.Equal(t, apperrors.ErrCodeSubmissionInFlight, second.Failure.Code)

	close(unblock)
	first := <-done
	assert.Equal(t, StateSucceeded, first.State)
	assert.Equal(t, 1, p.callCount())

	// The lock is released once the first submission finishes.
	p.fn = respond(models.Prediction{Career: "Analyst", Probability: 40})
	third := h.Submit(context.Background(), "s1", validRaw())
	assert.Equal(t, StateSucceeded, third.State)
}

func TestHandler_Submit_GuardFailureFailsOpen(t *testing.T) {
	p := &fakePredictor{fn: respond(models.Prediction{Career: "Engineer", Probability: 91})}
	h := newTestHandler(t, p, brokenGuard{}, time.Second)

	s := h.Submit(context.Background(), "s1", validRaw())

	assert.Equal(t, StateSucceeded, s.State)
	assert.Equal(t, 1, p.callCount())
}

func TestHandler_Submit_GuardFailureLogsCause(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	p := &fakePredictor{fn: respond(models.Prediction{Career: "Engineer", Probability: 91})}
	h := NewHandler(&Config{Timeout: time.Second}, p, brokenGuard{}, observability.NewNoop(),
		logger.NewZapAdapter(zap.New(core)))

	h.Submit(context.Background(), "s1", validRaw())

	entries := logs.FilterMessage("submission guard unavailable, continuing without lock").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "redis: connection pool timeout", fields["error"])
	assert.Equal(t, "submission", fields["component"])
}

func TestHandler_NilLogger(t *testing.T) {
	p := &fakePredictor{fn: respond(models.Prediction{Career: "Engineer", Probability: 91})}
	h := NewHandler(&Config{Timeout: time.Second}, p, NewLocalGuard(time.Minute), observability.NewNoop(), nil)

	s := h.Submit(context.Background(), "s1", validRaw())
	assert.Equal(t, StateSucceeded, s.State)
}

func TestHandler_Submit_CallerCancellation(t *testing.T) {
	p := &fakePredictor{fn: func(ctx context.Context) (*models.PredictionResponse, error) {
		<-ctx.Done()
		return nil, &prediction.TransportError{Err: ctx.Err()}
	}}
	h := newTestHandler(t, p, nil, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := h.Submit(ctx, "s1", validRaw())
	assert.Equal(t, StateFailed, s.State)
	assert.True(t, s.ErrorOpen)
	assert.NotEmpty(t, s.ErrorMessage)
}
