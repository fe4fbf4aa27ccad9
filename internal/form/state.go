// internal/form/state.go
package form

import (
	apperrors "career-advisor/internal/common/errors"
	"career-advisor/internal/models"
)

type State string

const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
)

// Session is the view state of one form submission. A new Session is created
// for every submission and never outlives the request that renders it.
type Session struct {
	State        State
	Loading      bool
	SuccessOpen  bool
	ErrorOpen    bool
	ErrorMessage string
	Errors       ValidationErrors
	Predictions  []models.Prediction
	// Failure is the classified error behind ErrorMessage.
	Failure *apperrors.StandardError
}

func NewSession() *Session {
	return &Session{State: StateIdle, Errors: ValidationErrors{}}
}

// Invalid records validation failures. The session stays idle.
func (s *Session) Invalid(errs ValidationErrors) {
	s.State = StateIdle
	s.Loading = false
	s.Errors = errs
}

// Begin enters Submitting and clears any previous outcome.
func (s *Session) Begin() {
	s.State = StateSubmitting
	s.Loading = true
	s.SuccessOpen = false
	s.ErrorOpen = false
	s.ErrorMessage = ""
	s.Errors = ValidationErrors{}
	s.Predictions = nil
	s.Failure = nil
}

func (s *Session) Succeed(predictions []models.Prediction) {
	s.State = StateSucceeded
	s.Loading = false
	s.SuccessOpen = true
	s.Predictions = predictions
}

func (s *Session) Fail(stdErr *apperrors.StandardError) {
	s.State = StateFailed
	s.Loading = false
	s.ErrorOpen = true
	s.ErrorMessage = stdErr.Message
	s.Failure = stdErr
}

// Dismiss closes whichever dialog is open and returns to Idle.
func (s *Session) Dismiss() {
	s.State = StateIdle
	s.Loading = false
	s.SuccessOpen = false
	s.ErrorOpen = false
}
