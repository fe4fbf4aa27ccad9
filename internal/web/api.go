// internal/web/api.go
package web

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	apperrors "career-advisor/internal/common/errors"
	"career-advisor/internal/form"
)

const (
	maxRequestBytes = 64 << 10
	readyTimeout    = 3 * time.Second
)

type apiError struct {
	Code    apperrors.ErrorCode `json:"code"`
	Message string              `json:"message"`
}

func newAPIError(err *apperrors.StandardError) *apiError {
	return &apiError{Code: err.Code, Message: err.Message}
}

type apiResponse struct {
	State       form.State              `json:"state"`
	Errors      map[form.Field]string   `json:"errors"`
	Predictions []form.RankedPrediction `json:"predictions"`
	Error       *apiError               `json:"error"`
}

func (s *Server) handleAPIPredict(w http.ResponseWriter, r *http.Request) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	dec.UseNumber()

	var body map[string]interface{}
	if err := dec.Decode(&body); err != nil || body == nil {
		writeJSON(w, http.StatusBadRequest, apiResponse{
			State:       form.StateIdle,
			Errors:      map[form.Field]string{},
			Predictions: []form.RankedPrediction{},
			Error: &apiError{
				Code:    apperrors.ErrCodeValidationFailed,
				Message: "Request body must be a JSON object.",
			},
		})
		return
	}

	raw := form.RawInput{}
	for _, spec := range form.Fields {
		raw[spec.Field] = rawValue(body[string(spec.Field)])
	}

	session := s.submitter.Submit(r.Context(), sessionID(r), raw)

	resp := apiResponse{
		State:       session.State,
		Errors:      session.Errors,
		Predictions: form.Rank(session.Predictions),
	}
	if resp.Errors == nil {
		resp.Errors = map[form.Field]string{}
	}

	status := http.StatusOK
	switch {
	case !session.Errors.Empty():
		resp.Error = newAPIError(apperrors.NewValidationFailedError(len(session.Errors)))
		status = apperrors.HTTPStatus(resp.Error.Code)
	case session.Failure != nil:
		resp.Error = newAPIError(session.Failure)
		status = apperrors.HTTPStatus(resp.Error.Code)
	}

	writeJSON(w, status, resp)
}

// rawValue turns a JSON value into the text a browser would have posted.
// Integral numbers such as 20.0 or 2e1 are written without a fraction.
func rawValue(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return strconv.FormatInt(i, 10)
		}
		if f, err := t.Float64(); err == nil && !math.IsInf(f, 0) && f == math.Trunc(f) {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	failures := map[string]string{}
	for _, c := range s.checks {
		if err := c.Check(ctx); err != nil {
			failures[c.Name] = err.Error()
		}
	}

	if len(failures) > 0 {
		s.logger.Warn("readiness check failed", map[string]interface{}{
			"failures": failures,
		})
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":   "not_ready",
			"failures": failures,
			"time":     time.Now().Format(time.RFC3339),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
