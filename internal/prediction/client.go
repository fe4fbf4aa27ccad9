// internal/prediction/client.go
package prediction

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apphttp "career-advisor/internal/common/http"
	"career-advisor/internal/common/logger"
	"career-advisor/internal/common/metrics"
	"career-advisor/internal/models"
)

const maxBodyBytes = 1 << 20

// Client talks to the external prediction service.
type Client struct {
	config *Config
	http   *apphttp.Client
	logger logger.Logger
}

func NewClient(cfg *Config, httpClient *apphttp.Client, log logger.Logger) *Client {
	if httpClient == nil {
		httpClient = apphttp.NewClient()
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Client{
		config: cfg,
		http:   httpClient,
		logger: log.With(map[string]interface{}{
			"component": "prediction-client",
		}),
	}
}

// Predict sends one prediction request. It never retries.
//
// Failures come back as *TransportError, *ServiceError or *ResponseError.
// A payload that does not satisfy the request contract is rejected with
// ErrInvalidRequest before anything is sent.
func (c *Client) Predict(ctx context.Context, req models.PredictionRequest) (*models.PredictionResponse, error) {
	if err := requestSchema.Validate(req).Err(requestSchema.Name()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	ctx, span := otel.Tracer("career-advisor/prediction").Start(ctx, "prediction.Predict",
		trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	start := time.Now()
	status := "error"
	defer func() {
		metrics.PredictionRequestDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())
	}()

	httpReq, err := apphttp.NewJSONRequest(ctx, http.MethodPost, c.config.predictURL(), req)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		terr := &TransportError{Err: err}
		span.RecordError(terr)
		span.SetStatus(codes.Error, "transport failure")
		if terr.Timeout() {
			status = "timeout"
		}
		c.logger.Warn("prediction request failed", map[string]interface{}{
			"error":   err.Error(),
			"timeout": terr.Timeout(),
		})
		return nil, terr
	}
	defer resp.Body.Close()

	status = strconv.Itoa(resp.StatusCode)
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("read response body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		serr := parseServiceError(resp.StatusCode, body)
		span.SetStatus(codes.Error, "service error")
		c.logger.Warn("prediction service rejected request", map[string]interface{}{
			"statusCode": resp.StatusCode,
			"detail":     serr.Detail,
			"code":       serr.Code,
		})
		return nil, serr
	}

	if err := responseSchema.ValidateBytes(body).Err(responseSchema.Name()); err != nil {
		span.SetStatus(codes.Error, "invalid response")
		return nil, &ResponseError{Err: err}
	}

	var out models.PredictionResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, &ResponseError{Err: err}
	}

	span.SetAttributes(attribute.Int("prediction.count", len(out.Predictions)))
	c.logger.Info("prediction received", map[string]interface{}{
		"count":    len(out.Predictions),
		"duration": time.Since(start).String(),
	})
	return &out, nil
}

// Health probes the service health endpoint.
func (c *Client) Health(ctx context.Context) error {
	resp, err := c.http.Get(ctx, c.config.healthURL())
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))

	if resp.StatusCode != http.StatusOK {
		return &ServiceError{StatusCode: resp.StatusCode}
	}
	return nil
}

type errorBody struct {
	Detail json.RawMessage `json:"detail"`
	Code   string          `json:"code"`
}

// parseServiceError extracts detail and code from a failure body. Bodies
// that are not JSON objects yield an error with neither.
func parseServiceError(statusCode int, body []byte) *ServiceError {
	serr := &ServiceError{StatusCode: statusCode}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return serr
	}
	serr.Code = eb.Code
	serr.Detail = detailText(eb.Detail)
	return serr
}

// detailText renders a detail value: strings as-is, objects and arrays as
// compact JSON. Any other value counts as absent.
func detailText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}

	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return ""
	}

	switch d := v.(type) {
	case string:
		return d
	case map[string]interface{}, []interface{}:
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return string(raw)
		}
		return buf.String()
	default:
		return ""
	}
}

// IsTimeout reports whether err is a transport failure caused by a deadline.
func IsTimeout(err error) bool {
	var terr *TransportError
	return errors.As(err, &terr) && terr.Timeout()
}
