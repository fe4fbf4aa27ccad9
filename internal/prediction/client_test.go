package prediction

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "career-advisor/internal/common/http"
	"career-advisor/internal/common/logger"
	"career-advisor/internal/models"
)

func validRequest() models.PredictionRequest {
	return models.PredictionRequest{
		Gender:                    1,
		PartTimeJob:               0,
		ExtracurricularActivities: 1,
		WeeklyStudyHours:          20,
		MathScore:                 85,
		HistoryScore:              70,
		PhysicsScore:              90,
		ChemistryScore:            75,
		BiologyScore:              60,
		EnglishScore:              80,
		GeographyScore:            65,
	}
}

func newTestClient(t *testing.T, url string) *Client {
	t.Helper()
	return NewClient(&Config{
		BaseURL:     url,
		PredictPath: "/predict",
		HealthPath:  "/health",
	}, apphttp.NewClient(), logger.NewTestLogger(t))
}

func TestClient_Predict_Success(t *testing.T) {
	var got map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/predict", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"predictions":[{"career":"Software Engineer","probability":91.2},{"career":"Data Scientist","probability":5.1}]}`))
	}))
	defer server.Close()

	resp, err := newTestClient(t, server.URL).Predict(context.Background(), validRequest())
	require.NoError(t, err)
	require.Len(t, resp.Predictions, 2)
	assert.Equal(t, "Software Engineer", resp.Predictions[0].Career)
	assert.Equal(t, 91.2, resp.Predictions[0].Probability)

	assert.Len(t, got, 11)
	assert.Equal(t, float64(1), got["gender"])
	assert.Equal(t, float64(20), got["weekly_study_hours"])
	assert.Equal(t, float64(85), got["math_score"])
}

func TestNewClient_NilDependencies(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"predictions":[{"career":"Engineer","probability":80}]}`))
	}))
	defer server.Close()

	c := NewClient(&Config{BaseURL: server.URL, PredictPath: "/predict"}, nil, nil)
	resp, err := c.Predict(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Len(t, resp.Predictions, 1)
}

func TestClient_Predict_ServiceErrors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantDetail string
		wantCode   string
	}{
		{name: "string detail", status: 500, body: `{"detail":"Error in prediction: model not loaded"}`, wantDetail: "Error in prediction: model not loaded"},
		{name: "structured detail", status: 422, body: `{"detail":[{"loc":["body","math_score"],"msg":"bad"}]}`, wantDetail: `[{"loc":["body","math_score"],"msg":"bad"}]`},
		{name: "object detail keeps key order", status: 400, body: `{"detail": {"z": 1, "a": 2}}`, wantDetail: `{"z":1,"a":2}`},
		{name: "null detail", status: 500, body: `{"detail":null}`},
		{name: "empty detail", status: 500, body: `{"detail":""}`},
		{name: "false detail", status: 500, body: `{"detail":false}`},
		{name: "zero detail", status: 500, body: `{"detail":0}`},
		{name: "numeric detail", status: 500, body: `{"detail":42}`},
		{name: "true detail", status: 500, body: `{"detail":true}`},
		{name: "no detail", status: 503, body: `{}`},
		{name: "not json", status: 502, body: `<html>bad gateway</html>`},
		{name: "code", status: 500, body: `{"detail":"scaling blew up","code":"DATA_SCALING_FAILED"}`, wantDetail: "scaling blew up", wantCode: "DATA_SCALING_FAILED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := newTestClient(t, server.URL).Predict(context.Background(), validRequest())
			require.Error(t, err)

			var serr *ServiceError
			require.True(t, errors.As(err, &serr), "got %T", err)
			assert.Equal(t, tt.status, serr.StatusCode)
			assert.Equal(t, tt.wantDetail, serr.Detail)
			assert.Equal(t, tt.wantCode, serr.Code)
		})
	}
}

func TestClient_Predict_InvalidResponse(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: `nope`},
		{name: "missing predictions", body: `{"result":[]}`},
		{name: "bad item", body: `{"predictions":[{"career":"X"}]}`},
		{name: "probability out of range", body: `{"predictions":[{"career":"X","probability":140}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := newTestClient(t, server.URL).Predict(context.Background(), validRequest())
			var rerr *ResponseError
			assert.True(t, errors.As(err, &rerr), "got %v", err)
		})
	}
}

func TestClient_Predict_EmptyPredictionsIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"predictions":[]}`))
	}))
	defer server.Close()

	resp, err := newTestClient(t, server.URL).Predict(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Empty(t, resp.Predictions)
}

func TestClient_Predict_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := newTestClient(t, url).Predict(context.Background(), validRequest())
	var terr *TransportError
	require.True(t, errors.As(err, &terr), "got %v", err)
	assert.False(t, terr.Timeout())
	assert.Contains(t, err.Error(), "connection refused")
}

func TestClient_Predict_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := newTestClient(t, server.URL).Predict(ctx, validRequest())
	require.Error(t, err)
	assert.True(t, IsTimeout(err), "got %v", err)
}

func TestClient_Predict_RejectsInvalidRequestWithoutSending(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer server.Close()

	req := validRequest()
	req.WeeklyStudyHours = 51
	req.Gender = 2

	_, err := newTestClient(t, server.URL).Predict(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidRequest)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestClient_Predict_SingleAttempt(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := newTestClient(t, server.URL).Predict(context.Background(), validRequest())
	assert.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClient_Health(t *testing.T) {
	var healthy atomic.Bool
	healthy.Store(true)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		_, _ = io.Copy(io.Discard, r.Body)
		if !healthy.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"status":"healthy"}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	assert.NoError(t, c.Health(context.Background()))

	healthy.Store(false)
	var serr *ServiceError
	assert.True(t, errors.As(c.Health(context.Background()), &serr))
}

func TestDetailText(t *testing.T) {
	assert.Equal(t, "", detailText(nil))
	assert.Equal(t, "x", detailText(json.RawMessage(`"x"`)))
	assert.Equal(t, "", detailText(json.RawMessage(`true`)))
	assert.Equal(t, "", detailText(json.RawMessage(`42`)))
	assert.Equal(t, "", detailText(json.RawMessage(`null`)))
	assert.Equal(t, `{"a":[1,2]}`, detailText(json.RawMessage(`{ "a": [ 1, 2 ] }`)))
	assert.Equal(t, `["x"]`, detailText(json.RawMessage(`[ "x" ]`)))
}
