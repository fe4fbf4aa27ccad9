// internal/web/server.go
package web

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"career-advisor/internal/common/logger"
	"career-advisor/internal/form"
)

//go:embed templates/*.html
var templateFS embed.FS

// Submitter runs the form workflow.
type Submitter interface {
	Submit(ctx context.Context, sessionKey string, raw form.RawInput) *form.Session
}

// ReadinessCheck is one dependency probed by /ready.
type ReadinessCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

type Server struct {
	submitter Submitter
	checks    []ReadinessCheck
	pages     map[string]*template.Template
	logger    logger.Logger
}

func NewServer(submitter Submitter, log logger.Logger, checks ...ReadinessCheck) (*Server, error) {
	pages := make(map[string]*template.Template)
	for _, name := range []string{"index", "form"} {
		t, err := template.ParseFS(templateFS, "templates/base.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		pages[name] = t
	}

	return &Server{
		submitter: submitter,
		checks:    checks,
		pages:     pages,
		logger: log.With(map[string]interface{}{
			"component": "web",
		}),
	}, nil
}

// Handler returns the full route table wrapped in middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /form", s.handleForm)
	mux.HandleFunc("POST /form", s.handleFormSubmit)
	mux.HandleFunc("POST /api/predictions", s.handleAPIPredict)

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ready", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())

	var h http.Handler = mux
	h = withSession(h)
	h = withRequestLogging(h, s.logger)
	return otelhttp.NewHandler(h, "career-advisor")
}
