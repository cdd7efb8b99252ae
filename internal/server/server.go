// Package server exposes dungeon generation over HTTP.
//
// Routes:
//
//	GET  /healthz               liveness and build info
//	GET  /v1/stats              counters since start
//	POST /v1/generate           generate a dungeon, optionally rendered
//	POST /v1/path               generate a dungeon and search a route
//	GET  /v1/render/{format}    render a dungeon described by query parameters
//	GET  /v1/stream             websocket streaming stage events, then the result
//
// Request bodies are pipeline options in JSON, the same fields a [generate]
// table of a config file carries.
package server

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Wesbraak3/Dungeon-Generator/pkg/buildinfo"
	errs "github.com/Wesbraak3/Dungeon-Generator/pkg/errors"
	"github.com/Wesbraak3/Dungeon-Generator/pkg/httputil"
	"github.com/Wesbraak3/Dungeon-Generator/pkg/observability"
	"github.com/Wesbraak3/Dungeon-Generator/pkg/pipeline"
)

// DefaultTimeout bounds a single request.
const DefaultTimeout = 30 * time.Second

// Server serves the dungeon API.
type Server struct {
	Runner   *pipeline.Runner
	Counters *observability.Counters
	Logger   *log.Logger
	Timeout  time.Duration

	pipelineHooks observability.PipelineHooks
}

// New returns a server generating through runner. Pipeline events are
// counted and logged.
func New(runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		Runner:   runner,
		Counters: observability.NewCounters(),
		Logger:   logger,
		Timeout:  DefaultTimeout,
	}
	s.pipelineHooks = observability.Multi(s.Counters, observability.NewLogHooks(logger))
	return s
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(httputil.Hooks(s.Counters))
	r.Use(httputil.Hooks(observability.HTTP()))

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/stats", s.handleStats)
		r.Get("/stream", s.handleStream)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(s.timeout()))
			r.Post("/generate", s.handleGenerate)
			r.Post("/path", s.handlePath)
			r.Get("/render/{format}", s.handleRender)
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		_ = httputil.WriteJSON(w, http.StatusNotFound, httputil.ErrorBody{Code: errs.ErrCodeNotFound, Message: "no such route"})
	})
	return r
}

func (s *Server) timeout() time.Duration {
	if s.Timeout <= 0 {
		return DefaultTimeout
	}
	return s.Timeout
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	_ = httputil.WriteJSON(w, http.StatusOK, struct {
		Status string         `json:"status"`
		Build  buildinfo.Info `json:"build"`
	}{"ok", buildinfo.Get()})
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	_ = httputil.WriteJSON(w, http.StatusOK, s.Counters.Snapshot())
}

// fail logs err against the request and writes it.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := httputil.WriteError(w, err)
	logger := s.Logger.With("request_id", middleware.GetReqID(r.Context()))
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "path", r.URL.Path, "status", status, "err", err)
		return
	}
	logger.Debug("request rejected", "path", r.URL.Path, "status", status, "err", err)
}
