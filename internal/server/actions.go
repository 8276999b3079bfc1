package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/driveclip/driveclip/internal/actions"
	"github.com/driveclip/driveclip/internal/archive"
	"github.com/driveclip/driveclip/internal/drive"
	"github.com/driveclip/driveclip/internal/instrumentation"
	"github.com/driveclip/driveclip/internal/logging"
)

const (
	// DefaultActionAddr is the default address for the action server.
	DefaultActionAddr = ":8080"

	// maxEventBytes bounds inbound event payloads.
	maxEventBytes = 1 << 20
)

// ActionServerConfig holds configuration for the action server.
type ActionServerConfig struct {
	// Addr is the address to bind to (e.g., ":8080").
	Addr string

	// Registry dispatches action events. Required.
	Registry *actions.Registry

	// Metrics records HTTP request metrics. Optional.
	Metrics *instrumentation.Metrics

	// Health registers liveness and readiness endpoints when set.
	Health *HealthChecker

	// Logger for request logging. Defaults to slog.Default().
	Logger *slog.Logger
}

// ActionServer exposes the action registry over HTTP as
// POST /actions/{name} endpoints.
type ActionServer struct {
	httpServer *http.Server
	registry   *actions.Registry
	metrics    *instrumentation.Metrics
	logger     *slog.Logger
	addr       string
	health     *HealthChecker
}

// errorResponse is the JSON body of a failed action.
type errorResponse struct {
	Error string `json:"error"`
}

// NewActionServer creates an action server for the given registry.
func NewActionServer(config ActionServerConfig) (*ActionServer, error) {
	if config.Registry == nil {
		return nil, fmt.Errorf("action registry is required")
	}
	if config.Addr == "" {
		config.Addr = DefaultActionAddr
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.Metrics == nil {
		config.Metrics = &instrumentation.Metrics{}
	}

	return &ActionServer{
		registry: config.Registry,
		metrics:  config.Metrics,
		logger:   config.Logger,
		addr:     config.Addr,
		health:   config.Health,
	}, nil
}

// Handler returns the HTTP handler serving the action endpoints.
func (s *ActionServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /actions/{name}", s.handleAction)

	if s.health != nil {
		s.health.RegisterHealthEndpoints(mux)
	}

	return mux
}

// Start starts the action server and blocks. Run it in a goroutine for
// non-blocking operation.
func (s *ActionServer) Start() error {
	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	s.logger.Info("starting action server", "addr", s.addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the action server.
func (s *ActionServer) Shutdown(ctx context.Context) error {
	if s.health != nil {
		s.health.SetShuttingDown()
	}
	if s.httpServer != nil {
		s.logger.Info("shutting down action server")
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// Addr returns the configured address for the action server.
func (s *ActionServer) Addr() string {
	return s.addr
}

func (s *ActionServer) handleAction(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	action := r.PathValue("name")

	var ev actions.Event
	body := http.MaxBytesReader(w, r.Body, maxEventBytes)
	if err := json.NewDecoder(body).Decode(&ev); err != nil {
		s.writeError(w, r, action, http.StatusBadRequest, fmt.Errorf("invalid event payload: %w", err), start)
		return
	}

	resp, err := s.registry.Dispatch(r.Context(), action, ev)
	if err != nil {
		s.writeError(w, r, action, statusForError(err), err, start)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)

	s.metrics.RecordHTTPRequest(r.Context(), r.Method, r.URL.Path, http.StatusOK, time.Since(start))
}

func (s *ActionServer) writeError(w http.ResponseWriter, r *http.Request, action string, status int, err error, start time.Time) {
	s.logger.Warn("action request failed",
		logging.Action(action),
		slog.Int("status", status),
		logging.Err(err),
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: err.Error()})

	s.metrics.RecordHTTPRequest(r.Context(), r.Method, r.URL.Path, status, time.Since(start))
}

// statusForError maps domain errors to HTTP status codes. Invalid requests
// map to 4xx, upstream listing failures to 502.
func statusForError(err error) int {
	var destErr *archive.DestinationError
	var listErr *drive.ListError

	switch {
	case errors.Is(err, actions.ErrUnknownAction):
		return http.StatusNotFound
	case errors.Is(err, archive.ErrNoDestination), errors.Is(err, archive.ErrNoMessages):
		return http.StatusBadRequest
	case errors.As(err, &destErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &listErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
