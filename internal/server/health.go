package server

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"
)

// HealthChecker answers liveness and readiness probes. Liveness only proves
// the process responds; readiness flips to failing once shutdown begins so
// load balancers drain traffic before the listener closes.
type HealthChecker struct {
	ready        atomic.Bool
	shuttingDown atomic.Bool
	startTime    time.Time
}

// NewHealthChecker creates a HealthChecker that reports ready.
func NewHealthChecker() *HealthChecker {
	h := &HealthChecker{startTime: time.Now()}
	h.ready.Store(true)
	return h
}

// SetReady sets the readiness state of the server.
func (h *HealthChecker) SetReady(ready bool) {
	h.ready.Store(ready)
}

// IsReady returns whether the server is ready to receive traffic.
func (h *HealthChecker) IsReady() bool {
	return h.ready.Load()
}

// SetShuttingDown marks the server as draining.
func (h *HealthChecker) SetShuttingDown() {
	h.shuttingDown.Store(true)
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
	Uptime string            `json:"uptime,omitempty"`
}

// RegisterHealthEndpoints mounts /healthz and /readyz on the given mux.
func (h *HealthChecker) RegisterHealthEndpoints(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", h.handleLiveness)
	mux.HandleFunc("/readyz", h.handleReadiness)
}

func (h *HealthChecker) handleLiveness(w http.ResponseWriter, _ *http.Request) {
	writeHealth(w, http.StatusOK, healthResponse{Status: "ok"})
}

func (h *HealthChecker) handleReadiness(w http.ResponseWriter, _ *http.Request) {
	ready := h.ready.Load()
	draining := h.shuttingDown.Load()

	resp := healthResponse{
		Status: "ok",
		Checks: map[string]string{"ready": "ok", "shutdown": "ok"},
		Uptime: time.Since(h.startTime).Truncate(time.Second).String(),
	}
	status := http.StatusOK

	if !ready {
		resp.Checks["ready"] = "not ready"
	}
	if draining {
		resp.Checks["shutdown"] = "shutting down"
	}
	if !ready || draining {
		resp.Status = "not ready"
		status = http.StatusServiceUnavailable
	}

	writeHealth(w, status, resp)
}

func writeHealth(w http.ResponseWriter, status int, resp healthResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
