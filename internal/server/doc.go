// Package server provides the HTTP surface of the archive service.
//
// ActionServer exposes the add-on actions as POST /actions/{name} endpoints,
// translating JSON events into registry dispatches and domain errors into
// HTTP status codes. MetricsServer serves Prometheus metrics on a dedicated
// port, isolated from action traffic. HealthChecker provides liveness and
// readiness probes.
package server
