// Package instrumentation provides OpenTelemetry metrics and tracing for
// the archive service.
//
// # Metrics
//
// Server/HTTP:
//   - http_requests_total: Counter of HTTP requests by method, path, and status
//   - http_request_duration_seconds: Histogram of HTTP request durations
//
// Google API:
//   - google_api_operations_total: Counter of Google API operations by service, operation, status
//   - google_api_operation_duration_seconds: Histogram of Google API operation durations
//
// OAuth:
//   - oauth_auth_total: Counter of OAuth authentication events by result
//   - oauth_token_refresh_total: Counter of token refresh attempts by result
//
// Archive workflow:
//   - archive_runs_total: Counter of archive runs by status
//   - archive_run_duration_seconds: Histogram of complete run durations
//   - archive_upload_bytes_total: Counter of bytes uploaded to Drive
//   - catalog_pages_total: Counter of listing pages fetched by scope
//   - notifications_total: Counter of notification sends by result
//
// Actions:
//   - action_invocations_total: Counter of action invocations by name and status
//   - action_duration_seconds: Histogram of action handling durations
//
// # Tracing
//
// Spans are created for action handling (action.<name>) and outbound Google
// API calls (google.<service>.<operation>).
//
// # Configuration
//
// Environment variables:
//   - INSTRUMENTATION_ENABLED: Enable/disable instrumentation (default: true)
//   - METRICS_EXPORTER: prometheus, otlp or stdout (default: prometheus)
//   - TRACING_EXPORTER: otlp, stdout or none (default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint for traces/metrics
//   - OTEL_TRACES_SAMPLER_ARG: Sampling rate (0.0 to 1.0, default: 0.1)
//   - OTEL_SERVICE_NAME: Service name (default: driveclip)
package instrumentation
