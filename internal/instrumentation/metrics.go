package instrumentation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys.
const (
	attrMethod    = "method"
	attrPath      = "path"
	attrStatus    = "status"
	attrOperation = "operation"
	attrService   = "service"
	attrResult    = "result"
	attrAction    = "action"
	attrScope     = "scope"
	attrAccount   = "account"
)

// Metrics provides methods for recording observability metrics.
type Metrics struct {
	// HTTP metrics
	httpRequestsTotal   metric.Int64Counter
	httpRequestDuration metric.Float64Histogram

	// Google API metrics
	googleAPIOperationsTotal   metric.Int64Counter
	googleAPIOperationDuration metric.Float64Histogram

	// OAuth metrics
	oauthAuthTotal         metric.Int64Counter
	oauthTokenRefreshTotal metric.Int64Counter

	// Archive workflow metrics
	archiveRunsTotal   metric.Int64Counter
	archiveRunDuration metric.Float64Histogram
	uploadBytesTotal   metric.Int64Counter
	catalogPagesTotal  metric.Int64Counter
	notificationsTotal metric.Int64Counter

	// Action metrics
	actionInvocationsTotal metric.Int64Counter
	actionDuration         metric.Float64Histogram

	// detailedLabels controls whether high-cardinality labels are included
	detailedLabels bool
}

// NewMetrics creates a Metrics instance with all instruments initialized.
func NewMetrics(meter metric.Meter, detailedLabels bool) (*Metrics, error) {
	m := &Metrics{
		detailedLabels: detailedLabels,
	}

	var err error

	m.httpRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_requests_total counter: %w", err)
	}

	m.httpRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_request_duration_seconds histogram: %w", err)
	}

	m.googleAPIOperationsTotal, err = meter.Int64Counter(
		"google_api_operations_total",
		metric.WithDescription("Total number of Google API operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create google_api_operations_total counter: %w", err)
	}

	m.googleAPIOperationDuration, err = meter.Float64Histogram(
		"google_api_operation_duration_seconds",
		metric.WithDescription("Google API operation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create google_api_operation_duration_seconds histogram: %w", err)
	}

	m.oauthAuthTotal, err = meter.Int64Counter(
		"oauth_auth_total",
		metric.WithDescription("Total number of OAuth authentication attempts"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create oauth_auth_total counter: %w", err)
	}

	m.oauthTokenRefreshTotal, err = meter.Int64Counter(
		"oauth_token_refresh_total",
		metric.WithDescription("Total number of OAuth token refresh attempts"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create oauth_token_refresh_total counter: %w", err)
	}

	m.archiveRunsTotal, err = meter.Int64Counter(
		"archive_runs_total",
		metric.WithDescription("Total number of archive runs"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create archive_runs_total counter: %w", err)
	}

	m.archiveRunDuration, err = meter.Float64Histogram(
		"archive_run_duration_seconds",
		metric.WithDescription("Complete archive run duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0, 120.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create archive_run_duration_seconds histogram: %w", err)
	}

	m.uploadBytesTotal, err = meter.Int64Counter(
		"archive_upload_bytes_total",
		metric.WithDescription("Total bytes uploaded to Drive"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create archive_upload_bytes_total counter: %w", err)
	}

	m.catalogPagesTotal, err = meter.Int64Counter(
		"catalog_pages_total",
		metric.WithDescription("Total number of listing pages fetched"),
		metric.WithUnit("{page}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog_pages_total counter: %w", err)
	}

	m.notificationsTotal, err = meter.Int64Counter(
		"notifications_total",
		metric.WithDescription("Total number of notification email sends"),
		metric.WithUnit("{send}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create notifications_total counter: %w", err)
	}

	m.actionInvocationsTotal, err = meter.Int64Counter(
		"action_invocations_total",
		metric.WithDescription("Total number of action invocations"),
		metric.WithUnit("{invocation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create action_invocations_total counter: %w", err)
	}

	m.actionDuration, err = meter.Float64Histogram(
		"action_duration_seconds",
		metric.WithDescription("Action handling duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create action_duration_seconds histogram: %w", err)
	}

	return m, nil
}

// RecordHTTPRequest records an HTTP request with method, path, status code,
// and duration.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	if m.httpRequestsTotal == nil || m.httpRequestDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrMethod, method),
		attribute.String(attrPath, path),
		attribute.String(attrStatus, strconv.Itoa(statusCode)),
	}

	m.httpRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.httpRequestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordGoogleAPIOperation records a Google API call.
//
// Parameters:
//   - service: Google service name (gmail, drive)
//   - operation: Operation type (list, get, create, upload, export, send)
//   - status: Result status ("success" or "error")
//   - duration: Time taken for the operation
func (m *Metrics) RecordGoogleAPIOperation(ctx context.Context, service, operation, status string, duration time.Duration) {
	if m.googleAPIOperationsTotal == nil || m.googleAPIOperationDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrService, service),
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	}

	m.googleAPIOperationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.googleAPIOperationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordOAuthAuth records an OAuth authentication attempt.
// Result should be one of: "success", "failure"
func (m *Metrics) RecordOAuthAuth(ctx context.Context, result string) {
	if m.oauthAuthTotal == nil {
		return
	}
	m.oauthAuthTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrResult, result)))
}

// RecordOAuthTokenRefresh records an OAuth token refresh attempt.
// Result should be one of: "success", "failure", "expired"
func (m *Metrics) RecordOAuthTokenRefresh(ctx context.Context, result string) {
	if m.oauthTokenRefreshTotal == nil {
		return
	}
	m.oauthTokenRefreshTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrResult, result)))
}

// RecordArchiveRun records one complete archive run.
func (m *Metrics) RecordArchiveRun(ctx context.Context, status string, duration time.Duration) {
	if m.archiveRunsTotal == nil || m.archiveRunDuration == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrStatus, status),
	}

	m.archiveRunsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.archiveRunDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordUploadBytes records bytes uploaded to Drive.
func (m *Metrics) RecordUploadBytes(ctx context.Context, bytes int64) {
	if m.uploadBytesTotal == nil {
		return
	}
	m.uploadBytesTotal.Add(ctx, bytes)
}

// RecordCatalogPage records one fetched listing page.
// Scope is the listing scope ("folders" or "drives").
func (m *Metrics) RecordCatalogPage(ctx context.Context, scope string) {
	if m.catalogPagesTotal == nil {
		return
	}
	m.catalogPagesTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrScope, scope)))
}

// RecordNotification records the outcome of a notification send.
// Result should be one of: "sent", "failed"
func (m *Metrics) RecordNotification(ctx context.Context, result string) {
	if m.notificationsTotal == nil {
		return
	}
	m.notificationsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrResult, result)))
}

// RecordAction records an action invocation with name, status and duration.
// The account label is only added when detailed labels are enabled.
func (m *Metrics) RecordAction(ctx context.Context, action, status, account string, duration time.Duration) {
	if m.actionInvocationsTotal == nil || m.actionDuration == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrAction, action),
		attribute.String(attrStatus, status),
	}

	// High-cardinality label, opt-in only
	if m.detailedLabels && account != "" {
		attrs = append(attrs, attribute.String(attrAccount, account))
	}

	m.actionInvocationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.actionDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}
