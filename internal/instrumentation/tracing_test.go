package instrumentation

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/attribute"
)

func TestStartSpan(t *testing.T) {
	ctx, span := StartSpan(context.Background(), "test.operation",
		attribute.String("key", "value"),
	)
	defer span.End()

	if ctx == nil {
		t.Fatal("expected non-nil context")
	}
	if span == nil {
		t.Fatal("expected non-nil span")
	}
}

func TestStartActionSpan(t *testing.T) {
	_, span := StartActionSpan(context.Background(), "archive")
	defer span.End()

	if span == nil {
		t.Fatal("expected non-nil span")
	}
}

func TestStartGoogleAPISpan(t *testing.T) {
	_, span := StartGoogleAPISpan(context.Background(), ServiceDrive, OperationList)
	defer span.End()

	if span == nil {
		t.Fatal("expected non-nil span")
	}
}

func TestSetSpanError(t *testing.T) {
	_, span := StartSpan(context.Background(), "test.operation")
	defer span.End()

	// Should not panic, with or without an error
	SetSpanError(span, errors.New("boom"))
	SetSpanError(span, nil)
	SetSpanSuccess(span)
	AddSpanEvent(span, "retry", attribute.Int("attempt", 2))
}

func TestTraceIDsWithoutSpan(t *testing.T) {
	ctx := context.Background()

	if got := GetTraceID(ctx); got != "" {
		t.Errorf("GetTraceID() = %q, want empty without a span", got)
	}
	if got := GetSpanID(ctx); got != "" {
		t.Errorf("GetSpanID() = %q, want empty without a span", got)
	}
}
