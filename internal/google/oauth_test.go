package google

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/driveclip/driveclip/internal/instrumentation"
)

func TestTokenFilePerAccount(t *testing.T) {
	def := tokenFile("default")
	work := tokenFile("work")

	if def == work {
		t.Error("Expected distinct token files per account")
	}
	if filepath.Base(def) != "default.token" {
		t.Errorf("Expected default.token, got %s", filepath.Base(def))
	}
	if filepath.Base(work) != "work.token" {
		t.Errorf("Expected work.token, got %s", filepath.Base(work))
	}
	if !strings.Contains(def, appCacheDirName) {
		t.Errorf("Expected token file under %q, got %s", appCacheDirName, def)
	}
}

func TestHasTokenForAccount_MissingToken(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	if HasTokenForAccount("nobody") {
		t.Error("Expected no token for unknown account")
	}
	if HasToken() {
		t.Error("Expected no token for default account in empty cache dir")
	}
}

func TestGetAuthURLForAccount(t *testing.T) {
	url := GetAuthURLForAccount("work")
	if url == "" {
		t.Fatal("Expected non-empty auth URL")
	}
	if !strings.Contains(url, "state-work") {
		t.Errorf("Expected account-scoped state parameter, got %s", url)
	}
}

func TestOAuthRecordingWithoutMetrics(t *testing.T) {
	SetMetrics(nil)

	// Recording without an installed recorder must be a no-op, not a panic
	recordAuth(context.Background(), instrumentation.OAuthResultFailure)
	recordTokenRefresh(context.Background(), instrumentation.OAuthResultSuccess)
}

func TestOAuthRecording(t *testing.T) {
	reader := metric.NewManualReader()
	provider := metric.NewMeterProvider(metric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	m, err := instrumentation.NewMetrics(provider.Meter("test"), false)
	if err != nil {
		t.Fatalf("NewMetrics() error = %v", err)
	}
	SetMetrics(m)
	t.Cleanup(func() { SetMetrics(nil) })

	recordAuth(context.Background(), instrumentation.OAuthResultSuccess)
	recordTokenRefresh(context.Background(), instrumentation.OAuthResultFailure)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	found := map[string]bool{}
	for _, scope := range rm.ScopeMetrics {
		for _, metricEntry := range scope.Metrics {
			found[metricEntry.Name] = true
		}
	}
	if !found["oauth_auth_total"] {
		t.Error("oauth_auth_total not recorded")
	}
	if !found["oauth_token_refresh_total"] {
		t.Error("oauth_token_refresh_total not recorded")
	}
}

func TestDefaultOAuthScopes(t *testing.T) {
	want := []string{
		"https://www.googleapis.com/auth/gmail.readonly",
		"https://www.googleapis.com/auth/gmail.send",
		"https://www.googleapis.com/auth/drive",
	}
	if len(DefaultOAuthScopes) != len(want) {
		t.Fatalf("Expected %d scopes, got %d", len(want), len(DefaultOAuthScopes))
	}
	for i, scope := range want {
		if DefaultOAuthScopes[i] != scope {
			t.Errorf("Expected scope %s at %d, got %s", scope, i, DefaultOAuthScopes[i])
		}
	}
}
