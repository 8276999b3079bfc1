package google

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/driveclip/driveclip/internal/instrumentation"
)

// appCacheDirName is the directory under the user cache dir where tokens live.
const appCacheDirName = "driveclip"

// metrics records OAuth outcomes once installed via SetMetrics.
var metrics *instrumentation.Metrics

// SetMetrics installs a metrics recorder for OAuth operations. Call once at
// startup, before any clients are created; without it nothing is recorded.
func SetMetrics(m *instrumentation.Metrics) {
	metrics = m
}

func recordAuth(ctx context.Context, result string) {
	if metrics != nil {
		metrics.RecordOAuthAuth(ctx, result)
	}
}

func recordTokenRefresh(ctx context.Context, result string) {
	if metrics != nil {
		metrics.RecordOAuthTokenRefresh(ctx, result)
	}
}

// HasTokenForAccount checks if a valid OAuth token exists for the specified account
func HasTokenForAccount(account string) bool {
	_, err := os.ReadFile(tokenFile(account))
	return err == nil
}

// HasToken checks if a valid OAuth token exists for the default account
func HasToken() bool {
	return HasTokenForAccount("default")
}

// GetAuthURLForAccount returns the OAuth URL for user authorization for a specific account
func GetAuthURLForAccount(account string) string {
	conf := getOAuthConfig()
	return conf.AuthCodeURL("state-" + account)
}

// GetAuthURL returns the OAuth URL for user authorization for the default account
func GetAuthURL() string {
	return GetAuthURLForAccount("default")
}

// SaveTokenForAccount exchanges an authorization code for tokens and saves them
// for a specific account
func SaveTokenForAccount(ctx context.Context, account string, authCode string) error {
	conf := getOAuthConfig()

	t, err := conf.Exchange(ctx, authCode)
	if err != nil {
		recordAuth(ctx, instrumentation.OAuthResultFailure)
		return fmt.Errorf("failed to exchange auth code: %w", err)
	}

	file := tokenFile(account)
	if err := os.MkdirAll(filepath.Dir(file), 0700); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	tokenData := t.AccessToken + " " + t.RefreshToken
	if err := os.WriteFile(file, []byte(tokenData), 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}

	recordAuth(ctx, instrumentation.OAuthResultSuccess)
	return nil
}

// SaveToken exchanges an authorization code for tokens and saves them for the
// default account
func SaveToken(ctx context.Context, authCode string) error {
	return SaveTokenForAccount(ctx, "default", authCode)
}

// getOAuthConfig returns the OAuth2 configuration for all Google services.
// Client credentials come from the environment so that installations can use
// their own OAuth client.
func getOAuthConfig() *oauth2.Config {
	const OOB = "urn:ietf:wg:oauth:2.0:oob"
	return &oauth2.Config{
		ClientID:     os.Getenv("DRIVECLIP_GOOGLE_CLIENT_ID"),
		ClientSecret: os.Getenv("DRIVECLIP_GOOGLE_CLIENT_SECRET"),
		Endpoint:     google.Endpoint,
		RedirectURL:  OOB,
		Scopes:       DefaultOAuthScopes,
	}
}

// GetTokenSourceForAccount returns an OAuth2 token source for the stored token
// of the given account. Returns an error if no valid token exists.
func GetTokenSourceForAccount(ctx context.Context, account string) (oauth2.TokenSource, error) {
	conf := getOAuthConfig()

	slurp, err := os.ReadFile(tokenFile(account))
	if err != nil {
		return nil, fmt.Errorf("no valid Google OAuth token found for account %s", account)
	}

	f := strings.Fields(strings.TrimSpace(string(slurp)))
	if len(f) != 2 {
		return nil, fmt.Errorf("invalid token format in %s", tokenFile(account))
	}

	ts := conf.TokenSource(ctx, &oauth2.Token{
		AccessToken:  f[0],
		TokenType:    "Bearer",
		RefreshToken: f[1],
		Expiry:       time.Unix(1, 0),
	})

	// Validate the token. The stored access token has an expiry in the past,
	// so this forces a refresh against the stored refresh token.
	if _, err := ts.Token(); err != nil {
		recordTokenRefresh(ctx, instrumentation.OAuthResultFailure)
		return nil, fmt.Errorf("cached token for account %s is invalid: %w", account, err)
	}
	recordTokenRefresh(ctx, instrumentation.OAuthResultSuccess)

	return ts, nil
}

// GetHTTPClientForAccount returns an HTTP client configured with OAuth2
// authentication for the given account. The client is configured to use
// HTTP/1.1 to avoid HTTP/2 protocol errors.
func GetHTTPClientForAccount(ctx context.Context, account string) (*http.Client, error) {
	ts, err := GetTokenSourceForAccount(ctx, account)
	if err != nil {
		return nil, err
	}

	client := oauth2.NewClient(ctx, ts)

	// Force HTTP/1.1 by disabling HTTP/2
	transport := client.Transport.(*oauth2.Transport)
	baseTransport := &http.Transport{
		ForceAttemptHTTP2: false,
	}
	transport.Base = baseTransport

	return client, nil
}

// GetHTTPClient returns an authenticated HTTP client for the default account
func GetHTTPClient(ctx context.Context) (*http.Client, error) {
	return GetHTTPClientForAccount(ctx, "default")
}

func tokenFile(account string) string {
	return filepath.Join(userCacheDir(), appCacheDirName, account+".token")
}

func userCacheDir() string {
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(homeDir(), "Library", "Caches")
	case "windows":
		for _, ev := range []string{"TEMP", "TMP"} {
			if v := os.Getenv(ev); v != "" {
				return v
			}
		}
		panic("No Windows TEMP or TMP environment variables found")
	}
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return xdg
	}
	return filepath.Join(homeDir(), ".cache")
}

func homeDir() string {
	if runtime.GOOS == "windows" {
		return os.Getenv("HOMEDRIVE") + os.Getenv("HOMEPATH")
	}
	return os.Getenv("HOME")
}
