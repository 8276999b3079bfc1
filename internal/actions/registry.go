package actions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/driveclip/driveclip/internal/archive"
	"github.com/driveclip/driveclip/internal/drive"
	"github.com/driveclip/driveclip/internal/instrumentation"
	"github.com/driveclip/driveclip/internal/logging"
	"github.com/driveclip/driveclip/internal/settings"
)

// ErrUnknownAction is returned when no handler is registered for the
// requested action name.
var ErrUnknownAction = errors.New("unknown action")

// Archiver runs archive requests against a folder catalog.
type Archiver interface {
	Archive(ctx context.Context, catalog drive.Catalog, req archive.Request) (*archive.Result, error)
}

// Lister enumerates Drive resources for an account.
type Lister interface {
	ListFolders(ctx context.Context, driveID string) (drive.Catalog, error)
	ListSharedDrives(ctx context.Context) (drive.Catalog, error)
}

// SettingsStore persists per-account preferences.
type SettingsStore interface {
	Load(ctx context.Context, account string) (settings.Settings, error)
	Save(ctx context.Context, s settings.Settings) error
}

// Deps carries the collaborators a Registry needs. The factories create
// per-account clients so each invocation runs under the invoking account's
// credentials.
type Deps struct {
	NewArchiver func(ctx context.Context, account string) (Archiver, error)
	NewLister   func(ctx context.Context, account string) (Lister, error)
	Settings    SettingsStore
	Logger      *slog.Logger
	Metrics     *instrumentation.Metrics
}

// HandlerFunc handles one action event.
type HandlerFunc func(ctx context.Context, ev Event) (*Response, error)

type catalogKey struct {
	account string
	scope   drive.ListScope
	driveID string
}

// Registry routes action names to handlers.
type Registry struct {
	deps     Deps
	handlers map[string]HandlerFunc

	// catalogs caches resolved listings per account and scope so repeated
	// invocations within a session do not re-list the drive
	mu       sync.Mutex
	catalogs map[catalogKey]drive.Catalog
}

// NewRegistry creates a Registry with the full action table registered.
func NewRegistry(deps Deps) *Registry {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Metrics == nil {
		deps.Metrics = &instrumentation.Metrics{}
	}

	r := &Registry{
		deps:     deps,
		catalogs: make(map[catalogKey]drive.Catalog),
	}

	r.handlers = map[string]HandlerFunc{
		"archive":      r.handleArchive,
		"listDrives":   r.handleListDrives,
		"listFolders":  r.handleListFolders,
		"saveSettings": r.handleSaveSettings,
		"loadSettings": r.handleLoadSettings,
	}

	return r
}

// Actions returns the registered action names.
func (r *Registry) Actions() []string {
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	return names
}

// Dispatch routes the event to the handler registered for action, recording
// metrics and a span for the invocation.
func (r *Registry) Dispatch(ctx context.Context, action string, ev Event) (*Response, error) {
	handler, ok := r.handlers[action]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAction, action)
	}

	ctx, span := instrumentation.StartActionSpan(ctx, action)
	defer span.End()

	logger := logging.WithAction(r.deps.Logger, action)
	start := time.Now()

	resp, err := handler(ctx, ev)

	status := instrumentation.StatusSuccess
	if err != nil {
		status = instrumentation.StatusError
		instrumentation.SetSpanError(span, err)
		logger.Error("action failed",
			logging.UserHash(ev.Account),
			logging.Err(err),
		)
	} else {
		instrumentation.SetSpanSuccess(span)
		logger.Info("action handled",
			logging.UserHash(ev.Account),
			logging.Status(status),
		)
	}

	r.deps.Metrics.RecordAction(ctx, action, status, ev.Account, time.Since(start))

	return resp, err
}

// cachedCatalog returns the session catalog for the key, fetching it through
// fetch on a miss.
func (r *Registry) cachedCatalog(ctx context.Context, key catalogKey, fetch func(context.Context) (drive.Catalog, error)) (drive.Catalog, error) {
	r.mu.Lock()
	catalog, ok := r.catalogs[key]
	r.mu.Unlock()
	if ok {
		return catalog, nil
	}

	catalog, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.catalogs[key] = catalog
	r.mu.Unlock()

	return catalog, nil
}

// InvalidateCatalogs drops all cached catalogs for the account, forcing the
// next action to re-list.
func (r *Registry) InvalidateCatalogs(account string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key := range r.catalogs {
		if key.account == account {
			delete(r.catalogs, key)
		}
	}
}
