package actions

import (
	"context"
	"fmt"
	"time"

	"github.com/driveclip/driveclip/internal/archive"
	"github.com/driveclip/driveclip/internal/drive"
	"github.com/driveclip/driveclip/internal/instrumentation"
	"github.com/driveclip/driveclip/internal/settings"
)

// Event field and switch names used by the handlers.
const (
	FieldMessageID     = "messageId"
	FieldThreadID      = "threadId"
	FieldDriveID       = "driveId"
	FieldDestination   = "destination"
	FieldFilename      = "filename"
	FieldNotifyTo      = "notifyTo"
	FieldNotifySubject = "notifySubject"
	FieldNotifyBody    = "notifyBody"

	SwitchWholeThread     = "wholeThread"
	SwitchSaveWholeThread = "saveWholeThread"
)

func (r *Registry) handleArchive(ctx context.Context, ev Event) (*Response, error) {
	if ev.Account == "" {
		return nil, fmt.Errorf("account is required")
	}

	stored, err := r.deps.Settings.Load(ctx, ev.Account)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	driveID, ok := ev.Field(FieldDriveID)
	if !ok {
		driveID = stored.DriveID
	}

	catalog, err := r.folderCatalog(ctx, ev.Account, driveID)
	if err != nil {
		return nil, err
	}

	archiver, err := r.deps.NewArchiver(ctx, ev.Account)
	if err != nil {
		return nil, fmt.Errorf("failed to create archiver: %w", err)
	}

	destination, _ := ev.Field(FieldDestination)
	filename, _ := ev.Field(FieldFilename)
	messageID, _ := ev.Field(FieldMessageID)
	threadID, _ := ev.Field(FieldThreadID)
	notifySubject, _ := ev.Field(FieldNotifySubject)
	notifyBody, _ := ev.Field(FieldNotifyBody)

	wholeThread := ev.Switch(SwitchWholeThread)
	if _, set := ev.Switches[SwitchWholeThread]; !set {
		wholeThread = stored.SaveWholeThread
	}

	req := archive.Request{
		MessageID:     messageID,
		ThreadID:      threadID,
		WholeThread:   wholeThread,
		Destination:   destination,
		Filename:      filename,
		NotifyTo:      ev.List(FieldNotifyTo),
		NotifySubject: notifySubject,
		NotifyBody:    notifyBody,
	}

	start := time.Now()
	result, err := archiver.Archive(ctx, catalog, req)

	status := instrumentation.StatusSuccess
	if err != nil {
		status = instrumentation.StatusError
	}
	r.deps.Metrics.RecordArchiveRun(ctx, status, time.Since(start))

	if err != nil {
		return nil, err
	}

	resp := &Response{
		Notification: fmt.Sprintf("Archived %q to Google Drive", result.Filename),
	}
	if result.File != nil {
		resp.FileURL = result.File.WebViewLink
	}

	return resp, nil
}

func (r *Registry) handleListDrives(ctx context.Context, ev Event) (*Response, error) {
	if ev.Account == "" {
		return nil, fmt.Errorf("account is required")
	}

	key := catalogKey{account: ev.Account, scope: drive.ScopeDrives}
	catalog, err := r.cachedCatalog(ctx, key, func(ctx context.Context) (drive.Catalog, error) {
		lister, err := r.deps.NewLister(ctx, ev.Account)
		if err != nil {
			return nil, fmt.Errorf("failed to create lister: %w", err)
		}
		return lister.ListSharedDrives(ctx)
	})
	if err != nil {
		return nil, err
	}

	return &Response{Suggestions: catalog.Names()}, nil
}

func (r *Registry) handleListFolders(ctx context.Context, ev Event) (*Response, error) {
	if ev.Account == "" {
		return nil, fmt.Errorf("account is required")
	}

	driveID, ok := ev.Field(FieldDriveID)
	if !ok {
		stored, err := r.deps.Settings.Load(ctx, ev.Account)
		if err != nil {
			return nil, fmt.Errorf("failed to load settings: %w", err)
		}
		driveID = stored.DriveID
	}

	catalog, err := r.folderCatalog(ctx, ev.Account, driveID)
	if err != nil {
		return nil, err
	}

	return &Response{Suggestions: catalog.Names()}, nil
}

func (r *Registry) handleSaveSettings(ctx context.Context, ev Event) (*Response, error) {
	if ev.Account == "" {
		return nil, fmt.Errorf("account is required")
	}

	driveID, _ := ev.Field(FieldDriveID)
	saved := settings.Settings{
		Account:         ev.Account,
		DriveID:         driveID,
		SaveWholeThread: ev.Switch(SwitchSaveWholeThread),
	}

	if err := r.deps.Settings.Save(ctx, saved); err != nil {
		return nil, fmt.Errorf("failed to save settings: %w", err)
	}

	// A changed drive selection invalidates cached listings
	r.InvalidateCatalogs(ev.Account)

	return &Response{
		Notification: "Settings saved",
		Settings: &SettingsPayload{
			DriveID:         saved.DriveID,
			SaveWholeThread: saved.SaveWholeThread,
		},
	}, nil
}

func (r *Registry) handleLoadSettings(ctx context.Context, ev Event) (*Response, error) {
	if ev.Account == "" {
		return nil, fmt.Errorf("account is required")
	}

	stored, err := r.deps.Settings.Load(ctx, ev.Account)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	return &Response{
		Settings: &SettingsPayload{
			DriveID:         stored.DriveID,
			SaveWholeThread: stored.SaveWholeThread,
		},
	}, nil
}

// folderCatalog returns the session folder catalog for the account and
// drive, listing it on first use.
func (r *Registry) folderCatalog(ctx context.Context, account, driveID string) (drive.Catalog, error) {
	key := catalogKey{account: account, scope: drive.ScopeFolders, driveID: driveID}
	return r.cachedCatalog(ctx, key, func(ctx context.Context) (drive.Catalog, error) {
		lister, err := r.deps.NewLister(ctx, account)
		if err != nil {
			return nil, fmt.Errorf("failed to create lister: %w", err)
		}
		return lister.ListFolders(ctx, driveID)
	})
}
