package drive

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/driveclip/driveclip/internal/google"
	"github.com/driveclip/driveclip/internal/instrumentation"
)

const (
	// FolderMimeType is the MIME type for Google Drive folders
	FolderMimeType = "application/vnd.google-apps.folder"

	// DocMimeType is the MIME type for Google Docs, used as the intermediate
	// format of the HTML to PDF conversion pipeline
	DocMimeType = "application/vnd.google-apps.document"

	// PDFMimeType is the MIME type of rendered documents
	PDFMimeType = "application/pdf"

	// listPageSize is the page size used for all listing calls. The Drive API
	// caps pages at 100 entries for shared-drive listings.
	listPageSize = 100
)

// Client wraps the Google Drive API service
type Client struct {
	service *drive.Service
	account string // The account this client is associated with
	metrics *instrumentation.Metrics
}

// Account returns the account name this client is associated with
func (c *Client) Account() string {
	return c.account
}

// WithMetrics attaches a metrics recorder to the client and returns it.
// Without one the client records nothing.
func (c *Client) WithMetrics(m *instrumentation.Metrics) *Client {
	c.metrics = m
	return c
}

// recordOp records one Drive API call. No-op without a recorder.
func (c *Client) recordOp(ctx context.Context, operation string, err error, start time.Time) {
	if c.metrics == nil {
		return
	}
	status := instrumentation.StatusSuccess
	if err != nil {
		status = instrumentation.StatusError
	}
	c.metrics.RecordGoogleAPIOperation(ctx, instrumentation.ServiceDrive, operation, status, time.Since(start))
}

func (c *Client) recordPage(ctx context.Context, scope ListScope) {
	if c.metrics == nil {
		return
	}
	c.metrics.RecordCatalogPage(ctx, string(scope))
}

// NewClientForAccount creates a new Google Drive client with OAuth2
// authentication for a specific account. Returns an error if no valid token
// exists - use google.HasTokenForAccount() to check first.
func NewClientForAccount(ctx context.Context, account string) (*Client, error) {
	client, err := google.GetHTTPClientForAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("no valid Google OAuth token found for account %s. Please authorize access first: %w", account, err)
	}

	driveService, err := drive.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create Drive service: %w", err)
	}

	return &Client{
		service: driveService,
		account: account,
	}, nil
}

// NewClient creates a new Google Drive client for the default account
func NewClient(ctx context.Context) (*Client, error) {
	return NewClientForAccount(ctx, "default")
}

// ListFolders lists all folders visible to the account, following
// continuation tokens until the listing is exhausted. Pages are concatenated
// in the order received; within pages the API returns folders ordered by
// name. When driveID is non-empty the listing is restricted to that shared
// drive.
//
// Any page failure aborts the listing with a *ListError; there is no
// partial-result recovery.
func (c *Client) ListFolders(ctx context.Context, driveID string) (Catalog, error) {
	var catalog Catalog
	pageToken := ""
	page := 0

	for {
		call := c.service.Files.List().
			Context(ctx).
			Q("mimeType='" + FolderMimeType + "' and trashed=false").
			OrderBy("name").
			PageSize(listPageSize).
			Fields("nextPageToken, files(id, name)").
			SupportsAllDrives(true).
			IncludeItemsFromAllDrives(true)

		if driveID != "" {
			call = call.Corpora("drive").DriveId(driveID)
		} else {
			call = call.Corpora("allDrives")
		}
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		start := time.Now()
		res, err := call.Do()
		c.recordOp(ctx, instrumentation.OperationList, err, start)
		if err != nil {
			return nil, &ListError{Scope: ScopeFolders, Page: page, Err: err}
		}
		c.recordPage(ctx, ScopeFolders)

		for _, f := range res.Files {
			catalog = append(catalog, Resource{ID: f.Id, Name: f.Name})
		}

		if res.NextPageToken == "" {
			return catalog, nil
		}
		pageToken = res.NextPageToken
		page++
	}
}

// ListSharedDrives lists all shared drives visible to the account, following
// continuation tokens until the listing is exhausted. The resulting catalog
// is ordered by name.
func (c *Client) ListSharedDrives(ctx context.Context) (Catalog, error) {
	var catalog Catalog
	pageToken := ""
	page := 0

	for {
		call := c.service.Drives.List().
			Context(ctx).
			PageSize(listPageSize).
			Fields("nextPageToken, drives(id, name)")

		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		start := time.Now()
		res, err := call.Do()
		c.recordOp(ctx, instrumentation.OperationList, err, start)
		if err != nil {
			return nil, &ListError{Scope: ScopeDrives, Page: page, Err: err}
		}
		c.recordPage(ctx, ScopeDrives)

		for _, d := range res.Drives {
			catalog = append(catalog, Resource{ID: d.Id, Name: d.Name})
		}

		if res.NextPageToken == "" {
			break
		}
		pageToken = res.NextPageToken
		page++
	}

	// The Drives listing has no server-side ordering
	sort.SliceStable(catalog, func(i, j int) bool {
		return catalog[i].Name < catalog[j].Name
	})

	return catalog, nil
}

// CreateFolder creates a new folder. parentID may be empty to create the
// folder in the account's root.
func (c *Client) CreateFolder(ctx context.Context, name, parentID string) (*FileInfo, error) {
	if name == "" {
		return nil, fmt.Errorf("folder name is required")
	}

	file := &drive.File{
		Name:     name,
		MimeType: FolderMimeType,
	}
	if parentID != "" {
		file.Parents = []string{parentID}
	}

	start := time.Now()
	driveFile, err := c.service.Files.Create(file).
		Context(ctx).
		SupportsAllDrives(true).
		Fields("id, name, mimeType, createdTime, modifiedTime, webViewLink, parents").
		Do()
	c.recordOp(ctx, instrumentation.OperationCreate, err, start)
	if err != nil {
		return nil, fmt.Errorf("failed to create folder: %w", err)
	}

	return convertToFileInfo(driveFile), nil
}

// UploadFile uploads a file with the given content into parentID (or the
// account's root when parentID is empty).
func (c *Client) UploadFile(ctx context.Context, name, parentID, mimeType string, content []byte) (*FileInfo, error) {
	if name == "" {
		return nil, fmt.Errorf("file name is required")
	}
	if content == nil {
		return nil, fmt.Errorf("file content is required")
	}

	file := &drive.File{
		Name:     name,
		MimeType: mimeType,
	}
	if parentID != "" {
		file.Parents = []string{parentID}
	}

	start := time.Now()
	driveFile, err := c.service.Files.Create(file).
		Context(ctx).
		SupportsAllDrives(true).
		Media(bytes.NewReader(content), googleapi.ContentType(mimeType)).
		Fields("id, name, mimeType, size, createdTime, modifiedTime, webViewLink, webContentLink, parents").
		Do()
	c.recordOp(ctx, instrumentation.OperationUpload, err, start)
	if err != nil {
		return nil, fmt.Errorf("failed to upload file: %w", err)
	}
	if c.metrics != nil {
		c.metrics.RecordUploadBytes(ctx, int64(len(content)))
	}

	return convertToFileInfo(driveFile), nil
}

// RenderPDF converts an HTML document into PDF bytes using Drive's conversion
// pipeline: the HTML is imported as a temporary Google Doc, exported as PDF,
// and the temporary doc is deleted again. The conversion backend is treated
// as an opaque remote service; a stalled conversion stalls the caller.
func (c *Client) RenderPDF(ctx context.Context, html []byte, name string) ([]byte, error) {
	if len(html) == 0 {
		return nil, fmt.Errorf("document content is required")
	}

	doc := &drive.File{
		Name:     name,
		MimeType: DocMimeType,
	}

	start := time.Now()
	created, err := c.service.Files.Create(doc).
		Context(ctx).
		Media(bytes.NewReader(html), googleapi.ContentType("text/html")).
		Fields("id").
		Do()
	c.recordOp(ctx, instrumentation.OperationImport, err, start)
	if err != nil {
		return nil, fmt.Errorf("failed to import document for conversion: %w", err)
	}

	// The temporary doc must not outlive the conversion, success or not.
	defer func() {
		_ = c.service.Files.Delete(created.Id).Context(ctx).Do()
	}()

	start = time.Now()
	resp, err := c.service.Files.Export(created.Id, PDFMimeType).Context(ctx).Download()
	c.recordOp(ctx, instrumentation.OperationExport, err, start)
	if err != nil {
		return nil, fmt.Errorf("failed to export document as PDF: %w", err)
	}
	defer resp.Body.Close()

	pdf, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read exported PDF: %w", err)
	}

	return pdf, nil
}

// GetFile retrieves metadata for a specific file
func (c *Client) GetFile(ctx context.Context, fileID string) (*FileInfo, error) {
	if fileID == "" {
		return nil, fmt.Errorf("fileID is required")
	}

	start := time.Now()
	file, err := c.service.Files.Get(fileID).
		Context(ctx).
		SupportsAllDrives(true).
		Fields("id, name, mimeType, size, createdTime, modifiedTime, webViewLink, webContentLink, parents").
		Do()
	c.recordOp(ctx, instrumentation.OperationGet, err, start)
	if err != nil {
		return nil, fmt.Errorf("failed to get file %s: %w", fileID, err)
	}

	return convertToFileInfo(file), nil
}

// convertToFileInfo converts a Drive API File to our FileInfo type
func convertToFileInfo(f *drive.File) *FileInfo {
	fileInfo := &FileInfo{
		ID:             f.Id,
		Name:           f.Name,
		MimeType:       f.MimeType,
		Size:           f.Size,
		WebViewLink:    f.WebViewLink,
		WebContentLink: f.WebContentLink,
		Parents:        f.Parents,
	}

	if f.CreatedTime != "" {
		if t, err := time.Parse(time.RFC3339, f.CreatedTime); err == nil {
			fileInfo.CreatedTime = t
		}
	}
	if f.ModifiedTime != "" {
		if t, err := time.Parse(time.RFC3339, f.ModifiedTime); err == nil {
			fileInfo.ModifiedTime = t
		}
	}

	return fileInfo
}
