package drive

import "time"

// Resource is a remote Drive resource (folder or shared drive) addressed by
// its opaque identifier. The id is the only stable lookup key; the name is
// user-facing and not unique.
type Resource struct {
	// ID is the opaque Drive identifier
	ID string `json:"id"`

	// Name is the display name
	Name string `json:"name"`
}

// FileInfo represents metadata about a file or folder in Google Drive
type FileInfo struct {
	// ID is the unique identifier for the file
	ID string `json:"id"`

	// Name is the name of the file
	Name string `json:"name"`

	// MimeType is the MIME type of the file
	MimeType string `json:"mimeType"`

	// Size is the size of the file in bytes (not populated for folders)
	Size int64 `json:"size,omitempty"`

	// CreatedTime is when the file was created
	CreatedTime time.Time `json:"createdTime"`

	// ModifiedTime is when the file was last modified
	ModifiedTime time.Time `json:"modifiedTime"`

	// WebViewLink is a link for opening the file in a relevant Google viewer
	WebViewLink string `json:"webViewLink,omitempty"`

	// WebContentLink is a link for downloading the file content (not available for folders)
	WebContentLink string `json:"webContentLink,omitempty"`

	// Parents are the IDs of the parent folders
	Parents []string `json:"parents,omitempty"`
}

// ListScope identifies which remote listing produced a page, for error
// reporting.
type ListScope string

const (
	// ScopeFolders is the folder listing scope
	ScopeFolders ListScope = "folders"

	// ScopeDrives is the shared-drive listing scope
	ScopeDrives ListScope = "drives"
)
