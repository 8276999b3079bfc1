// Package drive wraps the Google Drive API for driveclip.
//
// It provides paginated listing of shared drives and folders (collected into
// a Catalog of name/id pairs), folder creation, file upload, and the HTML to
// PDF conversion pipeline built on Drive's document import/export.
//
// Catalogs are built once per session by the caller and passed around
// explicitly; this package keeps no listing state of its own.
package drive
