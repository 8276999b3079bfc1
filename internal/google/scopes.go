package google

// DefaultOAuthScopes are the Google OAuth scopes driveclip requests.
//
// The scopes provide access to:
//   - Gmail: read messages and attachments, send notification emails
//   - Google Drive: list drives and folders, create folders, upload files,
//     drive the HTML to PDF conversion pipeline
var DefaultOAuthScopes = []string{
	// Gmail scopes
	"https://www.googleapis.com/auth/gmail.readonly",
	"https://www.googleapis.com/auth/gmail.send",

	// Google Drive scope
	"https://www.googleapis.com/auth/drive",
}
