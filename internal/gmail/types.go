package gmail

import "time"

// Message is a decoded mail message ready for archiving. All fields are
// read-only snapshots of what the mail API returned.
type Message struct {
	// ID is the Gmail message id
	ID string

	// ThreadID is the id of the thread this message belongs to
	ThreadID string

	// Subject is the raw Subject header
	Subject string

	// From is the raw From header (display name plus address)
	From string

	// To, Cc, Bcc and ReplyTo are the raw recipient headers; empty when the
	// header is absent
	To      string
	Cc      string
	Bcc     string
	ReplyTo string

	// Date is the message timestamp
	Date time.Time

	// BodyHTML is the decoded HTML body; falls back to the plain-text body
	// when the message carries no HTML part
	BodyHTML string

	// Attachments are the message attachments in API-provided order
	Attachments []Attachment
}

// Attachment is a decoded message attachment.
type Attachment struct {
	// Filename is the attachment's file name as sent
	Filename string

	// MimeType is the attachment's content type
	MimeType string

	// Data is the decoded attachment content
	Data []byte
}

// IsImage reports whether the attachment is an image, which the assembler
// inlines into the document instead of extracting.
func (a Attachment) IsImage() bool {
	return len(a.MimeType) > 6 && a.MimeType[:6] == "image/"
}
