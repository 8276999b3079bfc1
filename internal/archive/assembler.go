package archive

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/driveclip/driveclip/internal/gmail"
)

// DefaultLocation renders message timestamps at a fixed CET offset, which
// keeps rendered documents byte-stable across DST flips. Deriving the zone
// from the account locale instead is an open product question, so the zone is
// a configurable default rather than a hard-coded constant.
var DefaultLocation = time.FixedZone("CET", 60*60)

// headerDateFormat is the fixed timestamp format of the per-message header
// block.
const headerDateFormat = "Mon Jan 2, 2006 15:04 MST"

// AttachmentLink points at an attachment extracted into the companion
// folder.
type AttachmentLink struct {
	Name string
	URL  string
}

// AttachmentSink stores non-image attachments outside the assembled
// document.
//
// EnsureFolder creates the companion attachment folder on its first call and
// returns the same folder id on every later call within the run; the folder
// is shared by all non-image attachments of all messages in the run.
type AttachmentSink interface {
	EnsureFolder(ctx context.Context, name string) (string, error)
	SaveAttachment(ctx context.Context, folderID string, att gmail.Attachment) (AttachmentLink, error)
}

// Document is the finalized assembly output: immutable markup, the resolved
// filename and the id of the companion attachment folder when one was
// created during the run.
type Document struct {
	HTML               []byte
	Filename           string
	AttachmentFolderID string
}

// Assembler builds one HTML document out of an ordered message sequence.
type Assembler struct {
	location *time.Location
}

// NewAssembler creates an Assembler rendering timestamps in loc. A nil loc
// selects DefaultLocation.
func NewAssembler(loc *time.Location) *Assembler {
	if loc == nil {
		loc = DefaultLocation
	}
	return &Assembler{location: loc}
}

// Assemble renders the messages in order into a single document named
// filename. Non-image attachments are handed to sink; the companion folder
// is created lazily on the first one and named after the document filename.
func (a *Assembler) Assemble(ctx context.Context, messages []gmail.Message, filename string, sink AttachmentSink) (*Document, error) {
	var b strings.Builder
	b.WriteString("<html><body>")

	folderID := ""

	for i, msg := range messages {
		a.writeHeader(&b, msg)
		b.WriteString(bodyMarkup(msg.BodyHTML))

		for _, att := range msg.Attachments {
			if att.IsImage() {
				writeInlineImage(&b, att)
				continue
			}

			if folderID == "" {
				id, err := sink.EnsureFolder(ctx, filename)
				if err != nil {
					return nil, fmt.Errorf("failed to create attachment folder: %w", err)
				}
				folderID = id
			}

			link, err := sink.SaveAttachment(ctx, folderID, att)
			if err != nil {
				return nil, fmt.Errorf("failed to save attachment %s: %w", att.Filename, err)
			}
			fmt.Fprintf(&b, `<p>Attachment: <a href="%s">%s</a></p>`, link.URL, link.Name)
		}

		// Divider between thread messages, never after the last one
		if i < len(messages)-1 {
			b.WriteString(`<hr>`)
		}
	}

	b.WriteString("</body></html>")

	return &Document{
		HTML:               []byte(b.String()),
		Filename:           filename,
		AttachmentFolderID: folderID,
	}, nil
}

// writeHeader renders the per-message header block: subject, sender, date
// and any non-empty Cc/Bcc/Reply-To lines.
func (a *Assembler) writeHeader(b *strings.Builder, msg gmail.Message) {
	fmt.Fprintf(b, "<p><b>Subject: %s</b><br>", msg.Subject)
	fmt.Fprintf(b, "From: %s<br>", rewriteAngleBrackets(msg.From))
	fmt.Fprintf(b, "Date: %s", msg.Date.In(a.location).Format(headerDateFormat))

	if msg.Cc != "" {
		fmt.Fprintf(b, "<br>Cc: %s", rewriteAngleBrackets(msg.Cc))
	}
	if msg.Bcc != "" {
		fmt.Fprintf(b, "<br>Bcc: %s", rewriteAngleBrackets(msg.Bcc))
	}
	if msg.ReplyTo != "" {
		fmt.Fprintf(b, "<br>Reply-To: %s", rewriteAngleBrackets(msg.ReplyTo))
	}

	b.WriteString("</p>")
}

// rewriteAngleBrackets replaces the angle-bracket address delimiters with
// parentheses. The downstream HTML renderer would otherwise swallow
// "<jane@example.com>" as an unknown tag; this is a format-compatibility
// transform, not a semantic one.
func rewriteAngleBrackets(s string) string {
	s = strings.ReplaceAll(s, "<", "(")
	return strings.ReplaceAll(s, ">", ")")
}

// bodyMarkup reduces a raw body to the substring between the opening and
// closing body tags, inclusive, so surrounding document and head markup does
// not leak into the rendered page. Bodies without both bounds pass through
// unmodified.
func bodyMarkup(raw string) string {
	lower := strings.ToLower(raw)
	start := strings.Index(lower, "<body")
	end := strings.Index(lower, "</body>")
	if start < 0 || end < 0 || end < start {
		return raw
	}
	return raw[start : end+len("</body>")]
}

// writeInlineImage embeds an image attachment as a base64 data URI, width
// constrained to the container with the aspect ratio preserved.
func writeInlineImage(b *strings.Builder, att gmail.Attachment) {
	fmt.Fprintf(b, `<img src="data:%s;base64,%s" style="max-width:100%%;height:auto">`,
		att.MimeType, base64.StdEncoding.EncodeToString(att.Data))
}
