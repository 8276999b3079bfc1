package archive

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/driveclip/driveclip/internal/drive"
	"github.com/driveclip/driveclip/internal/gmail"
	"github.com/driveclip/driveclip/internal/instrumentation"
)

// untitledFilename names documents archived from messages that carry neither
// a user-supplied filename nor a subject.
const untitledFilename = "Archived email"

const (
	defaultNotifySubject = "An email was archived to Google Drive"
	defaultNotifyBody    = "A new document has been archived to Google Drive."
)

// MailSource fetches messages to archive.
type MailSource interface {
	Thread(ctx context.Context, threadID string) ([]gmail.Message, error)
	Message(ctx context.Context, messageID string) (gmail.Message, error)
}

// Storage persists archive output to the destination drive.
type Storage interface {
	CreateFolder(ctx context.Context, name, parentID string) (*drive.FileInfo, error)
	UploadFile(ctx context.Context, name, parentID, mimeType string, content []byte) (*drive.FileInfo, error)
	RenderPDF(ctx context.Context, html []byte, name string) ([]byte, error)
}

// Notifier delivers the optional post-archive notification email.
type Notifier interface {
	SendNotification(ctx context.Context, to []string, subject, body string) error
}

// Request describes a single archive run.
//
// Exactly one source is used: the whole thread when WholeThread is set,
// otherwise the single message identified by MessageID. Destination is the
// display name of the target folder, resolved against the session catalog.
// An empty Filename falls back to the subject of the first message.
type Request struct {
	MessageID   string
	ThreadID    string
	WholeThread bool

	Destination string
	Filename    string

	NotifyTo      []string
	NotifySubject string
	NotifyBody    string
}

// Result reports what a completed run produced.
type Result struct {
	RunID              string
	File               *drive.FileInfo
	Filename           string
	AttachmentFolderID string
	Notified           bool
}

// Archiver drives the fetch, assemble, render, upload, notify sequence.
type Archiver struct {
	source    MailSource
	storage   Storage
	notifier  Notifier
	assembler *Assembler
	logger    *slog.Logger
	metrics   *instrumentation.Metrics
}

// New creates an Archiver. A nil assembler gets default timestamp rendering,
// a nil logger falls back to slog.Default, and a nil notifier disables
// notifications.
func New(source MailSource, storage Storage, notifier Notifier, assembler *Assembler, logger *slog.Logger) *Archiver {
	if assembler == nil {
		assembler = NewAssembler(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Archiver{
		source:    source,
		storage:   storage,
		notifier:  notifier,
		assembler: assembler,
		logger:    logger,
	}
}

// WithMetrics attaches a metrics recorder to the archiver and returns it.
// Without one the archiver records nothing.
func (a *Archiver) WithMetrics(m *instrumentation.Metrics) *Archiver {
	a.metrics = m
	return a
}

// Archive runs one archive request against the given folder catalog.
//
// The destination is resolved before any remote call, so a missing folder
// costs nothing beyond the catalog lookup. Notification delivery is best
// effort; a send failure is logged and the run still succeeds.
func (a *Archiver) Archive(ctx context.Context, catalog drive.Catalog, req Request) (*Result, error) {
	if strings.TrimSpace(req.Destination) == "" {
		return nil, ErrNoDestination
	}

	destID := catalog.Resolve(req.Destination)
	if destID == "" {
		return nil, &DestinationError{Name: req.Destination}
	}

	runID := uuid.New().String()
	logger := a.logger.With(
		slog.String("operation", "archive"),
		slog.String("run_id", runID),
	)

	messages, err := a.fetchMessages(ctx, req)
	if err != nil {
		return nil, err
	}

	filename := Sanitize(req.Filename)
	if strings.TrimSpace(filename) == "" {
		filename = messages[0].Subject
	}
	if strings.TrimSpace(filename) == "" {
		filename = untitledFilename
	}

	sink := &storageSink{storage: a.storage, parentID: destID}

	doc, err := a.assembler.Assemble(ctx, messages, filename, sink)
	if err != nil {
		return nil, fmt.Errorf("failed to assemble document: %w", err)
	}

	pdf, err := a.storage.RenderPDF(ctx, doc.HTML, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}

	// The PDF lands next to its extracted attachments when a companion
	// folder exists, directly in the destination otherwise.
	parentID := destID
	if doc.AttachmentFolderID != "" {
		parentID = doc.AttachmentFolderID
	}

	file, err := a.storage.UploadFile(ctx, filename+".pdf", parentID, drive.PDFMimeType, pdf)
	if err != nil {
		return nil, fmt.Errorf("failed to upload PDF: %w", err)
	}

	result := &Result{
		RunID:              runID,
		File:               file,
		Filename:           filename,
		AttachmentFolderID: doc.AttachmentFolderID,
	}

	if len(req.NotifyTo) > 0 {
		result.Notified = a.notify(ctx, logger, req, file)
	}

	logger.Info("archived document",
		slog.String("file_id", file.ID),
		slog.Int("message_count", len(messages)),
		slog.Bool("notified", result.Notified),
	)

	return result, nil
}

func (a *Archiver) fetchMessages(ctx context.Context, req Request) ([]gmail.Message, error) {
	switch {
	case req.WholeThread:
		if req.ThreadID == "" {
			return nil, ErrNoMessages
		}
		messages, err := a.source.Thread(ctx, req.ThreadID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch thread: %w", err)
		}
		if len(messages) == 0 {
			return nil, ErrNoMessages
		}
		return messages, nil
	case req.MessageID != "":
		msg, err := a.source.Message(ctx, req.MessageID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch message: %w", err)
		}
		return []gmail.Message{msg}, nil
	default:
		return nil, ErrNoMessages
	}
}

// notify sends the post-archive email and reports whether delivery
// succeeded. Failures never surface to the caller.
func (a *Archiver) notify(ctx context.Context, logger *slog.Logger, req Request, file *drive.FileInfo) bool {
	if a.notifier == nil {
		logger.Warn("notification requested but no notifier configured")
		return false
	}

	subject := req.NotifySubject
	if subject == "" {
		subject = defaultNotifySubject
	}
	body := req.NotifyBody
	if body == "" {
		body = defaultNotifyBody
	}
	body = fmt.Sprintf(`<p>%s</p><p><a href="%s">%s</a></p>`, body, file.WebViewLink, file.Name)

	if err := a.notifier.SendNotification(ctx, req.NotifyTo, subject, body); err != nil {
		logger.Warn("failed to send notification",
			slog.String("error", err.Error()),
			slog.Int("recipient_count", len(req.NotifyTo)),
		)
		a.recordNotification(ctx, instrumentation.NotifyResultFailed)
		return false
	}
	a.recordNotification(ctx, instrumentation.NotifyResultSent)
	return true
}

func (a *Archiver) recordNotification(ctx context.Context, result string) {
	if a.metrics == nil {
		return
	}
	a.metrics.RecordNotification(ctx, result)
}

// storageSink adapts Storage to the AttachmentSink the assembler consumes,
// rooting the companion folder at the resolved destination.
type storageSink struct {
	storage  Storage
	parentID string
}

func (s *storageSink) EnsureFolder(ctx context.Context, name string) (string, error) {
	folder, err := s.storage.CreateFolder(ctx, name, s.parentID)
	if err != nil {
		return "", err
	}
	return folder.ID, nil
}

func (s *storageSink) SaveAttachment(ctx context.Context, folderID string, att gmail.Attachment) (AttachmentLink, error) {
	file, err := s.storage.UploadFile(ctx, att.Filename, folderID, att.MimeType, att.Data)
	if err != nil {
		return AttachmentLink{}, err
	}
	return AttachmentLink{Name: file.Name, URL: file.WebViewLink}, nil
}
