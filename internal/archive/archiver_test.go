package archive

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/driveclip/driveclip/internal/drive"
	"github.com/driveclip/driveclip/internal/gmail"
	"github.com/driveclip/driveclip/internal/instrumentation"
)

type fakeSource struct {
	thread   []gmail.Message
	message  gmail.Message
	threadID string
	msgID    string
	err      error
}

func (s *fakeSource) Thread(_ context.Context, threadID string) ([]gmail.Message, error) {
	s.threadID = threadID
	return s.thread, s.err
}

func (s *fakeSource) Message(_ context.Context, messageID string) (gmail.Message, error) {
	s.msgID = messageID
	return s.message, s.err
}

type fakeStorage struct {
	folders   []string
	uploads   []string
	renders   int
	renderErr error
	uploadErr error
	nextID    int
}

func (s *fakeStorage) CreateFolder(_ context.Context, name, parentID string) (*drive.FileInfo, error) {
	s.folders = append(s.folders, parentID+"/"+name)
	s.nextID++
	return &drive.FileInfo{ID: fmt.Sprintf("folder-%d", s.nextID), Name: name}, nil
}

func (s *fakeStorage) UploadFile(_ context.Context, name, parentID, mimeType string, content []byte) (*drive.FileInfo, error) {
	if s.uploadErr != nil {
		return nil, s.uploadErr
	}
	s.uploads = append(s.uploads, parentID+"/"+name+" ("+mimeType+")")
	s.nextID++
	return &drive.FileInfo{
		ID:          fmt.Sprintf("file-%d", s.nextID),
		Name:        name,
		WebViewLink: "https://drive.example.com/" + name,
	}, nil
}

func (s *fakeStorage) RenderPDF(_ context.Context, html []byte, _ string) ([]byte, error) {
	s.renders++
	if s.renderErr != nil {
		return nil, s.renderErr
	}
	return append([]byte("%PDF "), html...), nil
}

type fakeNotifier struct {
	to      []string
	subject string
	body    string
	err     error
}

func (n *fakeNotifier) SendNotification(_ context.Context, to []string, subject, body string) error {
	n.to = to
	n.subject = subject
	n.body = body
	return n.err
}

var testCatalog = drive.Catalog{
	{ID: "dest-1", Name: "Invoices"},
	{ID: "dest-2", Name: "Receipts"},
}

func newTestArchiver(source MailSource, storage Storage, notifier Notifier) *Archiver {
	return New(source, storage, notifier, NewAssembler(time.UTC), nil)
}

func TestArchiveEmptyDestination(t *testing.T) {
	storage := &fakeStorage{}
	a := newTestArchiver(&fakeSource{}, storage, nil)

	_, err := a.Archive(context.Background(), testCatalog, Request{Destination: "   ", MessageID: "m1"})
	if !errors.Is(err, ErrNoDestination) {
		t.Fatalf("Archive() error = %v, want ErrNoDestination", err)
	}
	if storage.renders != 0 || len(storage.uploads) != 0 {
		t.Error("storage touched despite missing destination")
	}
}

func TestArchiveUnknownDestination(t *testing.T) {
	storage := &fakeStorage{}
	source := &fakeSource{}
	a := newTestArchiver(source, storage, nil)

	_, err := a.Archive(context.Background(), testCatalog, Request{Destination: "Taxes", MessageID: "m1"})

	var destErr *DestinationError
	if !errors.As(err, &destErr) {
		t.Fatalf("Archive() error = %v, want *DestinationError", err)
	}
	if destErr.Name != "Taxes" {
		t.Errorf("DestinationError.Name = %q, want Taxes", destErr.Name)
	}
	if source.msgID != "" || source.threadID != "" {
		t.Error("messages fetched despite unresolvable destination")
	}
	if storage.renders != 0 || len(storage.uploads) != 0 {
		t.Error("storage touched despite unresolvable destination")
	}
}

func TestArchiveSingleMessage(t *testing.T) {
	source := &fakeSource{message: gmail.Message{
		ID:       "m1",
		Subject:  "Invoice: March/2026",
		From:     "billing@example.com",
		Date:     time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC),
		BodyHTML: "<body>amount due</body>",
	}}
	storage := &fakeStorage{}
	a := newTestArchiver(source, storage, nil)

	result, err := a.Archive(context.Background(), testCatalog, Request{
		Destination: "Invoices",
		MessageID:   "m1",
	})
	if err != nil {
		t.Fatalf("Archive() error = %v", err)
	}

	// Filename falls back to the subject as-is; only user input is sanitized
	if result.Filename != "Invoice: March/2026" {
		t.Errorf("Filename = %q, want the unmodified subject", result.Filename)
	}
	if len(storage.folders) != 0 {
		t.Errorf("companion folder created without non-image attachments: %v", storage.folders)
	}
	if len(storage.uploads) != 1 {
		t.Fatalf("uploads = %v, want exactly the PDF", storage.uploads)
	}
	want := "dest-1/Invoice: March/2026.pdf (application/pdf)"
	if storage.uploads[0] != want {
		t.Errorf("upload = %q, want %q", storage.uploads[0], want)
	}
	if result.RunID == "" {
		t.Error("RunID empty")
	}
	if result.Notified {
		t.Error("Notified = true without recipients")
	}
}

func TestArchiveWholeThreadWithAttachments(t *testing.T) {
	msg2 := gmail.Message{
		Subject: "Re: Contract", From: "a@example.com", Date: time.Now(), BodyHTML: "<body>2</body>",
		Attachments: []gmail.Attachment{
			{Filename: "contract.docx", MimeType: "application/msword", Data: []byte("doc")},
		},
	}
	source := &fakeSource{thread: []gmail.Message{
		{Subject: "Contract", From: "a@example.com", Date: time.Now(), BodyHTML: "<body>1</body>"},
		msg2,
	}}
	storage := &fakeStorage{}
	a := newTestArchiver(source, storage, nil)

	result, err := a.Archive(context.Background(), testCatalog, Request{
		Destination: "Receipts",
		ThreadID:    "t1",
		WholeThread: true,
		Filename:    "Contract (signed)",
	})
	if err != nil {
		t.Fatalf("Archive() error = %v", err)
	}

	if source.threadID != "t1" {
		t.Errorf("fetched thread %q, want t1", source.threadID)
	}
	if result.Filename != "Contract signed" {
		t.Errorf("Filename = %q, want sanitized user input", result.Filename)
	}
	if len(storage.folders) != 1 || storage.folders[0] != "dest-2/Contract signed" {
		t.Errorf("folders = %v, want one companion folder named after the document", storage.folders)
	}
	if result.AttachmentFolderID == "" {
		t.Error("AttachmentFolderID empty despite extracted attachment")
	}

	// Attachment and PDF both land inside the companion folder
	if len(storage.uploads) != 2 {
		t.Fatalf("uploads = %v, want attachment plus PDF", storage.uploads)
	}
	for _, upload := range storage.uploads {
		if !strings.HasPrefix(upload, result.AttachmentFolderID+"/") {
			t.Errorf("upload %q outside companion folder %q", upload, result.AttachmentFolderID)
		}
	}
}

func TestArchiveEmptyThread(t *testing.T) {
	a := newTestArchiver(&fakeSource{thread: nil}, &fakeStorage{}, nil)

	_, err := a.Archive(context.Background(), testCatalog, Request{
		Destination: "Invoices",
		ThreadID:    "t1",
		WholeThread: true,
	})
	if !errors.Is(err, ErrNoMessages) {
		t.Fatalf("Archive() error = %v, want ErrNoMessages", err)
	}
}

func TestArchiveNoSourceSelected(t *testing.T) {
	a := newTestArchiver(&fakeSource{}, &fakeStorage{}, nil)

	_, err := a.Archive(context.Background(), testCatalog, Request{Destination: "Invoices"})
	if !errors.Is(err, ErrNoMessages) {
		t.Fatalf("Archive() error = %v, want ErrNoMessages", err)
	}
}

func TestArchiveNotification(t *testing.T) {
	source := &fakeSource{message: gmail.Message{
		Subject: "Hi", From: "a@example.com", Date: time.Now(), BodyHTML: "<body>x</body>",
	}}
	notifier := &fakeNotifier{}
	a := newTestArchiver(source, &fakeStorage{}, notifier)

	result, err := a.Archive(context.Background(), testCatalog, Request{
		Destination: "Invoices",
		MessageID:   "m1",
		NotifyTo:    []string{"team@example.com"},
	})
	if err != nil {
		t.Fatalf("Archive() error = %v", err)
	}

	if !result.Notified {
		t.Error("Notified = false, want true")
	}
	if len(notifier.to) != 1 || notifier.to[0] != "team@example.com" {
		t.Errorf("notification recipients = %v", notifier.to)
	}
	if notifier.subject != defaultNotifySubject {
		t.Errorf("subject = %q, want default", notifier.subject)
	}
	if !strings.Contains(notifier.body, "https://drive.example.com/Hi.pdf") {
		t.Errorf("notification body missing file link: %q", notifier.body)
	}
}

func TestArchiveNotificationFailureIsSwallowed(t *testing.T) {
	source := &fakeSource{message: gmail.Message{
		Subject: "Hi", From: "a@example.com", Date: time.Now(), BodyHTML: "<body>x</body>",
	}}
	notifier := &fakeNotifier{err: fmt.Errorf("smtp down")}
	storage := &fakeStorage{}
	a := newTestArchiver(source, storage, notifier)

	result, err := a.Archive(context.Background(), testCatalog, Request{
		Destination: "Invoices",
		MessageID:   "m1",
		NotifyTo:    []string{"team@example.com"},
	})
	if err != nil {
		t.Fatalf("Archive() error = %v, notification failure must not fail the run", err)
	}
	if result.Notified {
		t.Error("Notified = true despite send failure")
	}
	if len(storage.uploads) != 1 {
		t.Errorf("uploads = %v, archive output must survive the failed notification", storage.uploads)
	}
}

// notificationCount returns how often notifications_total was recorded with
// the given result label.
func notificationCount(t *testing.T, reader *sdkmetric.ManualReader, result string) int64 {
	t.Helper()

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name != "notifications_total" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatal("notifications_total is not an int64 sum")
			}
			var total int64
			for _, dp := range sum.DataPoints {
				if v, found := dp.Attributes.Value(attribute.Key("result")); found && v.AsString() == result {
					total += dp.Value
				}
			}
			return total
		}
	}
	return 0
}

func TestArchiveNotificationOutcomeRecorded(t *testing.T) {
	tests := []struct {
		name       string
		sendErr    error
		wantResult string
	}{
		{name: "delivered", wantResult: instrumentation.NotifyResultSent},
		{name: "send failure", sendErr: fmt.Errorf("smtp down"), wantResult: instrumentation.NotifyResultFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := sdkmetric.NewManualReader()
			provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
			t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

			metrics, err := instrumentation.NewMetrics(provider.Meter("test"), false)
			if err != nil {
				t.Fatalf("NewMetrics() error = %v", err)
			}

			source := &fakeSource{message: gmail.Message{
				Subject: "Hi", From: "a@example.com", Date: time.Now(), BodyHTML: "<body>x</body>",
			}}
			notifier := &fakeNotifier{err: tt.sendErr}
			a := newTestArchiver(source, &fakeStorage{}, notifier).WithMetrics(metrics)

			_, err = a.Archive(context.Background(), testCatalog, Request{
				Destination: "Invoices",
				MessageID:   "m1",
				NotifyTo:    []string{"team@example.com"},
			})
			if err != nil {
				t.Fatalf("Archive() error = %v", err)
			}

			if got := notificationCount(t, reader, tt.wantResult); got != 1 {
				t.Errorf("notifications_total{result=%q} = %d, want 1", tt.wantResult, got)
			}
		})
	}
}

func TestArchiveRenderFailure(t *testing.T) {
	source := &fakeSource{message: gmail.Message{
		Subject: "Hi", From: "a@example.com", Date: time.Now(), BodyHTML: "<body>x</body>",
	}}
	storage := &fakeStorage{renderErr: fmt.Errorf("export quota exceeded")}
	a := newTestArchiver(source, storage, nil)

	_, err := a.Archive(context.Background(), testCatalog, Request{
		Destination: "Invoices",
		MessageID:   "m1",
	})
	if err == nil || !strings.Contains(err.Error(), "render PDF") {
		t.Fatalf("Archive() error = %v, want render failure", err)
	}
	if len(storage.uploads) != 0 {
		t.Errorf("uploads = %v, nothing may be uploaded after a failed render", storage.uploads)
	}
}
