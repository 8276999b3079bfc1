package gmail

import (
	"context"
	"strings"
	"testing"

	gmail "google.golang.org/api/gmail/v1"
)

func TestSendNotification_Validation(t *testing.T) {
	tests := []struct {
		name        string
		to          []string
		subject     string
		body        string
		errContains string
	}{
		{
			name:        "missing recipients",
			to:          nil,
			subject:     "Archived",
			body:        "<p>done</p>",
			errContains: "at least one recipient is required",
		},
		{
			name:        "missing subject",
			to:          []string{"user@example.com"},
			subject:     "",
			body:        "<p>done</p>",
			errContains: "subject is required",
		},
		{
			name:        "missing body",
			to:          []string{"user@example.com"},
			subject:     "Archived",
			body:        "",
			errContains: "body is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Validation runs before any API call, so a zero client suffices
			c := &Client{}

			err := c.SendNotification(context.Background(), tt.to, tt.subject, tt.body)
			if err == nil {
				t.Fatal("Expected validation error")
			}
			if !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("error = %v, should contain %q", err, tt.errContains)
			}
		})
	}
}

func TestEncodeRFC2047(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain ASCII passes through",
			input: "Archived document",
			want:  "Archived document",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := encodeRFC2047(tt.input); got != tt.want {
				t.Errorf("encodeRFC2047(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}

	// Non-ASCII subjects must be RFC 2047 encoded
	encoded := encodeRFC2047("Prüfung")
	if !strings.HasPrefix(encoded, "=?UTF-8?") {
		t.Errorf("encodeRFC2047 with umlauts = %q, want RFC 2047 encoded word", encoded)
	}
}

func TestDecodeMessage_InlineAttachments(t *testing.T) {
	msg := &gmail.Message{
		Id:       "msg1",
		ThreadId: "thread1",
		Payload: &gmail.MessagePart{
			MimeType: "multipart/mixed",
			Headers: []*gmail.MessagePartHeader{
				{Name: "Subject", Value: "Photos"},
				{Name: "From", Value: "Jane <jane@example.com>"},
				{Name: "To", Value: "bob@example.com"},
				{Name: "Date", Value: "Mon, 02 Feb 2026 09:00:00 +0000"},
			},
			Parts: []*gmail.MessagePart{
				{
					MimeType: "text/html",
					Body:     &gmail.MessagePartBody{Data: b64url("<p>see attached</p>")},
				},
				{
					MimeType: "image/png",
					Filename: "photo.png",
					Body:     &gmail.MessagePartBody{Data: b64url("png-bytes")},
				},
			},
		},
	}

	c := &Client{}
	record, err := c.decodeMessage(context.Background(), msg)
	if err != nil {
		t.Fatalf("decodeMessage() error = %v", err)
	}

	if record.ID != "msg1" || record.ThreadID != "thread1" {
		t.Errorf("unexpected ids: %s / %s", record.ID, record.ThreadID)
	}
	if record.Subject != "Photos" {
		t.Errorf("Subject = %q", record.Subject)
	}
	if record.From != "Jane <jane@example.com>" {
		t.Errorf("From = %q", record.From)
	}
	if record.Cc != "" {
		t.Errorf("Cc = %q, want empty for absent header", record.Cc)
	}
	if record.BodyHTML != "<p>see attached</p>" {
		t.Errorf("BodyHTML = %q", record.BodyHTML)
	}
	if len(record.Attachments) != 1 {
		t.Fatalf("Expected 1 attachment, got %d", len(record.Attachments))
	}

	att := record.Attachments[0]
	if att.Filename != "photo.png" {
		t.Errorf("Filename = %q", att.Filename)
	}
	if !att.IsImage() {
		t.Error("Expected image attachment")
	}
	if string(att.Data) != "png-bytes" {
		t.Errorf("Data = %q", att.Data)
	}
}

func TestThread_RequiresID(t *testing.T) {
	c := &Client{}
	if _, err := c.Thread(context.Background(), ""); err == nil {
		t.Error("Expected error for missing threadID")
	}
}

func TestMessage_RequiresID(t *testing.T) {
	c := &Client{}
	if _, err := c.Message(context.Background(), ""); err == nil {
		t.Error("Expected error for missing messageID")
	}
}

func TestAccount(t *testing.T) {
	c := &Client{account: "test-account"}
	if c.Account() != "test-account" {
		t.Errorf("Expected account 'test-account', got %s", c.Account())
	}
}
