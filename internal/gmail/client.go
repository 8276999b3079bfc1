package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"strings"

	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/driveclip/driveclip/internal/google"
)

// Client wraps the Gmail Users service
type Client struct {
	svc     *gmail.UsersService
	account string // The account this client is associated with
}

// Account returns the account name this client is associated with
func (c *Client) Account() string {
	return c.account
}

// NewClientForAccount creates a new Gmail client with OAuth2 authentication
// for a specific account. Returns an error if no valid token exists - use
// google.HasTokenForAccount() to check first.
func NewClientForAccount(ctx context.Context, account string) (*Client, error) {
	client, err := google.GetHTTPClientForAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("no valid Google OAuth token found for account %s. Please authorize access first: %w", account, err)
	}

	svc, err := gmail.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}

	return &Client{
		svc:     svc.Users,
		account: account,
	}, nil
}

// NewClient creates a new Gmail client for the default account
func NewClient(ctx context.Context) (*Client, error) {
	return NewClientForAccount(ctx, "default")
}

// Thread retrieves a full thread and decodes every message in API order.
func (c *Client) Thread(ctx context.Context, threadID string) ([]Message, error) {
	if threadID == "" {
		return nil, fmt.Errorf("threadID is required")
	}

	thread, err := c.svc.Threads.Get("me", threadID).Format("full").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get thread %s: %w", threadID, err)
	}

	messages := make([]Message, 0, len(thread.Messages))
	for _, m := range thread.Messages {
		decoded, err := c.decodeMessage(ctx, m)
		if err != nil {
			return nil, err
		}
		messages = append(messages, decoded)
	}

	return messages, nil
}

// Message retrieves a single message and decodes it.
func (c *Client) Message(ctx context.Context, messageID string) (Message, error) {
	if messageID == "" {
		return Message{}, fmt.Errorf("messageID is required")
	}

	msg, err := c.svc.Messages.Get("me", messageID).Format("full").Context(ctx).Do()
	if err != nil {
		return Message{}, fmt.Errorf("failed to get message %s: %w", messageID, err)
	}

	return c.decodeMessage(ctx, msg)
}

// decodeMessage turns a raw API message into a Message record, fetching
// attachment content as needed.
func (c *Client) decodeMessage(ctx context.Context, msg *gmail.Message) (Message, error) {
	record := Message{
		ID:       msg.Id,
		ThreadID: msg.ThreadId,
		Subject:  HeaderValue(msg, "Subject"),
		From:     HeaderValue(msg, "From"),
		To:       HeaderValue(msg, "To"),
		Cc:       HeaderValue(msg, "Cc"),
		Bcc:      HeaderValue(msg, "Bcc"),
		ReplyTo:  HeaderValue(msg, "Reply-To"),
		Date:     messageDate(msg),
	}

	body, err := extractBody(msg)
	if err != nil {
		return Message{}, fmt.Errorf("failed to decode body of message %s: %w", msg.Id, err)
	}
	record.BodyHTML = body

	err = walkParts(msg.Payload, func(part *gmail.MessagePart) error {
		if part.Filename == "" || part.Body == nil {
			return nil
		}

		att := Attachment{
			Filename: part.Filename,
			MimeType: part.MimeType,
		}

		switch {
		case part.Body.Data != "":
			// Small attachments arrive inline
			data, decErr := decodeBase64(part.Body.Data)
			if decErr != nil {
				return fmt.Errorf("failed to decode attachment %s: %w", part.Filename, decErr)
			}
			att.Data = data
		case part.Body.AttachmentId != "":
			data, getErr := c.getAttachment(ctx, msg.Id, part.Body.AttachmentId)
			if getErr != nil {
				return getErr
			}
			att.Data = data
		default:
			return nil
		}

		record.Attachments = append(record.Attachments, att)
		return nil
	})
	if err != nil {
		return Message{}, err
	}

	return record, nil
}

// getAttachment retrieves and decodes the content of an attachment.
func (c *Client) getAttachment(ctx context.Context, messageID, attachmentID string) ([]byte, error) {
	attachment, err := c.svc.Messages.Attachments.Get("me", messageID, attachmentID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get attachment %s: %w", attachmentID, err)
	}

	if attachment.Size > MaxAttachmentSize {
		return nil, fmt.Errorf("attachment size %d exceeds maximum size %d", attachment.Size, MaxAttachmentSize)
	}

	data, err := decodeBase64(attachment.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode attachment data: %w", err)
	}

	return data, nil
}

// SendNotification sends a notification email about an archived document.
// The body is sent as HTML so the document link is clickable.
func (c *Client) SendNotification(ctx context.Context, to []string, subject, body string) error {
	_ = ctx // Messages.Send carries its own deadline handling

	if len(to) == 0 {
		return fmt.Errorf("at least one recipient is required")
	}
	if subject == "" {
		return fmt.Errorf("subject is required")
	}
	if body == "" {
		return fmt.Errorf("body is required")
	}

	// Build the email message in RFC 2822 format
	var emailBuilder strings.Builder

	emailBuilder.WriteString("To: ")
	emailBuilder.WriteString(strings.Join(to, ", "))
	emailBuilder.WriteString("\r\n")

	// Encode for non-ASCII characters like umlauts
	emailBuilder.WriteString("Subject: ")
	emailBuilder.WriteString(encodeRFC2047(subject))
	emailBuilder.WriteString("\r\n")

	emailBuilder.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	emailBuilder.WriteString("MIME-Version: 1.0\r\n")
	emailBuilder.WriteString("\r\n")
	emailBuilder.WriteString(body)

	rawMessage := base64.URLEncoding.EncodeToString([]byte(emailBuilder.String()))

	_, err := c.svc.Messages.Send("me", &gmail.Message{Raw: rawMessage}).Do()
	if err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}

	return nil
}

// encodeRFC2047 encodes a string for use in email headers according to RFC 2047.
// This is necessary for non-ASCII characters (like German umlauts) in subjects.
func encodeRFC2047(s string) string {
	needsEncoding := false
	for _, r := range s {
		if r > 127 {
			needsEncoding = true
			break
		}
	}
	if !needsEncoding {
		return s
	}
	return mime.BEncoding.Encode("UTF-8", s)
}
