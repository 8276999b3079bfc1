package gmail

import (
	"encoding/base64"
	"net/mail"
	"time"

	gmail "google.golang.org/api/gmail/v1"
)

const (
	// MaxAttachmentSize defines the maximum attachment size in bytes (25MB)
	MaxAttachmentSize = 25 * 1024 * 1024
)

// HeaderValue returns the value of the named header of a message, or "" when
// the header is absent.
func HeaderValue(msg *gmail.Message, name string) string {
	if msg == nil || msg.Payload == nil {
		return ""
	}
	for _, h := range msg.Payload.Headers {
		if h.Name == name {
			return h.Value
		}
	}
	return ""
}

// messageDate returns the message timestamp, preferring the Date header and
// falling back to the server-side internal date.
func messageDate(msg *gmail.Message) time.Time {
	if raw := HeaderValue(msg, "Date"); raw != "" {
		if t, err := mail.ParseDate(raw); err == nil {
			return t
		}
	}
	if msg.InternalDate > 0 {
		return time.UnixMilli(msg.InternalDate)
	}
	return time.Time{}
}

// extractBody returns the decoded message body, preferring text/html over
// text/plain. Returns "" when the message has no body at all.
func extractBody(msg *gmail.Message) (string, error) {
	if msg.Payload == nil {
		return "", nil
	}

	var htmlData, textData string

	collect := func(part *gmail.MessagePart) error {
		if part.Body == nil || part.Body.Data == "" || part.Filename != "" {
			return nil
		}
		switch part.MimeType {
		case "text/html":
			if htmlData == "" {
				htmlData = part.Body.Data
			}
		case "text/plain":
			if textData == "" {
				textData = part.Body.Data
			}
		}
		return nil
	}

	if err := walkParts(msg.Payload, collect); err != nil {
		return "", err
	}

	encoded := htmlData
	if encoded == "" {
		encoded = textData
	}
	if encoded == "" {
		return "", nil
	}

	decoded, err := decodeBase64(encoded)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

// decodeBase64 decodes data the way the Gmail API encodes it: base64url
// (RFC 4648) with a standard-encoding fallback.
func decodeBase64(data string) ([]byte, error) {
	decoded, err := base64.URLEncoding.DecodeString(data)
	if err == nil {
		return decoded, nil
	}
	return base64.StdEncoding.DecodeString(data)
}

// walkParts recursively walks through message parts, stopping at the first
// error returned by fn.
func walkParts(part *gmail.MessagePart, fn func(*gmail.MessagePart) error) error {
	if part == nil {
		return nil
	}

	if err := fn(part); err != nil {
		return err
	}

	for _, subpart := range part.Parts {
		if err := walkParts(subpart, fn); err != nil {
			return err
		}
	}
	return nil
}
