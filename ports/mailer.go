package ports

import (
	"context"
	"time"
)

// Attachment is a file carried by an outgoing message
type Attachment struct {
	Path string
}

// Message is a transport-neutral outgoing email
type Message struct {
	From        string
	To          string
	Subject     string
	TextBody    string
	HTMLBody    string
	Attachments []Attachment
}

// Mailer delivers messages
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SendStateStore persists when the last notification went out
type SendStateStore interface {
	// LastSent returns the last successful send time; ok is false when none is recorded or
	// the record cannot be read
	LastSent() (t time.Time, ok bool)
	MarkSent(t time.Time) error
}
