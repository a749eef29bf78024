package mail

import (
	"context"
	"io"
)

// Message is a plain-text email. There is no HTML part.
type Message struct {
	// From is an optional explicit sender; fallback depends on implementation.
	From string
	// To lists required recipients.
	To []string
	// Subject is the email subject line.
	Subject string
	// TextBody is sent as text/plain.
	TextBody string
}

// Mail abstracts an email transport.
type Mail interface {
	io.Closer
	// Send dispatches the given message using the underlying transport.
	Send(ctx context.Context, msg Message) error
}

// Factory builds a transport for a single delivery.
type Factory func(cfg SMTPConfig) (Mail, error)
