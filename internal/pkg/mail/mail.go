package mail

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

// Message represents an email payload.
type Message struct {
	// From is an optional explicit sender; fallback depends on implementation.
	From string
	// To lists required recipients.
	To []string
	// Cc lists carbon copy recipients.
	Cc []string
	// Bcc lists blind carbon copy recipients.
	Bcc []string
	// Subject is the email subject line.
	Subject string
	// TextBody is the plain-text body.
	TextBody string
	// HTMLBody is the optional HTML body.
	HTMLBody string
}

// Mail abstracts an email provider.
type Mail interface {
	io.Closer
	// Send dispatches the given message using the underlying provider.
	Send(ctx context.Context, msg Message) error
}

// Log is a Mail that only writes the message envelope to the default logger.
// It is selected with mail.driver=log for local runs.
type Log struct{}

// NewLog returns a Log mailer.
func NewLog() *Log {
	return &Log{}
}

func (*Log) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(msg.To)+len(msg.Cc)+len(msg.Bcc) == 0 {
		return ErrSMTPNoRecipients
	}

	slog.InfoContext(ctx, "mail sent to log",
		"to", strings.Join(msg.To, ","),
		"subject", msg.Subject,
		"html_bytes", len(msg.HTMLBody),
		"text_bytes", len(msg.TextBody),
	)
	return nil
}

func (*Log) Close() error { return nil }
