// Package email delivers customer and operator email via SMTP.
package email

import "context"

// Attachment represents a file attachment for an email.
type Attachment struct {
	Content  []byte // raw file bytes
	FileName string // e.g. "offerte-kookworkshop.pdf"
	MIMEType string // e.g. "application/pdf"
}

// Sender delivers rendered email messages.
type Sender interface {
	// SendQuoteEmail sends a drafted quote to the requester and returns the
	// message ID assigned to the delivery.
	SendQuoteEmail(ctx context.Context, toEmail, subject, draftText string, attachments ...Attachment) (string, error)

	// SendStatusNotification sends an internal status-change notification to
	// the operator inbox.
	SendStatusNotification(ctx context.Context, toEmail, subject, contactName, activityType, oldStatus, newStatus, warning string) error
}

// NoopSender is used when no SMTP server is configured.
type NoopSender struct{}

func (NoopSender) SendQuoteEmail(ctx context.Context, toEmail, subject, draftText string, attachments ...Attachment) (string, error) {
	return "", nil
}

func (NoopSender) SendStatusNotification(ctx context.Context, toEmail, subject, contactName, activityType, oldStatus, newStatus, warning string) error {
	return nil
}
