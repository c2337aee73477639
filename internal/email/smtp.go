package email

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/google/uuid"
	gomail "github.com/wneessen/go-mail"
)

// SMTPSender implements the Sender interface using a direct SMTP connection via go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// Config provides the settings the SMTP sender needs.
type Config interface {
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetEmailFromName() string
	GetEmailFromAddress() string
}

// NewSMTPSender creates a new SMTPSender with the given SMTP credentials.
func NewSMTPSender(cfg Config) *SMTPSender {
	return &SMTPSender{
		host:      cfg.GetSMTPHost(),
		port:      cfg.GetSMTPPort(),
		username:  cfg.GetSMTPUsername(),
		password:  cfg.GetSMTPPassword(),
		fromName:  cfg.GetEmailFromName(),
		fromEmail: cfg.GetEmailFromAddress(),
	}
}

// SendQuoteEmail renders the drafted text into the quote template and sends
// it to the requester. Returns the message ID assigned to the delivery.
func (s *SMTPSender) SendQuoteEmail(ctx context.Context, toEmail, subject, draftText string, attachments ...Attachment) (string, error) {
	content, err := renderEmailTemplate("quote.html", quoteEmailData{
		baseEmailData: baseEmailData{
			Title:   subject,
			Heading: subject,
		},
		Paragraphs: splitParagraphs(draftText),
	})
	if err != nil {
		return "", err
	}

	messageID := uuid.NewString()
	if err := s.send(ctx, toEmail, subject, content, messageID, attachments...); err != nil {
		return "", err
	}
	return messageID, nil
}

// SendStatusNotification sends an internal status-change notification to the
// operator inbox.
func (s *SMTPSender) SendStatusNotification(ctx context.Context, toEmail, subject, contactName, activityType, oldStatus, newStatus, warning string) error {
	content, err := renderEmailTemplate("status_notification.html", statusNotificationEmailData{
		baseEmailData: baseEmailData{
			Title:   subject,
			Heading: subject,
		},
		ContactName:  contactName,
		ActivityType: activityType,
		OldStatus:    oldStatus,
		NewStatus:    newStatus,
		Warning:      warning,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subject, content, uuid.NewString())
}

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent, messageID string, attachments ...Attachment) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetMessageIDWithValue(messageID)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	for _, att := range attachments {
		msg.AttachReader(att.FileName, bytes.NewReader(att.Content))
	}

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

// splitParagraphs turns the plain-text model draft into renderable paragraphs.
func splitParagraphs(text string) []string {
	blocks := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n\n")
	paragraphs := make([]string, 0, len(blocks))
	for _, block := range blocks {
		trimmed := strings.TrimSpace(block)
		if trimmed != "" {
			paragraphs = append(paragraphs, trimmed)
		}
	}
	return paragraphs
}
