package quote

import (
	"bytes"
	"context"
	"fmt"

	"workshop_backoffice/internal/email"
	"workshop_backoffice/internal/storage"
)

// DeliveryResult carries the delivery service identifiers written back onto
// the request.
type DeliveryResult struct {
	EmailID     string
	DocumentURL string
}

// Deliverer uploads the rendered document and sends the drafted email.
// In email-only mode (no object store configured) the document step is
// skipped entirely.
type Deliverer struct {
	store        storage.ObjectStore
	sender       email.Sender
	bucket       string
	businessName string
}

// NewDeliverer creates the delivery coordinator. store may be nil for
// email-only mode.
func NewDeliverer(store storage.ObjectStore, sender email.Sender, bucket, businessName string) *Deliverer {
	return &Deliverer{
		store:        store,
		sender:       sender,
		bucket:       bucket,
		businessName: businessName,
	}
}

// Deliver uploads the document when present, then sends the drafted text to
// the request's contact address, attaching the document when available.
func (d *Deliverer) Deliver(ctx context.Context, fields RequestFields, draftText string, document []byte) (DeliveryResult, error) {
	var result DeliveryResult
	var attachments []email.Attachment

	if len(document) > 0 && d.store != nil {
		fileName := fmt.Sprintf("offerte-%s.pdf", fields.ActivityType)
		folder := fmt.Sprintf("requests/%s", fields.ID)

		fileKey, err := d.store.UploadFile(ctx, d.bucket, folder, fileName, "application/pdf",
			bytes.NewReader(document), int64(len(document)))
		if err != nil {
			return DeliveryResult{}, fmt.Errorf("upload quote document: %w", err)
		}

		result.DocumentURL = d.store.PublicURL(d.bucket, fileKey)
		if result.DocumentURL == "" {
			presigned, err := d.store.GenerateDownloadURL(ctx, d.bucket, fileKey)
			if err != nil {
				return DeliveryResult{}, fmt.Errorf("presign quote document: %w", err)
			}
			result.DocumentURL = presigned.URL
		}

		attachments = append(attachments, email.Attachment{
			Content:  document,
			FileName: fileName,
			MIMEType: "application/pdf",
		})
	}

	subject := email.QuoteSubject(d.businessName, fields.ActivityType)
	emailID, err := d.sender.SendQuoteEmail(ctx, fields.Email, subject, draftText, attachments...)
	if err != nil {
		return DeliveryResult{}, fmt.Errorf("send quote email: %w", err)
	}
	result.EmailID = emailID

	return result, nil
}
