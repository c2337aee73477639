package quote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	activityrepo "workshop_backoffice/internal/activities/repository"
	activityservice "workshop_backoffice/internal/activities/service"
	"workshop_backoffice/internal/email"
	"workshop_backoffice/internal/pdf"
	"workshop_backoffice/internal/storage"
)

type fakeSender struct {
	lastTo          string
	lastSubject     string
	lastBody        string
	lastAttachments []email.Attachment
	err             error
	sent            int
}

func (f *fakeSender) SendQuoteEmail(_ context.Context, toEmail, subject, draftText string, attachments ...email.Attachment) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sent++
	f.lastTo = toEmail
	f.lastSubject = subject
	f.lastBody = draftText
	f.lastAttachments = attachments
	return "msg-123", nil
}

func (f *fakeSender) SendStatusNotification(_ context.Context, _, _, _, _, _, _, _ string) error {
	return nil
}

type fakeStore struct {
	uploads map[string][]byte
	baseURL string
}

func (f *fakeStore) UploadFile(_ context.Context, bucket, folder, fileName, _ string, reader io.Reader, _ int64) (string, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	key := folder + "/" + fileName
	if f.uploads == nil {
		f.uploads = make(map[string][]byte)
	}
	f.uploads[bucket+"/"+key] = content
	return key, nil
}

func (f *fakeStore) GenerateDownloadURL(_ context.Context, bucket, fileKey string) (*storage.PresignedURL, error) {
	return &storage.PresignedURL{URL: "https://signed.example/" + bucket + "/" + fileKey, FileKey: fileKey}, nil
}

func (f *fakeStore) PublicURL(bucket, fileKey string) string {
	if f.baseURL == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s/%s", f.baseURL, bucket, fileKey)
}

func (f *fakeStore) DeleteObject(_ context.Context, _, _ string) error    { return nil }
func (f *fakeStore) EnsureBucketExists(_ context.Context, _ string) error { return nil }

type fakeConverter struct {
	output []byte
	err    error
	closed bool
}

func (f *fakeConverter) ConvertHTML(_ context.Context, _ []byte, _ pdf.ConvertOpts) ([]byte, error) {
	return f.output, f.err
}

func (f *fakeConverter) Close() { f.closed = true }

type fakePricing struct {
	resolved *activityservice.ResolvedTier
	err      error
}

func (f *fakePricing) ResolveTier(_ context.Context, _ string, _ int) (*activityservice.ResolvedTier, error) {
	return f.resolved, f.err
}

func resolvedKookworkshopTier() *activityservice.ResolvedTier {
	perPerson := int64(4500)
	max := 20
	return &activityservice.ResolvedTier{
		Tier: activityrepo.PricingTier{
			MinParticipants:     11,
			MaxParticipants:     &max,
			PricePerPersonCents: &perPerson,
		},
	}
}

func TestPipelineEmailOnlyMode(t *testing.T) {
	sender := &fakeSender{}
	completer := &fakeCompleter{response: "Beste Jan, bedankt voor uw aanvraag."}
	drafter := NewDrafter(newAssemblerFixture(t), completer)
	deliverer := NewDeliverer(nil, sender, "", "Smaakatelier")
	pricing := &fakePricing{resolved: resolvedKookworkshopTier()}

	pipeline := NewPipeline(drafter, nil, deliverer, pricing, nil)
	result, err := pipeline.Run(context.Background(), sampleFields())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.EmailID != "msg-123" {
		t.Fatalf("EmailID = %q, want msg-123", result.EmailID)
	}
	if result.DocumentURL != "" {
		t.Fatalf("email-only mode must not produce a document URL, got %q", result.DocumentURL)
	}
	if result.QuotedPriceCents == nil || *result.QuotedPriceCents != 67500 {
		t.Fatalf("QuotedPriceCents = %v, want 67500", result.QuotedPriceCents)
	}
	if sender.lastSubject != "Offerte Smaakatelier - kookworkshop" {
		t.Fatalf("subject = %q", sender.lastSubject)
	}
	if len(sender.lastAttachments) != 0 {
		t.Fatalf("email-only mode must not attach documents")
	}
	if result.EmailSentAt.IsZero() {
		t.Fatalf("EmailSentAt must be set")
	}
}

func TestPipelineWithDocument(t *testing.T) {
	sender := &fakeSender{}
	store := &fakeStore{baseURL: "https://files.example"}
	converter := &fakeConverter{output: []byte("%PDF-1.7 fake")}
	completer := &fakeCompleter{response: "Beste Jan, bedankt voor uw aanvraag."}

	drafter := NewDrafter(newAssemblerFixture(t), completer)
	renderer := NewRenderer(func() HTMLConverter { return converter }, "Smaakatelier")
	deliverer := NewDeliverer(store, sender, "quote-documents", "Smaakatelier")
	pricing := &fakePricing{resolved: resolvedKookworkshopTier()}

	pipeline := NewPipeline(drafter, renderer, deliverer, pricing, nil)
	result, err := pipeline.Run(context.Background(), sampleFields())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !strings.HasPrefix(result.DocumentURL, "https://files.example/quote-documents/") {
		t.Fatalf("DocumentURL = %q", result.DocumentURL)
	}
	if len(sender.lastAttachments) != 1 {
		t.Fatalf("expected 1 attachment, got %d", len(sender.lastAttachments))
	}
	if !converter.closed {
		t.Fatalf("rendering engine must be torn down after the call")
	}
}

func TestPipelineConverterTornDownOnFailure(t *testing.T) {
	converter := &fakeConverter{err: errors.New("chromium crashed")}
	renderer := NewRenderer(func() HTMLConverter { return converter }, "Smaakatelier")

	_, err := renderer.Render(context.Background(), sampleFields(), "tekst", nil)
	if err == nil {
		t.Fatal("expected rendering error")
	}
	if !converter.closed {
		t.Fatalf("rendering engine must be torn down even when conversion fails")
	}
}

func TestPipelineDraftFailureAborts(t *testing.T) {
	sender := &fakeSender{}
	completer := &fakeCompleter{response: ""}
	drafter := NewDrafter(newAssemblerFixture(t), completer)
	deliverer := NewDeliverer(nil, sender, "", "Smaakatelier")

	pipeline := NewPipeline(drafter, nil, deliverer, &fakePricing{}, nil)
	_, err := pipeline.Run(context.Background(), sampleFields())
	if !errors.Is(err, ErrDraftFailed) {
		t.Fatalf("expected ErrDraftFailed, got %v", err)
	}
	if sender.sent != 0 {
		t.Fatalf("no email may be sent when drafting fails")
	}
}

func TestPipelineDeliveryFailureSurfaces(t *testing.T) {
	sender := &fakeSender{err: errors.New("smtp unreachable")}
	completer := &fakeCompleter{response: "Beste Jan, bedankt."}
	drafter := NewDrafter(newAssemblerFixture(t), completer)
	deliverer := NewDeliverer(nil, sender, "", "Smaakatelier")

	pipeline := NewPipeline(drafter, nil, deliverer, &fakePricing{}, nil)
	_, err := pipeline.Run(context.Background(), sampleFields())
	if err == nil {
		t.Fatal("expected delivery error to surface")
	}
}

func TestPipelineNoPricingOmitsQuotedPrice(t *testing.T) {
	sender := &fakeSender{}
	completer := &fakeCompleter{response: "Beste Jan, bedankt."}
	drafter := NewDrafter(newAssemblerFixture(t), completer)
	deliverer := NewDeliverer(nil, sender, "", "Smaakatelier")

	pipeline := NewPipeline(drafter, nil, deliverer, &fakePricing{resolved: nil}, nil)
	result, err := pipeline.Run(context.Background(), sampleFields())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.QuotedPriceCents != nil {
		t.Fatalf("QuotedPriceCents must be nil when no tier matched")
	}
}
