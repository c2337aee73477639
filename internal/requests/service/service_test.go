package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"workshop_backoffice/internal/quote"
	"workshop_backoffice/internal/requests/domain"
	"workshop_backoffice/internal/requests/repository"
	workshoprepo "workshop_backoffice/internal/workshops/repository"
	"workshop_backoffice/platform/apperr"
)

type fakeRepo struct {
	requests map[uuid.UUID]repository.WorkshopRequest
	runs     map[string]repository.AutomationRun

	statusWrites   int
	metadataWrites int
	metadataErr    error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		requests: make(map[uuid.UUID]repository.WorkshopRequest),
		runs:     make(map[string]repository.AutomationRun),
	}
}

func runKey(requestID uuid.UUID, key string) string {
	return requestID.String() + "/" + key
}

func (f *fakeRepo) Create(_ context.Context, params repository.CreateParams) (repository.WorkshopRequest, error) {
	req := repository.WorkshopRequest{
		ID:            uuid.New(),
		Status:        domain.StatusEmpty,
		ContactName:   params.ContactName,
		Email:         params.Email,
		Phone:         params.Phone,
		Organization:  params.Organization,
		ActivityType:  params.ActivityType,
		PreferredDate: params.PreferredDate,
		Participants:  params.Participants,
	}
	f.requests[req.ID] = req
	return req, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (repository.WorkshopRequest, error) {
	req, ok := f.requests[id]
	if !ok {
		return repository.WorkshopRequest{}, apperr.NotFound("workshop request not found")
	}
	return req, nil
}

func (f *fakeRepo) List(_ context.Context) ([]repository.WorkshopRequest, error) {
	var out []repository.WorkshopRequest
	for _, req := range f.requests {
		out = append(out, req)
	}
	return out, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id uuid.UUID, status domain.Status) error {
	req, ok := f.requests[id]
	if !ok {
		return apperr.NotFound("workshop request not found")
	}
	req.Status = status
	f.requests[id] = req
	f.statusWrites++
	return nil
}

func (f *fakeRepo) SaveAutomationMetadata(_ context.Context, id uuid.UUID, meta repository.AutomationMetadata) error {
	if f.metadataErr != nil {
		return f.metadataErr
	}
	req, ok := f.requests[id]
	if !ok {
		return apperr.NotFound("workshop request not found")
	}
	sentAt := meta.EmailSentAt
	req.QuotedPriceCents = meta.QuotedPriceCents
	req.EmailSentAt = &sentAt
	req.QuoteDocumentURL = meta.QuoteDocumentURL
	req.LastDraftText = &meta.LastDraftText
	f.requests[id] = req
	f.metadataWrites++
	return nil
}

func (f *fakeRepo) RecordRun(_ context.Context, params repository.RecordRunParams) error {
	f.runs[runKey(params.RequestID, params.IdempotencyKey)] = repository.AutomationRun{
		ID:             uuid.New(),
		RequestID:      params.RequestID,
		IdempotencyKey: params.IdempotencyKey,
		Status:         params.Status,
		Error:          params.Error,
		EmailID:        params.EmailID,
		DocumentURL:    params.DocumentURL,
		StartedAt:      params.StartedAt,
	}
	return nil
}

func (f *fakeRepo) GetRun(_ context.Context, requestID uuid.UUID, idempotencyKey string) (*repository.AutomationRun, error) {
	run, ok := f.runs[runKey(requestID, idempotencyKey)]
	if !ok {
		return nil, nil
	}
	return &run, nil
}

type fakePipeline struct {
	calls  int
	err    error
	result quote.PipelineResult
}

func (f *fakePipeline) Run(_ context.Context, _ quote.RequestFields) (quote.PipelineResult, error) {
	f.calls++
	if f.err != nil {
		return quote.PipelineResult{}, f.err
	}
	return f.result, nil
}

type fakeConfirmer struct {
	calls     int
	err       error
	workshops map[uuid.UUID]workshoprepo.ConfirmedWorkshop
}

func newFakeConfirmer() *fakeConfirmer {
	return &fakeConfirmer{workshops: make(map[uuid.UUID]workshoprepo.ConfirmedWorkshop)}
}

func (f *fakeConfirmer) Confirm(_ context.Context, requestID uuid.UUID, confirmedDate time.Time, participants int) (workshoprepo.ConfirmedWorkshop, error) {
	f.calls++
	if f.err != nil {
		return workshoprepo.ConfirmedWorkshop{}, f.err
	}
	if existing, ok := f.workshops[requestID]; ok {
		return existing, nil
	}
	w := workshoprepo.ConfirmedWorkshop{
		ID:            uuid.New(),
		RequestID:     requestID,
		ConfirmedDate: confirmedDate,
		Participants:  participants,
		PaymentStatus: workshoprepo.PaymentStatusPending,
	}
	f.workshops[requestID] = w
	return w, nil
}

type fakeEnqueuer struct {
	calls int
	keys  []string
}

func (f *fakeEnqueuer) EnqueueAutomationRetry(_ context.Context, _ uuid.UUID, idempotencyKey string) error {
	f.calls++
	f.keys = append(f.keys, idempotencyKey)
	return nil
}

type fixture struct {
	svc       *Service
	repo      *fakeRepo
	pipeline  *fakePipeline
	confirmer *fakeConfirmer
	enqueuer  *fakeEnqueuer
}

func newFixture() *fixture {
	repo := newFakeRepo()
	pipeline := &fakePipeline{result: quote.PipelineResult{
		DraftText:   "Beste klant, ...",
		EmailID:     "msg-123",
		EmailSentAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}}
	confirmer := newFakeConfirmer()
	enqueuer := &fakeEnqueuer{}
	svc := New(repo, pipeline, confirmer, enqueuer, nil, nil)
	return &fixture{svc: svc, repo: repo, pipeline: pipeline, confirmer: confirmer, enqueuer: enqueuer}
}

func (f *fixture) seedRequest(t *testing.T, status domain.Status, preferredDate *time.Time, participants int) repository.WorkshopRequest {
	t.Helper()
	req := repository.WorkshopRequest{
		ID:            uuid.New(),
		Status:        status,
		ContactName:   "Jan de Vries",
		Email:         "jan@example.com",
		ActivityType:  "kookworkshop",
		PreferredDate: preferredDate,
		Participants:  participants,
	}
	f.repo.requests[req.ID] = req
	return req
}

func TestChangeStatusInvalidStatusRejectedBeforeWrite(t *testing.T) {
	f := newFixture()
	req := f.seedRequest(t, domain.StatusEmpty, nil, 10)

	_, err := f.svc.ChangeStatus(context.Background(), req.ID, "cancelled")
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if f.repo.statusWrites != 0 {
		t.Errorf("expected no status write, got %d", f.repo.statusWrites)
	}
}

func TestChangeStatusUnknownRequest(t *testing.T) {
	f := newFixture()

	_, err := f.svc.ChangeStatus(context.Background(), uuid.New(), "confirmed")
	if apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
	if f.repo.statusWrites != 0 {
		t.Errorf("expected no status write, got %d", f.repo.statusWrites)
	}
}

func TestChangeStatusQuoteGeneratedRunsAutomation(t *testing.T) {
	f := newFixture()
	price := int64(45000)
	f.pipeline.result.QuotedPriceCents = &price
	req := f.seedRequest(t, domain.StatusInformationProvided, nil, 12)

	result, err := f.svc.ChangeStatus(context.Background(), req.ID, "quote_generated")
	if err != nil {
		t.Fatalf("ChangeStatus: %v", err)
	}
	if result.Warning != "" {
		t.Fatalf("unexpected warning: %q", result.Warning)
	}
	if result.Automation == nil || !result.Automation.EmailSent {
		t.Fatal("expected automation outcome with email sent")
	}
	if result.Automation.EmailID != "msg-123" {
		t.Errorf("email id = %q, want msg-123", result.Automation.EmailID)
	}
	if f.pipeline.calls != 1 {
		t.Errorf("pipeline calls = %d, want 1", f.pipeline.calls)
	}
	if result.Request.Status != domain.StatusQuoteGenerated {
		t.Errorf("status = %q, want quote_generated", result.Request.Status)
	}
	if result.Request.QuotedPriceCents == nil || *result.Request.QuotedPriceCents != price {
		t.Error("expected quoted price persisted on the request")
	}
	if result.Request.LastDraftText == nil || *result.Request.LastDraftText == "" {
		t.Error("expected draft text persisted on the request")
	}
}

func TestChangeStatusPipelineFailureBecomesWarning(t *testing.T) {
	f := newFixture()
	f.pipeline.err = errors.New("completion timed out")
	req := f.seedRequest(t, domain.StatusInformationProvided, nil, 12)

	result, err := f.svc.ChangeStatus(context.Background(), req.ID, "quote_generated")
	if err != nil {
		t.Fatalf("pipeline failure must not fail the transition: %v", err)
	}
	if result.Warning == "" {
		t.Fatal("expected a warning")
	}
	if result.Automation != nil {
		t.Error("expected no automation outcome on failure")
	}
	// The status write committed before the pipeline ran and stays committed.
	stored := f.repo.requests[req.ID]
	if stored.Status != domain.StatusQuoteGenerated {
		t.Errorf("status = %q, want quote_generated after failed automation", stored.Status)
	}
	if f.enqueuer.calls != 1 {
		t.Errorf("expected one retry enqueued, got %d", f.enqueuer.calls)
	}
	run, _ := f.repo.GetRun(context.Background(), req.ID, f.enqueuer.keys[0])
	if run == nil || run.Status != repository.RunFailed {
		t.Error("expected a failed automation run recorded under the enqueued key")
	}
}

func TestChangeStatusSameStatusIsNoOpForAutomation(t *testing.T) {
	f := newFixture()
	req := f.seedRequest(t, domain.StatusQuoteGenerated, nil, 12)

	result, err := f.svc.ChangeStatus(context.Background(), req.ID, "quote_generated")
	if err != nil {
		t.Fatalf("ChangeStatus: %v", err)
	}
	if f.pipeline.calls != 0 {
		t.Errorf("pipeline calls = %d, want 0 on re-submission", f.pipeline.calls)
	}
	if f.repo.statusWrites != 1 {
		t.Errorf("status writes = %d, want 1", f.repo.statusWrites)
	}
	if result.Warning != "" || result.Automation != nil {
		t.Error("re-submission must succeed without side effects")
	}
}

func TestChangeStatusConfirmedUsesPreferredDate(t *testing.T) {
	f := newFixture()
	preferred := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	req := f.seedRequest(t, domain.StatusQuoteGenerated, &preferred, 14)

	result, err := f.svc.ChangeStatus(context.Background(), req.ID, "confirmed")
	if err != nil {
		t.Fatalf("ChangeStatus: %v", err)
	}
	if result.ConfirmedWorkshop == nil {
		t.Fatal("expected a confirmed workshop")
	}
	if !result.ConfirmedWorkshop.ConfirmedDate.Equal(preferred) {
		t.Errorf("confirmed date = %v, want preferred date %v", result.ConfirmedWorkshop.ConfirmedDate, preferred)
	}
	if result.ConfirmedWorkshop.Participants != 14 {
		t.Errorf("participants = %d, want 14", result.ConfirmedWorkshop.Participants)
	}
}

func TestChangeStatusConfirmedDefaultsToToday(t *testing.T) {
	f := newFixture()
	today := time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return today.Add(9 * time.Hour) }
	req := f.seedRequest(t, domain.StatusQuoteGenerated, nil, 8)

	result, err := f.svc.ChangeStatus(context.Background(), req.ID, "confirmed")
	if err != nil {
		t.Fatalf("ChangeStatus: %v", err)
	}
	if result.ConfirmedWorkshop == nil {
		t.Fatal("expected a confirmed workshop")
	}
	if !result.ConfirmedWorkshop.ConfirmedDate.Equal(today) {
		t.Errorf("confirmed date = %v, want today %v", result.ConfirmedWorkshop.ConfirmedDate, today)
	}
}

func TestChangeStatusConfirmedAtMostOnce(t *testing.T) {
	f := newFixture()
	preferred := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	req := f.seedRequest(t, domain.StatusQuoteGenerated, &preferred, 14)

	first, err := f.svc.ChangeStatus(context.Background(), req.ID, "confirmed")
	if err != nil {
		t.Fatalf("first confirm: %v", err)
	}
	// Move back and confirm again; the same workshop row must come back.
	if _, err := f.svc.ChangeStatus(context.Background(), req.ID, "quote_generated"); err != nil {
		t.Fatalf("revert: %v", err)
	}
	second, err := f.svc.ChangeStatus(context.Background(), req.ID, "confirmed")
	if err != nil {
		t.Fatalf("second confirm: %v", err)
	}
	if len(f.confirmer.workshops) != 1 {
		t.Fatalf("expected exactly one workshop, got %d", len(f.confirmer.workshops))
	}
	if first.ConfirmedWorkshop.ID != second.ConfirmedWorkshop.ID {
		t.Error("expected the same workshop row on repeated confirmation")
	}
}

func TestChangeStatusConfirmFailureBecomesWarning(t *testing.T) {
	f := newFixture()
	f.confirmer.err = errors.New("insert failed")
	req := f.seedRequest(t, domain.StatusQuoteGenerated, nil, 8)

	result, err := f.svc.ChangeStatus(context.Background(), req.ID, "confirmed")
	if err != nil {
		t.Fatalf("confirm failure must not fail the transition: %v", err)
	}
	if result.Warning == "" {
		t.Fatal("expected a warning")
	}
	if f.repo.requests[req.ID].Status != domain.StatusConfirmed {
		t.Error("status write must survive the confirm failure")
	}
}

func TestRetryAutomationRequiresQuoteGenerated(t *testing.T) {
	f := newFixture()
	req := f.seedRequest(t, domain.StatusInformationProvided, nil, 10)

	_, err := f.svc.RetryAutomation(context.Background(), req.ID, "key-1")
	if apperr.GetKind(err) != apperr.KindConflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
	if f.pipeline.calls != 0 {
		t.Errorf("pipeline calls = %d, want 0", f.pipeline.calls)
	}
}

func TestRetryAutomationRefusesSucceededKey(t *testing.T) {
	f := newFixture()
	req := f.seedRequest(t, domain.StatusQuoteGenerated, nil, 10)

	first, err := f.svc.RetryAutomation(context.Background(), req.ID, "key-1")
	if err != nil {
		t.Fatalf("first retry: %v", err)
	}
	if first.Warning != "" {
		t.Fatalf("unexpected warning: %q", first.Warning)
	}

	_, err = f.svc.RetryAutomation(context.Background(), req.ID, "key-1")
	if apperr.GetKind(err) != apperr.KindConflict {
		t.Fatalf("expected conflict on succeeded key, got %v", err)
	}
	if f.pipeline.calls != 1 {
		t.Errorf("pipeline calls = %d, want 1", f.pipeline.calls)
	}
}

func TestRetryAutomationReRunsFailedKey(t *testing.T) {
	f := newFixture()
	req := f.seedRequest(t, domain.StatusQuoteGenerated, nil, 10)

	f.pipeline.err = errors.New("smtp down")
	first, err := f.svc.RetryAutomation(context.Background(), req.ID, "key-1")
	if err != nil {
		t.Fatalf("first retry: %v", err)
	}
	if first.Warning == "" {
		t.Fatal("expected a warning on the failed run")
	}

	f.pipeline.err = nil
	second, err := f.svc.RetryAutomation(context.Background(), req.ID, "key-1")
	if err != nil {
		t.Fatalf("second retry: %v", err)
	}
	if second.Automation == nil || !second.Automation.EmailSent {
		t.Fatal("expected the retried key to run and succeed")
	}
	run, _ := f.repo.GetRun(context.Background(), req.ID, "key-1")
	if run == nil || run.Status != repository.RunSucceeded {
		t.Error("expected the ledger entry updated to succeeded")
	}
}

func TestRetryAutomationGeneratesKeyWhenMissing(t *testing.T) {
	f := newFixture()
	req := f.seedRequest(t, domain.StatusQuoteGenerated, nil, 10)

	result, err := f.svc.RetryAutomation(context.Background(), req.ID, "")
	if err != nil {
		t.Fatalf("RetryAutomation: %v", err)
	}
	if result.IdempotencyKey == "" {
		t.Fatal("expected a generated idempotency key")
	}
	run, _ := f.repo.GetRun(context.Background(), req.ID, result.IdempotencyKey)
	if run == nil {
		t.Error("expected a run recorded under the generated key")
	}
}

func TestCreateNormalizesPhone(t *testing.T) {
	f := newFixture()

	req, err := f.svc.Create(context.Background(), repository.CreateParams{
		ContactName:  "Jan de Vries",
		Email:        "jan@example.com",
		Phone:        "06 12345678",
		ActivityType: "kookworkshop",
		Participants: 10,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if req.Phone != "+31612345678" {
		t.Errorf("phone = %q, want +31612345678", req.Phone)
	}
}
