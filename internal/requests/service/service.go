// Package service implements the workshop request state machine and the
// orchestration around its transition side effects.
package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"workshop_backoffice/internal/quote"
	"workshop_backoffice/internal/requests/domain"
	"workshop_backoffice/internal/requests/repository"
	workshoprepo "workshop_backoffice/internal/workshops/repository"
	"workshop_backoffice/platform/apperr"
	"workshop_backoffice/platform/events"
	"workshop_backoffice/platform/logger"
	"workshop_backoffice/platform/phone"
)

// Pipeline runs the quote automation for a request.
type Pipeline interface {
	Run(ctx context.Context, fields quote.RequestFields) (quote.PipelineResult, error)
}

// WorkshopConfirmer materializes the confirmed workshop for a request.
// At most one workshop exists per request; repeated calls return the
// existing row.
type WorkshopConfirmer interface {
	Confirm(ctx context.Context, requestID uuid.UUID, confirmedDate time.Time, participants int) (workshoprepo.ConfirmedWorkshop, error)
}

// RetryEnqueuer schedules a deferred automation retry after a failed run.
type RetryEnqueuer interface {
	EnqueueAutomationRetry(ctx context.Context, requestID uuid.UUID, idempotencyKey string) error
}

// AutomationOutcome is the automation block returned on the quote transition.
type AutomationOutcome struct {
	EmailSent   bool
	EmailID     string
	DocumentURL string
}

// ChangeStatusResult is the outcome of a status transition. Warning is set
// when a side effect failed after the status write committed.
type ChangeStatusResult struct {
	Request           repository.WorkshopRequest
	Automation        *AutomationOutcome
	ConfirmedWorkshop *workshoprepo.ConfirmedWorkshop
	Warning           string
}

// RetryResult is the outcome of the dedicated automation retry entry point.
type RetryResult struct {
	Request        repository.WorkshopRequest
	IdempotencyKey string
	Automation     *AutomationOutcome
	Warning        string
}

// Service orchestrates request status transitions. Transitions for the same
// request are serialized through a per-request mutex; transitions for
// different requests run independently.
type Service struct {
	repo      repository.Repository
	pipeline  Pipeline
	workshops WorkshopConfirmer
	enqueuer  RetryEnqueuer
	bus       events.Bus
	log       *logger.Logger
	now       func() time.Time

	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

// New creates the requests service. enqueuer and bus may be nil; deferred
// retries and notifications are then skipped.
func New(repo repository.Repository, pipeline Pipeline, workshops WorkshopConfirmer, enqueuer RetryEnqueuer, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		repo:      repo,
		pipeline:  pipeline,
		workshops: workshops,
		enqueuer:  enqueuer,
		bus:       bus,
		log:       log,
		now:       time.Now,
		locks:     make(map[uuid.UUID]*sync.Mutex),
	}
}

// Create registers a new request in the empty state. The contact phone is
// normalized to E.164 on the way in.
func (s *Service) Create(ctx context.Context, params repository.CreateParams) (repository.WorkshopRequest, error) {
	params.Phone = phone.NormalizeE164(params.Phone)
	return s.repo.Create(ctx, params)
}

// Get returns the request by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (repository.WorkshopRequest, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns all requests, newest first.
func (s *Service) List(ctx context.Context) ([]repository.WorkshopRequest, error) {
	return s.repo.List(ctx)
}

// ChangeStatus moves a request to the target status. The status write
// commits first and is never rolled back; side effects of the transition run
// afterwards and their failures come back as a warning on an otherwise
// successful result. Re-submitting the current status writes the status
// again but triggers no side effects.
func (s *Service) ChangeStatus(ctx context.Context, id uuid.UUID, rawStatus string) (ChangeStatusResult, error) {
	newStatus, err := domain.ParseStatus(rawStatus)
	if err != nil {
		return ChangeStatusResult{}, err
	}

	unlock := s.lockRequest(id)
	defer unlock()

	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return ChangeStatusResult{}, err
	}
	previous := req.Status

	if err := s.repo.UpdateStatus(ctx, id, newStatus); err != nil {
		return ChangeStatusResult{}, err
	}
	req.Status = newStatus

	result := ChangeStatusResult{Request: req}
	if previous != newStatus {
		switch newStatus {
		case domain.StatusQuoteGenerated:
			result.Automation, result.Warning = s.runAutomation(ctx, req, uuid.NewString(), true)
		case domain.StatusConfirmed:
			result.ConfirmedWorkshop, result.Warning = s.confirmWorkshop(ctx, req)
		}
	}

	if fresh, err := s.repo.GetByID(ctx, id); err == nil {
		result.Request = fresh
	}

	s.publishStatusChanged(ctx, result.Request, previous, newStatus, result.Warning)
	return result, nil
}

// RetryAutomation re-runs the quote pipeline for a request stuck after a
// failed automation run. Valid only while the request is in quote_generated.
// The idempotency key guards against replaying a run that already
// succeeded; an empty key gets a fresh one.
func (s *Service) RetryAutomation(ctx context.Context, id uuid.UUID, idempotencyKey string) (RetryResult, error) {
	if idempotencyKey == "" {
		idempotencyKey = uuid.NewString()
	}

	unlock := s.lockRequest(id)
	defer unlock()

	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return RetryResult{}, err
	}
	if req.Status != domain.StatusQuoteGenerated {
		return RetryResult{}, apperr.Conflict("automation retry requires status quote_generated")
	}

	run, err := s.repo.GetRun(ctx, id, idempotencyKey)
	if err != nil {
		return RetryResult{}, err
	}
	if run != nil && run.Status == repository.RunSucceeded {
		return RetryResult{}, apperr.Conflict("automation already succeeded for this idempotency key")
	}

	result := RetryResult{Request: req, IdempotencyKey: idempotencyKey}
	result.Automation, result.Warning = s.runAutomation(ctx, req, idempotencyKey, false)

	if fresh, err := s.repo.GetByID(ctx, id); err == nil {
		result.Request = fresh
	}
	return result, nil
}

// runAutomation executes the quote pipeline, records the attempt in the run
// ledger, and persists the automation metadata on success. Failures are
// returned as a warning string; when enqueueRetry is set a deferred retry is
// scheduled best effort.
func (s *Service) runAutomation(ctx context.Context, req repository.WorkshopRequest, idempotencyKey string, enqueueRetry bool) (*AutomationOutcome, string) {
	started := s.now().UTC()
	pipelineResult, err := s.pipeline.Run(ctx, fieldsFromRequest(req))
	finished := s.now().UTC()

	if err != nil {
		s.recordRun(ctx, repository.RecordRunParams{
			RequestID:      req.ID,
			IdempotencyKey: idempotencyKey,
			Status:         repository.RunFailed,
			Error:          stringPtr(err.Error()),
			StartedAt:      started,
			FinishedAt:     finished,
		})
		if enqueueRetry && s.enqueuer != nil {
			if enqErr := s.enqueuer.EnqueueAutomationRetry(ctx, req.ID, idempotencyKey); enqErr != nil && s.log != nil {
				s.log.Error("failed to enqueue automation retry",
					"request_id", req.ID.String(),
					"error", enqErr.Error(),
				)
			}
		}
		return nil, "quote automation failed: " + err.Error()
	}

	s.recordRun(ctx, repository.RecordRunParams{
		RequestID:      req.ID,
		IdempotencyKey: idempotencyKey,
		Status:         repository.RunSucceeded,
		EmailID:        stringPtr(pipelineResult.EmailID),
		DocumentURL:    nilIfEmpty(pipelineResult.DocumentURL),
		StartedAt:      started,
		FinishedAt:     finished,
	})

	outcome := &AutomationOutcome{
		EmailSent:   true,
		EmailID:     pipelineResult.EmailID,
		DocumentURL: pipelineResult.DocumentURL,
	}

	meta := repository.AutomationMetadata{
		QuotedPriceCents: pipelineResult.QuotedPriceCents,
		EmailSentAt:      pipelineResult.EmailSentAt,
		QuoteDocumentURL: nilIfEmpty(pipelineResult.DocumentURL),
		LastDraftText:    pipelineResult.DraftText,
	}
	if err := s.repo.SaveAutomationMetadata(ctx, req.ID, meta); err != nil {
		if s.log != nil {
			s.log.DatabaseError("save automation metadata", err)
		}
		return outcome, "quote sent but metadata write failed: " + err.Error()
	}
	return outcome, ""
}

// confirmWorkshop creates the confirmed workshop for the request. The
// confirmation date defaults to the request's preferred date, falling back
// to today when none was given.
func (s *Service) confirmWorkshop(ctx context.Context, req repository.WorkshopRequest) (*workshoprepo.ConfirmedWorkshop, string) {
	confirmedDate := s.now().UTC().Truncate(24 * time.Hour)
	if req.PreferredDate != nil {
		confirmedDate = *req.PreferredDate
	}

	workshop, err := s.workshops.Confirm(ctx, req.ID, confirmedDate, req.Participants)
	if err != nil {
		return nil, "confirmed workshop creation failed: " + err.Error()
	}
	return &workshop, ""
}

func (s *Service) recordRun(ctx context.Context, params repository.RecordRunParams) {
	if err := s.repo.RecordRun(ctx, params); err != nil && s.log != nil {
		s.log.DatabaseError("record automation run", err)
	}
}

func (s *Service) publishStatusChanged(ctx context.Context, req repository.WorkshopRequest, from, to domain.Status, warning string) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(ctx, domain.StatusChangedEvent{
		BaseEvent:    events.NewBaseEvent(),
		RequestID:    req.ID,
		ContactName:  req.ContactName,
		ActivityType: req.ActivityType,
		From:         from,
		To:           to,
		Warning:      warning,
	})
}

// lockRequest serializes transitions per request id. The lock map grows with
// distinct request ids, which stays small at back-office volume.
func (s *Service) lockRequest(id uuid.UUID) func() {
	s.mu.Lock()
	lock, ok := s.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[id] = lock
	}
	s.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

func fieldsFromRequest(req repository.WorkshopRequest) quote.RequestFields {
	return quote.RequestFields{
		ID:                  req.ID,
		ContactName:         req.ContactName,
		Email:               req.Email,
		Phone:               req.Phone,
		Organization:        req.Organization,
		ActivityType:        req.ActivityType,
		PreferredDate:       req.PreferredDate,
		AlternativeDate:     req.AlternativeDate,
		Participants:        req.Participants,
		LocationPreference:  req.LocationPreference,
		DietaryRequirements: req.DietaryRequirements,
		AccessibilityNotes:  req.AccessibilityNotes,
		SpecialRequests:     req.SpecialRequests,
	}
}

func stringPtr(s string) *string {
	return &s
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
