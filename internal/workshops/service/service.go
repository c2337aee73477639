// Package service implements confirmed workshop management.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"workshop_backoffice/internal/workshops/repository"
	"workshop_backoffice/platform/apperr"
)

// Service manages confirmed workshops.
type Service struct {
	repo repository.Repository
}

// New creates the workshops service.
func New(repo repository.Repository) *Service {
	return &Service{repo: repo}
}

// Confirm materializes the confirmed workshop for a request. Calling it
// again for the same request returns the existing row unchanged.
func (s *Service) Confirm(ctx context.Context, requestID uuid.UUID, confirmedDate time.Time, participants int) (repository.ConfirmedWorkshop, error) {
	return s.repo.CreateIdempotent(ctx, repository.CreateParams{
		RequestID:     requestID,
		ConfirmedDate: confirmedDate,
		Participants:  participants,
	})
}

// List returns all confirmed workshops.
func (s *Service) List(ctx context.Context) ([]repository.ConfirmedWorkshop, error) {
	return s.repo.List(ctx)
}

// SetPaymentStatus updates a workshop's payment status after validating the
// target value.
func (s *Service) SetPaymentStatus(ctx context.Context, id uuid.UUID, status repository.PaymentStatus) (repository.ConfirmedWorkshop, error) {
	if !status.Valid() {
		return repository.ConfirmedWorkshop{}, apperr.Validation("invalid payment status")
	}
	return s.repo.UpdatePaymentStatus(ctx, id, status)
}
