// Package notification mails the operator about request status transitions.
// Delivery is best effort; a notification failure never affects the
// transition that triggered it.
package notification

import (
	"context"

	"workshop_backoffice/internal/email"
	"workshop_backoffice/internal/requests/domain"
	"workshop_backoffice/platform/events"
	"workshop_backoffice/platform/logger"
)

// Subscriber listens for status-change events and notifies the operator.
type Subscriber struct {
	sender          email.Sender
	operatorAddress string
	log             *logger.Logger
}

// NewSubscriber creates the operator notification subscriber. When no
// operator address is configured, notifications are skipped.
func NewSubscriber(sender email.Sender, operatorAddress string, log *logger.Logger) *Subscriber {
	return &Subscriber{
		sender:          sender,
		operatorAddress: operatorAddress,
		log:             log,
	}
}

// Register subscribes to status-change events on the bus.
func (s *Subscriber) Register(bus events.Bus) {
	bus.Subscribe(domain.EventStatusChanged, events.HandlerFunc(s.handleStatusChanged))
}

func (s *Subscriber) handleStatusChanged(ctx context.Context, event events.Event) error {
	changed, ok := event.(domain.StatusChangedEvent)
	if !ok {
		return nil
	}
	if s.operatorAddress == "" {
		return nil
	}

	err := s.sender.SendStatusNotification(ctx,
		s.operatorAddress,
		email.StatusNotificationSubject(changed.ContactName),
		changed.ContactName,
		changed.ActivityType,
		string(changed.From),
		string(changed.To),
		changed.Warning,
	)
	if err != nil && s.log != nil {
		s.log.Error("operator notification failed",
			"request_id", changed.RequestID.String(),
			"error", err.Error(),
		)
	}
	// Best effort: the error is logged, not propagated, so the bus never
	// retries or escalates a notification failure.
	return nil
}
