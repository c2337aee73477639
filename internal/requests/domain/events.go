package domain

import (
	"github.com/google/uuid"

	"workshop_backoffice/platform/events"
)

// EventStatusChanged is published after a request's status write commits.
const EventStatusChanged = "request.status_changed"

// StatusChangedEvent carries the outcome of a status transition, including
// the warning when the automation pipeline failed after the write.
type StatusChangedEvent struct {
	events.BaseEvent
	RequestID    uuid.UUID
	ContactName  string
	ActivityType string
	From         Status
	To           Status
	Warning      string
}

// EventName returns the event type identifier.
func (e StatusChangedEvent) EventName() string {
	return EventStatusChanged
}
