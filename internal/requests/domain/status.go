// Package domain holds the workshop request status machine.
package domain

import "workshop_backoffice/platform/apperr"

// Status is the workflow state of a workshop request. The set is closed and
// totally ordered: a request moves forward through intake, quoting, and
// confirmation.
type Status string

const (
	StatusEmpty               Status = "empty"
	StatusInformationProvided Status = "information_provided"
	StatusQuoteGenerated      Status = "quote_generated"
	StatusConfirmed           Status = "confirmed"
)

// statusRank defines the total order of the workflow.
var statusRank = map[Status]int{
	StatusEmpty:               0,
	StatusInformationProvided: 1,
	StatusQuoteGenerated:      2,
	StatusConfirmed:           3,
}

// ParseStatus validates an inbound status string against the closed enum.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", apperr.Validation("invalid status: " + raw)
	}
	return s, nil
}

// Valid reports whether the status is one of the defined workflow states.
func (s Status) Valid() bool {
	_, ok := statusRank[s]
	return ok
}

// Rank returns the status position in the workflow order.
func (s Status) Rank() int {
	return statusRank[s]
}

// Before reports whether s comes earlier in the workflow than other.
func (s Status) Before(other Status) bool {
	return statusRank[s] < statusRank[other]
}

// Statuses returns all workflow states in order.
func Statuses() []Status {
	return []Status{StatusEmpty, StatusInformationProvided, StatusQuoteGenerated, StatusConfirmed}
}
