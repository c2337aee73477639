package quote

import (
	"time"

	"github.com/google/uuid"
)

// RequestFields carries the workshop request data the pipeline needs.
// Pointer fields are absent when nil and omitted from prompts and documents.
type RequestFields struct {
	ID                  uuid.UUID
	ContactName         string
	Email               string
	Phone               string
	Organization        string
	ActivityType        string
	PreferredDate       *time.Time
	AlternativeDate     *time.Time
	Participants        int
	LocationPreference  *string
	DietaryRequirements *string
	AccessibilityNotes  *string
	SpecialRequests     *string
}
