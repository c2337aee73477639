// Package transport defines the HTTP DTOs for the requests module.
package transport

import (
	"time"

	"workshop_backoffice/internal/requests/repository"
	"workshop_backoffice/internal/requests/service"
	workshoptransport "workshop_backoffice/internal/workshops/transport"
)

const dateLayout = "2006-01-02"

// CreateRequestRequest is the body for POST /requests.
type CreateRequestRequest struct {
	ContactName         string  `json:"contactName" binding:"required"`
	Email               string  `json:"email" binding:"required,email"`
	Phone               string  `json:"phone"`
	Organization        string  `json:"organization"`
	ActivityType        string  `json:"activityType" binding:"required"`
	PreferredDate       *string `json:"preferredDate"`
	AlternativeDate     *string `json:"alternativeDate"`
	Participants        int     `json:"participants" binding:"required,min=1"`
	LocationPreference  *string `json:"locationPreference"`
	DietaryRequirements *string `json:"dietaryRequirements"`
	AccessibilityNotes  *string `json:"accessibilityNotes"`
	SpecialRequests     *string `json:"specialRequests"`
}

// ChangeStatusRequest is the body for PATCH /requests/:id/status.
type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// RetryAutomationRequest is the body for POST /requests/:id/automation/retry.
// The key is optional; the server generates one when absent.
type RetryAutomationRequest struct {
	IdempotencyKey string `json:"idempotencyKey"`
}

// RequestResponse is a workshop request.
type RequestResponse struct {
	ID                  string  `json:"id"`
	Status              string  `json:"status"`
	ContactName         string  `json:"contactName"`
	Email               string  `json:"email"`
	Phone               string  `json:"phone,omitempty"`
	Organization        string  `json:"organization,omitempty"`
	ActivityType        string  `json:"activityType"`
	PreferredDate       *string `json:"preferredDate,omitempty"`
	AlternativeDate     *string `json:"alternativeDate,omitempty"`
	Participants        int     `json:"participants"`
	LocationPreference  *string `json:"locationPreference,omitempty"`
	DietaryRequirements *string `json:"dietaryRequirements,omitempty"`
	AccessibilityNotes  *string `json:"accessibilityNotes,omitempty"`
	SpecialRequests     *string `json:"specialRequests,omitempty"`
	QuotedPriceCents    *int64  `json:"quotedPriceCents,omitempty"`
	EmailSentAt         *string `json:"emailSentAt,omitempty"`
	QuoteDocumentURL    *string `json:"quoteDocumentUrl,omitempty"`
	LastDraftText       *string `json:"lastDraftText,omitempty"`
	CreatedAt           string  `json:"createdAt"`
	UpdatedAt           string  `json:"updatedAt"`
}

// AutomationResponse is the automation block on the quote transition.
type AutomationResponse struct {
	EmailSent   bool   `json:"emailSent"`
	EmailID     string `json:"emailId"`
	DocumentURL string `json:"documentUrl,omitempty"`
}

// ChangeStatusResponse is the outcome of a status transition. Warning is
// present when a side effect failed after the status write.
type ChangeStatusResponse struct {
	Request           RequestResponse                     `json:"request"`
	Automation        *AutomationResponse                 `json:"automation,omitempty"`
	ConfirmedWorkshop *workshoptransport.WorkshopResponse `json:"confirmedWorkshop,omitempty"`
	Warning           string                              `json:"warning,omitempty"`
}

// RetryAutomationResponse is the outcome of an automation retry.
type RetryAutomationResponse struct {
	Request        RequestResponse     `json:"request"`
	IdempotencyKey string              `json:"idempotencyKey"`
	Automation     *AutomationResponse `json:"automation,omitempty"`
	Warning        string              `json:"warning,omitempty"`
}

// NewRequestResponse maps a repository request to its response shape.
func NewRequestResponse(req repository.WorkshopRequest) RequestResponse {
	return RequestResponse{
		ID:                  req.ID.String(),
		Status:              string(req.Status),
		ContactName:         req.ContactName,
		Email:               req.Email,
		Phone:               req.Phone,
		Organization:        req.Organization,
		ActivityType:        req.ActivityType,
		PreferredDate:       formatDate(req.PreferredDate),
		AlternativeDate:     formatDate(req.AlternativeDate),
		Participants:        req.Participants,
		LocationPreference:  req.LocationPreference,
		DietaryRequirements: req.DietaryRequirements,
		AccessibilityNotes:  req.AccessibilityNotes,
		SpecialRequests:     req.SpecialRequests,
		QuotedPriceCents:    req.QuotedPriceCents,
		EmailSentAt:         formatTime(req.EmailSentAt),
		QuoteDocumentURL:    req.QuoteDocumentURL,
		LastDraftText:       req.LastDraftText,
		CreatedAt:           req.CreatedAt.Format(time.RFC3339),
		UpdatedAt:           req.UpdatedAt.Format(time.RFC3339),
	}
}

// NewChangeStatusResponse maps a transition result to its response shape.
func NewChangeStatusResponse(result service.ChangeStatusResult) ChangeStatusResponse {
	resp := ChangeStatusResponse{
		Request: NewRequestResponse(result.Request),
		Warning: result.Warning,
	}
	if result.Automation != nil {
		resp.Automation = &AutomationResponse{
			EmailSent:   result.Automation.EmailSent,
			EmailID:     result.Automation.EmailID,
			DocumentURL: result.Automation.DocumentURL,
		}
	}
	if result.ConfirmedWorkshop != nil {
		workshop := workshoptransport.NewWorkshopResponse(*result.ConfirmedWorkshop)
		resp.ConfirmedWorkshop = &workshop
	}
	return resp
}

// NewRetryAutomationResponse maps a retry result to its response shape.
func NewRetryAutomationResponse(result service.RetryResult) RetryAutomationResponse {
	resp := RetryAutomationResponse{
		Request:        NewRequestResponse(result.Request),
		IdempotencyKey: result.IdempotencyKey,
		Warning:        result.Warning,
	}
	if result.Automation != nil {
		resp.Automation = &AutomationResponse{
			EmailSent:   result.Automation.EmailSent,
			EmailID:     result.Automation.EmailID,
			DocumentURL: result.Automation.DocumentURL,
		}
	}
	return resp
}

// ParseDate parses an optional yyyy-mm-dd value from a create payload.
func ParseDate(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	parsed, err := time.Parse(dateLayout, *value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.Format(dateLayout)
	return &formatted
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.Format(time.RFC3339)
	return &formatted
}
