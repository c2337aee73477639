// Package scheduler provides the durable retry queue for failed quote
// automation runs, built on asynq over Redis.
package scheduler

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// TypeAutomationRetry is the task type for a deferred quote automation retry.
const TypeAutomationRetry = "quote:automation_retry"

// Retry task tuning. The first attempt runs after a short delay so a
// transient outage (SMTP, Gemini) has a chance to clear.
const (
	retryInitialDelay = 2 * time.Minute
	retryMaxAttempts  = 5
	retryTaskTimeout  = 3 * time.Minute
)

// AutomationRetryPayload identifies the request and the run attempt. The
// idempotency key is the one recorded for the failed run, so the worker
// updates that ledger entry rather than creating a new attempt.
type AutomationRetryPayload struct {
	RequestID      string `json:"request_id"`
	IdempotencyKey string `json:"idempotency_key"`
}

// NewAutomationRetryTask builds the retry task for a failed automation run.
func NewAutomationRetryTask(requestID uuid.UUID, idempotencyKey string) (*asynq.Task, error) {
	payload, err := json.Marshal(AutomationRetryPayload{
		RequestID:      requestID.String(),
		IdempotencyKey: idempotencyKey,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeAutomationRetry, payload,
		asynq.ProcessIn(retryInitialDelay),
		asynq.MaxRetry(retryMaxAttempts),
		asynq.Timeout(retryTaskTimeout),
	), nil
}
