package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	requestservice "workshop_backoffice/internal/requests/service"
	"workshop_backoffice/platform/apperr"
	"workshop_backoffice/platform/logger"
)

// AutomationRetryer re-runs the quote pipeline for a request. Implemented by
// the requests service.
type AutomationRetryer interface {
	RetryAutomation(ctx context.Context, id uuid.UUID, idempotencyKey string) (requestservice.RetryResult, error)
}

// NewServer creates the asynq server consuming the retry queue.
func NewServer(redisURL string, concurrency int) (*asynq.Server, error) {
	opt, err := asynq.ParseRedisURI(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return asynq.NewServer(opt, asynq.Config{Concurrency: concurrency}), nil
}

// NewServeMux wires task handlers for the worker process.
func NewServeMux(retryer AutomationRetryer, log *logger.Logger) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeAutomationRetry, handleAutomationRetry(retryer, log))
	return mux
}

// handleAutomationRetry replays a failed automation run. Outcomes:
// a run that fails again returns an error so asynq backs off and retries;
// a request that moved on, disappeared, or already succeeded under the key
// drops the task for good.
func handleAutomationRetry(retryer AutomationRetryer, log *logger.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var payload AutomationRetryPayload
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			return fmt.Errorf("unmarshal retry payload: %v: %w", err, asynq.SkipRetry)
		}
		requestID, err := uuid.Parse(payload.RequestID)
		if err != nil {
			return fmt.Errorf("parse request id: %v: %w", err, asynq.SkipRetry)
		}

		result, err := retryer.RetryAutomation(ctx, requestID, payload.IdempotencyKey)
		if err != nil {
			kind := apperr.GetKind(err)
			if kind == apperr.KindNotFound || kind == apperr.KindConflict {
				if log != nil {
					log.Info("automation retry dropped",
						"request_id", payload.RequestID,
						"reason", err.Error(),
					)
				}
				return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
			}
			return err
		}
		if result.Warning != "" {
			return errors.New(result.Warning)
		}

		if log != nil {
			log.Info("automation retry succeeded",
				"request_id", payload.RequestID,
				"idempotency_key", result.IdempotencyKey,
			)
		}
		return nil
	}
}
