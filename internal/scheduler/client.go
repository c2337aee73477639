package scheduler

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"workshop_backoffice/platform/logger"
)

// Client enqueues automation retry tasks. It satisfies the requests
// service's RetryEnqueuer port.
type Client struct {
	client *asynq.Client
	log    *logger.Logger
}

// NewClient connects an asynq client to the Redis URL.
func NewClient(redisURL string, log *logger.Logger) (*Client, error) {
	opt, err := asynq.ParseRedisURI(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return &Client{client: asynq.NewClient(opt), log: log}, nil
}

// EnqueueAutomationRetry schedules a deferred retry of a failed automation
// run under its idempotency key.
func (c *Client) EnqueueAutomationRetry(ctx context.Context, requestID uuid.UUID, idempotencyKey string) error {
	task, err := NewAutomationRetryTask(requestID, idempotencyKey)
	if err != nil {
		return fmt.Errorf("build retry task: %w", err)
	}

	info, err := c.client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("enqueue retry task: %w", err)
	}
	if c.log != nil {
		c.log.Info("automation retry enqueued",
			"request_id", requestID.String(),
			"task_id", info.ID,
			"queue", info.Queue,
		)
	}
	return nil
}

// Close releases the underlying Redis connection.
func (c *Client) Close() error {
	return c.client.Close()
}
