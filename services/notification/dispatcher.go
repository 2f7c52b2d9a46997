package notification

import (
	"context"
	"errors"
	"fmt"

	"sailsmart/models"
	"sailsmart/services/tasks"

	"github.com/hibiken/asynq"
)

// Enqueuer is the part of *asynq.Client the dispatcher needs.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// QueueDispatcher hands decision notifications to the outbound queue. Delivery happens
// in the worker, outside the request that made the decision.
type QueueDispatcher struct {
	queue    Enqueuer
	maxRetry int
}

func NewQueueDispatcher(queue Enqueuer, maxRetry int) *QueueDispatcher {
	if maxRetry <= 0 {
		maxRetry = 5
	}
	return &QueueDispatcher{queue: queue, maxRetry: maxRetry}
}

func (d *QueueDispatcher) Dispatch(ctx context.Context, n models.DecisionNotification) error {
	task, opts, err := tasks.NewDecisionTask(n, d.maxRetry)
	if err != nil {
		return fmt.Errorf("failed to build decision task: %w", err)
	}
	if _, err := d.queue.EnqueueContext(ctx, task, opts...); err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			return nil
		}
		return fmt.Errorf("failed to enqueue decision for registration %s: %w", n.RegistrationID, err)
	}
	return nil
}
