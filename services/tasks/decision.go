package tasks

import (
	"encoding/json"
	"fmt"

	"sailsmart/models"

	"github.com/hibiken/asynq"
)

const (
	TypeRegistrationDecision = "notification:registration_decision"
	QueueNotifications       = "notifications"
)

// NewDecisionTask builds the queue task for a registration decision. The task id makes a
// repeated enqueue of the same decision a no-op.
func NewDecisionTask(n models.DecisionNotification, maxRetry int) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(n)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeRegistrationDecision, b)
	opts := []asynq.Option{
		asynq.Queue(QueueNotifications),
		asynq.MaxRetry(maxRetry),
		asynq.TaskID(fmt.Sprintf("decision:%s:%s", n.RegistrationID, n.Status)),
	}

	return task, opts, nil
}

func ParseDecisionTask(task *asynq.Task) (models.DecisionNotification, error) {
	var n models.DecisionNotification
	if err := json.Unmarshal(task.Payload(), &n); err != nil {
		return n, fmt.Errorf("invalid decision payload: %w", err)
	}
	if n.RegistrationID == "" || n.CrewUserID == "" {
		return n, fmt.Errorf("decision payload missing registration or crew id")
	}
	return n, nil
}
