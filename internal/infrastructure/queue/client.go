package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// Enqueuer is the part of *asynq.Client the application uses.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// NewClient builds an asynq client on the given Redis address.
func NewClient(redisOpt asynq.RedisClientOpt) *asynq.Client {
	return asynq.NewClient(redisOpt)
}

// NewTask marshals payload as JSON into a task of taskType.
func NewTask(taskType string, payload any) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", taskType, err)
	}
	return asynq.NewTask(taskType, data), nil
}
