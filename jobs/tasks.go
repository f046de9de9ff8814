// Package jobs defines the background tasks processed by the worker.
package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskRefdataWarmup pre-populates the reference-data cache.
	TaskRefdataWarmup = "refdata:warmup"
)

// RefdataWarmupPayload scopes a warmup run. An empty Types slice warms
// every reference type plus the bulk collection.
type RefdataWarmupPayload struct {
	Types []string `json:"types,omitempty"`
}

// NewRefdataWarmupTask constructs an Asynq task.
func NewRefdataWarmupTask(payload RefdataWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskRefdataWarmup, data), nil
}
