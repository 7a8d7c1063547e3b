package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskSnapshotWarmup refreshes the dashboard snapshot cache.
	TaskSnapshotWarmup = "snapshot:warmup"
)

// SnapshotWarmupPayload configures a snapshot warmup run.
type SnapshotWarmupPayload struct {
	Reason string `json:"reason"`
}

// NewSnapshotWarmupTask constructs an Asynq task for cache warmup.
func NewSnapshotWarmupTask(payload SnapshotWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSnapshotWarmup, data), nil
}
