package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/jetsales/jetsales/internal/jobs"
	"github.com/jetsales/jetsales/internal/snapshot"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// SnapshotWarmupJob rebuilds the dashboard snapshot ahead of user traffic so
// the first request after a TTL expiry does not pay the load cost.
type SnapshotWarmupJob struct {
	Snapshots *snapshot.Provider
	Logger    *slog.Logger
	Metrics   *jobmetrics.Metrics
	clock     func() time.Time
}

// NewSnapshotWarmupJob wires dependencies for the warmup handler.
func NewSnapshotWarmupJob(snapshots *snapshot.Provider, logger *slog.Logger, metrics *jobmetrics.Metrics) *SnapshotWarmupJob {
	return &SnapshotWarmupJob{
		Snapshots: snapshots,
		Logger:    logger,
		Metrics:   metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle processes snapshot warmup tasks.
func (j *SnapshotWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Snapshots == nil {
		return errors.New("snapshot warmup: handler not configured")
	}
	var payload SnapshotWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.Reason == "" {
		payload.Reason = "scheduled"
	}

	tracker := j.metrics().Track(TaskSnapshotWarmup)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger().With(slog.String("reason", payload.Reason))
	logger.Info("starting snapshot warmup")

	start := j.now()
	jobCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	snap, err := j.Snapshots.Refresh(jobCtx)
	if err != nil {
		resultErr = err
		logger.Error("refresh snapshot", slog.Any("error", err))
		return resultErr
	}

	j.metrics().MarkWarmup(j.now())
	logger.Info("completed snapshot warmup",
		slog.Int("customers", len(snap.Customers)),
		slog.Int("products", len(snap.Products)),
		slog.Int("orders", len(snap.Orders)),
		slog.Duration("duration", time.Since(start)))
	return resultErr
}

func (j *SnapshotWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskSnapshotWarmup))
	}
	return slog.Default().With(slog.String("job", TaskSnapshotWarmup))
}

func (j *SnapshotWarmupJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *SnapshotWarmupJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
