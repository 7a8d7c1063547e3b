package jobs

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/hibiken/asynq"

	"github.com/jetsales/jetsales/internal/catalog"
	"github.com/jetsales/jetsales/internal/snapshot"
)

type stubLoader struct {
	calls int
	err   error
}

func (s *stubLoader) Customers(ctx context.Context) ([]catalog.CustomerRecord, error) {
	s.calls++
	return []catalog.CustomerRecord{{CustomerID: "1", Name: "Andi", Birthdate: "1990-02-01"}}, s.err
}

func (s *stubLoader) Products(ctx context.Context) ([]catalog.ProductRecord, error) {
	return []catalog.ProductRecord{{ProductID: "1", Name: "Kopi", Price: "10", Stock: "5"}}, s.err
}

func (s *stubLoader) OrderLines(ctx context.Context) ([]catalog.OrderLineRecord, error) {
	return nil, s.err
}

func warmupTask(t *testing.T, payload SnapshotWarmupPayload) *asynq.Task {
	t.Helper()
	task, err := NewSnapshotWarmupTask(payload)
	if err != nil {
		t.Fatalf("build task: %v", err)
	}
	return task
}

func TestSnapshotWarmupHandle(t *testing.T) {
	loader := &stubLoader{}
	provider := snapshot.NewProvider(loader, nil, nil)
	job := NewSnapshotWarmupJob(provider, nil, nil)

	if err := job.Handle(context.Background(), warmupTask(t, SnapshotWarmupPayload{Reason: "test"})); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected one load, got %d", loader.calls)
	}
}

func TestSnapshotWarmupHandleLoadFailure(t *testing.T) {
	loader := &stubLoader{err: catalog.ErrDataUnavailable}
	provider := snapshot.NewProvider(loader, nil, nil)
	job := NewSnapshotWarmupJob(provider, nil, nil)

	if err := job.Handle(context.Background(), warmupTask(t, SnapshotWarmupPayload{})); err == nil {
		t.Fatalf("expected load failure to propagate")
	}
}

func TestSnapshotWarmupSkipsMalformedPayload(t *testing.T) {
	loader := &stubLoader{}
	provider := snapshot.NewProvider(loader, nil, nil)
	job := NewSnapshotWarmupJob(provider, nil, nil)

	task := asynq.NewTask(TaskSnapshotWarmup, []byte("{not json"))
	if err := job.Handle(context.Background(), task); err != asynq.SkipRetry {
		t.Fatalf("expected SkipRetry, got %v", err)
	}
	if loader.calls != 0 {
		t.Fatalf("malformed payload must not trigger a load")
	}
}

func TestSnapshotWarmupPayloadRoundTrip(t *testing.T) {
	task := warmupTask(t, SnapshotWarmupPayload{Reason: "manual"})
	var payload SnapshotWarmupPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload.Reason != "manual" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}
