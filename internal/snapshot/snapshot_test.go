package snapshot

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/jetsales/jetsales/internal/catalog"
	"github.com/jetsales/jetsales/internal/normalize"
)

type stubLoader struct {
	customers []catalog.CustomerRecord
	products  []catalog.ProductRecord
	orders    []catalog.OrderLineRecord
	calls     int
	err       error
}

func (s *stubLoader) Customers(ctx context.Context) ([]catalog.CustomerRecord, error) {
	s.calls++
	return s.customers, s.err
}

func (s *stubLoader) Products(ctx context.Context) ([]catalog.ProductRecord, error) {
	return s.products, s.err
}

func (s *stubLoader) OrderLines(ctx context.Context) ([]catalog.OrderLineRecord, error) {
	return s.orders, s.err
}

type stubRecorder struct {
	loaded   int
	failed   int
	lastStat normalize.Stats
}

func (s *stubRecorder) SnapshotLoaded(coercions normalize.Stats) {
	s.loaded++
	s.lastStat = coercions
}

func (s *stubRecorder) SnapshotFailed() {
	s.failed++
}

func testLoader() *stubLoader {
	return &stubLoader{
		customers: []catalog.CustomerRecord{{CustomerID: "1", Name: "Andi", Birthdate: "1990-02-01"}},
		products:  []catalog.ProductRecord{{ProductID: "1", Name: "Kopi", Price: "10", Stock: "5"}},
		orders: []catalog.OrderLineRecord{{
			OrderDetailID: "1", OrderID: "1", OrderDate: "2024-03-04 13:00:00",
			CustomerID: "1", CustomerName: "Andi", ProductID: "1", ProductName: "Kopi",
			UnitPrice: "10", Quantity: "2", Subtotal: "20", OrderTotal: "20",
		}},
	}
}

func newTestProvider(t *testing.T, loader catalog.Loader, ttl time.Duration) (*Provider, *miniredis.Miniredis, func()) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	provider := NewProvider(loader, NewCache(client, ttl), nil)
	return provider, mr, func() {
		_ = client.Close()
		mr.Close()
	}
}

func TestSnapshotMemoizesLoads(t *testing.T) {
	loader := testLoader()
	provider, _, cleanup := newTestProvider(t, loader, 5*time.Minute)
	defer cleanup()

	ctx := context.Background()
	first, err := provider.Snapshot(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(first.Customers) != 1 || len(first.Products) != 1 || len(first.Orders) != 1 {
		t.Fatalf("unexpected snapshot shape: %+v", first)
	}
	second, err := provider.Snapshot(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected one load within the TTL, got %d", loader.calls)
	}
	if second.ID != first.ID {
		t.Fatalf("expected memoized snapshot, got new id %s", second.ID)
	}
}

func TestSnapshotReloadsAfterTTL(t *testing.T) {
	loader := testLoader()
	provider, mr, cleanup := newTestProvider(t, loader, time.Minute)
	defer cleanup()

	ctx := context.Background()
	if _, err := provider.Snapshot(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mr.FastForward(2 * time.Minute)
	if _, err := provider.Snapshot(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loader.calls != 2 {
		t.Fatalf("expected reload after TTL expiry, got %d calls", loader.calls)
	}
}

func TestRefreshBumpsVersion(t *testing.T) {
	loader := testLoader()
	provider, _, cleanup := newTestProvider(t, loader, 5*time.Minute)
	defer cleanup()

	ctx := context.Background()
	first, err := provider.Snapshot(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fresh, err := provider.Refresh(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fresh.ID == first.ID {
		t.Fatalf("expected a fresh snapshot after refresh")
	}
	if loader.calls != 2 {
		t.Fatalf("expected two loads, got %d", loader.calls)
	}
}

func TestSnapshotWithoutCacheLoadsEveryTime(t *testing.T) {
	loader := testLoader()
	provider := NewProvider(loader, nil, nil)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := provider.Snapshot(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if loader.calls != 3 {
		t.Fatalf("expected a load per call without cache, got %d", loader.calls)
	}
}

func TestSnapshotRecordsCoercions(t *testing.T) {
	loader := testLoader()
	loader.products = append(loader.products, catalog.ProductRecord{ProductID: "2", Name: "Teh", Price: "abc", Stock: "x"})
	recorder := &stubRecorder{}
	provider := NewProvider(loader, nil, nil).WithRecorder(recorder)

	if _, err := provider.Snapshot(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if recorder.loaded != 1 {
		t.Fatalf("expected one load recorded, got %d", recorder.loaded)
	}
	if recorder.lastStat.Money != 1 || recorder.lastStat.Quantity != 1 {
		t.Fatalf("unexpected coercion stats: %+v", recorder.lastStat)
	}
}

func TestSnapshotFailurePropagates(t *testing.T) {
	loader := testLoader()
	loader.err = catalog.ErrDataUnavailable
	recorder := &stubRecorder{}
	provider := NewProvider(loader, nil, nil).WithRecorder(recorder)

	if _, err := provider.Snapshot(context.Background()); err == nil {
		t.Fatalf("expected load error to propagate")
	}
	if recorder.failed != 1 {
		t.Fatalf("expected one failure recorded, got %d", recorder.failed)
	}
}

func TestSnapshotBadOrderDateFails(t *testing.T) {
	loader := testLoader()
	loader.orders[0].OrderDate = "not-a-date"
	provider := NewProvider(loader, nil, nil)

	_, err := provider.Snapshot(context.Background())
	if err == nil {
		t.Fatalf("expected date parse failure")
	}
}
