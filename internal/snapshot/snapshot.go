// Package snapshot assembles an immutable, normalized copy of the three
// row-sets and memoizes it with a bounded lifetime. Every render works from a
// snapshot reference obtained here, so concurrent requests never observe a
// half-updated dataset.
package snapshot

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jetsales/jetsales/internal/catalog"
	"github.com/jetsales/jetsales/internal/normalize"
)

const dataKey = "snapshot:data"

// Snapshot is one read-only load cycle of the dataset.
type Snapshot struct {
	ID        uuid.UUID             `json:"id"`
	LoadedAt  time.Time             `json:"loaded_at"`
	Customers []normalize.Customer  `json:"customers"`
	Products  []normalize.Product   `json:"products"`
	Orders    []normalize.OrderLine `json:"orders"`
	Coercions normalize.Stats       `json:"coercions"`
}

// Recorder receives load observations for metrics.
type Recorder interface {
	SnapshotLoaded(coercions normalize.Stats)
	SnapshotFailed()
}

// Provider builds snapshots from a catalog.Loader behind the TTL cache.
type Provider struct {
	loader   catalog.Loader
	cache    *Cache
	logger   *slog.Logger
	recorder Recorder
	now      func() time.Time
}

// NewProvider wires a loader with the cache helper.
func NewProvider(loader catalog.Loader, cache *Cache, logger *slog.Logger) *Provider {
	return &Provider{
		loader: loader,
		cache:  cache,
		logger: logger,
		now:    time.Now,
	}
}

// WithRecorder attaches a metrics recorder.
func (p *Provider) WithRecorder(rec Recorder) *Provider {
	p.recorder = rec
	return p
}

// WithNow overrides the provider clock for testing.
func (p *Provider) WithNow(fn func() time.Time) *Provider {
	if fn != nil {
		p.now = fn
	}
	return p
}

// Snapshot returns the current snapshot, loading and caching it when the
// memoized copy has expired.
func (p *Provider) Snapshot(ctx context.Context) (*Snapshot, error) {
	loader := func(ctx context.Context) (interface{}, error) {
		return p.build(ctx)
	}

	key, err := p.cache.BuildKey(ctx, dataKey)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := p.cache.FetchJSON(ctx, key, &snap, loader); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Refresh invalidates the memoized snapshot and loads a fresh one.
func (p *Provider) Refresh(ctx context.Context) (*Snapshot, error) {
	if err := p.cache.Bump(ctx); err != nil {
		return nil, err
	}
	return p.Snapshot(ctx)
}

func (p *Provider) build(ctx context.Context) (*Snapshot, error) {
	var (
		rawCustomers []catalog.CustomerRecord
		rawProducts  []catalog.ProductRecord
		rawOrders    []catalog.OrderLineRecord
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rawCustomers, err = p.loader.Customers(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		rawProducts, err = p.loader.Products(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		rawOrders, err = p.loader.OrderLines(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		p.fail()
		return nil, err
	}

	now := p.now()
	snap := &Snapshot{
		ID:       uuid.New(),
		LoadedAt: now,
	}

	customers, custStats, err := normalize.Customers(rawCustomers, now)
	if err != nil {
		p.fail()
		return nil, err
	}
	snap.Customers = customers
	snap.Coercions.Add(custStats)

	products, prodStats := normalize.Products(rawProducts)
	snap.Products = products
	snap.Coercions.Add(prodStats)

	orders, orderStats, err := normalize.OrderLines(rawOrders)
	if err != nil {
		p.fail()
		return nil, err
	}
	snap.Orders = orders
	snap.Coercions.Add(orderStats)

	if p.recorder != nil {
		p.recorder.SnapshotLoaded(snap.Coercions)
	}
	if p.logger != nil {
		p.logger.Info("snapshot loaded",
			slog.String("snapshot_id", snap.ID.String()),
			slog.Int("customers", len(snap.Customers)),
			slog.Int("products", len(snap.Products)),
			slog.Int("order_lines", len(snap.Orders)),
			slog.Int("coercion_substitutions", snap.Coercions.Total()),
		)
	}
	return snap, nil
}

func (p *Provider) fail() {
	if p.recorder != nil {
		p.recorder.SnapshotFailed()
	}
}
