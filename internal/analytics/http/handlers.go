// Package dashboardhttp serves the dashboard views as JSON plus CSV exports.
package dashboardhttp

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/jetsales/jetsales/internal/analytics"
	"github.com/jetsales/jetsales/internal/analytics/export"
	"github.com/jetsales/jetsales/internal/catalog"
	"github.com/jetsales/jetsales/internal/normalize"
	"github.com/jetsales/jetsales/internal/platform/httpx"
	"github.com/jetsales/jetsales/internal/snapshot"
)

const lowStockThreshold = 20

// SnapshotProvider hands out the immutable dataset each request works from.
type SnapshotProvider interface {
	Snapshot(ctx context.Context) (*snapshot.Snapshot, error)
}

// Handler coordinates HTTP requests for the sales dashboards.
type Handler struct {
	logger    *slog.Logger
	snapshots SnapshotProvider
	timeout   time.Duration
}

// NewHandler constructs the dashboard HTTP handler.
func NewHandler(logger *slog.Logger, snapshots SnapshotProvider, timeout time.Duration) *Handler {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Handler{logger: logger, snapshots: snapshots, timeout: timeout}
}

func (h *Handler) snapshot(w http.ResponseWriter, r *http.Request) (*snapshot.Snapshot, bool) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	snap, err := h.snapshots.Snapshot(ctx)
	if err != nil {
		var dateErr *normalize.DateParseError
		switch {
		case errors.Is(err, catalog.ErrDataUnavailable):
			h.logger.Error("load snapshot", slog.Any("error", err))
			httpx.Problem(w, http.StatusServiceUnavailable, "Data Unavailable", err.Error())
		case errors.As(err, &dateErr):
			h.logger.Error("normalize snapshot", slog.String("field", dateErr.Field), slog.String("value", dateErr.Value))
			httpx.Problem(w, http.StatusServiceUnavailable, "Data Unavailable", dateErr.Error())
		default:
			h.logger.Error("load snapshot", slog.Any("error", err))
			httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		}
		return nil, false
	}
	return snap, true
}

func (h *Handler) handleOverview(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}

	metrics := analytics.BuildOverview(snap.Customers, snap.Products, snap.Orders)
	rollup := analytics.ProductRollup(snap.Orders)

	resp := OverviewResponse{
		SnapshotID:     snap.ID.String(),
		LoadedAt:       snap.LoadedAt,
		Metrics:        metrics,
		RevenueDisplay: formatMoney(metrics.TotalRevenue),
		RevenueTrend:   analytics.TimeSeries(snap.Orders, analytics.GranularityDaily),
		// The home pie only shows observed bands; the customer view zero-fills.
		AgeGroups:       analytics.AgeDistribution(snap.Customers, false),
		TopProducts:     analytics.TopN(rollup, 10, func(p analytics.ProductSales) float64 { return float64(p.TotalSold) }),
		OrdersByWeekday: analytics.OrdersByWeekday(snap.Orders),
	}
	httpx.JSON(w, http.StatusOK, resp)
}

func (h *Handler) handleCustomers(w http.ResponseWriter, r *http.Request) {
	query, err := parseCustomerQuery(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}

	filtered, table, err := h.customerTable(snap, query)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	resp := CustomersResponse{
		Metrics: CustomerMetrics{
			TotalCustomers: len(filtered),
			AverageAge:     analytics.AverageAge(filtered),
			ActiveBuyers:   analytics.DistinctBuyers(snap.Orders),
		},
		AgeDistribution: analytics.AgeDistribution(filtered, true),
		BirthMonths:     analytics.BirthMonthCounts(filtered),
		TopSpenders: analytics.TopN(analytics.CustomerRollup(snap.Orders), 10,
			func(c analytics.CustomerSpend) float64 { return c.TotalSpend }),
		Table: table,
	}
	httpx.JSON(w, http.StatusOK, resp)
}

func (h *Handler) handleCustomersCSV(w http.ResponseWriter, r *http.Request) {
	query, err := parseCustomerQuery(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	filter := analytics.CustomerFilter{AgeMin: query.AgeMin, AgeMax: query.AgeMax, Search: query.Search}
	sorted, err := analytics.CustomerSchema.Sort(filter.Apply(snap.Customers), analytics.SortSpec{Field: query.Sort, Ascending: query.Dir == "asc"})
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	writeCSVHeader(w, "customers_data.csv")
	if err := export.WriteCustomers(w, sorted, query.Columns); err != nil {
		h.logger.Error("export customers csv", slog.Any("error", err))
	}
}

func (h *Handler) customerTable(snap *snapshot.Snapshot, query CustomerQuery) ([]normalize.Customer, Table, error) {
	filter := analytics.CustomerFilter{AgeMin: query.AgeMin, AgeMax: query.AgeMax, Search: query.Search}
	filtered := filter.Apply(snap.Customers)
	sorted, err := analytics.CustomerSchema.Sort(filtered, analytics.SortSpec{Field: query.Sort, Ascending: query.Dir == "asc"})
	if err != nil {
		return nil, Table{}, err
	}
	header, records, err := analytics.CustomerSchema.Project(sorted, query.Columns)
	if err != nil {
		return nil, Table{}, err
	}
	return filtered, Table{Columns: header, Rows: records}, nil
}

func (h *Handler) handleProducts(w http.ResponseWriter, r *http.Request) {
	query, err := parseProductQuery(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}

	filtered := h.filterProducts(snap, query)
	sorted, err := analytics.ProductCatalogSchema.Sort(filtered, analytics.SortSpec{Field: query.Sort, Ascending: query.Dir == "asc"})
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	header, records, err := analytics.ProductCatalogSchema.Project(sorted, query.Columns)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	avgPrice := analytics.AveragePrice(filtered)
	resp := ProductsResponse{
		Metrics: ProductMetrics{
			TotalProducts:  len(filtered),
			TotalStock:     analytics.TotalStock(filtered),
			TotalUnitsSold: analytics.TotalUnitsSold(filtered),
			AveragePrice:   avgPrice,
			PriceDisplay:   formatMoney(avgPrice),
		},
		TopSellers: analytics.TopN(filtered, query.Top, func(p analytics.ProductCatalogRow) float64 { return float64(p.TotalSold) }),
		TopRevenue: analytics.TopN(filtered, query.Top, func(p analytics.ProductCatalogRow) float64 { return p.TotalRevenue }),
		LowStock:   analytics.LowStock(filtered, lowStockThreshold, query.Top),
		Table:      Table{Columns: header, Rows: records},
	}
	httpx.JSON(w, http.StatusOK, resp)
}

func (h *Handler) handleProductsCSV(w http.ResponseWriter, r *http.Request) {
	query, err := parseProductQuery(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	sorted, err := analytics.ProductCatalogSchema.Sort(h.filterProducts(snap, query), analytics.SortSpec{Field: query.Sort, Ascending: query.Dir == "asc"})
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	writeCSVHeader(w, "products_data.csv")
	if err := export.WriteProductCatalog(w, sorted, query.Columns); err != nil {
		h.logger.Error("export products csv", slog.Any("error", err))
	}
}

func (h *Handler) filterProducts(snap *snapshot.Snapshot, query ProductQuery) []analytics.ProductCatalogRow {
	catalogRows := analytics.MergeProductSales(snap.Products, analytics.ProductRollup(snap.Orders))
	filter := analytics.ProductFilter{
		PriceMin: query.PriceMin,
		PriceMax: query.PriceMax,
		StockMin: query.StockMin,
		StockMax: query.StockMax,
		Search:   query.Search,
	}
	return filter.Apply(catalogRows)
}

func (h *Handler) handleSales(w http.ResponseWriter, r *http.Request) {
	query, err := parseSalesQuery(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}

	filtered := salesFilter(query).Apply(snap.Orders)
	sorted, err := analytics.OrderLineSchema.Sort(filtered, analytics.SortSpec{Field: query.Sort, Ascending: query.Dir == "asc"})
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	header, records, err := analytics.OrderLineSchema.Project(sorted, query.Columns)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	rollup := analytics.ProductRollup(filtered)
	revenue := analytics.TotalRevenue(filtered)
	aov := analytics.AverageOrderValue(filtered)
	resp := SalesResponse{
		Metrics: SalesMetrics{
			TotalOrders:       analytics.DistinctOrders(filtered),
			TotalItems:        analytics.TotalItems(filtered),
			TotalRevenue:      revenue,
			RevenueDisplay:    formatMoney(revenue),
			AverageOrderValue: aov,
			AOVDisplay:        formatMoney(aov),
		},
		Series:       analytics.TimeSeries(filtered, query.Granularity),
		TopByRevenue: analytics.TopN(rollup, query.Top, func(p analytics.ProductSales) float64 { return p.TotalRevenue }),
		TopByQuantity: analytics.TopN(rollup, query.Top, func(p analytics.ProductSales) float64 { return float64(p.TotalSold) }),
		TopCustomers: analytics.TopN(analytics.CustomerRollup(filtered), query.Top,
			func(c analytics.CustomerSpend) float64 { return c.TotalSpend }),
		RevenueByWeekday: analytics.RevenueByWeekday(filtered),
		RevenueByHour:    analytics.RevenueByHour(filtered),
		Heatmap:          analytics.RevenueHeatmap(filtered),
		Table:            Table{Columns: header, Rows: records},
	}
	httpx.JSON(w, http.StatusOK, resp)
}

func (h *Handler) handleSalesCSV(w http.ResponseWriter, r *http.Request) {
	query, err := parseSalesQuery(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	sorted, err := analytics.OrderLineSchema.Sort(salesFilter(query).Apply(snap.Orders), analytics.SortSpec{Field: query.Sort, Ascending: query.Dir == "asc"})
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	writeCSVHeader(w, "sales_data.csv")
	if err := export.WriteOrderLines(w, sorted, query.Columns); err != nil {
		h.logger.Error("export sales csv", slog.Any("error", err))
	}
}

func salesFilter(query SalesQuery) analytics.OrderLineFilter {
	return analytics.OrderLineFilter{
		From:     query.From,
		To:       query.To,
		Customer: query.Customer,
		Product:  query.Product,
	}
}

func writeCSVHeader(w http.ResponseWriter, filename string) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
}
