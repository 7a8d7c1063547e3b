package dashboardhttp

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jetsales/jetsales/internal/analytics"
)

var moneyPrinter = message.NewPrinter(language.English)

// formatMoney renders a display amount the way the dashboard cards do. Raw
// values travel alongside; only the display string is rounded.
func formatMoney(v float64) string {
	return moneyPrinter.Sprintf("Rp %.2f", v)
}

// Table is a projected row-set: column names plus stringified cells, the same
// shape the CSV export writes.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// OverviewResponse is the dashboard home payload.
type OverviewResponse struct {
	SnapshotID      string                    `json:"snapshot_id"`
	LoadedAt        time.Time                 `json:"loaded_at"`
	Metrics         analytics.Overview        `json:"metrics"`
	RevenueDisplay  string                    `json:"revenue_display"`
	RevenueTrend    []analytics.TimePoint     `json:"revenue_trend"`
	AgeGroups       []analytics.CategoryPoint `json:"age_groups"`
	TopProducts     []analytics.ProductSales  `json:"top_products"`
	OrdersByWeekday []analytics.CategoryPoint `json:"orders_by_weekday"`
}

// CustomerMetrics summarises the filtered customer view.
type CustomerMetrics struct {
	TotalCustomers int     `json:"total_customers"`
	AverageAge     float64 `json:"average_age"`
	ActiveBuyers   int     `json:"active_buyers"`
}

// CustomersResponse is the customer view payload.
type CustomersResponse struct {
	Metrics         CustomerMetrics           `json:"metrics"`
	AgeDistribution []analytics.CategoryPoint `json:"age_distribution"`
	BirthMonths     []analytics.CategoryPoint `json:"birth_months"`
	TopSpenders     []analytics.CustomerSpend `json:"top_spenders"`
	Table           Table                     `json:"table"`
}

// ProductMetrics summarises the filtered product view.
type ProductMetrics struct {
	TotalProducts  int     `json:"total_products"`
	TotalStock     int     `json:"total_stock"`
	TotalUnitsSold int     `json:"total_units_sold"`
	AveragePrice   float64 `json:"average_price"`
	PriceDisplay   string  `json:"price_display"`
}

// ProductsResponse is the product view payload.
type ProductsResponse struct {
	Metrics    ProductMetrics                `json:"metrics"`
	TopSellers []analytics.ProductCatalogRow `json:"top_sellers"`
	TopRevenue []analytics.ProductCatalogRow `json:"top_revenue"`
	LowStock   []analytics.ProductCatalogRow `json:"low_stock"`
	Table      Table                         `json:"table"`
}

// SalesMetrics summarises the filtered sales view.
type SalesMetrics struct {
	TotalOrders       int     `json:"total_orders"`
	TotalItems        int     `json:"total_items"`
	TotalRevenue      float64 `json:"total_revenue"`
	RevenueDisplay    string  `json:"revenue_display"`
	AverageOrderValue float64 `json:"average_order_value"`
	AOVDisplay        string  `json:"aov_display"`
}

// SalesResponse is the sales view payload.
type SalesResponse struct {
	Metrics          SalesMetrics              `json:"metrics"`
	Series           []analytics.TimePoint     `json:"series"`
	TopByRevenue     []analytics.ProductSales  `json:"top_by_revenue"`
	TopByQuantity    []analytics.ProductSales  `json:"top_by_quantity"`
	TopCustomers     []analytics.CustomerSpend `json:"top_customers"`
	RevenueByWeekday []analytics.CategoryPoint `json:"revenue_by_weekday"`
	RevenueByHour    []analytics.HourPoint     `json:"revenue_by_hour"`
	Heatmap          analytics.Heatmap         `json:"heatmap"`
	Table            Table                     `json:"table"`
}
