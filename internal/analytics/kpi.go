package analytics

import (
	"github.com/jetsales/jetsales/internal/normalize"
)

// Overview carries the headline metrics shown on the dashboard home.
type Overview struct {
	TotalCustomers    int     `json:"total_customers"`
	TotalProducts     int     `json:"total_products"`
	TotalOrders       int     `json:"total_orders"`
	TotalItems        int     `json:"total_items"`
	TotalRevenue      float64 `json:"total_revenue"`
	AverageOrderValue float64 `json:"average_order_value"`
	ActiveBuyers      int     `json:"active_buyers"`
}

// BuildOverview computes the headline metrics for one snapshot slice.
func BuildOverview(customers []normalize.Customer, products []normalize.Product, lines []normalize.OrderLine) Overview {
	return Overview{
		TotalCustomers:    len(customers),
		TotalProducts:     len(products),
		TotalOrders:       DistinctOrders(lines),
		TotalItems:        TotalItems(lines),
		TotalRevenue:      TotalRevenue(lines),
		AverageOrderValue: AverageOrderValue(lines),
		ActiveBuyers:      DistinctBuyers(lines),
	}
}

// ProductCatalogRow is a product enriched with its sales rollup, the shape the
// product views filter and rank.
type ProductCatalogRow struct {
	ProductID    int64   `json:"product_id"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Price        float64 `json:"price"`
	Stock        int     `json:"stock"`
	TotalSold    int     `json:"total_sold"`
	TotalRevenue float64 `json:"total_revenue"`
}

// MergeProductSales left-merges products with the sales rollup on the
// (product_id, name) tuple. Products without sales keep zeros; rollup entries
// without a catalog product are dropped, matching a left join.
func MergeProductSales(products []normalize.Product, rollup []ProductSales) []ProductCatalogRow {
	index := make(map[productKey]ProductSales, len(rollup))
	for _, sales := range rollup {
		index[productKey{id: sales.ProductID, name: sales.ProductName}] = sales
	}
	out := make([]ProductCatalogRow, 0, len(products))
	for _, p := range products {
		row := ProductCatalogRow{
			ProductID:   p.ProductID,
			Name:        p.Name,
			Description: p.Description,
			Price:       p.Price,
			Stock:       p.Stock,
		}
		if sales, ok := index[productKey{id: p.ProductID, name: p.Name}]; ok {
			row.TotalSold = sales.TotalSold
			row.TotalRevenue = sales.TotalRevenue
		}
		out = append(out, row)
	}
	return out
}

// LowStock returns products under the stock threshold ranked by units sold,
// truncated to n. The default dashboard threshold is 20.
func LowStock(rows []ProductCatalogRow, threshold int, n int) []ProductCatalogRow {
	short := make([]ProductCatalogRow, 0)
	for _, row := range rows {
		if row.Stock < threshold {
			short = append(short, row)
		}
	}
	return TopN(short, n, func(r ProductCatalogRow) float64 { return float64(r.TotalSold) })
}

// TotalStock sums stock across catalog rows.
func TotalStock(rows []ProductCatalogRow) int {
	var sum int
	for _, row := range rows {
		sum += row.Stock
	}
	return sum
}

// TotalUnitsSold sums units sold across catalog rows.
func TotalUnitsSold(rows []ProductCatalogRow) int {
	var sum int
	for _, row := range rows {
		sum += row.TotalSold
	}
	return sum
}

// AveragePrice averages catalog prices; 0 for an empty input.
func AveragePrice(rows []ProductCatalogRow) float64 {
	if len(rows) == 0 {
		return 0
	}
	var sum float64
	for _, row := range rows {
		sum += row.Price
	}
	return sum / float64(len(rows))
}

// AverageAge averages customer ages, skipping customers without a birthdate;
// 0 when none have one.
func AverageAge(customers []normalize.Customer) float64 {
	var sum, n int
	for _, c := range customers {
		if !c.HasBirth {
			continue
		}
		sum += c.Age
		n++
	}
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}
