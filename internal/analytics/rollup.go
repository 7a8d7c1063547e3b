package analytics

import (
	"sort"

	"github.com/jetsales/jetsales/internal/normalize"
)

// ProductSales is the per-product rollup: units sold and revenue.
type ProductSales struct {
	ProductID    int64   `json:"product_id"`
	ProductName  string  `json:"product_name"`
	TotalSold    int     `json:"total_sold"`
	TotalRevenue float64 `json:"total_revenue"`
}

// CustomerSpend is the per-customer rollup.
type CustomerSpend struct {
	CustomerID   int64   `json:"customer_id"`
	CustomerName string  `json:"customer_name"`
	Orders       int     `json:"orders"`
	TotalSpend   float64 `json:"total_spend"`
}

type productKey struct {
	id   int64
	name string
}

type customerKey struct {
	id   int64
	name string
}

// ProductRollup groups order lines by the (product_id, product_name) tuple,
// summing quantity and subtotal. Groups come back in first-seen order.
func ProductRollup(lines []normalize.OrderLine) []ProductSales {
	index := make(map[productKey]int)
	out := make([]ProductSales, 0)
	for _, line := range lines {
		key := productKey{id: line.ProductID, name: line.ProductName}
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, ProductSales{ProductID: line.ProductID, ProductName: line.ProductName})
		}
		out[i].TotalSold += line.Quantity
		out[i].TotalRevenue += line.Subtotal
	}
	return out
}

// CustomerRollup groups order lines by the (customer_id, customer_name) tuple,
// summing subtotal and counting distinct orders per customer.
func CustomerRollup(lines []normalize.OrderLine) []CustomerSpend {
	index := make(map[customerKey]int)
	seenOrders := make(map[customerKey]map[int64]struct{})
	out := make([]CustomerSpend, 0)
	for _, line := range lines {
		key := customerKey{id: line.CustomerID, name: line.CustomerName}
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			seenOrders[key] = make(map[int64]struct{})
			out = append(out, CustomerSpend{CustomerID: line.CustomerID, CustomerName: line.CustomerName})
		}
		out[i].TotalSpend += line.Subtotal
		if _, ok := seenOrders[key][line.OrderID]; !ok {
			seenOrders[key][line.OrderID] = struct{}{}
			out[i].Orders++
		}
	}
	return out
}

// TopN returns the first n rows of a stable descending sort by measure. Ties
// keep their original relative order, so reruns over identical input are
// reproducible. n larger than the input returns the whole sorted set.
func TopN[T any](rows []T, n int, measure func(T) float64) []T {
	sorted := make([]T, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return measure(sorted[i]) > measure(sorted[j])
	})
	if n < 0 {
		n = 0
	}
	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}

// DistinctOrders counts unique order ids across the lines.
func DistinctOrders(lines []normalize.OrderLine) int {
	seen := make(map[int64]struct{}, len(lines))
	for _, line := range lines {
		seen[line.OrderID] = struct{}{}
	}
	return len(seen)
}

// DistinctBuyers counts unique customer ids across the lines.
func DistinctBuyers(lines []normalize.OrderLine) int {
	seen := make(map[int64]struct{}, len(lines))
	for _, line := range lines {
		seen[line.CustomerID] = struct{}{}
	}
	return len(seen)
}

// TotalRevenue sums subtotals without intermediate rounding.
func TotalRevenue(lines []normalize.OrderLine) float64 {
	var sum float64
	for _, line := range lines {
		sum += line.Subtotal
	}
	return sum
}

// TotalItems sums quantities.
func TotalItems(lines []normalize.OrderLine) int {
	var sum int
	for _, line := range lines {
		sum += line.Quantity
	}
	return sum
}

// AverageOrderValue sums each order's lines first and averages those per-order
// totals. Averaging raw line subtotals would mix orders of different sizes into
// a different quantity. Returns 0 for an empty input.
func AverageOrderValue(lines []normalize.OrderLine) float64 {
	totals := make(map[int64]float64)
	for _, line := range lines {
		totals[line.OrderID] += line.Subtotal
	}
	if len(totals) == 0 {
		return 0
	}
	var sum float64
	for _, total := range totals {
		sum += total
	}
	return sum / float64(len(totals))
}
