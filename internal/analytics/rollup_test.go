package analytics

import (
	"math"
	"reflect"
	"testing"

	"github.com/jetsales/jetsales/internal/normalize"
)

// The canonical three-line scenario: two orders, one shared product.
func scenarioLines() []normalize.OrderLine {
	return []normalize.OrderLine{
		{OrderDetailID: 1, OrderID: 1, CustomerID: 1, CustomerName: "Andi", ProductID: 10, ProductName: "X", Quantity: 2, Subtotal: 20},
		{OrderDetailID: 2, OrderID: 1, CustomerID: 1, CustomerName: "Andi", ProductID: 11, ProductName: "Y", Quantity: 1, Subtotal: 15},
		{OrderDetailID: 3, OrderID: 2, CustomerID: 2, CustomerName: "Budi", ProductID: 10, ProductName: "X", Quantity: 3, Subtotal: 30},
	}
}

func TestScenarioRollup(t *testing.T) {
	lines := scenarioLines()

	if got := DistinctOrders(lines); got != 2 {
		t.Fatalf("expected 2 distinct orders, got %d", got)
	}
	if got := TotalRevenue(lines); got != 65 {
		t.Fatalf("expected revenue 65, got %v", got)
	}

	rollup := ProductRollup(lines)
	if len(rollup) != 2 {
		t.Fatalf("expected 2 product groups, got %d", len(rollup))
	}
	x := rollup[0]
	if x.ProductName != "X" {
		t.Fatalf("expected first-seen order, got %q first", x.ProductName)
	}
	if x.TotalSold != 5 || x.TotalRevenue != 50 {
		t.Fatalf("expected X rollup {5, 50}, got {%d, %v}", x.TotalSold, x.TotalRevenue)
	}

	if got := AverageOrderValue(lines); got != 32.5 {
		t.Fatalf("expected AOV 32.5, got %v", got)
	}
}

func TestAverageOrderValuePerOrder(t *testing.T) {
	// Order A sums to 100 over two lines, order B to 300 over three. The mean
	// is over orders, not lines.
	lines := []normalize.OrderLine{
		{OrderID: 1, Subtotal: 60},
		{OrderID: 1, Subtotal: 40},
		{OrderID: 2, Subtotal: 100},
		{OrderID: 2, Subtotal: 150},
		{OrderID: 2, Subtotal: 50},
	}
	if got := AverageOrderValue(lines); got != 200 {
		t.Fatalf("expected 200, got %v", got)
	}
}

func TestAverageOrderValueEmpty(t *testing.T) {
	if got := AverageOrderValue(nil); got != 0 {
		t.Fatalf("expected 0 for empty input, got %v", got)
	}
}

func TestCustomerRollupCountsDistinctOrders(t *testing.T) {
	lines := scenarioLines()
	rollup := CustomerRollup(lines)
	if len(rollup) != 2 {
		t.Fatalf("expected 2 customer groups, got %d", len(rollup))
	}
	andi := rollup[0]
	if andi.CustomerName != "Andi" || andi.Orders != 1 || andi.TotalSpend != 35 {
		t.Fatalf("unexpected rollup for Andi: %+v", andi)
	}
}

func TestRollupSplitsOnTupleKey(t *testing.T) {
	lines := []normalize.OrderLine{
		{OrderID: 1, ProductID: 10, ProductName: "X", Quantity: 1, Subtotal: 5},
		{OrderID: 1, ProductID: 10, ProductName: "X renamed", Quantity: 1, Subtotal: 5},
	}
	if got := ProductRollup(lines); len(got) != 2 {
		t.Fatalf("same id with different names must stay separate groups, got %d", len(got))
	}
}

func TestTopNPrefixOfFullSort(t *testing.T) {
	rows := []ProductSales{
		{ProductName: "A", TotalRevenue: 30},
		{ProductName: "B", TotalRevenue: 50},
		{ProductName: "C", TotalRevenue: 10},
		{ProductName: "D", TotalRevenue: 40},
	}
	measure := func(p ProductSales) float64 { return p.TotalRevenue }
	full := TopN(rows, len(rows), measure)
	for k := 0; k <= len(rows); k++ {
		if !reflect.DeepEqual(TopN(rows, k, measure), full[:k]) {
			t.Fatalf("TopN(%d) is not a prefix of the full sort", k)
		}
	}
}

func TestTopNTiesKeepOriginalOrder(t *testing.T) {
	rows := []ProductSales{
		{ProductName: "first", TotalRevenue: 10},
		{ProductName: "second", TotalRevenue: 10},
		{ProductName: "third", TotalRevenue: 10},
	}
	got := TopN(rows, 3, func(p ProductSales) float64 { return p.TotalRevenue })
	for i, want := range []string{"first", "second", "third"} {
		if got[i].ProductName != want {
			t.Fatalf("tie order broken at %d: got %q, want %q", i, got[i].ProductName, want)
		}
	}
}

func TestTopNBeyondLength(t *testing.T) {
	rows := []ProductSales{{ProductName: "A", TotalRevenue: 1}}
	if got := TopN(rows, 10, func(p ProductSales) float64 { return p.TotalRevenue }); len(got) != 1 {
		t.Fatalf("expected whole set, got %d rows", len(got))
	}
}

func TestTotalRevenueNoIntermediateRounding(t *testing.T) {
	lines := []normalize.OrderLine{
		{OrderID: 1, Subtotal: 0.1},
		{OrderID: 1, Subtotal: 0.2},
	}
	if got := TotalRevenue(lines); math.Abs(got-0.3) > 1e-9 {
		t.Fatalf("expected ~0.3, got %v", got)
	}
}
