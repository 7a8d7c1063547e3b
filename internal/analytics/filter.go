package analytics

import (
	"strings"
	"time"

	"github.com/jetsales/jetsales/internal/normalize"
)

// MatchAll is the categorical sentinel meaning "no filter".
const MatchAll = "All"

// CustomerFilter narrows the customer row-set. Zero values leave a predicate
// inactive; predicates combine with AND.
type CustomerFilter struct {
	AgeMin *int
	AgeMax *int
	Search string
}

// Apply returns the matching subset in original order. Customers without a
// birthdate only pass when no age bound is set.
func (f CustomerFilter) Apply(customers []normalize.Customer) []normalize.Customer {
	out := make([]normalize.Customer, 0, len(customers))
	for _, c := range customers {
		if f.AgeMin != nil || f.AgeMax != nil {
			if !c.HasBirth {
				continue
			}
			if f.AgeMin != nil && c.Age < *f.AgeMin {
				continue
			}
			if f.AgeMax != nil && c.Age > *f.AgeMax {
				continue
			}
		}
		if !containsFold(c.Name, f.Search) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// ProductFilter narrows the merged product catalog.
type ProductFilter struct {
	PriceMin *float64
	PriceMax *float64
	StockMin *int
	StockMax *int
	Search   string
}

// Apply returns the matching subset in original order.
func (f ProductFilter) Apply(products []ProductCatalogRow) []ProductCatalogRow {
	out := make([]ProductCatalogRow, 0, len(products))
	for _, p := range products {
		if f.PriceMin != nil && p.Price < *f.PriceMin {
			continue
		}
		if f.PriceMax != nil && p.Price > *f.PriceMax {
			continue
		}
		if f.StockMin != nil && p.Stock < *f.StockMin {
			continue
		}
		if f.StockMax != nil && p.Stock > *f.StockMax {
			continue
		}
		if !containsFold(p.Name, f.Search) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// OrderLineFilter narrows the order detail row-set. The date range compares on
// the date portion only, inclusive on both ends. Customer and Product are
// categorical equality predicates where "All" (or empty) matches everything;
// ProductSearch is a case-insensitive substring match.
type OrderLineFilter struct {
	From          time.Time
	To            time.Time
	Customer      string
	Product       string
	ProductSearch string
}

// Apply returns the matching subset in original order.
func (f OrderLineFilter) Apply(lines []normalize.OrderLine) []normalize.OrderLine {
	out := make([]normalize.OrderLine, 0, len(lines))
	for _, line := range lines {
		day := truncateDay(line.OrderDate)
		if !f.From.IsZero() && day.Before(truncateDay(f.From)) {
			continue
		}
		if !f.To.IsZero() && day.After(truncateDay(f.To)) {
			continue
		}
		if !matchCategory(line.CustomerName, f.Customer) {
			continue
		}
		if !matchCategory(line.ProductName, f.Product) {
			continue
		}
		if !containsFold(line.ProductName, f.ProductSearch) {
			continue
		}
		out = append(out, line)
	}
	return out
}

func matchCategory(value, selected string) bool {
	if selected == "" || selected == MatchAll {
		return true
	}
	return value == selected
}

func containsFold(value, search string) bool {
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(value), strings.ToLower(search))
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
