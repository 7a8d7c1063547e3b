package analytics

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/jetsales/jetsales/internal/normalize"
)

// ErrUnknownColumn reports a sort or projection field outside the schema.
var ErrUnknownColumn = errors.New("analytics: unknown column")

// SortSpec resolves one user sort choice.
type SortSpec struct {
	Field     string
	Ascending bool
}

// Column describes one selectable field of a table: how to render a cell and
// how to compare two rows ascending on it.
type Column[T any] struct {
	Name  string
	Value func(T) string
	Less  func(a, b T) bool
}

// Schema enumerates the selectable columns of a table. The UI offers exactly
// these fields; nothing is resolved by runtime introspection.
type Schema[T any] []Column[T]

// Names lists the schema's field names in declaration order.
func (s Schema[T]) Names() []string {
	names := make([]string, 0, len(s))
	for _, col := range s {
		names = append(names, col.Name)
	}
	return names
}

// Has reports whether the field belongs to the schema.
func (s Schema[T]) Has(name string) bool {
	_, ok := s.column(name)
	return ok
}

// Sort returns a stably sorted copy of rows; ties preserve the original
// relative order so exports are reproducible across reruns.
func (s Schema[T]) Sort(rows []T, spec SortSpec) ([]T, error) {
	col, ok := s.column(spec.Field)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, spec.Field)
	}
	sorted := make([]T, len(rows))
	copy(sorted, rows)
	less := col.Less
	if !spec.Ascending {
		asc := less
		less = func(a, b T) bool { return asc(b, a) }
	}
	sort.SliceStable(sorted, func(i, j int) bool { return less(sorted[i], sorted[j]) })
	return sorted, nil
}

// Project renders the selected columns of each row as strings in selection
// order. An empty selection means all schema columns.
func (s Schema[T]) Project(rows []T, fields []string) ([]string, [][]string, error) {
	if len(fields) == 0 {
		fields = s.Names()
	}
	cols := make([]Column[T], 0, len(fields))
	for _, name := range fields {
		col, ok := s.column(name)
		if !ok {
			return nil, nil, fmt.Errorf("%w: %s", ErrUnknownColumn, name)
		}
		cols = append(cols, col)
	}
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		record := make([]string, 0, len(cols))
		for _, col := range cols {
			record = append(record, col.Value(row))
		}
		records = append(records, record)
	}
	header := make([]string, len(fields))
	copy(header, fields)
	return header, records, nil
}

func (s Schema[T]) column(name string) (Column[T], bool) {
	for _, col := range s {
		if col.Name == name {
			return col, true
		}
	}
	return Column[T]{}, false
}

// CustomerSchema lists the selectable customer table fields.
var CustomerSchema = Schema[normalize.Customer]{
	{Name: "customer_id", Value: func(c normalize.Customer) string { return formatInt(c.CustomerID) },
		Less: func(a, b normalize.Customer) bool { return a.CustomerID < b.CustomerID }},
	{Name: "name", Value: func(c normalize.Customer) string { return c.Name },
		Less: func(a, b normalize.Customer) bool { return a.Name < b.Name }},
	{Name: "email", Value: func(c normalize.Customer) string { return c.Email },
		Less: func(a, b normalize.Customer) bool { return a.Email < b.Email }},
	{Name: "phone", Value: func(c normalize.Customer) string { return c.Phone },
		Less: func(a, b normalize.Customer) bool { return a.Phone < b.Phone }},
	{Name: "address", Value: func(c normalize.Customer) string { return c.Address },
		Less: func(a, b normalize.Customer) bool { return a.Address < b.Address }},
	{Name: "birthdate", Value: func(c normalize.Customer) string { return formatDate(c.Birthdate, c.HasBirth) },
		Less: func(a, b normalize.Customer) bool { return a.Birthdate.Before(b.Birthdate) }},
	{Name: "age", Value: func(c normalize.Customer) string { return formatAge(c) },
		Less: func(a, b normalize.Customer) bool { return a.Age < b.Age }},
	{Name: "age_group", Value: func(c normalize.Customer) string { return string(c.AgeGroup) },
		Less: func(a, b normalize.Customer) bool { return groupRank(a.AgeGroup) < groupRank(b.AgeGroup) }},
}

// ProductCatalogSchema lists the selectable product table fields.
var ProductCatalogSchema = Schema[ProductCatalogRow]{
	{Name: "product_id", Value: func(p ProductCatalogRow) string { return formatInt(p.ProductID) },
		Less: func(a, b ProductCatalogRow) bool { return a.ProductID < b.ProductID }},
	{Name: "name", Value: func(p ProductCatalogRow) string { return p.Name },
		Less: func(a, b ProductCatalogRow) bool { return a.Name < b.Name }},
	{Name: "description", Value: func(p ProductCatalogRow) string { return p.Description },
		Less: func(a, b ProductCatalogRow) bool { return a.Description < b.Description }},
	{Name: "price", Value: func(p ProductCatalogRow) string { return formatFloat(p.Price) },
		Less: func(a, b ProductCatalogRow) bool { return a.Price < b.Price }},
	{Name: "stock", Value: func(p ProductCatalogRow) string { return strconv.Itoa(p.Stock) },
		Less: func(a, b ProductCatalogRow) bool { return a.Stock < b.Stock }},
	{Name: "total_sold", Value: func(p ProductCatalogRow) string { return strconv.Itoa(p.TotalSold) },
		Less: func(a, b ProductCatalogRow) bool { return a.TotalSold < b.TotalSold }},
	{Name: "total_revenue", Value: func(p ProductCatalogRow) string { return formatFloat(p.TotalRevenue) },
		Less: func(a, b ProductCatalogRow) bool { return a.TotalRevenue < b.TotalRevenue }},
}

// OrderLineSchema lists the selectable order detail table fields.
var OrderLineSchema = Schema[normalize.OrderLine]{
	{Name: "order_detail_id", Value: func(l normalize.OrderLine) string { return formatInt(l.OrderDetailID) },
		Less: func(a, b normalize.OrderLine) bool { return a.OrderDetailID < b.OrderDetailID }},
	{Name: "order_id", Value: func(l normalize.OrderLine) string { return formatInt(l.OrderID) },
		Less: func(a, b normalize.OrderLine) bool { return a.OrderID < b.OrderID }},
	{Name: "order_date", Value: func(l normalize.OrderLine) string { return l.OrderDate.Format("2006-01-02 15:04:05") },
		Less: func(a, b normalize.OrderLine) bool { return a.OrderDate.Before(b.OrderDate) }},
	{Name: "customer_id", Value: func(l normalize.OrderLine) string { return formatInt(l.CustomerID) },
		Less: func(a, b normalize.OrderLine) bool { return a.CustomerID < b.CustomerID }},
	{Name: "customer_name", Value: func(l normalize.OrderLine) string { return l.CustomerName },
		Less: func(a, b normalize.OrderLine) bool { return a.CustomerName < b.CustomerName }},
	{Name: "product_id", Value: func(l normalize.OrderLine) string { return formatInt(l.ProductID) },
		Less: func(a, b normalize.OrderLine) bool { return a.ProductID < b.ProductID }},
	{Name: "product_name", Value: func(l normalize.OrderLine) string { return l.ProductName },
		Less: func(a, b normalize.OrderLine) bool { return a.ProductName < b.ProductName }},
	{Name: "unit_price", Value: func(l normalize.OrderLine) string { return formatFloat(l.UnitPrice) },
		Less: func(a, b normalize.OrderLine) bool { return a.UnitPrice < b.UnitPrice }},
	{Name: "quantity", Value: func(l normalize.OrderLine) string { return strconv.Itoa(l.Quantity) },
		Less: func(a, b normalize.OrderLine) bool { return a.Quantity < b.Quantity }},
	{Name: "subtotal", Value: func(l normalize.OrderLine) string { return formatFloat(l.Subtotal) },
		Less: func(a, b normalize.OrderLine) bool { return a.Subtotal < b.Subtotal }},
	{Name: "order_total", Value: func(l normalize.OrderLine) string { return formatFloat(l.OrderTotal) },
		Less: func(a, b normalize.OrderLine) bool { return a.OrderTotal < b.OrderTotal }},
	{Name: "phone", Value: func(l normalize.OrderLine) string { return l.Phone },
		Less: func(a, b normalize.OrderLine) bool { return a.Phone < b.Phone }},
	{Name: "month_name", Value: func(l normalize.OrderLine) string { return l.MonthName },
		Less: func(a, b normalize.OrderLine) bool { return a.Month < b.Month }},
	{Name: "day_name", Value: func(l normalize.OrderLine) string { return l.DayName },
		Less: func(a, b normalize.OrderLine) bool { return dayRank(a.DayName) < dayRank(b.DayName) }},
	{Name: "hour", Value: func(l normalize.OrderLine) string { return strconv.Itoa(l.Hour) },
		Less: func(a, b normalize.OrderLine) bool { return a.Hour < b.Hour }},
}

func formatInt(v int64) string {
	return strconv.FormatInt(v, 10)
}

// Full float precision; rounding belongs to the presentation layer.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatDate(t time.Time, valid bool) string {
	if !valid {
		return ""
	}
	return t.Format("2006-01-02")
}

func formatAge(c normalize.Customer) string {
	if !c.HasBirth {
		return ""
	}
	return strconv.Itoa(c.Age)
}

func groupRank(g normalize.AgeGroup) int {
	for i, band := range normalize.AgeGroups {
		if band == g {
			return i
		}
	}
	return -1
}

func dayRank(day string) int {
	for i, d := range WeekdayOrder {
		if d == day {
			return i
		}
	}
	return len(WeekdayOrder)
}
