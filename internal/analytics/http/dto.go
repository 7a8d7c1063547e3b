package dashboardhttp

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jetsales/jetsales/internal/analytics"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

const dateParamLayout = "2006-01-02"

// CustomerQuery carries the customer view selections.
type CustomerQuery struct {
	AgeMin  *int   `validate:"omitempty,gte=0,lte=150"`
	AgeMax  *int   `validate:"omitempty,gte=0,lte=150"`
	Search  string `validate:"max=200"`
	Sort    string
	Dir     string `validate:"oneof=asc desc"`
	Columns []string
}

// ProductQuery carries the product view selections.
type ProductQuery struct {
	PriceMin *float64 `validate:"omitempty,gte=0"`
	PriceMax *float64 `validate:"omitempty,gte=0"`
	StockMin *int     `validate:"omitempty,gte=0"`
	StockMax *int     `validate:"omitempty,gte=0"`
	Search   string   `validate:"max=200"`
	Top      int      `validate:"gte=1,lte=50"`
	Sort     string
	Dir      string `validate:"oneof=asc desc"`
	Columns  []string
}

// SalesQuery carries the sales view selections.
type SalesQuery struct {
	From        time.Time
	To          time.Time
	Customer    string                `validate:"max=200"`
	Product     string                `validate:"max=200"`
	Granularity analytics.Granularity `validate:"oneof=daily weekly monthly"`
	Top         int                   `validate:"gte=1,lte=50"`
	Sort        string
	Dir         string `validate:"oneof=asc desc"`
	Columns     []string
}

func parseCustomerQuery(r *http.Request) (CustomerQuery, error) {
	q := r.URL.Query()
	query := CustomerQuery{
		Search:  strings.TrimSpace(q.Get("search")),
		Sort:    defaultString(q.Get("sort"), "name"),
		Dir:     defaultString(q.Get("dir"), "asc"),
		Columns: splitColumns(q.Get("columns")),
	}
	var err error
	if query.AgeMin, err = optionalInt(q.Get("age_min"), "age_min"); err != nil {
		return query, err
	}
	if query.AgeMax, err = optionalInt(q.Get("age_max"), "age_max"); err != nil {
		return query, err
	}
	if err := validate.Struct(query); err != nil {
		return query, err
	}
	if query.AgeMin != nil && query.AgeMax != nil && *query.AgeMin > *query.AgeMax {
		return query, fmt.Errorf("age_min exceeds age_max")
	}
	if !analytics.CustomerSchema.Has(query.Sort) {
		return query, fmt.Errorf("unknown sort field %q", query.Sort)
	}
	return query, nil
}

func parseProductQuery(r *http.Request) (ProductQuery, error) {
	q := r.URL.Query()
	query := ProductQuery{
		Search:  strings.TrimSpace(q.Get("search")),
		Top:     10,
		Sort:    defaultString(q.Get("sort"), "total_sold"),
		Dir:     defaultString(q.Get("dir"), "desc"),
		Columns: splitColumns(q.Get("columns")),
	}
	var err error
	if query.PriceMin, err = optionalFloat(q.Get("price_min"), "price_min"); err != nil {
		return query, err
	}
	if query.PriceMax, err = optionalFloat(q.Get("price_max"), "price_max"); err != nil {
		return query, err
	}
	if query.StockMin, err = optionalInt(q.Get("stock_min"), "stock_min"); err != nil {
		return query, err
	}
	if query.StockMax, err = optionalInt(q.Get("stock_max"), "stock_max"); err != nil {
		return query, err
	}
	if raw := q.Get("top"); raw != "" {
		top, err := strconv.Atoi(raw)
		if err != nil {
			return query, fmt.Errorf("invalid top: %q", raw)
		}
		query.Top = top
	}
	if err := validate.Struct(query); err != nil {
		return query, err
	}
	if !analytics.ProductCatalogSchema.Has(query.Sort) {
		return query, fmt.Errorf("unknown sort field %q", query.Sort)
	}
	return query, nil
}

func parseSalesQuery(r *http.Request) (SalesQuery, error) {
	q := r.URL.Query()
	query := SalesQuery{
		Customer:    defaultString(strings.TrimSpace(q.Get("customer")), analytics.MatchAll),
		Product:     defaultString(strings.TrimSpace(q.Get("product")), analytics.MatchAll),
		Granularity: analytics.Granularity(defaultString(q.Get("granularity"), string(analytics.GranularityDaily))),
		Top:         10,
		Sort:        defaultString(q.Get("sort"), "order_date"),
		Dir:         defaultString(q.Get("dir"), "desc"),
		Columns:     splitColumns(q.Get("columns")),
	}
	var err error
	if query.From, err = optionalDate(q.Get("from"), "from"); err != nil {
		return query, err
	}
	if query.To, err = optionalDate(q.Get("to"), "to"); err != nil {
		return query, err
	}
	if raw := q.Get("top"); raw != "" {
		top, err := strconv.Atoi(raw)
		if err != nil {
			return query, fmt.Errorf("invalid top: %q", raw)
		}
		query.Top = top
	}
	if err := validate.Struct(query); err != nil {
		return query, err
	}
	if !query.From.IsZero() && !query.To.IsZero() && query.From.After(query.To) {
		return query, fmt.Errorf("from exceeds to")
	}
	if !analytics.OrderLineSchema.Has(query.Sort) {
		return query, fmt.Errorf("unknown sort field %q", query.Sort)
	}
	return query, nil
}

func defaultString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func splitColumns(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func optionalInt(raw, name string) (*int, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return &v, nil
}

func optionalFloat(raw, name string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return &v, nil
}

func optionalDate(raw, name string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateParamLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return t, nil
}
