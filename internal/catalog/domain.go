// Package catalog supplies the three raw row-sets the dashboards are built from:
// customers, products and the pre-joined order detail view. Rows come back with
// string-typed fields regardless of source so the normalizer owns all coercion.
package catalog

import (
	"context"
	"errors"
	"fmt"
)

// ErrDataUnavailable signals that a row-set could not be supplied by its source.
var ErrDataUnavailable = errors.New("catalog: data unavailable")

// CustomerRecord mirrors the customers row-set column order.
type CustomerRecord struct {
	CustomerID string
	Name       string
	Email      string
	Phone      string
	Address    string
	Birthdate  string
}

// ProductRecord mirrors the products row-set column order.
type ProductRecord struct {
	ProductID   string
	Name        string
	Description string
	Price       string
	Stock       string
}

// OrderLineRecord mirrors the order detail view: one row per order line with
// order, customer and product facts already joined in.
type OrderLineRecord struct {
	OrderDetailID string
	OrderID       string
	OrderDate     string
	CustomerID    string
	CustomerName  string
	ProductID     string
	ProductName   string
	UnitPrice     string
	Quantity      string
	Subtotal      string
	OrderTotal    string
	Phone         string
}

// Loader is the read contract for the three row-sets.
type Loader interface {
	Customers(ctx context.Context) ([]CustomerRecord, error)
	Products(ctx context.Context) ([]ProductRecord, error)
	OrderLines(ctx context.Context) ([]OrderLineRecord, error)
}

func unavailable(source string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrDataUnavailable, source, err)
}
