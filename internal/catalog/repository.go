package catalog

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository loads the row-sets from PostgreSQL. Columns are cast to text so the
// database loader produces the same raw shape as the CSV loader.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository wraps a pgx pool.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const customersQuery = `
SELECT customer_id::text, name, COALESCE(email, ''), COALESCE(phone, ''),
       COALESCE(address, ''), COALESCE(birthdate::text, '')
FROM customers
ORDER BY customer_id`

const productsQuery = `
SELECT product_id::text, name, COALESCE(description, ''),
       COALESCE(price::text, ''), COALESCE(stock::text, '')
FROM products
ORDER BY product_id`

const orderLinesQuery = `
SELECT od.order_detail_id::text, od.order_id::text, o.order_date::text,
       o.customer_id::text, c.name, od.product_id::text, p.name,
       COALESCE(od.unit_price::text, ''), COALESCE(od.quantity::text, ''),
       COALESCE(od.subtotal::text, ''), COALESCE(o.total::text, ''),
       COALESCE(c.phone, '')
FROM order_details od
JOIN orders o ON o.order_id = od.order_id
JOIN customers c ON c.customer_id = o.customer_id
JOIN products p ON p.product_id = od.product_id
ORDER BY od.order_detail_id`

// Customers returns the customers row-set.
func (r *Repository) Customers(ctx context.Context) ([]CustomerRecord, error) {
	rows, err := r.db.Query(ctx, customersQuery)
	if err != nil {
		return nil, mapQueryError("customers", err)
	}
	defer rows.Close()

	records := make([]CustomerRecord, 0)
	for rows.Next() {
		var rec CustomerRecord
		if err := rows.Scan(&rec.CustomerID, &rec.Name, &rec.Email, &rec.Phone, &rec.Address, &rec.Birthdate); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, mapQueryError("customers", err)
	}
	return records, nil
}

// Products returns the products row-set.
func (r *Repository) Products(ctx context.Context) ([]ProductRecord, error) {
	rows, err := r.db.Query(ctx, productsQuery)
	if err != nil {
		return nil, mapQueryError("products", err)
	}
	defer rows.Close()

	records := make([]ProductRecord, 0)
	for rows.Next() {
		var rec ProductRecord
		if err := rows.Scan(&rec.ProductID, &rec.Name, &rec.Description, &rec.Price, &rec.Stock); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, mapQueryError("products", err)
	}
	return records, nil
}

// OrderLines returns the pre-joined order detail row-set.
func (r *Repository) OrderLines(ctx context.Context) ([]OrderLineRecord, error) {
	rows, err := r.db.Query(ctx, orderLinesQuery)
	if err != nil {
		return nil, mapQueryError("order_details", err)
	}
	defer rows.Close()

	records := make([]OrderLineRecord, 0)
	for rows.Next() {
		var rec OrderLineRecord
		if err := rows.Scan(
			&rec.OrderDetailID, &rec.OrderID, &rec.OrderDate,
			&rec.CustomerID, &rec.CustomerName, &rec.ProductID, &rec.ProductName,
			&rec.UnitPrice, &rec.Quantity, &rec.Subtotal, &rec.OrderTotal, &rec.Phone,
		); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, mapQueryError("order_details", err)
	}
	return records, nil
}

// undefined_table and undefined_column mean the schema is missing, which is a
// source availability problem, not a query bug worth a 500.
func mapQueryError(source string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "42P01", "42703":
			return unavailable(source, err)
		}
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return unavailable(source, err)
	}
	return err
}
