package catalog

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// File names expected inside the data directory, as produced by the exporter.
const (
	customersFile  = "customers.csv"
	productsFile   = "products.csv"
	orderLinesFile = "order_details.csv"
)

// DirLoader reads the row-sets from CSV files in a directory.
type DirLoader struct {
	dir string
}

// NewDirLoader points a loader at a data directory.
func NewDirLoader(dir string) *DirLoader {
	return &DirLoader{dir: dir}
}

// Customers reads customers.csv.
func (l *DirLoader) Customers(ctx context.Context) ([]CustomerRecord, error) {
	rows, err := l.readFile(ctx, customersFile, 6)
	if err != nil {
		return nil, err
	}
	records := make([]CustomerRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, CustomerRecord{
			CustomerID: row[0],
			Name:       row[1],
			Email:      row[2],
			Phone:      row[3],
			Address:    row[4],
			Birthdate:  row[5],
		})
	}
	return records, nil
}

// Products reads products.csv.
func (l *DirLoader) Products(ctx context.Context) ([]ProductRecord, error) {
	rows, err := l.readFile(ctx, productsFile, 5)
	if err != nil {
		return nil, err
	}
	records := make([]ProductRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, ProductRecord{
			ProductID:   row[0],
			Name:        row[1],
			Description: row[2],
			Price:       row[3],
			Stock:       row[4],
		})
	}
	return records, nil
}

// OrderLines reads order_details.csv.
func (l *DirLoader) OrderLines(ctx context.Context) ([]OrderLineRecord, error) {
	rows, err := l.readFile(ctx, orderLinesFile, 12)
	if err != nil {
		return nil, err
	}
	records := make([]OrderLineRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, OrderLineRecord{
			OrderDetailID: row[0],
			OrderID:       row[1],
			OrderDate:     row[2],
			CustomerID:    row[3],
			CustomerName:  row[4],
			ProductID:     row[5],
			ProductName:   row[6],
			UnitPrice:     row[7],
			Quantity:      row[8],
			Subtotal:      row[9],
			OrderTotal:    row[10],
			Phone:         row[11],
		})
	}
	return records, nil
}

// readFile parses a CSV file, skipping the header row and validating the column
// count. Rows shorter than want are rejected; a missing file maps to
// ErrDataUnavailable so callers can halt rendering instead of showing partial data.
func (l *DirLoader) readFile(ctx context.Context, name string, want int) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := filepath.Join(l.dir, name)
	f, err := os.Open(path)
	if err != nil {
		return nil, unavailable(name, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = want

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, unavailable(name, fmt.Errorf("empty file"))
		}
		return nil, fmt.Errorf("catalog: read %s header: %w", name, err)
	}
	if len(header) != want {
		return nil, fmt.Errorf("catalog: %s: expected %d columns, got %d (%s)",
			name, want, len(header), strings.Join(header, ","))
	}

	rows := make([][]string, 0)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("catalog: read %s: %w", name, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
