// Package export serialises dashboard row-sets to CSV: header row, UTF-8, no
// index column, full float precision.
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/jetsales/jetsales/internal/analytics"
	"github.com/jetsales/jetsales/internal/normalize"
)

// WriteTable emits a header row followed by the records.
func WriteTable(w io.Writer, header []string, records [][]string) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(header); err != nil {
		return err
	}
	for _, record := range records {
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteCustomers projects the selected customer columns to CSV.
func WriteCustomers(w io.Writer, rows []normalize.Customer, fields []string) error {
	header, records, err := analytics.CustomerSchema.Project(rows, fields)
	if err != nil {
		return err
	}
	return WriteTable(w, header, records)
}

// WriteProductCatalog projects the selected product columns to CSV.
func WriteProductCatalog(w io.Writer, rows []analytics.ProductCatalogRow, fields []string) error {
	header, records, err := analytics.ProductCatalogSchema.Project(rows, fields)
	if err != nil {
		return err
	}
	return WriteTable(w, header, records)
}

// WriteOrderLines projects the selected order detail columns to CSV.
func WriteOrderLines(w io.Writer, rows []normalize.OrderLine, fields []string) error {
	header, records, err := analytics.OrderLineSchema.Project(rows, fields)
	if err != nil {
		return err
	}
	return WriteTable(w, header, records)
}

// WriteTimeSeries emits a revenue/orders series as CSV.
func WriteTimeSeries(w io.Writer, points []analytics.TimePoint) error {
	records := make([][]string, 0, len(points))
	for _, point := range points {
		records = append(records, []string{
			point.Date.Format("2006-01-02"),
			formatFloat(point.Revenue),
			strconv.Itoa(point.Orders),
			strconv.Itoa(point.Items),
		})
	}
	return WriteTable(w, []string{"date", "revenue", "orders", "items"}, records)
}

// WriteCategories emits a labelled aggregate as CSV.
func WriteCategories(w io.Writer, label string, points []analytics.CategoryPoint) error {
	records := make([][]string, 0, len(points))
	for _, point := range points {
		records = append(records, []string{point.Label, formatFloat(point.Value)})
	}
	return WriteTable(w, []string{label, "value"}, records)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
