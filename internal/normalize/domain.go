// Package normalize turns the raw catalog row-sets into typed entities with the
// derived calendar and age fields every dashboard view depends on.
package normalize

import (
	"fmt"
	"time"
)

// AgeGroup buckets an age into the fixed dashboard bands.
type AgeGroup string

// Age bands derived from the bin edges [0, 20, 30, 40, 50, 60, 100]. The first
// five bins are half-open on the right; the last is closed at 100. Ages outside
// [0, 100] stay ungrouped.
const (
	AgeGroupUnder20 AgeGroup = "<20"
	AgeGroup20to30  AgeGroup = "20-30"
	AgeGroup30to40  AgeGroup = "30-40"
	AgeGroup40to50  AgeGroup = "40-50"
	AgeGroup50to60  AgeGroup = "50-60"
	AgeGroup60Plus  AgeGroup = "60+"
	AgeGroupNone    AgeGroup = ""
)

// AgeGroups lists the bands in display order.
var AgeGroups = []AgeGroup{
	AgeGroupUnder20,
	AgeGroup20to30,
	AgeGroup30to40,
	AgeGroup40to50,
	AgeGroup50to60,
	AgeGroup60Plus,
}

// Customer is a normalized customer row.
type Customer struct {
	CustomerID int64     `json:"customer_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Address    string    `json:"address"`
	Birthdate  time.Time `json:"birthdate"`
	HasBirth   bool      `json:"has_birthdate"`
	Age        int       `json:"age"`
	AgeGroup   AgeGroup  `json:"age_group"`
}

// Product is a normalized product row.
type Product struct {
	ProductID   int64   `json:"product_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
}

// OrderLine is a normalized order detail row with per-row calendar fields.
type OrderLine struct {
	OrderDetailID int64     `json:"order_detail_id"`
	OrderID       int64     `json:"order_id"`
	OrderDate     time.Time `json:"order_date"`
	CustomerID    int64     `json:"customer_id"`
	CustomerName  string    `json:"customer_name"`
	ProductID     int64     `json:"product_id"`
	ProductName   string    `json:"product_name"`
	UnitPrice     float64   `json:"unit_price"`
	Quantity      int       `json:"quantity"`
	Subtotal      float64   `json:"subtotal"`
	OrderTotal    float64   `json:"order_total"`
	Phone         string    `json:"phone"`

	Year      int    `json:"year"`
	Month     int    `json:"month"`
	MonthName string `json:"month_name"`
	DayName   string `json:"day_name"`
	Hour      int    `json:"hour"`
}

// DateParseError reports an order date that could not be parsed. Dates drive
// filtering and time bucketing, so unlike numeric coercion this is surfaced to
// the caller instead of defaulting.
type DateParseError struct {
	Field string
	Value string
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("normalize: unparseable date in %s: %q", e.Field, e.Value)
}

// Stats counts silent coercion substitutions so the leniency stays observable.
type Stats struct {
	Quantity    int `json:"quantity"`
	Money       int `json:"money"`
	Identifier  int `json:"identifier"`
	NoBirthdate int `json:"no_birthdate"`
}

// Total returns the number of substituted values across all classes.
func (s Stats) Total() int {
	return s.Quantity + s.Money + s.Identifier
}

// Add accumulates counts from another pass.
func (s *Stats) Add(other Stats) {
	s.Quantity += other.Quantity
	s.Money += other.Money
	s.Identifier += other.Identifier
	s.NoBirthdate += other.NoBirthdate
}
