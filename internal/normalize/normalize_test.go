package normalize

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/jetsales/jetsales/internal/catalog"
)

func TestGroupAgeBands(t *testing.T) {
	cases := []struct {
		age  int
		want AgeGroup
	}{
		{0, AgeGroupUnder20},
		{19, AgeGroupUnder20},
		{20, AgeGroup20to30},
		{29, AgeGroup20to30},
		{30, AgeGroup30to40},
		{45, AgeGroup40to50},
		{59, AgeGroup50to60},
		{60, AgeGroup60Plus},
		{100, AgeGroup60Plus},
		{101, AgeGroupNone},
		{-1, AgeGroupNone},
	}
	for _, tc := range cases {
		if got := GroupAge(tc.age); got != tc.want {
			t.Fatalf("GroupAge(%d) = %q, want %q", tc.age, got, tc.want)
		}
	}
}

func TestAgeAtWholeDays(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		birth time.Time
		want  int
	}{
		{now.AddDate(0, 0, -364), 0},
		{now.AddDate(0, 0, -365), 1},
		{now.AddDate(0, 0, -730), 2},
		// 12770 whole days; the 365-day divisor lands at 34, not the
		// calendar-year 35.
		{time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC), 34},
		{now, 0},
	}
	for _, tc := range cases {
		if got := AgeAt(tc.birth, now); got != tc.want {
			t.Fatalf("AgeAt(%s) = %d, want %d", tc.birth.Format("2006-01-02"), got, tc.want)
		}
	}
}

func TestAgeAtFutureBirthdateFloors(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	if got := AgeAt(now.AddDate(0, 0, 1), now); got != -1 {
		t.Fatalf("expected floor division to -1, got %d", got)
	}
}

func TestCustomersKeepsMissingBirthdate(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	records := []catalog.CustomerRecord{
		{CustomerID: "1", Name: "Andi", Birthdate: "2000-01-15"},
		{CustomerID: "2", Name: "Budi", Birthdate: ""},
	}
	customers, stats, err := Customers(records, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(customers) != 2 {
		t.Fatalf("expected both customers kept, got %d", len(customers))
	}
	if !customers[0].HasBirth || customers[0].AgeGroup != AgeGroup20to30 {
		t.Fatalf("expected first customer in 20-30, got %+v", customers[0])
	}
	if customers[1].HasBirth || customers[1].Age != -1 || customers[1].AgeGroup != AgeGroupNone {
		t.Fatalf("expected second customer with undefined age, got %+v", customers[1])
	}
	if stats.NoBirthdate != 1 {
		t.Fatalf("expected one missing birthdate counted, got %d", stats.NoBirthdate)
	}
}

func TestCustomersRejectsUnparseableBirthdate(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	_, _, err := Customers([]catalog.CustomerRecord{{CustomerID: "1", Birthdate: "not-a-date"}}, now)
	var dateErr *DateParseError
	if !errors.As(err, &dateErr) {
		t.Fatalf("expected DateParseError, got %v", err)
	}
	if dateErr.Field != "birthdate" || dateErr.Value != "not-a-date" {
		t.Fatalf("unexpected error payload: %+v", dateErr)
	}
}

func TestProductsCoercesMalformedNumerics(t *testing.T) {
	records := []catalog.ProductRecord{
		{ProductID: "1", Name: "Kopi", Price: "12500.50", Stock: "8"},
		{ProductID: "oops", Name: "Teh", Price: "abc", Stock: ""},
		{ProductID: "3", Name: "Gula", Price: "", Stock: "3.0"},
	}
	products, stats := Products(records)
	if len(products) != 3 {
		t.Fatalf("expected all rows kept, got %d", len(products))
	}
	if products[0].Price != 12500.50 || products[0].Stock != 8 {
		t.Fatalf("expected clean row untouched, got %+v", products[0])
	}
	if products[1].ProductID != 0 || products[1].Price != 0 || products[1].Stock != 0 {
		t.Fatalf("expected defaults for malformed row, got %+v", products[1])
	}
	if products[2].Stock != 3 {
		t.Fatalf("expected float-style stock accepted, got %d", products[2].Stock)
	}
	if stats.Identifier != 1 {
		t.Fatalf("expected one identifier substitution, got %d", stats.Identifier)
	}
	if stats.Money != 2 {
		t.Fatalf("expected two money substitutions, got %d", stats.Money)
	}
	if stats.Quantity != 1 {
		t.Fatalf("expected one quantity substitution, got %d", stats.Quantity)
	}
	if stats.Total() != 4 {
		t.Fatalf("expected four substitutions total, got %d", stats.Total())
	}
}

func TestOrderLinesDerivesCalendarFields(t *testing.T) {
	records := []catalog.OrderLineRecord{{
		OrderDetailID: "10",
		OrderID:       "5",
		OrderDate:     "2024-03-04 13:45:00",
		CustomerID:    "1",
		CustomerName:  "Andi",
		ProductID:     "2",
		ProductName:   "Kopi",
		UnitPrice:     "10",
		Quantity:      "2",
		Subtotal:      "20",
		OrderTotal:    "20",
	}}
	lines, _, err := OrderLines(records)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	line := lines[0]
	if line.Year != 2024 || line.Month != 3 {
		t.Fatalf("unexpected year/month: %+v", line)
	}
	if line.MonthName != "March" {
		t.Fatalf("expected English month name, got %q", line.MonthName)
	}
	if line.DayName != "Monday" {
		t.Fatalf("expected English day name, got %q", line.DayName)
	}
	if line.Hour != 13 {
		t.Fatalf("expected hour 13, got %d", line.Hour)
	}
}

func TestOrderLinesRejectsUnparseableDate(t *testing.T) {
	_, _, err := OrderLines([]catalog.OrderLineRecord{{OrderID: "1", OrderDate: "03/04/2024"}})
	var dateErr *DateParseError
	if !errors.As(err, &dateErr) {
		t.Fatalf("expected DateParseError, got %v", err)
	}
	if dateErr.Field != "order_date" {
		t.Fatalf("expected order_date field, got %q", dateErr.Field)
	}
}

func TestParseDateLayouts(t *testing.T) {
	for _, raw := range []string{"2024-03-04 13:45:00", "2024-03-04T13:45:00Z", "2024-03-04"} {
		if _, err := ParseDate(raw); err != nil {
			t.Fatalf("ParseDate(%q): %v", raw, err)
		}
	}
	if _, err := ParseDate("yesterday"); err == nil {
		t.Fatalf("expected error for unparseable date")
	}
}

func TestNormalizeIsDeterministic(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	records := []catalog.CustomerRecord{
		{CustomerID: "1", Name: "Andi", Birthdate: "1990-02-01"},
		{CustomerID: "2", Name: "Budi", Birthdate: "1961-11-20"},
		{CustomerID: "3", Name: "Citra", Birthdate: ""},
	}
	first, _, err := Customers(records, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, _, err := Customers(records, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical output across reruns")
	}
}
