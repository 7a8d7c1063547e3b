package normalize

import (
	"strconv"
	"strings"
	"time"

	"github.com/jetsales/jetsales/internal/catalog"
)

// Accepted datetime layouts, in the order the sources emit them.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02",
}

var ageBinEdges = []int{0, 20, 30, 40, 50, 60, 100}

// Customers normalizes the raw customer row-set. Customers with a missing or
// blank birthdate are kept with an undefined age; unparseable birthdates fail
// with a DateParseError.
func Customers(records []catalog.CustomerRecord, now time.Time) ([]Customer, Stats, error) {
	var stats Stats
	customers := make([]Customer, 0, len(records))
	for _, rec := range records {
		c := Customer{
			Name:    rec.Name,
			Email:   rec.Email,
			Phone:   rec.Phone,
			Address: rec.Address,
		}
		c.CustomerID = parseID(rec.CustomerID, &stats)

		if strings.TrimSpace(rec.Birthdate) == "" {
			stats.NoBirthdate++
			c.Age = -1
			c.AgeGroup = AgeGroupNone
			customers = append(customers, c)
			continue
		}
		birth, err := ParseDate(rec.Birthdate)
		if err != nil {
			return nil, stats, &DateParseError{Field: "birthdate", Value: rec.Birthdate}
		}
		c.Birthdate = birth
		c.HasBirth = true
		c.Age = AgeAt(birth, now)
		c.AgeGroup = GroupAge(c.Age)
		customers = append(customers, c)
	}
	return customers, stats, nil
}

// Products normalizes the raw product row-set. Malformed prices and stocks
// default to zero and are counted.
func Products(records []catalog.ProductRecord) ([]Product, Stats) {
	var stats Stats
	products := make([]Product, 0, len(records))
	for _, rec := range records {
		p := Product{
			Name:        rec.Name,
			Description: rec.Description,
		}
		p.ProductID = parseID(rec.ProductID, &stats)
		p.Price = parseMoney(rec.Price, &stats)
		p.Stock = parseCount(rec.Stock, &stats)
		products = append(products, p)
	}
	return products, stats
}

// OrderLines normalizes the order detail row-set and derives the calendar
// fields. A row with an unparseable order date aborts the pass with a
// DateParseError carrying the offending value.
func OrderLines(records []catalog.OrderLineRecord) ([]OrderLine, Stats, error) {
	var stats Stats
	lines := make([]OrderLine, 0, len(records))
	for _, rec := range records {
		date, err := ParseDate(rec.OrderDate)
		if err != nil {
			return nil, stats, &DateParseError{Field: "order_date", Value: rec.OrderDate}
		}
		line := OrderLine{
			OrderDate:    date,
			CustomerName: rec.CustomerName,
			ProductName:  rec.ProductName,
			Phone:        rec.Phone,
		}
		line.OrderDetailID = parseID(rec.OrderDetailID, &stats)
		line.OrderID = parseID(rec.OrderID, &stats)
		line.CustomerID = parseID(rec.CustomerID, &stats)
		line.ProductID = parseID(rec.ProductID, &stats)
		line.UnitPrice = parseMoney(rec.UnitPrice, &stats)
		line.Quantity = parseCount(rec.Quantity, &stats)
		line.Subtotal = parseMoney(rec.Subtotal, &stats)
		line.OrderTotal = parseMoney(rec.OrderTotal, &stats)

		line.Year = date.Year()
		line.Month = int(date.Month())
		line.MonthName = date.Month().String()
		line.DayName = date.Weekday().String()
		line.Hour = date.Hour()
		lines = append(lines, line)
	}
	return lines, stats, nil
}

// ParseDate tries the known source layouts.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// AgeAt computes age as whole days floor-divided by 365, not calendar year
// arithmetic.
func AgeAt(birthdate, now time.Time) int {
	days := int(now.Sub(birthdate).Hours()) / 24
	if days < 0 && days%365 != 0 {
		return days/365 - 1
	}
	return days / 365
}

// GroupAge maps an age onto its band. Ages outside [0, 100] stay ungrouped.
func GroupAge(age int) AgeGroup {
	if age < ageBinEdges[0] || age > ageBinEdges[len(ageBinEdges)-1] {
		return AgeGroupNone
	}
	for i := 0; i < len(AgeGroups)-1; i++ {
		if age < ageBinEdges[i+1] {
			return AgeGroups[i]
		}
	}
	return AgeGroup60Plus
}

func parseID(raw string, stats *Stats) int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		stats.Identifier++
		return 0
	}
	return v
}

func parseMoney(raw string, stats *Stats) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		stats.Money++
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		stats.Money++
		return 0
	}
	return v
}

func parseCount(raw string, stats *Stats) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		stats.Quantity++
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		// Sources sometimes hand back "3.0" style numerics.
		f, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil {
			stats.Quantity++
			return 0
		}
		return int(f)
	}
	return v
}
