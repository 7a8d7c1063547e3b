package analytics

import (
	"sort"
	"time"

	"github.com/jetsales/jetsales/internal/normalize"
)

// Granularity selects the calendar bucket for time series aggregation.
type Granularity string

const (
	GranularityDaily   Granularity = "daily"
	GranularityWeekly  Granularity = "weekly"
	GranularityMonthly Granularity = "monthly"
)

// TimePoint is one bucket of the revenue/orders series.
type TimePoint struct {
	Date    time.Time `json:"date"`
	Revenue float64   `json:"revenue"`
	Orders  int       `json:"orders"`
	Items   int       `json:"items"`
}

// TimeSeries buckets order lines by the granularity, summing revenue and items
// and counting distinct orders per bucket. Only observed buckets appear; the
// result is sorted ascending by bucket start.
func TimeSeries(lines []normalize.OrderLine, g Granularity) []TimePoint {
	index := make(map[time.Time]int)
	orders := make(map[time.Time]map[int64]struct{})
	out := make([]TimePoint, 0)
	for _, line := range lines {
		bucket := truncate(line.OrderDate, g)
		i, ok := index[bucket]
		if !ok {
			i = len(out)
			index[bucket] = i
			orders[bucket] = make(map[int64]struct{})
			out = append(out, TimePoint{Date: bucket})
		}
		out[i].Revenue += line.Subtotal
		out[i].Items += line.Quantity
		if _, seen := orders[bucket][line.OrderID]; !seen {
			orders[bucket][line.OrderID] = struct{}{}
			out[i].Orders++
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// truncate maps a timestamp to its bucket start: the day, the Monday of its ISO
// week, or the first of its month.
func truncate(t time.Time, g Granularity) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	switch g {
	case GranularityWeekly:
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case GranularityMonthly:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	default:
		return day
	}
}
