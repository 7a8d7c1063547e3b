package analytics

import (
	"sort"

	"github.com/jetsales/jetsales/internal/normalize"
)

// Fixed reference orderings for categorical reindexing. Charts need calendar
// order, not alphabetical or first-seen order.
var (
	WeekdayOrder = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	MonthOrder   = []string{"January", "February", "March", "April", "May", "June", "July", "August", "September", "October", "November", "December"}
)

// CategoryPoint is one labelled value of a categorical aggregate.
type CategoryPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// RevenueByWeekday sums revenue per day name, reindexed onto Monday..Sunday
// with absent days filled with 0. Always returns exactly 7 entries.
func RevenueByWeekday(lines []normalize.OrderLine) []CategoryPoint {
	sums := make(map[string]float64)
	for _, line := range lines {
		sums[line.DayName] += line.Subtotal
	}
	return reindex(WeekdayOrder, sums)
}

// OrdersByWeekday counts distinct orders per day name, reindexed onto
// Monday..Sunday. Always returns exactly 7 entries.
func OrdersByWeekday(lines []normalize.OrderLine) []CategoryPoint {
	orders := make(map[string]map[int64]struct{})
	for _, line := range lines {
		if orders[line.DayName] == nil {
			orders[line.DayName] = make(map[int64]struct{})
		}
		orders[line.DayName][line.OrderID] = struct{}{}
	}
	counts := make(map[string]float64, len(orders))
	for day, ids := range orders {
		counts[day] = float64(len(ids))
	}
	return reindex(WeekdayOrder, counts)
}

// RevenueByHour sums revenue per hour of day. Only observed hours appear,
// sorted ascending.
func RevenueByHour(lines []normalize.OrderLine) []HourPoint {
	sums := make(map[int]float64)
	for _, line := range lines {
		sums[line.Hour] += line.Subtotal
	}
	out := make([]HourPoint, 0, len(sums))
	for hour, revenue := range sums {
		out = append(out, HourPoint{Hour: hour, Revenue: revenue})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Hour < out[j].Hour })
	return out
}

// HourPoint is one hour-of-day revenue bucket.
type HourPoint struct {
	Hour    int     `json:"hour"`
	Revenue float64 `json:"revenue"`
}

// BirthMonthCounts counts customers per birth month, reindexed onto
// January..December. Customers without a birthdate are skipped. Always returns
// exactly 12 entries.
func BirthMonthCounts(customers []normalize.Customer) []CategoryPoint {
	counts := make(map[string]float64)
	for _, c := range customers {
		if !c.HasBirth {
			continue
		}
		counts[c.Birthdate.Month().String()]++
	}
	return reindex(MonthOrder, counts)
}

// AgeDistribution counts customers per age group in band order. With zeroFill
// the result always holds all six bands; otherwise only observed bands appear.
// Customers with an undefined age group are excluded either way.
func AgeDistribution(customers []normalize.Customer, zeroFill bool) []CategoryPoint {
	counts := make(map[normalize.AgeGroup]float64)
	for _, c := range customers {
		if c.AgeGroup == normalize.AgeGroupNone {
			continue
		}
		counts[c.AgeGroup]++
	}
	out := make([]CategoryPoint, 0, len(normalize.AgeGroups))
	for _, group := range normalize.AgeGroups {
		value, ok := counts[group]
		if !ok && !zeroFill {
			continue
		}
		out = append(out, CategoryPoint{Label: string(group), Value: value})
	}
	return out
}

// Heatmap is the weekday x month revenue matrix. Days holds the fixed 7-row
// ordering; Months is restricted to months present in the data, in calendar
// order. Cells[d][m] pairs Days[d] with Months[m]; missing cells are 0.
type Heatmap struct {
	Days   []string    `json:"days"`
	Months []string    `json:"months"`
	Cells  [][]float64 `json:"cells"`
}

// RevenueHeatmap pivots revenue by (day name, month name).
func RevenueHeatmap(lines []normalize.OrderLine) Heatmap {
	sums := make(map[[2]string]float64)
	present := make(map[string]bool)
	for _, line := range lines {
		sums[[2]string{line.DayName, line.MonthName}] += line.Subtotal
		present[line.MonthName] = true
	}

	months := make([]string, 0, len(present))
	for _, m := range MonthOrder {
		if present[m] {
			months = append(months, m)
		}
	}

	cells := make([][]float64, len(WeekdayOrder))
	for d, day := range WeekdayOrder {
		cells[d] = make([]float64, len(months))
		for m, month := range months {
			cells[d][m] = sums[[2]string{day, month}]
		}
	}
	days := make([]string, len(WeekdayOrder))
	copy(days, WeekdayOrder)
	return Heatmap{Days: days, Months: months, Cells: cells}
}

func reindex(order []string, values map[string]float64) []CategoryPoint {
	out := make([]CategoryPoint, 0, len(order))
	for _, label := range order {
		out = append(out, CategoryPoint{Label: label, Value: values[label]})
	}
	return out
}
