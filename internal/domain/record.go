package domain

import (
	"time"
)

// OrderRecord is one day of orders for a city under a weather condition.
type OrderRecord struct {
	Date          time.Time `json:"date"`
	City          string    `json:"city"`
	Weather       string    `json:"weather"`
	Orders        int       `json:"orders"`
	AvgOrderValue float64   `json:"avg_order_value"`
}

// Labels returns the distinct cities and weather conditions in first-seen order.
func Labels(records []OrderRecord) (cities, conditions []string) {
	seenCity := make(map[string]struct{})
	seenCond := make(map[string]struct{})
	for i := range records {
		r := &records[i]
		if _, ok := seenCity[r.City]; !ok {
			seenCity[r.City] = struct{}{}
			cities = append(cities, r.City)
		}
		if _, ok := seenCond[r.Weather]; !ok {
			seenCond[r.Weather] = struct{}{}
			conditions = append(conditions, r.Weather)
		}
	}
	return cities, conditions
}

// MaxDate returns the latest date in records, or the zero time if there are none.
func MaxDate(records []OrderRecord) time.Time {
	var latest time.Time
	for i := range records {
		if records[i].Date.After(latest) {
			latest = records[i].Date
		}
	}
	return latest
}

// FilterByCity returns the records for city, preserving order.
func FilterByCity(records []OrderRecord, city string) []OrderRecord {
	return filter(records, func(r *OrderRecord) bool { return r.City == city })
}

func filter(records []OrderRecord, keep func(*OrderRecord) bool) []OrderRecord {
	var out []OrderRecord
	for i := range records {
		if keep(&records[i]) {
			out = append(out, records[i])
		}
	}
	return out
}

// NormalizeDate truncates t to midnight UTC of its calendar day.
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
