package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Basis values describe which rows an estimate was averaged over.
const (
	BasisWeather = "weather"
	BasisCity    = "city"
)

// Estimation is the detailed result of EstimateDetailed.
type Estimation struct {
	ExpectedOrders int
	Basis          string
	SampleSize     int
}

// Estimate returns the expected order count for a city under condition. See
// EstimateDetailed.
func Estimate(cityRecords []OrderRecord, condition string) (int, error) {
	est, err := EstimateDetailed(cityRecords, condition)
	return est.ExpectedOrders, err
}

// EstimateDetailed averages orders over the rows of cityRecords whose weather
// equals condition, falling back to all of cityRecords when none match. The
// mean is truncated to an integer. Returns ErrNoData when cityRecords is empty.
func EstimateDetailed(cityRecords []OrderRecord, condition string) (Estimation, error) {
	if len(cityRecords) == 0 {
		return Estimation{}, ErrNoData
	}

	subset := filter(cityRecords, func(r *OrderRecord) bool { return r.Weather == condition })
	basis := BasisWeather
	if len(subset) == 0 {
		subset = cityRecords
		basis = BasisCity
	}

	return Estimation{
		ExpectedOrders: meanOrders(subset),
		Basis:          basis,
		SampleSize:     len(subset),
	}, nil
}

// meanOrders returns the truncated mean of orders. records must be non-empty.
func meanOrders(records []OrderRecord) int {
	var sum int
	for i := range records {
		sum += records[i].Orders
	}
	return sum / len(records)
}

// DemandEstimate is the outcome of the estimation pipeline for one city.
type DemandEstimate struct {
	ID             string    `json:"id"`
	City           string    `json:"city"`
	Condition      string    `json:"condition"`
	TemperatureC   float64   `json:"temperature_c"`
	WeatherSource  string    `json:"weather_source"` // "provider", "fallback" or "override"
	ExpectedOrders int       `json:"expected_orders"`
	Basis          string    `json:"basis"` // "weather" or "city"
	SampleSize     int       `json:"sample_size"`
	ForDate        time.Time `json:"for_date"`
	EstimatedAt    time.Time `json:"estimated_at"`
}

// NewDemandEstimate combines an estimation with the weather it was made for,
// stamped with today's date from the package clock.
func NewDemandEstimate(city string, weather WeatherResult, est Estimation) DemandEstimate {
	now := clock.Now().UTC()
	forDate := NormalizeDate(now)
	return DemandEstimate{
		ID:             estimateID(city, weather.Observation.Condition, forDate),
		City:           city,
		Condition:      weather.Observation.Condition,
		TemperatureC:   weather.Observation.TemperatureC,
		WeatherSource:  weather.Source,
		ExpectedOrders: est.ExpectedOrders,
		Basis:          est.Basis,
		SampleSize:     est.SampleSize,
		ForDate:        forDate,
		EstimatedAt:    now,
	}
}

// estimateID is deterministic per city, condition, and day so repeated
// snapshots of the same day collapse downstream.
func estimateID(city, condition string, day time.Time) string {
	input := fmt.Sprintf("%s|%s|%s", city, condition, day.Format(time.DateOnly))
	hash := sha256.Sum256([]byte(input))
	return hex.EncodeToString(hash[:8])
}
