// Command genmock writes a seed order dataset for local runs and tests. Orders
// follow a per-city baseline scaled by weather so that estimates conditioned
// on weather differ visibly from the city mean.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -out data/zomato_orders.csv \
//	  -start 2024-07-01 -days 30 \
//	  -cities Mumbai,Delhi,Bengaluru
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/couchcryptid/order-demand/internal/adapter/csvstore"
	"github.com/couchcryptid/order-demand/internal/domain"
)

// cityProfile is the baseline demand for a city.
type cityProfile struct {
	orders float64
	value  float64
}

var profiles = map[string]cityProfile{
	"Mumbai":    {orders: 410, value: 360},
	"Delhi":     {orders: 340, value: 330},
	"Bengaluru": {orders: 380, value: 430},
	"Hyderabad": {orders: 300, value: 310},
	"Chennai":   {orders: 290, value: 300},
	"Kolkata":   {orders: 260, value: 280},
	"Pune":      {orders: 250, value: 320},
}

var defaultProfile = cityProfile{orders: 250, value: 300}

// weatherEffect scales baseline orders. Rain keeps people home.
var weatherEffect = map[string]float64{
	"Rain":   1.18,
	"Clouds": 1.0,
	"Clear":  0.85,
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output path for the generated CSV")
	start := flag.String("start", "2024-07-01", "first date (YYYY-MM-DD)")
	days := flag.Int("days", 30, "number of consecutive days")
	cities := flag.String("cities", "Mumbai,Delhi,Bengaluru", "comma-separated city names")
	seed := flag.Uint64("seed", 42, "random seed")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}
	if *days <= 0 {
		return fmt.Errorf("-days must be positive, got %d", *days)
	}

	startDate, err := time.Parse(time.DateOnly, *start)
	if err != nil {
		return fmt.Errorf("parse -start: %w", err)
	}

	names := splitCities(*cities)
	if len(names) == 0 {
		return fmt.Errorf("no cities given")
	}

	records := generate(startDate, *days, names, domain.NewRand(*seed))

	store := csvstore.New(*out, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err := store.Save(context.Background(), records); err != nil {
		return fmt.Errorf("writing dataset: %w", err)
	}
	log.Printf("wrote %d records to %s", len(records), *out)

	printStats(records)
	return nil
}

func splitCities(s string) []string {
	var names []string
	for _, part := range strings.Split(s, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// generate emits one row per city per day in date order.
func generate(start time.Time, days int, cities []string, rng domain.Rand) []domain.OrderRecord {
	conditions := domain.FallbackConditions
	records := make([]domain.OrderRecord, 0, days*len(cities))

	for d := range days {
		date := start.AddDate(0, 0, d)
		for _, city := range cities {
			p, ok := profiles[city]
			if !ok {
				p = defaultProfile
			}
			weather := conditions[rng.IntN(len(conditions))]

			orders := p.orders * weatherEffect[weather] * jitter(rng, 0.08)
			value := p.value * jitter(rng, 0.05)
			records = append(records, domain.OrderRecord{
				Date:          date,
				City:          city,
				Weather:       weather,
				Orders:        int(math.Round(orders)),
				AvgOrderValue: math.Round(value),
			})
		}
	}
	return records
}

// jitter returns a multiplier in [1-spread, 1+spread).
func jitter(rng domain.Rand, spread float64) float64 {
	return 1 - spread + 2*spread*rng.Float64()
}

func printStats(records []domain.OrderRecord) {
	cities, conditions := domain.Labels(records)
	sort.Strings(conditions)

	fmt.Println()
	fmt.Printf("%-12s", "city")
	for _, c := range conditions {
		fmt.Printf(" %8s", c)
	}
	fmt.Printf(" %8s\n", "all")

	for _, city := range cities {
		cityRecords := domain.FilterByCity(records, city)
		fmt.Printf("%-12s", city)
		for _, c := range conditions {
			est, err := domain.EstimateDetailed(cityRecords, c)
			if err != nil || est.Basis != domain.BasisWeather {
				fmt.Printf(" %8s", "-")
				continue
			}
			fmt.Printf(" %8d", est.ExpectedOrders)
		}
		all, _ := domain.EstimateDetailed(cityRecords, "")
		fmt.Printf(" %8d\n", all.ExpectedOrders)
	}
}
