// Command validate checks an augmented order dataset against the original it
// was grown from. It verifies that every original row survives, that rows are
// sorted by date, that synthetic rows reuse known labels, stay non-negative,
// and fall inside the synthetic date window.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -original data/mock/zomato_orders.csv \
//	  -augmented data/zomato_orders.csv
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"time"

	"github.com/couchcryptid/order-demand/internal/adapter/csvstore"
	"github.com/couchcryptid/order-demand/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	originalPath := flag.String("original", "", "path to the original dataset CSV")
	augmentedPath := flag.String("augmented", "", "path to the augmented dataset CSV")
	flag.Parse()

	if *originalPath == "" || *augmentedPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*originalPath, *augmentedPath); code != 0 {
		os.Exit(code)
	}
}

func run(originalPath, augmentedPath string) int {
	fmt.Println("=== Order Dataset Augmentation Validation ===")
	fmt.Println()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	original, err := csvstore.New(originalPath, logger).Load(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load original: %v\n", err)
		return 1
	}
	augmented, err := csvstore.New(augmentedPath, logger).Load(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load augmented: %v\n", err)
		return 1
	}

	containment, synthetic := validateContainment(original, augmented)

	// ── Run validation phases ──
	phases := []*phase{
		containment,
		validateSortOrder(augmented),
		validateLabels(original, synthetic),
		validateNonNegative(augmented),
		validateDateWindow(original, synthetic),
	}

	// ── Report results ──
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d original, %d augmented, %d synthetic\n",
		len(original), len(augmented), len(synthetic))

	// Print detailed errors.
	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			if i >= 20 {
				fmt.Printf("  ... and %d more\n", len(p.errors)-20)
				break
			}
			fmt.Printf("  %s\n", e)
		}
	}

	if !allPassed {
		return 1
	}
	return 0
}

// validateContainment checks that every original row occurs in the augmented
// dataset, counting duplicates. The unmatched augmented rows are returned as
// the synthetic rows.
func validateContainment(original, augmented []domain.OrderRecord) (*phase, []domain.OrderRecord) {
	p := &phase{name: "Original rows preserved"}

	remaining := make(map[domain.OrderRecord]int, len(augmented))
	for _, r := range augmented {
		remaining[r]++
	}
	for i, r := range original {
		if remaining[r] == 0 {
			p.errorf("original row %d missing: %s %s %s orders=%d", i+1,
				r.Date.Format(time.DateOnly), r.City, r.Weather, r.Orders)
			continue
		}
		remaining[r]--
	}

	synthetic := make([]domain.OrderRecord, 0, max(0, len(augmented)-len(original)))
	for _, r := range augmented {
		if remaining[r] > 0 {
			synthetic = append(synthetic, r)
			remaining[r]--
		}
	}
	return p, synthetic
}

func validateSortOrder(records []domain.OrderRecord) *phase {
	p := &phase{name: "Rows sorted by date"}
	if !slices.IsSortedFunc(records, func(a, b domain.OrderRecord) int { return a.Date.Compare(b.Date) }) {
		for i := 1; i < len(records); i++ {
			if records[i].Date.Before(records[i-1].Date) {
				p.errorf("row %d (%s) precedes row %d (%s)", i+1, records[i].Date.Format(time.DateOnly),
					i, records[i-1].Date.Format(time.DateOnly))
			}
		}
	}
	return p
}

func validateLabels(original, synthetic []domain.OrderRecord) *phase {
	p := &phase{name: "Synthetic labels drawn from original"}
	cities, conditions := domain.Labels(original)
	for _, r := range synthetic {
		if !slices.Contains(cities, r.City) {
			p.errorf("unknown city %q on %s", r.City, r.Date.Format(time.DateOnly))
		}
		if !slices.Contains(conditions, r.Weather) {
			p.errorf("unknown weather %q on %s", r.Weather, r.Date.Format(time.DateOnly))
		}
	}
	return p
}

func validateNonNegative(records []domain.OrderRecord) *phase {
	p := &phase{name: "Orders and order values non-negative"}
	for i, r := range records {
		if r.Orders < 0 {
			p.errorf("row %d: orders=%d", i+1, r.Orders)
		}
		if r.AvgOrderValue < 0 {
			p.errorf("row %d: avg_order_value=%g", i+1, r.AvgOrderValue)
		}
	}
	return p
}

func validateDateWindow(original, synthetic []domain.OrderRecord) *phase {
	p := &phase{name: "Synthetic dates after original window"}
	last := domain.MaxDate(original)
	first := last.AddDate(0, 0, 1)
	limit := last.AddDate(0, 0, domain.MaxSyntheticOffsetDays)
	for _, r := range synthetic {
		if r.Date.Before(first) || r.Date.After(limit) {
			p.errorf("%s %s dated %s, want %s..%s", r.City, r.Weather, r.Date.Format(time.DateOnly),
				first.Format(time.DateOnly), limit.Format(time.DateOnly))
		}
	}
	return p
}
