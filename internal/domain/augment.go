package domain

import (
	"fmt"
	"slices"
)

// AugmentStats summarizes one augmentation run.
type AugmentStats struct {
	Original  int
	Generated int
	Tiers     map[SampleTier]int
}

// Augment grows records to targetTotal rows with synthetic records and returns
// the combined collection sorted by date. See AugmentDetailed.
func Augment(records []OrderRecord, targetTotal int, rng Rand) ([]OrderRecord, error) {
	out, _, err := AugmentDetailed(records, targetTotal, rng)
	return out, err
}

// AugmentDetailed returns records unchanged when len(records) >= targetTotal.
// Otherwise it generates the missing rows, each drawing city and weather
// uniformly from the distinct labels of records, and returns the original rows
// followed by the synthetic ones, stable-sorted by date. The input slice is
// never modified.
func AugmentDetailed(records []OrderRecord, targetTotal int, rng Rand) ([]OrderRecord, AugmentStats, error) {
	stats := AugmentStats{Original: len(records), Tiers: make(map[SampleTier]int)}

	needed := targetTotal - len(records)
	if needed <= 0 {
		return records, stats, nil
	}
	if len(records) == 0 {
		return nil, stats, fmt.Errorf("augment to %d rows: %w", targetTotal, ErrEmptyDataset)
	}

	cities, conditions := Labels(records)
	lastDate := MaxDate(records)

	combined := make([]OrderRecord, 0, targetTotal)
	combined = append(combined, records...)

	for range needed {
		city := pick(rng, cities)
		weather := pick(rng, conditions)

		ref, tier, err := SampleReferenceTier(records, city, weather, rng)
		if err != nil {
			return nil, stats, fmt.Errorf("sample reference: %w", err)
		}
		stats.Tiers[tier]++

		orders, value := Perturb(ref, rng)
		combined = append(combined, OrderRecord{
			Date:          AssignDate(lastDate, rng),
			City:          city,
			Weather:       weather,
			Orders:        orders,
			AvgOrderValue: value,
		})
	}
	stats.Generated = needed

	slices.SortStableFunc(combined, func(a, b OrderRecord) int {
		return a.Date.Compare(b.Date)
	})

	return combined, stats, nil
}
