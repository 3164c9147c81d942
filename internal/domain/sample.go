package domain

// SampleTier identifies which fallback level served a reference draw.
type SampleTier int

const (
	// TierStratum drew from records matching both city and weather.
	TierStratum SampleTier = iota
	// TierCity drew from records matching the city only.
	TierCity
	// TierGlobal drew from the whole collection.
	TierGlobal
)

func (t SampleTier) String() string {
	switch t {
	case TierStratum:
		return "stratum"
	case TierCity:
		return "city"
	case TierGlobal:
		return "global"
	default:
		return "unknown"
	}
}

// SampleReference selects a record to serve as the template for a synthetic
// record in the (city, weather) stratum. See SampleReferenceTier.
func SampleReference(records []OrderRecord, city, weather string, rng Rand) (OrderRecord, error) {
	ref, _, err := SampleReferenceTier(records, city, weather, rng)
	return ref, err
}

// SampleReferenceTier draws uniformly from the first non-empty of: records
// matching city and weather, records matching city, all records. City-specific
// behavior wins over the weather correlation, which in turn wins over an
// unconditioned draw. Returns ErrEmptyDataset when records is empty.
func SampleReferenceTier(records []OrderRecord, city, weather string, rng Rand) (OrderRecord, SampleTier, error) {
	if len(records) == 0 {
		return OrderRecord{}, TierGlobal, ErrEmptyDataset
	}

	if subset := filter(records, func(r *OrderRecord) bool {
		return r.City == city && r.Weather == weather
	}); len(subset) > 0 {
		return pick(rng, subset), TierStratum, nil
	}

	if subset := FilterByCity(records, city); len(subset) > 0 {
		return pick(rng, subset), TierCity, nil
	}

	return pick(rng, records), TierGlobal, nil
}
