package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleReference_EmptyDataset(t *testing.T) {
	_, err := SampleReference(nil, "Mumbai", "Rain", &scriptedRand{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptyDataset))
}

func TestSampleReferenceTier_Stratum(t *testing.T) {
	records := sampleRecords()

	// Second matching row: Mumbai/Rain on 2024-07-03.
	ref, tier, err := SampleReferenceTier(records, "Mumbai", "Rain", &scriptedRand{ints: []int{1}})
	require.NoError(t, err)
	assert.Equal(t, TierStratum, tier)
	assert.Equal(t, 440, ref.Orders)
	assert.Equal(t, day(2024, 7, 3), ref.Date)
}

func TestSampleReferenceTier_CityFallback(t *testing.T) {
	records := sampleRecords()

	// Delhi has never seen Rain, so the draw comes from Delhi's rows only.
	for seed := uint64(1); seed <= 50; seed++ {
		ref, tier, err := SampleReferenceTier(records, "Delhi", "Rain", NewRand(seed))
		require.NoError(t, err)
		assert.Equal(t, TierCity, tier)
		assert.Equal(t, "Delhi", ref.City)
	}
}

func TestSampleReferenceTier_GlobalFallback(t *testing.T) {
	records := sampleRecords()

	ref, tier, err := SampleReferenceTier(records, "Pune", "Rain", &scriptedRand{ints: []int{3}})
	require.NoError(t, err)
	assert.Equal(t, TierGlobal, tier)
	assert.Equal(t, records[3], ref)
}

func TestSampleReferenceTier_StratumOnlyReturnsMatches(t *testing.T) {
	records := sampleRecords()

	for seed := uint64(1); seed <= 50; seed++ {
		ref, err := SampleReference(records, "Delhi", "Clear", NewRand(seed))
		require.NoError(t, err)
		assert.Equal(t, "Delhi", ref.City)
		assert.Equal(t, "Clear", ref.Weather)
	}
}

func TestSampleTier_String(t *testing.T) {
	assert.Equal(t, "stratum", TierStratum.String())
	assert.Equal(t, "city", TierCity.String())
	assert.Equal(t, "global", TierGlobal.String())
	assert.Equal(t, "unknown", SampleTier(9).String())
}
