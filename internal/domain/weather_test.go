package domain

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	obs   Observation
	err   error
	block bool
	calls int
	city  string
}

func (s *stubProvider) CurrentWeather(ctx context.Context, city string) (Observation, error) {
	s.calls++
	s.city = city
	if s.block {
		<-ctx.Done()
		return Observation{}, ctx.Err()
	}
	return s.obs, s.err
}

func TestResolveWeather_NilProvider(t *testing.T) {
	res := ResolveWeather(context.Background(), nil, "Mumbai", time.Second, &scriptedRand{ints: []int{4, 2}}, discardLogger())

	assert.Equal(t, SourceFallback, res.Source)
	require.NoError(t, res.Err)
	assert.Equal(t, 29.0, res.Observation.TemperatureC)
	assert.Equal(t, "Rain", res.Observation.Condition)
}

func TestResolveWeather_ProviderSuccess(t *testing.T) {
	provider := &stubProvider{obs: Observation{TemperatureC: 31.2, Condition: "Clouds"}}

	res := ResolveWeather(context.Background(), provider, "Delhi", time.Second, &scriptedRand{}, discardLogger())

	assert.Equal(t, SourceProvider, res.Source)
	require.NoError(t, res.Err)
	assert.Equal(t, Observation{TemperatureC: 31.2, Condition: "Clouds"}, res.Observation)
	assert.Equal(t, "Delhi", provider.city)
}

func TestResolveWeather_ProviderError(t *testing.T) {
	provider := &stubProvider{err: errors.New("status 401")}

	res := ResolveWeather(context.Background(), provider, "Delhi", time.Second, &scriptedRand{ints: []int{0, 0}}, discardLogger())

	assert.Equal(t, SourceFallback, res.Source)
	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "401")
	assert.Equal(t, 25.0, res.Observation.TemperatureC)
	assert.Equal(t, "Clear", res.Observation.Condition)
}

func TestResolveWeather_IncompleteObservation(t *testing.T) {
	provider := &stubProvider{obs: Observation{TemperatureC: 30}}

	res := ResolveWeather(context.Background(), provider, "Delhi", time.Second, &scriptedRand{}, discardLogger())

	assert.Equal(t, SourceFallback, res.Source)
	assert.True(t, errors.Is(res.Err, ErrIncompleteObservation))
	assert.NotEmpty(t, res.Observation.Condition)
}

func TestResolveWeather_Timeout(t *testing.T) {
	provider := &stubProvider{block: true}

	start := time.Now()
	res := ResolveWeather(context.Background(), provider, "Delhi", 20*time.Millisecond, &scriptedRand{}, discardLogger())

	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, SourceFallback, res.Source)
	assert.True(t, errors.Is(res.Err, context.DeadlineExceeded))
}

func TestFallbackObservation_Range(t *testing.T) {
	rng := NewRand(17)
	seen := map[string]bool{}

	for range 300 {
		obs := FallbackObservation(rng)
		assert.GreaterOrEqual(t, obs.TemperatureC, float64(FallbackMinTempC))
		assert.LessOrEqual(t, obs.TemperatureC, float64(FallbackMaxTempC))
		assert.Equal(t, obs.TemperatureC, float64(int(obs.TemperatureC)))
		assert.Contains(t, FallbackConditions, obs.Condition)
		seen[obs.Condition] = true
	}
	assert.Len(t, seen, len(FallbackConditions))
}

func TestFallbackObservation_ClockSeededSourcesDiffer(t *testing.T) {
	t.Cleanup(func() { SetClock(nil) })

	draw := func(at time.Time) []Observation {
		SetClock(clockwork.NewFakeClockAt(at))
		rng := SeededRand(0)
		out := make([]Observation, 20)
		for i := range out {
			out[i] = FallbackObservation(rng)
		}
		return out
	}

	first := draw(time.Date(2024, 8, 15, 9, 0, 0, 0, time.UTC))
	second := draw(time.Date(2024, 8, 15, 9, 0, 0, 1, time.UTC))
	assert.NotEqual(t, first, second)
}
