package domain

import "math"

// NoiseBound is the half-width of the multiplicative noise applied to
// reference values: factors are drawn uniformly from [-NoiseBound, NoiseBound).
const NoiseBound = 0.15

// Perturb derives synthetic order count and average order value from ref by
// independent multiplicative noise. Results are truncated toward zero and
// clamped at zero.
func Perturb(ref OrderRecord, rng Rand) (orders int, avgOrderValue float64) {
	noiseOrders := uniform(rng, -NoiseBound, NoiseBound)
	noiseValue := uniform(rng, -NoiseBound, NoiseBound)

	orders = int(float64(ref.Orders) * (1 + noiseOrders))
	avgOrderValue = math.Trunc(ref.AvgOrderValue * (1 + noiseValue))

	return max(orders, 0), math.Max(avgOrderValue, 0)
}
