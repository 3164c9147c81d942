// Package domain models daily food-order records and the two pieces of decision
// logic built on them: synthetic dataset augmentation and weather-conditioned
// demand estimation.
//
// # Dataset Conventions
//
// Each row is one (date, city, weather) observation:
//
//	date,city,weather,orders,avg_order_value
//	2024-07-01,Mumbai,Rain,412,356
//
// Cities and weather conditions are free-form labels. The sets of labels seen in
// the loaded dataset are the only labels synthetic rows may carry; nothing in
// this package invents a city or a condition.
//
// # Augmentation
//
// Synthetic rows are produced one at a time:
//
//  1. draw a city and a condition uniformly from the distinct label sets,
//  2. pick a reference row with a three-tier fallback (stratum, city, global),
//  3. perturb its orders and average order value by independent ±15% noise,
//     clamping at zero,
//  4. date it 1–59 days after the latest observed date.
//
// Drawing labels uniformly over distinct values oversamples rare cities
// relative to their true frequency. The reference row keeps the real
// weather/volume correlation; the two noise draws are independent, so order
// count and order value may drift apart.
//
// # Estimation
//
// The expected order count for a city is the truncated mean of historical
// orders on days with the same weather, or over all of the city's days when the
// condition was never observed there. The current condition comes from a
// [WeatherProvider]; when the provider is absent, fails, or returns an
// incomplete observation, a random fallback observation is used instead and the
// fallback is reported in the [WeatherResult].
//
// # Randomness
//
// Every random draw goes through an injected [Rand]. Production code seeds a
// PCG source via [NewRand]; tests pass scripted sources.
package domain
