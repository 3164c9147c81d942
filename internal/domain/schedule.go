package domain

import "time"

// MaxSyntheticOffsetDays is the largest number of days a synthetic record may
// be dated after the latest observed date.
const MaxSyntheticOffsetDays = 59

// AssignDate returns maxObserved plus a uniform offset of 1 to
// MaxSyntheticOffsetDays days. Collisions between synthetic dates are allowed.
func AssignDate(maxObserved time.Time, rng Rand) time.Time {
	days := 1 + rng.IntN(MaxSyntheticOffsetDays)
	return maxObserved.AddDate(0, 0, days)
}
