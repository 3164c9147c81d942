package domain

import (
	"io"
	"log/slog"
	"time"
)

// scriptedRand replays fixed draws. Once a script runs out, Float64 returns 0.5
// and IntN returns 0.
type scriptedRand struct {
	floats []float64
	ints   []int
}

func (s *scriptedRand) Float64() float64 {
	if len(s.floats) == 0 {
		return 0.5
	}
	f := s.floats[0]
	s.floats = s.floats[1:]
	return f
}

func (s *scriptedRand) IntN(n int) int {
	if len(s.ints) == 0 {
		return 0
	}
	i := s.ints[0]
	s.ints = s.ints[1:]
	return i % n
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// sampleRecords is a small two-city dataset with a visible rain effect.
func sampleRecords() []OrderRecord {
	return []OrderRecord{
		{Date: day(2024, 7, 1), City: "Mumbai", Weather: "Rain", Orders: 420, AvgOrderValue: 360},
		{Date: day(2024, 7, 1), City: "Delhi", Weather: "Clear", Orders: 250, AvgOrderValue: 310},
		{Date: day(2024, 7, 2), City: "Mumbai", Weather: "Clear", Orders: 300, AvgOrderValue: 320},
		{Date: day(2024, 7, 2), City: "Delhi", Weather: "Clouds", Orders: 270, AvgOrderValue: 305},
		{Date: day(2024, 7, 3), City: "Mumbai", Weather: "Rain", Orders: 440, AvgOrderValue: 372},
		{Date: day(2024, 7, 4), City: "Delhi", Weather: "Clear", Orders: 240, AvgOrderValue: 298},
	}
}
