package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyDataset is returned when a reference record is requested from an
	// empty collection.
	ErrEmptyDataset = errors.New("empty dataset")

	// ErrNoData is returned when an estimate is requested for a city with no
	// records. A zero estimate would be indistinguishable from a real zero-order day.
	ErrNoData = errors.New("no data")

	// ErrIncompleteObservation marks a provider response without a usable condition.
	ErrIncompleteObservation = errors.New("incomplete weather observation")
)

// LoadError reports an unreadable or malformed dataset. Line is the 1-based
// line in the source, or 0 when the failure is not tied to a row.
type LoadError struct {
	Source string
	Line   int
	Err    error
}

func (e *LoadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("load %s: line %d: %v", e.Source, e.Line, e.Err)
	}
	return fmt.Sprintf("load %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
