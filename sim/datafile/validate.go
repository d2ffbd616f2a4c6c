package datafile

import (
	"fmt"
	"math"
)

// Validate rejects NaN and ±Inf. The engine's ordering is undefined for
// them, so every caller runs this before building an Engine.
func Validate(data []float64) error {
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("value %v at index %d: %w", v, i, ErrNonFinite)
		}
	}
	return nil
}

// ValidateNonEmpty is Validate plus a check that data has values.
func ValidateNonEmpty(data []float64) error {
	if len(data) == 0 {
		return ErrEmpty
	}
	return Validate(data)
}
