package datafile

import "math/rand"

// GenerateMax is the exclusive upper bound of generated values.
const GenerateMax = 1000.0

// Generate returns n values drawn uniformly from [0, GenerateMax).
// The same rng state yields the same values.
func Generate(rng *rand.Rand, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = rng.Float64() * GenerateMax
	}
	return out
}
