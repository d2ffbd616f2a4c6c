package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimate_Formulas(t *testing.T) {
	tests := []struct {
		name       string
		n, m, k    int
		wantRuns   int
		wantPasses int
	}{
		{"exact fit", 100, 10, 2, 10, 4},
		{"remainder chunk", 105, 10, 2, 11, 4},
		{"single chunk", 5, 10, 2, 1, 0},
		{"eight runs k2", 8, 1, 2, 8, 3},
		{"nine runs k2", 9, 1, 2, 9, 4},
		{"27 runs k3", 27, 1, 3, 27, 3},
		{"28 runs k3", 28, 1, 3, 28, 4},
		{"five runs k3", 9, 2, 3, 5, 2},
		{"empty", 0, 4, 2, 0, 0},
		{"k larger than runs", 10, 2, 16, 5, 1},
		{"unbounded memory", 10, math.MaxInt, 2, 1, 0},
		{"unbounded fan-in", 3, 1, math.MaxInt, 3, 1},
		{"both unbounded", math.MaxInt, math.MaxInt, math.MaxInt, 1, 0},
		{"max elements m1", math.MaxInt, 1, 2, math.MaxInt, 63},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := Estimate(tt.n, tt.m, tt.k)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRuns, plan.Runs)
			assert.Equal(t, tt.wantPasses, plan.Passes)
			assert.Equal(t, tt.n, plan.Elements)
		})
	}
}

func TestEstimate_InvalidInput(t *testing.T) {
	_, err := Estimate(10, 0, 2)
	assert.ErrorIs(t, err, ErrInvalidMemoryLimit)

	_, err = Estimate(10, 2, 1)
	assert.ErrorIs(t, err, ErrInvalidFanIn)

	_, err = Estimate(-1, 2, 2)
	assert.Error(t, err)
}
