// Package testutil provides shared test infrastructure for the sort engine.
// It consolidates the golden scenario types and assertion helpers used
// across sim/ and its sub-package tests. It does not import sim, so tests
// inside package sim can use it.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"testing"
)

// ScenarioSet represents the structure of testdata/scenarios.json.
type ScenarioSet struct {
	Scenarios []Scenario `json:"scenarios"`
}

// Scenario is one golden sort: input, parameters and expected outcome.
type Scenario struct {
	Name             string       `json:"name"`
	Input            []float64    `json:"input"`
	MemoryLimit      int          `json:"memory_limit"`
	FanIn            int          `json:"fan_in"`
	Runs             [][]float64  `json:"runs"`
	RunCount         int          `json:"run_count"`
	Passes           int          `json:"passes"`
	SingleRunCarries int          `json:"single_run_carries"`
	Output           []float64    `json:"output"`
	Steps            int          `json:"steps"` // 0 = not checked
	Stats            *GoldenStats `json:"stats"` // nil = not checked
}

// GoldenStats holds the exact expected counters.
type GoldenStats struct {
	Comparisons int64 `json:"comparisons"`
	Reads       int64 `json:"reads"`
	Writes      int64 `json:"writes"`
}

// LoadScenarios loads the golden scenarios from the repo-root testdata
// directory. The path is resolved relative to this source file:
// sim/internal/testutil/ → testdata/.
func LoadScenarios(t *testing.T) *ScenarioSet {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "scenarios.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden scenarios: %v", err)
	}

	var set ScenarioSet
	if err := json.Unmarshal(data, &set); err != nil {
		t.Fatalf("Failed to parse golden scenarios: %v", err)
	}
	return &set
}

// AssertSorted fails the test unless data is non-decreasing.
func AssertSorted(t *testing.T, data []float64) {
	t.Helper()
	for i := 1; i < len(data); i++ {
		if data[i-1] > data[i] {
			t.Errorf("not sorted at %d: %v > %v", i, data[i-1], data[i])
			return
		}
	}
}

// AssertSameMultiset fails the test unless got is a permutation of want.
func AssertSameMultiset(t *testing.T, want, got []float64) {
	t.Helper()
	if len(want) != len(got) {
		t.Errorf("length mismatch: got %d, want %d", len(got), len(want))
		return
	}
	w := slices.Clone(want)
	g := slices.Clone(got)
	slices.Sort(w)
	slices.Sort(g)
	for i := range w {
		if w[i] != g[i] {
			t.Errorf("multiset mismatch at sorted position %d: got %v, want %v", i, g[i], w[i])
			return
		}
	}
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
