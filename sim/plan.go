package sim

import "fmt"

// Plan is the predicted shape of a sort before it runs.
type Plan struct {
	Elements int
	Runs     int // ceil(N / M)
	Passes   int // ceil(log_K(Runs)), 0 when Runs <= 1
}

// Estimate predicts run and pass counts for n elements under cfg values m
// and k. Passes are counted by repeated ceiling division so no
// floating-point logarithm can round the wrong way.
func Estimate(n, m, k int) (Plan, error) {
	if err := NewConfig(m, k).Validate(); err != nil {
		return Plan{}, err
	}
	if n < 0 {
		return Plan{}, fmt.Errorf("element count must be non-negative, got %d", n)
	}
	runs := expectedRuns(n, m)
	return Plan{Elements: n, Runs: runs, Passes: expectedPasses(runs, k)}, nil
}

// expectedRuns is ceil(n/m), written so that a huge m cannot overflow.
func expectedRuns(n, m int) int {
	if n <= 0 {
		return 0
	}
	return 1 + (n-1)/m
}

func expectedPasses(runs, k int) int {
	passes := 0
	for runs > 1 {
		runs = expectedRuns(runs, k)
		passes++
	}
	return passes
}
