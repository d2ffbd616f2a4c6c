package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/extsort-sim/extsort-sim/sim"
	"github.com/extsort-sim/extsort-sim/sim/datafile"
	"github.com/extsort-sim/extsort-sim/sim/trace"
)

func TestSortedOutputPath(t *testing.T) {
	assert.Equal(t, "data/a.sorted.bin", sortedOutputPath("data/a.bin"))
	assert.Equal(t, "noext.sorted.bin", sortedOutputPath("noext"))
}

func TestSortFiles_EachFileSortedIndependently(t *testing.T) {
	// GIVEN three input files of different sizes
	dir := t.TempDir()
	inputs := [][]float64{
		{9, 4, 7, 1, 8, 2, 6, 3, 5},
		{},
		{3, 3, 1},
	}
	paths := make([]string, len(inputs))
	for i, data := range inputs {
		paths[i] = writeInput(t, dir, []string{"a.bin", "b.bin", "c.bin"}[i], data)
	}

	// WHEN they are sorted with two workers
	results, err := sortFiles(context.Background(), paths, batchOptions{Config: sim.NewConfig(2, 3), Parallelism: 2})
	require.NoError(t, err)

	// THEN results come back in input order and each output is on disk
	require.Len(t, results, 3)
	for i, r := range results {
		assert.Equal(t, paths[i], r.Input)
		assert.Equal(t, filepath.Join(dir, []string{"a", "b", "c"}[i]+".sorted.bin"), r.Output)

		got, err := datafile.ReadFloat64File(r.Output)
		require.NoError(t, err)
		assert.Equal(t, r.Result.Sorted, got)
	}
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9}, results[0].Result.Sorted)
	assert.Equal(t, []float64{}, results[1].Result.Sorted)
	assert.Equal(t, []float64{1, 3, 3}, results[2].Result.Sorted)
	assert.Equal(t, 5, results[0].Result.Runs)
	assert.Equal(t, 2, results[0].Result.Passes)

	// AND each file carries its own phase-level summary
	assert.Equal(t, 3, results[0].Trace.Merges)
	assert.Equal(t, 0, results[1].Trace.Merges)
	assert.Equal(t, 1, results[2].Trace.Merges)
	for _, r := range results {
		assert.True(t, r.Trace.Completed)
		assert.Empty(t, r.TracePath)
	}
}

func TestSortFiles_OneBadFile_FailsBatch(t *testing.T) {
	dir := t.TempDir()
	good := writeInput(t, dir, "good.bin", []float64{2, 1})
	_, err := sortFiles(context.Background(), []string{good, filepath.Join(dir, "missing.bin")},
		batchOptions{Config: sim.DefaultConfig(), Parallelism: 1})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "missing.bin")
}

func TestSortFiles_InvalidArguments(t *testing.T) {
	_, err := sortFiles(context.Background(), []string{"x.bin"}, batchOptions{Config: sim.NewConfig(4, 1), Parallelism: 1})
	assert.ErrorIs(t, err, sim.ErrInvalidFanIn)

	_, err = sortFiles(context.Background(), []string{"x.bin"}, batchOptions{Config: sim.DefaultConfig()})
	assert.Error(t, err)
}

func TestSortFiles_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	path := writeInput(t, dir, "a.bin", []float64{1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := sortFiles(ctx, []string{path}, batchOptions{Config: sim.DefaultConfig(), Parallelism: 1})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPrintBatch(t *testing.T) {
	var buf bytes.Buffer
	printBatch(&buf, []batchResult{{
		Input:  "a.bin",
		Output: "a.sorted.bin",
		Result: sim.Result{Sorted: []float64{1, 2}, Runs: 1, Stats: sim.Statistics{Comparisons: 1, Reads: 1, Writes: 1}},
		Trace:  &trace.TraceSummary{},
	}})
	assert.Contains(t, buf.String(), "a.bin -> a.sorted.bin: N=2 runs=1 passes=0 merges=0 carries=0 comparisons=1 io=2")
}

func TestSortFiles_RequireData_RejectsEmptyFile(t *testing.T) {
	// GIVEN one empty input
	dir := t.TempDir()
	paths := []string{writeInput(t, dir, "a.bin", []float64{2, 1}), writeInput(t, dir, "empty.bin", nil)}

	// WHEN empty files are allowed, the batch succeeds
	_, err := sortFiles(context.Background(), paths, batchOptions{Config: sim.DefaultConfig(), Parallelism: 1})
	require.NoError(t, err)

	// THEN with RequireData the empty file fails the batch
	_, err = sortFiles(context.Background(), paths,
		batchOptions{Config: sim.DefaultConfig(), Parallelism: 1, RequireData: true})
	assert.ErrorIs(t, err, datafile.ErrEmpty)
	assert.Contains(t, err.Error(), "empty.bin")
}

func TestSortFiles_WriteTraces_PhaseLevelJSONL(t *testing.T) {
	dir := t.TempDir()
	path := writeInput(t, dir, "a.bin", []float64{5, 2, 8, 1})

	results, err := sortFiles(context.Background(), []string{path},
		batchOptions{Config: sim.NewConfig(2, 2), Parallelism: 1, WriteTraces: true})
	require.NoError(t, err)
	require.Len(t, results, 1)

	r := results[0]
	assert.Equal(t, filepath.Join(dir, "a.trace.jsonl"), r.TracePath)
	raw, err := os.ReadFile(r.TracePath)
	require.NoError(t, err)
	assert.Equal(t, r.Trace.TotalSteps, bytes.Count(raw, []byte("\n")))
	assert.Less(t, r.Trace.TotalSteps, r.Result.Steps)
	assert.NotContains(t, string(raw), `"kind":"sort-compare"`)
}
