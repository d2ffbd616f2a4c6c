package trace

import (
	"bufio"
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/extsort-sim/extsort-sim/sim"
)

func recordAll(t *testing.T, level TraceLevel, data []float64, m, k int) *SortTrace {
	t.Helper()
	e, err := sim.NewEngine(data, sim.NewConfig(m, k))
	require.NoError(t, err)
	st := NewSortTrace(TraceConfig{Level: level})
	for step := range e.Steps() {
		st.Record(step)
	}
	return st
}

func TestSortTrace_StepsLevel_KeepsEverything(t *testing.T) {
	// GIVEN a trace at steps level
	// WHEN a four-element sort is recorded
	st := recordAll(t, TraceLevelSteps, []float64{5, 2, 8, 1}, 2, 2)

	// THEN all 31 steps are kept in order
	require.Len(t, st.Steps, 31)
	for i, step := range st.Steps {
		assert.Equal(t, i, step.Seq)
	}
}

func TestSortTrace_PhasesLevel_DropsFineGrainedSteps(t *testing.T) {
	st := recordAll(t, TraceLevelPhases, []float64{5, 2, 8, 1}, 2, 2)

	assert.Len(t, st.Steps, 13)
	for _, step := range st.Steps {
		assert.NotEqual(t, sim.KindSortCompare, step.Kind)
		assert.NotEqual(t, sim.KindMergeSelect, step.Kind)
	}
	assert.Equal(t, sim.KindFinished, st.Steps[len(st.Steps)-1].Kind)
}

func TestSortTrace_NoneLevel_RecordsNothing(t *testing.T) {
	st := recordAll(t, TraceLevelNone, []float64{5, 2, 8, 1}, 2, 2)
	assert.Empty(t, st.Steps)

	empty := recordAll(t, "", []float64{1, 2}, 1, 2)
	assert.Empty(t, empty.Steps)
}

func TestIsValidTraceLevel_ValidLevels(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"none", true},
		{"phases", true},
		{"steps", true},
		{"", true}, // empty defaults to none
		{"decisions", false},
		{"STEPS", false}, // case-sensitive
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			if got := IsValidTraceLevel(tt.level); got != tt.valid {
				t.Errorf("IsValidTraceLevel(%q) = %v, want %v", tt.level, got, tt.valid)
			}
		})
	}
}

func TestSummarize_FullTrace(t *testing.T) {
	st := recordAll(t, TraceLevelSteps, []float64{5, 2, 8, 1}, 2, 2)

	s := Summarize(st)
	assert.Equal(t, 31, s.TotalSteps)
	assert.Equal(t, 2, s.Runs)
	assert.Equal(t, 1, s.Passes)
	assert.Equal(t, 1, s.Merges)
	assert.Equal(t, 0, s.SingleRunCarries)
	assert.True(t, s.Completed)
	assert.Equal(t, sim.Statistics{Comparisons: 9, Reads: 2, Writes: 6}, s.FinalStats)
	assert.Equal(t, 4, s.KindCounts[sim.KindMergeSelect])
	assert.Equal(t, 1, s.PhaseCounts[sim.PhaseComplete])
}

func TestSummarize_PhasesTrace_KeepsBoundaryCounts(t *testing.T) {
	// Phase-level traces still see every pass, merge and carry.
	st := recordAll(t, TraceLevelPhases, []float64{3, 3, 3}, 1, 2)

	s := Summarize(st)
	assert.Equal(t, 3, s.Runs)
	assert.Equal(t, 2, s.Passes)
	assert.Equal(t, 2, s.Merges)
	assert.Equal(t, 1, s.SingleRunCarries)
	assert.Equal(t, sim.Statistics{Comparisons: 8, Reads: 3, Writes: 8}, s.FinalStats)
}

func TestSummarize_NilTrace(t *testing.T) {
	s := Summarize(nil)
	assert.Equal(t, 0, s.TotalSteps)
	assert.NotNil(t, s.PhaseCounts)
	assert.False(t, s.Completed)
}

func TestWriteJSONL_OneObjectPerStep(t *testing.T) {
	// GIVEN a recorded trace
	st := recordAll(t, TraceLevelSteps, []float64{5, 2, 8, 1}, 2, 2)

	// WHEN written as JSON lines
	var buf bytes.Buffer
	require.NoError(t, WriteJSONL(&buf, st))

	// THEN each line decodes and carries phase, kind and payload
	var lines []map[string]any
	sc := bufio.NewScanner(&buf)
	for sc.Scan() {
		var m map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &m))
		lines = append(lines, m)
	}
	require.Len(t, lines, 31)

	first := lines[0]
	assert.Equal(t, "run-generation-start", first["phase"])
	assert.Equal(t, "init", first["kind"])
	payload := first["payload"].(map[string]any)
	assert.Equal(t, 4.0, payload["total_elements"])

	last := lines[len(lines)-1]
	assert.Equal(t, "complete", last["phase"])
	sorted := last["payload"].(map[string]any)["sorted"].([]any)
	assert.Equal(t, []any{1.0, 2.0, 5.0, 8.0}, sorted)
}

func TestJSONLWriter_Count(t *testing.T) {
	var buf bytes.Buffer
	jw := NewJSONLWriter(&buf)
	require.NoError(t, jw.Write(sim.Step{Seq: 0, Phase: sim.PhaseComplete, Kind: sim.KindFinished}))
	require.NoError(t, jw.Write(sim.Step{Seq: 1, Phase: sim.PhaseComplete, Kind: sim.KindFinished}))
	require.NoError(t, jw.Flush())

	assert.Equal(t, 2, jw.Count())
	assert.Equal(t, 2, bytes.Count(buf.Bytes(), []byte("\n")))
}

func TestTraceSummary_Add_MatchesSummarize(t *testing.T) {
	// GIVEN a phases-level trace recorded in memory
	data := []float64{9, 4, 7, 1, 8, 2, 6, 3, 5}
	want := Summarize(recordAll(t, TraceLevelPhases, data, 2, 3))

	// WHEN the same steps are folded in one at a time without being kept
	cfg := TraceConfig{Level: TraceLevelPhases}
	e, err := sim.NewEngine(data, sim.NewConfig(2, 3))
	require.NoError(t, err)
	got := NewTraceSummary()
	for st := range e.Steps() {
		if cfg.Keeps(st) {
			got.Add(st)
		}
	}

	// THEN the streamed summary is identical
	assert.Equal(t, want, got)
	assert.True(t, got.Completed)
}

func TestTraceConfig_Keeps(t *testing.T) {
	compare := sim.Step{Kind: sim.KindMergeCompare}
	pass := sim.Step{Kind: sim.KindPassStart}

	assert.True(t, TraceConfig{Level: TraceLevelSteps}.Keeps(compare))
	assert.False(t, TraceConfig{Level: TraceLevelPhases}.Keeps(compare))
	assert.True(t, TraceConfig{Level: TraceLevelPhases}.Keeps(pass))
	assert.False(t, TraceConfig{Level: TraceLevelNone}.Keeps(pass))
	assert.False(t, TraceConfig{}.Keeps(pass))
}
