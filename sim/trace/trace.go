// Package trace records engine Steps for later analysis or rendering.
// It only consumes sim.Step values and never drives an Engine itself.
package trace

import "github.com/extsort-sim/extsort-sim/sim"

// TraceLevel controls which Steps are kept.
type TraceLevel string

const (
	// TraceLevelNone disables recording.
	TraceLevelNone TraceLevel = "none"
	// TraceLevelPhases keeps phase boundaries, pass boundaries and batch
	// open/close, dropping per-comparison steps.
	TraceLevelPhases TraceLevel = "phases"
	// TraceLevelSteps keeps every Step.
	TraceLevelSteps TraceLevel = "steps"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:   true,
	TraceLevelPhases: true,
	TraceLevelSteps:  true,
	"":               true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
}

// SortTrace collects Steps in emission order.
type SortTrace struct {
	Config TraceConfig
	Steps  []sim.Step
}

// NewSortTrace creates a SortTrace ready for recording.
func NewSortTrace(config TraceConfig) *SortTrace {
	return &SortTrace{
		Config: config,
		Steps:  make([]sim.Step, 0),
	}
}

// Record appends st if the trace level keeps it and reports whether it did.
func (t *SortTrace) Record(st sim.Step) bool {
	if !t.Config.Keeps(st) {
		return false
	}
	t.Steps = append(t.Steps, st)
	return true
}

// Keeps reports whether the configured level retains st.
func (c TraceConfig) Keeps(st sim.Step) bool {
	switch c.Level {
	case TraceLevelSteps:
		return true
	case TraceLevelPhases:
		return !isFineGrained(st)
	default:
		return false
	}
}

// isFineGrained marks the per-element steps inside a chunk sort or batch merge.
func isFineGrained(st sim.Step) bool {
	switch st.Kind {
	case sim.KindSortStart, sim.KindSortKey, sim.KindSortCompare, sim.KindSortInsert,
		sim.KindSortComplete, sim.KindMergeCompare, sim.KindMergeSelect:
		return true
	}
	return false
}
