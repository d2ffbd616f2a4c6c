package trace

import "github.com/extsort-sim/extsort-sim/sim"

// TraceSummary aggregates statistics from a SortTrace.
type TraceSummary struct {
	TotalSteps       int
	PhaseCounts      map[sim.Phase]int
	KindCounts       map[sim.Kind]int
	Runs             int // write-run steps
	Passes           int // pass-complete steps
	Merges           int // merge-complete steps
	SingleRunCarries int
	FinalStats       sim.Statistics // counters on the last recorded step
	Completed        bool           // terminal step was recorded
}

// NewTraceSummary returns an empty summary ready for Add.
func NewTraceSummary() *TraceSummary {
	return &TraceSummary{
		PhaseCounts: make(map[sim.Phase]int),
		KindCounts:  make(map[sim.Kind]int),
	}
}

// Add folds one recorded Step into the summary, so a trace streamed to disk
// can be summarized without keeping its Steps.
func (s *TraceSummary) Add(st sim.Step) {
	s.TotalSteps++
	s.PhaseCounts[st.Phase]++
	s.KindCounts[st.Kind]++
	switch st.Kind {
	case sim.KindWriteRun:
		s.Runs++
	case sim.KindPassComplete:
		s.Passes++
	case sim.KindMergeComplete:
		s.Merges++
	case sim.KindSingleRun:
		s.SingleRunCarries++
	case sim.KindFinished:
		s.Completed = true
	}
	s.FinalStats = st.Stats
}

// Summarize computes aggregate statistics from a SortTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(t *SortTrace) *TraceSummary {
	summary := NewTraceSummary()
	if t == nil {
		return summary
	}
	for _, st := range t.Steps {
		summary.Add(st)
	}
	return summary
}
