package sim

import "fmt"

type mergeSchedulerState int

const (
	msStart mergeSchedulerState = iota
	msPassStart
	msGroup
	msMerging
	msMergeComplete
	msDone
)

// mergeScheduler reduces the RunSet pass by pass. Each pass consumes the
// current RunSet front to back in groups of at most fanIn runs; a trailing
// group of one run is carried into the next pass unmerged.
type mergeScheduler struct {
	fanIn int
	stats *Statistics
	state mergeSchedulerState

	runs     [][]float64 // current RunSet, replaced at the end of each pass
	pending  [][]float64 // runs of the current pass not yet grouped
	nextRuns [][]float64 // RunSet being built for the next pass

	pass   int // 1-based number of the pass in progress
	group  int // index of the next group within the pass
	passes int // completed passes

	merger *kwayMerger
}

func newMergeScheduler(runs [][]float64, fanIn int, stats *Statistics) *mergeScheduler {
	return &mergeScheduler{
		fanIn: fanIn,
		stats: stats,
		state: msStart,
		runs:  runs,
	}
}

func (s *mergeScheduler) done() bool {
	return s.state == msDone
}

// result returns the surviving RunSet; it holds at most one run once done.
func (s *mergeScheduler) result() [][]float64 {
	return s.runs
}

func (s *mergeScheduler) next() (Step, bool) {
	switch s.state {
	case msStart:
		if len(s.runs) <= 1 {
			s.state = msDone
			return Step{
				Phase:   PhaseMergeStart,
				Kind:    KindSkip,
				Message: fmt.Sprintf("%d run(s), nothing to merge.", len(s.runs)),
				Payload: &RunSetSnapshot{Runs: cloneRuns(s.runs), FanIn: s.fanIn},
			}, true
		}
		s.pass = 1
		s.state = msPassStart
		return Step{
			Phase:   PhaseMergeStart,
			Kind:    KindInit,
			Message: fmt.Sprintf("Phase 2: K-way merge (K=%d)", s.fanIn),
			Payload: &RunSetSnapshot{Runs: cloneRuns(s.runs), FanIn: s.fanIn},
		}, true

	case msPassStart:
		s.pending = s.runs
		s.nextRuns = make([][]float64, 0, expectedRuns(len(s.runs), s.fanIn))
		s.group = 0
		s.state = msGroup
		return Step{
			Phase:   PhaseMergePassStart,
			Kind:    KindPassStart,
			Message: fmt.Sprintf("--- Merge pass %d (%d runs) ---", s.pass, len(s.runs)),
			Payload: &PassProgress{PassNumber: s.pass, RunCount: len(s.runs), Runs: cloneRuns(s.runs)},
		}, true

	case msGroup:
		if len(s.pending) == 0 {
			return s.completePass(), true
		}
		n := min(s.fanIn, len(s.pending))
		batch := s.pending[:n]
		s.pending = s.pending[n:]
		group := s.group
		s.group++

		if n == 1 {
			s.nextRuns = append(s.nextRuns, batch[0])
			return Step{
				Phase:   PhaseMergePass,
				Kind:    KindSingleRun,
				Message: fmt.Sprintf("Leftover run (%d elements) carried to the next pass.", len(batch[0])),
				Payload: &SingleRun{PassNumber: s.pass, GroupIndex: group, Run: cloneRun(batch[0])},
			}, true
		}
		s.merger = newKWayMerger(batch, s.pass, group, s.stats)
		s.state = msMerging
		return s.stepMerger(), true

	case msMerging:
		return s.stepMerger(), true

	case msMergeComplete:
		s.state = msDone
		var final []float64
		if len(s.runs) > 0 {
			final = s.runs[0]
		}
		return Step{
			Phase:   PhaseMergeComplete,
			Kind:    KindDone,
			Message: "All runs merged. Output file ready.",
			Payload: &FinalRun{Run: cloneRun(final)},
		}, true
	}
	return Step{}, false
}

// stepMerger advances the active batch and queues its output once the
// merge-complete step has been produced.
func (s *mergeScheduler) stepMerger() Step {
	st, _ := s.merger.next()
	if s.merger.done() {
		s.nextRuns = append(s.nextRuns, s.merger.output())
		s.merger = nil
		s.state = msGroup
	}
	return st
}

func (s *mergeScheduler) completePass() Step {
	s.runs = s.nextRuns
	s.nextRuns = nil
	s.pending = nil
	st := Step{
		Phase:   PhaseMergePassComplete,
		Kind:    KindPassComplete,
		Message: fmt.Sprintf("Pass %d complete. %d run(s) remain.", s.pass, len(s.runs)),
		Payload: &PassProgress{PassNumber: s.pass, RunCount: len(s.runs), Runs: cloneRuns(s.runs)},
	}
	s.passes++
	if len(s.runs) > 1 {
		s.pass++
		s.state = msPassStart
	} else {
		s.state = msMergeComplete
	}
	return st
}
