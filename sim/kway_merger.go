package sim

import "fmt"

type kwayMergerState int

const (
	kmStart kwayMergerState = iota
	kmCompare
	kmSelect
	kmDone
)

// kwayMerger merges one batch of sorted runs by scanning every live head
// for each output element. There is no heap: the linear scan is the cost
// model being shown, and batches are at most fanIn runs wide.
type kwayMerger struct {
	runs    [][]float64
	cursors []int
	out     []float64
	pass    int
	group   int
	stats   *Statistics
	state   kwayMergerState

	minRun   int
	minValue float64
}

func newKWayMerger(runs [][]float64, pass, group int, stats *Statistics) *kwayMerger {
	total := 0
	for _, r := range runs {
		total += len(r)
	}
	return &kwayMerger{
		runs:    runs,
		cursors: make([]int, len(runs)),
		out:     make([]float64, 0, total),
		pass:    pass,
		group:   group,
		stats:   stats,
		state:   kmStart,
		minRun:  -1,
	}
}

func (m *kwayMerger) done() bool {
	return m.state == kmDone
}

// output returns the merged run. Ownership passes to the caller.
func (m *kwayMerger) output() []float64 {
	return m.out
}

func (m *kwayMerger) next() (Step, bool) {
	switch m.state {
	case kmStart:
		m.state = kmCompare
		return Step{
			Phase:   PhaseMergePass,
			Kind:    KindMergeStart,
			Message: fmt.Sprintf("Merge group %d: %d runs...", m.group+1, len(m.runs)),
			Payload: &MergeStart{
				PassNumber: m.pass,
				GroupIndex: m.group,
				BatchSize:  len(m.runs),
				Runs:       cloneRuns(m.runs),
			},
		}, true

	case kmCompare:
		candidates := m.scanHeads()
		if m.minRun < 0 {
			m.state = kmDone
			return Step{
				Phase:   PhaseMergePass,
				Kind:    KindMergeComplete,
				Message: fmt.Sprintf("Group %d merged. New run: %d elements.", m.group+1, len(m.out)),
				Payload: &MergeComplete{PassNumber: m.pass, GroupIndex: m.group, MergedRun: cloneRun(m.out)},
			}, true
		}
		m.state = kmSelect
		return Step{
			Phase:   PhaseMergePass,
			Kind:    KindMergeCompare,
			Message: fmt.Sprintf("Compare run heads: min = %.2f", m.minValue),
			Payload: &MergeCompare{
				PassNumber: m.pass,
				GroupIndex: m.group,
				Candidates: candidates,
				Min:        Head{RunIndex: m.minRun, ElementIndex: m.cursors[m.minRun], Value: m.minValue},
			},
		}, true

	case kmSelect:
		m.out = append(m.out, m.minValue)
		m.cursors[m.minRun]++
		m.stats.Writes++
		m.state = kmCompare
		return Step{
			Phase:   PhaseMergePass,
			Kind:    KindMergeSelect,
			Message: fmt.Sprintf("Select %.2f (run %d) -> output", m.minValue, m.minRun+1),
			Payload: &MergeSelect{
				PassNumber: m.pass,
				GroupIndex: m.group,
				Value:      m.minValue,
				RunIndex:   m.minRun,
				Output:     cloneRun(m.out),
				Cursors:    append([]int(nil), m.cursors...),
			},
		}, true
	}
	return Step{}, false
}

// scanHeads visits every run that still has elements, counting one
// comparison per visited head, and records the first strictly smallest.
// minRun is -1 when every cursor is exhausted.
func (m *kwayMerger) scanHeads() []Head {
	m.minRun = -1
	candidates := make([]Head, 0, len(m.runs))
	for i, r := range m.runs {
		c := m.cursors[i]
		if c >= len(r) {
			continue
		}
		v := r[c]
		candidates = append(candidates, Head{RunIndex: i, ElementIndex: c, Value: v})
		m.stats.Comparisons++
		if m.minRun < 0 || v < m.minValue {
			m.minRun = i
			m.minValue = v
		}
	}
	return candidates
}
