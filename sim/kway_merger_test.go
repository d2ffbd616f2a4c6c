package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drainMerger(t *testing.T, m *kwayMerger) []Step {
	t.Helper()
	var steps []Step
	for !m.done() {
		st, ok := m.next()
		require.True(t, ok)
		steps = append(steps, st)
	}
	return steps
}

func TestKWayMerger_BinaryMerge(t *testing.T) {
	// GIVEN two sorted runs
	var stats Statistics
	m := newKWayMerger([][]float64{{2, 5}, {1, 8}}, 1, 0, &stats)

	// WHEN merged
	steps := drainMerger(t, m)

	// THEN the output is sorted and each scanned head cost one comparison
	assert.Equal(t, []float64{1, 2, 5, 8}, m.output())
	assert.Equal(t, int64(7), stats.Comparisons)
	assert.Equal(t, int64(4), stats.Writes)
	assert.Equal(t, KindMergeStart, steps[0].Kind)
	assert.Equal(t, KindMergeComplete, steps[len(steps)-1].Kind)
	assert.Len(t, steps, 10)
}

func TestKWayMerger_CompareReportsVisibleHeads(t *testing.T) {
	var stats Statistics
	m := newKWayMerger([][]float64{{4}, {1, 2}, {3}}, 2, 1, &stats)
	steps := drainMerger(t, m)

	cmp := steps[1].Payload.(*MergeCompare)
	assert.Equal(t, []Head{
		{RunIndex: 0, ElementIndex: 0, Value: 4},
		{RunIndex: 1, ElementIndex: 0, Value: 1},
		{RunIndex: 2, ElementIndex: 0, Value: 3},
	}, cmp.Candidates)
	assert.Equal(t, Head{RunIndex: 1, ElementIndex: 0, Value: 1}, cmp.Min)
	assert.Equal(t, 2, cmp.PassNumber)
	assert.Equal(t, 1, cmp.GroupIndex)

	sel := steps[2].Payload.(*MergeSelect)
	assert.Equal(t, 1.0, sel.Value)
	assert.Equal(t, 1, sel.RunIndex)
	assert.Equal(t, []int{0, 1, 0}, sel.Cursors)
	assert.Equal(t, []float64{1}, sel.Output)
}

func TestKWayMerger_Ties_LowestRunIndexWins(t *testing.T) {
	var stats Statistics
	m := newKWayMerger([][]float64{{5}, {1}, {1}}, 1, 0, &stats)
	steps := drainMerger(t, m)

	var order []int
	for _, st := range steps {
		if sel, ok := st.Payload.(*MergeSelect); ok {
			order = append(order, sel.RunIndex)
		}
	}
	assert.Equal(t, []int{1, 2, 0}, order)
}

func TestKWayMerger_ZeroLengthRun_NeverContributes(t *testing.T) {
	// GIVEN a batch containing an empty run
	var stats Statistics
	m := newKWayMerger([][]float64{{}, {3, 4}, {1}}, 1, 0, &stats)

	// WHEN merged
	steps := drainMerger(t, m)

	// THEN the empty run never appears among the candidates
	for _, st := range steps {
		if cmp, ok := st.Payload.(*MergeCompare); ok {
			for _, h := range cmp.Candidates {
				assert.NotEqual(t, 0, h.RunIndex)
			}
		}
	}
	assert.Equal(t, []float64{1, 3, 4}, m.output())
	// heads scanned: (3,1) (3) (4) = 4
	assert.Equal(t, int64(4), stats.Comparisons)
}

func TestKWayMerger_AllEmpty_CompletesImmediately(t *testing.T) {
	var stats Statistics
	m := newKWayMerger([][]float64{{}, {}}, 1, 0, &stats)
	steps := drainMerger(t, m)

	assert.Equal(t, []Kind{KindMergeStart, KindMergeComplete}, kinds(steps))
	assert.Empty(t, m.output())
	assert.Equal(t, Statistics{}, stats)
}
