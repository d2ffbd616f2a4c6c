package sim

import "fmt"

// runProducerState is the resume point of the run producer between steps.
type runProducerState int

const (
	rpStart runProducerState = iota
	rpReadChunk
	rpSortStart
	rpSortKey
	rpSortCompare
	rpSortInsert
	rpSortComplete
	rpWriteRun
	rpPhaseComplete
	rpDone
)

// runProducer splits the input into chunks of at most memoryLimit elements
// and sorts each chunk with an insertion sort that yields on every
// comparison. Insertion sort is kept on purpose: each scan and shift is a
// visible step.
type runProducer struct {
	data        []float64
	memoryLimit int
	stats       *Statistics
	state       runProducerState

	runs     [][]float64
	runIndex int
	position int

	// insertion sort registers for the chunk in memory
	arr []float64
	i   int
	j   int
	key float64
}

func newRunProducer(data []float64, memoryLimit int, stats *Statistics) *runProducer {
	return &runProducer{
		data:        data,
		memoryLimit: memoryLimit,
		stats:       stats,
		state:       rpStart,
		runs:        make([][]float64, 0, expectedRuns(len(data), memoryLimit)),
	}
}

// done reports whether the phase-complete step has been emitted.
func (p *runProducer) done() bool {
	return p.state == rpDone
}

// takeRuns hands the produced RunSet to the next stage.
func (p *runProducer) takeRuns() [][]float64 {
	runs := p.runs
	p.runs = nil
	return runs
}

func (p *runProducer) next() (Step, bool) {
	switch p.state {
	case rpStart:
		if len(p.data) > 0 {
			p.state = rpReadChunk
		} else {
			p.state = rpPhaseComplete
		}
		return Step{
			Phase: PhaseRunGenerationStart,
			Kind:  KindInit,
			Message: fmt.Sprintf("Phase 1: run generation. %d elements, memory holds %d elements.",
				len(p.data), p.memoryLimit),
			Payload: &RunGenerationStart{TotalElements: len(p.data), MemoryLimit: p.memoryLimit},
		}, true

	case rpReadChunk:
		end := p.position + min(p.memoryLimit, len(p.data)-p.position)
		p.arr = cloneRun(p.data[p.position:end])
		p.key = 0
		p.stats.Reads++
		p.state = rpSortStart
		return Step{
			Phase:   PhaseRunGeneration,
			Kind:    KindReadChunk,
			Message: fmt.Sprintf("Read %d elements (from position %d) into memory", len(p.arr), p.position),
			Payload: &ReadChunk{RunIndex: p.runIndex, Position: p.position, Chunk: cloneRun(p.arr)},
		}, true

	case rpSortStart:
		p.i = 1
		if len(p.arr) > 1 {
			p.state = rpSortKey
		} else {
			p.state = rpSortComplete
		}
		return p.progress(KindSortStart, "Memory: start internal sort (insertion sort)", nil, -1), true

	case rpSortKey:
		p.key = p.arr[p.i]
		p.j = p.i - 1
		p.state = rpSortCompare
		return p.progress(KindSortKey,
			fmt.Sprintf("Memory: consider arr[%d] = %.2f", p.i, p.key), []int{p.i}, -1), true

	case rpSortCompare:
		p.stats.Comparisons++
		st := p.progress(KindSortCompare,
			fmt.Sprintf("Memory: compare %.2f with %.2f", p.key, p.arr[p.j]), []int{p.j, p.i}, -1)
		// The snapshot above shows the array before the shift.
		if p.arr[p.j] > p.key {
			p.arr[p.j+1] = p.arr[p.j]
			p.j--
			if p.j < 0 {
				p.state = rpSortInsert
			}
		} else {
			p.state = rpSortInsert
		}
		return st, true

	case rpSortInsert:
		at := p.j + 1
		p.arr[at] = p.key
		st := p.progress(KindSortInsert,
			fmt.Sprintf("Memory: insert %.2f at position %d", p.key, at), nil, at)
		p.i++
		if p.i < len(p.arr) {
			p.state = rpSortKey
		} else {
			p.state = rpSortComplete
		}
		return st, true

	case rpSortComplete:
		p.state = rpWriteRun
		return p.progress(KindSortComplete, "Memory: chunk sorted, ready to write", nil, -1), true

	case rpWriteRun:
		p.runs = append(p.runs, cloneRun(p.arr))
		p.stats.Writes++
		st := Step{
			Phase:   PhaseRunGeneration,
			Kind:    KindWriteRun,
			Message: fmt.Sprintf("Write run #%d to temporary storage (%d elements)", p.runIndex+1, len(p.arr)),
			Payload: &WriteRun{RunIndex: p.runIndex, Run: cloneRun(p.arr), AllRuns: cloneRuns(p.runs)},
		}
		p.position += p.memoryLimit
		p.runIndex++
		p.arr = nil
		if p.position < len(p.data) {
			p.state = rpReadChunk
		} else {
			p.state = rpPhaseComplete
		}
		return st, true

	case rpPhaseComplete:
		p.state = rpDone
		return Step{
			Phase:   PhaseRunGenerationComplete,
			Kind:    KindPhaseComplete,
			Message: fmt.Sprintf("Phase 1 complete. Created %d runs.", len(p.runs)),
			Payload: &RunSetSnapshot{Runs: cloneRuns(p.runs)},
		}, true
	}
	return Step{}, false
}

// progress builds a sort step carrying a snapshot of the chunk in memory.
func (p *runProducer) progress(kind Kind, msg string, comparing []int, insertedAt int) Step {
	return Step{
		Phase:   PhaseRunGeneration,
		Kind:    kind,
		Message: msg,
		Payload: &SortProgress{
			RunIndex:   p.runIndex,
			Array:      cloneRun(p.arr),
			Comparing:  comparing,
			Key:        p.key,
			InsertedAt: insertedAt,
		},
	}
}
