package sim

import (
	"fmt"
	"iter"
)

type engineStage int

const (
	stageRuns engineStage = iota
	stageMerge
	stageComplete
	stageDone
)

// Engine is a pull-based iterator over the Steps of one external sort.
// Each call to Next advances the algorithm by exactly one Step; all resume
// state lives in the Engine and its stage structs.
//
// Thread-safety: NOT thread-safe. Concurrent sorts need separate Engines.
type Engine struct {
	cfg   Config
	input []float64

	stats Statistics
	seq   int
	stage engineStage

	producer  *runProducer
	scheduler *mergeScheduler

	sorted   []float64 // nil until the merge phase finishes
	runCount int
	passes   int
}

// NewEngine validates cfg and returns an Engine positioned before the first
// Step. data is copied; the caller may reuse it. Elements must be finite.
func NewEngine(data []float64, cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine config: %w", err)
	}
	e := &Engine{
		cfg:   cfg,
		input: cloneRun(data),
	}
	e.Reset()
	return e, nil
}

// Reset discards all progress and counters. The next call to Next returns
// the first Step again.
func (e *Engine) Reset() {
	e.stats = Statistics{}
	e.seq = 0
	e.stage = stageRuns
	e.sorted = nil
	e.runCount = 0
	e.passes = 0
	e.scheduler = nil
	e.producer = newRunProducer(cloneRun(e.input), e.cfg.MemoryLimit, &e.stats)
}

// Next returns the next Step, or false once the terminal Step has been
// returned.
func (e *Engine) Next() (Step, bool) {
	var st Step
	switch e.stage {
	case stageRuns:
		st, _ = e.producer.next()
		if e.producer.done() {
			runs := e.producer.takeRuns()
			e.runCount = len(runs)
			e.scheduler = newMergeScheduler(runs, e.cfg.FanIn, &e.stats)
			e.producer = nil
			e.stage = stageMerge
		}
	case stageMerge:
		st, _ = e.scheduler.next()
		if e.scheduler.done() {
			e.finishMerge()
		}
	case stageComplete:
		e.stage = stageDone
		st = Step{
			Phase:   PhaseComplete,
			Kind:    KindFinished,
			Message: "Sort complete.",
			Payload: &Complete{Sorted: cloneRun(e.sorted), Stats: e.stats},
		}
	default:
		return Step{}, false
	}
	st.Seq = e.seq
	st.Stats = e.stats
	e.seq++
	return st, true
}

func (e *Engine) finishMerge() {
	final := e.scheduler.result()
	if len(final) == 1 {
		e.sorted = final[0]
	} else {
		e.sorted = []float64{}
	}
	e.passes = e.scheduler.passes
	e.scheduler = nil
	e.stage = stageComplete
}

// Steps adapts Next to a range-over-func iterator. Breaking out of the loop
// leaves the Engine where it stopped; a later Next resumes from there.
func (e *Engine) Steps() iter.Seq[Step] {
	return func(yield func(Step) bool) {
		for {
			st, ok := e.Next()
			if !ok || !yield(st) {
				return
			}
		}
	}
}

// Done reports whether the terminal Step has been returned.
func (e *Engine) Done() bool {
	return e.stage == stageDone
}

// Config returns the engine parameters.
func (e *Engine) Config() Config {
	return e.cfg
}

// Statistics returns the counters accumulated so far.
func (e *Engine) Statistics() Statistics {
	return e.stats
}

// Summary returns the counters together with the configuration.
func (e *Engine) Summary() Summary {
	return Summary{
		Statistics:   e.stats,
		MemoryLimit:  e.cfg.MemoryLimit,
		FanIn:        e.cfg.FanIn,
		OriginalSize: len(e.input),
	}
}

// SortedData returns a copy of the sorted output, or nil while the merge
// phase is still running.
func (e *Engine) SortedData() []float64 {
	if e.sorted == nil {
		return nil
	}
	return cloneRun(e.sorted)
}

// RunCount is the number of runs produced by run generation. It is 0 until
// that phase completes.
func (e *Engine) RunCount() int {
	return e.runCount
}

// Passes is the number of completed merge passes once the merge phase ends.
func (e *Engine) Passes() int {
	return e.passes
}

// Result is the outcome of a fully drained Engine.
type Result struct {
	Sorted []float64
	Stats  Statistics
	Runs   int // runs produced by run generation
	Passes int // merge passes performed
	Steps  int // total Steps emitted, including the terminal one
}

// Sort runs the engine to completion without observing individual Steps.
func Sort(data []float64, cfg Config) (Result, error) {
	e, err := NewEngine(data, cfg)
	if err != nil {
		return Result{}, err
	}
	steps := 0
	for range e.Steps() {
		steps++
	}
	return Result{
		Sorted: e.SortedData(),
		Stats:  e.Statistics(),
		Runs:   e.RunCount(),
		Passes: e.Passes(),
		Steps:  steps,
	}, nil
}
