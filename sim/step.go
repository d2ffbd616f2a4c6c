package sim

// Phase identifies which part of the algorithm emitted a Step.
type Phase string

const (
	PhaseRunGenerationStart    Phase = "run-generation-start"
	PhaseRunGeneration         Phase = "run-generation"
	PhaseRunGenerationComplete Phase = "run-generation-complete"
	PhaseMergeStart            Phase = "merge-start"
	PhaseMergePassStart        Phase = "merge-pass-start"
	PhaseMergePass             Phase = "merge-pass"
	PhaseMergePassComplete     Phase = "merge-pass-complete"
	PhaseMergeComplete         Phase = "merge-complete"
	PhaseComplete              Phase = "complete"
)

// Kind identifies the specific action within a phase.
type Kind string

const (
	// Run generation
	KindInit          Kind = "init"
	KindReadChunk     Kind = "read-chunk"
	KindSortStart     Kind = "sort-start"
	KindSortKey       Kind = "sort-key"
	KindSortCompare   Kind = "sort-compare"
	KindSortInsert    Kind = "sort-insert"
	KindSortComplete  Kind = "sort-complete"
	KindWriteRun      Kind = "write-run"
	KindPhaseComplete Kind = "phase-complete"

	// Merge scheduling
	KindSkip         Kind = "skip"
	KindPassStart    Kind = "pass-start"
	KindSingleRun    Kind = "single-run"
	KindPassComplete Kind = "pass-complete"
	KindDone         Kind = "done"

	// K-way merging
	KindMergeStart    Kind = "merge-start"
	KindMergeCompare  Kind = "merge-compare"
	KindMergeSelect   Kind = "merge-select"
	KindMergeComplete Kind = "merge-complete"

	// Terminal
	KindFinished Kind = "finished"
)

// Step is an immutable snapshot of one algorithmic action.
// Every slice reachable from a Step is owned by the Step; the engine keeps
// mutating its own buffers after emission.
type Step struct {
	Seq     int        `json:"seq"` // 0-based position in the sequence
	Phase   Phase      `json:"phase"`
	Kind    Kind       `json:"kind"`
	Message string     `json:"message"`
	Stats   Statistics `json:"stats"` // counters as of this step
	Payload Payload    `json:"payload,omitempty"`
}

// Payload is the phase-specific data carried by a Step.
// Consumers type-switch on the concrete pointer types below.
type Payload interface {
	payload()
}

// RunGenerationStart opens the run generation phase.
type RunGenerationStart struct {
	TotalElements int `json:"total_elements"`
	MemoryLimit   int `json:"memory_limit"`
}

// ReadChunk reports a chunk pulled into memory.
type ReadChunk struct {
	RunIndex int       `json:"run_index"`
	Position int       `json:"position"` // offset of the chunk in the input
	Chunk    []float64 `json:"chunk"`
}

// SortProgress reports insertion sort state for the chunk being sorted.
// Comparing holds array positions under inspection; InsertedAt is -1 unless
// the step is a sort-insert.
type SortProgress struct {
	RunIndex   int       `json:"run_index"`
	Array      []float64 `json:"array"`
	Comparing  []int     `json:"comparing,omitempty"`
	Key        float64   `json:"key"`
	InsertedAt int       `json:"inserted_at"`
}

// WriteRun reports a sorted chunk filed as a run.
type WriteRun struct {
	RunIndex int         `json:"run_index"`
	Run      []float64   `json:"run"`
	AllRuns  [][]float64 `json:"all_runs"`
}

// RunSetSnapshot carries the full RunSet at a phase boundary.
type RunSetSnapshot struct {
	Runs  [][]float64 `json:"runs"`
	FanIn int         `json:"fan_in,omitempty"`
}

// PassProgress opens or closes one merge pass.
type PassProgress struct {
	PassNumber int         `json:"pass_number"` // 1-based
	RunCount   int         `json:"run_count"`
	Runs       [][]float64 `json:"runs"`
}

// SingleRun reports a trailing group of one run carried to the next pass.
type SingleRun struct {
	PassNumber int       `json:"pass_number"`
	GroupIndex int       `json:"group_index"`
	Run        []float64 `json:"run"`
}

// MergeStart opens a K-way merge of one batch.
type MergeStart struct {
	PassNumber int         `json:"pass_number"`
	GroupIndex int         `json:"group_index"`
	BatchSize  int         `json:"batch_size"`
	Runs       [][]float64 `json:"runs"`
}

// Head is the current front element of one run in a batch.
type Head struct {
	RunIndex     int     `json:"run_index"`
	ElementIndex int     `json:"element_index"`
	Value        float64 `json:"value"`
}

// MergeCompare reports the visible heads and the minimum among them.
type MergeCompare struct {
	PassNumber int    `json:"pass_number"`
	GroupIndex int    `json:"group_index"`
	Candidates []Head `json:"candidates"`
	Min        Head   `json:"min"`
}

// MergeSelect reports the minimum moved to the output run.
type MergeSelect struct {
	PassNumber int       `json:"pass_number"`
	GroupIndex int       `json:"group_index"`
	Value      float64   `json:"value"`
	RunIndex   int       `json:"run_index"`
	Output     []float64 `json:"output"`
	Cursors    []int     `json:"cursors"`
}

// MergeComplete closes a batch merge.
type MergeComplete struct {
	PassNumber int       `json:"pass_number"`
	GroupIndex int       `json:"group_index"`
	MergedRun  []float64 `json:"merged_run"`
}

// FinalRun closes the merge phase.
type FinalRun struct {
	Run []float64 `json:"run"`
}

// Complete is the payload of the terminal step.
type Complete struct {
	Sorted []float64  `json:"sorted"`
	Stats  Statistics `json:"stats"`
}

func (*RunGenerationStart) payload() {}
func (*ReadChunk) payload()          {}
func (*SortProgress) payload()       {}
func (*WriteRun) payload()           {}
func (*RunSetSnapshot) payload()     {}
func (*PassProgress) payload()       {}
func (*SingleRun) payload()          {}
func (*MergeStart) payload()         {}
func (*MergeCompare) payload()       {}
func (*MergeSelect) payload()        {}
func (*MergeComplete) payload()      {}
func (*FinalRun) payload()           {}
func (*Complete) payload()           {}

// cloneRun returns an independent copy of r. A nil run becomes an empty one
// so JSON consumers always see an array.
func cloneRun(r []float64) []float64 {
	out := make([]float64, len(r))
	copy(out, r)
	return out
}

// cloneRuns deep-copies a RunSet.
func cloneRuns(runs [][]float64) [][]float64 {
	out := make([][]float64, len(runs))
	for i, r := range runs {
		out[i] = cloneRun(r)
	}
	return out
}
