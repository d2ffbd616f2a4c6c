package sim

// Statistics holds the performance counters of one sort.
// All counters only grow until Engine.Reset.
type Statistics struct {
	Comparisons int64 `json:"comparisons" yaml:"comparisons"`
	Reads       int64 `json:"reads" yaml:"reads"`   // simulated chunk reads
	Writes      int64 `json:"writes" yaml:"writes"` // simulated run writes and merge outputs
}

// IOCount is reads plus writes.
func (s Statistics) IOCount() int64 {
	return s.Reads + s.Writes
}

// Summary extends the counters with the sort configuration.
type Summary struct {
	Statistics
	MemoryLimit  int
	FanIn        int
	OriginalSize int
}
