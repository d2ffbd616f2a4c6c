// Package sim provides the balanced K-way external merge sort engine.
//
// # Reading Guide
//
// Start with these three files to understand the engine:
//   - step.go: Step records, phases and payload types emitted by the engine
//   - engine.go: the pull-based iterator that drives the three stages
//   - kway_merger.go: linear selection-of-minimum across a batch of runs
//
// # Architecture
//
// Sorting runs as one pipeline of three stages, each an explicit state
// machine that yields one Step per call:
//   - run_producer.go: chunks of at most M elements, sorted with insertion sort
//   - merge_scheduler.go: passes that group runs into batches of at most K
//   - kway_merger.go: merges a single batch into one run
//
// Collaborators live in sub-packages and never reach into engine state:
//   - sim/datafile/: float64 binary files, validation, checksums
//   - sim/store/: persisted result records
//   - sim/trace/: step recording and summaries
//
// # Determinism
//
// An Engine is single-threaded and holds no external resources. The same
// input and Config always produce the same Step sequence. Concurrent sorts
// must each construct their own Engine.
package sim
