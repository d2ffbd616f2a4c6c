// Package store persists the outcome of a completed sort so it can be
// inspected later without re-running the engine.
package store

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/extsort-sim/extsort-sim/sim"
	"github.com/extsort-sim/extsort-sim/sim/datafile"
)

var (
	// ErrChecksumMismatch means the stored data no longer matches its checksum.
	ErrChecksumMismatch = errors.New("store: checksum mismatch")
	// ErrInvalidRecord means a record failed structural validation.
	ErrInvalidRecord = errors.New("store: invalid record")
)

// Record is the persisted form of a finished sort.
type Record struct {
	SortedData        []float64      `yaml:"sorted_data"`
	Stats             sim.Statistics `yaml:"stats"`
	TotalSteps        int            `yaml:"total_steps"`
	Runs              int            `yaml:"runs"`
	Passes            int            `yaml:"passes"`
	MemoryLimit       int            `yaml:"memory_limit"`
	FanIn             int            `yaml:"fan_in"`
	ChecksumAlgorithm string         `yaml:"checksum_algorithm"`
	Checksum          string         `yaml:"checksum"` // 16 hex digits
	SavedAt           time.Time      `yaml:"saved_at"`
}

// NewRecord builds a Record from a drained sort and checksums its output.
func NewRecord(res sim.Result, cfg sim.Config, algo string, now time.Time) (*Record, error) {
	if algo == "" {
		algo = datafile.DefaultDigest
	}
	sum, err := datafile.Digest(algo, res.Sorted)
	if err != nil {
		return nil, fmt.Errorf("checksum result: %w", err)
	}
	return &Record{
		SortedData:        res.Sorted,
		Stats:             res.Stats,
		TotalSteps:        res.Steps,
		Runs:              res.Runs,
		Passes:            res.Passes,
		MemoryLimit:       cfg.MemoryLimit,
		FanIn:             cfg.FanIn,
		ChecksumAlgorithm: algo,
		Checksum:          FormatChecksum(sum),
		SavedAt:           now.UTC(),
	}, nil
}

// FormatChecksum renders a digest the way records store it.
func FormatChecksum(sum uint64) string {
	return fmt.Sprintf("%016x", sum)
}

// Validate checks record structure and recomputes the checksum.
func (r *Record) Validate() error {
	if err := sim.NewConfig(r.MemoryLimit, r.FanIn).Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	if r.Stats.Comparisons < 0 || r.Stats.Reads < 0 || r.Stats.Writes < 0 {
		return fmt.Errorf("%w: negative counters %+v", ErrInvalidRecord, r.Stats)
	}
	if !datafile.ValidDigestAlgorithms[r.ChecksumAlgorithm] {
		return fmt.Errorf("%w: unknown checksum algorithm %q", ErrInvalidRecord, r.ChecksumAlgorithm)
	}
	want, err := strconv.ParseUint(r.Checksum, 16, 64)
	if err != nil {
		return fmt.Errorf("%w: checksum %q is not hex", ErrInvalidRecord, r.Checksum)
	}
	got, err := datafile.Digest(r.ChecksumAlgorithm, r.SortedData)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	if got != want {
		return fmt.Errorf("stored %s, computed %s: %w", r.Checksum, FormatChecksum(got), ErrChecksumMismatch)
	}
	return nil
}

// Expired reports whether the record is older than maxAge at now.
// A non-positive maxAge never expires.
func (r *Record) Expired(now time.Time, maxAge time.Duration) bool {
	if maxAge <= 0 {
		return false
	}
	return now.Sub(r.SavedAt) > maxAge
}

// Save writes the record as YAML, truncating path.
func Save(path string, r *Record) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal result record: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write result record: %w", err)
	}
	logrus.Debugf("Successfully wrote result record to '%s'", path)
	return nil
}

// Load reads and validates a record. Unknown fields are errors so that a
// typo in a hand-edited record is not silently dropped.
func Load(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading result record: %w", err)
	}
	var r Record
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&r); err != nil {
		return nil, fmt.Errorf("parsing result record: %w", err)
	}
	if r.SortedData == nil {
		r.SortedData = []float64{}
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}
