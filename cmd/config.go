package cmd

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/extsort-sim/extsort-sim/sim"
	"github.com/extsort-sim/extsort-sim/sim/datafile"
	"github.com/extsort-sim/extsort-sim/sim/trace"
)

// FileConfig is the YAML config accepted by --config.
// Nil pointer fields mean "not set in YAML" and leave flag defaults alone.
type FileConfig struct {
	MemoryLimit *int   `yaml:"memory_limit"`
	FanIn       *int   `yaml:"fan_in"`
	RandomCount *int   `yaml:"random_count"`
	Seed        *int64 `yaml:"seed"`
	Checksum    string `yaml:"checksum"`
	TraceLevel  string `yaml:"trace_level"`
	Log         string `yaml:"log"`
}

// LoadFileConfig parses path with strict field checking: typos must cause errors.
func LoadFileConfig(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var fc FileConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&fc); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := fc.Validate(); err != nil {
		return nil, err
	}
	return &fc, nil
}

// Validate checks every field that is set.
func (c *FileConfig) Validate() error {
	if c.MemoryLimit != nil && *c.MemoryLimit < 1 {
		return fmt.Errorf("memory_limit must be at least 1, got %d", *c.MemoryLimit)
	}
	if c.FanIn != nil && *c.FanIn < 2 {
		return fmt.Errorf("fan_in must be at least 2, got %d", *c.FanIn)
	}
	if c.RandomCount != nil && *c.RandomCount < 0 {
		return fmt.Errorf("random_count must be non-negative, got %d", *c.RandomCount)
	}
	if !datafile.ValidDigestAlgorithms[c.Checksum] {
		return fmt.Errorf("unknown checksum algorithm %q", c.Checksum)
	}
	if !trace.IsValidTraceLevel(c.TraceLevel) {
		return fmt.Errorf("unknown trace level %q", c.TraceLevel)
	}
	return nil
}

// engineConfig merges file values under explicit flag values.
func (c *FileConfig) engineConfig(m, k int, mChanged, kChanged bool) sim.Config {
	cfg := sim.NewConfig(m, k)
	if c == nil {
		return cfg
	}
	if c.MemoryLimit != nil && !mChanged {
		cfg.MemoryLimit = *c.MemoryLimit
	}
	if c.FanIn != nil && !kChanged {
		cfg.FanIn = *c.FanIn
	}
	return cfg
}
