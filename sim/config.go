package sim

import (
	"errors"
	"fmt"
)

// Default engine parameters, matching the values the visualizer started with.
const (
	DefaultMemoryLimit = 4
	DefaultFanIn       = 2
)

var (
	// ErrInvalidMemoryLimit is returned when M < 1.
	ErrInvalidMemoryLimit = errors.New("sim: memory limit must be at least 1")
	// ErrInvalidFanIn is returned when K < 2.
	ErrInvalidFanIn = errors.New("sim: fan-in must be at least 2")
)

// Config groups the two engine parameters.
type Config struct {
	MemoryLimit int // M: max elements sorted in one chunk (must be >= 1)
	FanIn       int // K: max runs merged in one batch (must be >= 2)
}

// NewConfig creates a Config. Zero values are NOT replaced by defaults;
// use DefaultConfig for that.
func NewConfig(memoryLimit, fanIn int) Config {
	return Config{MemoryLimit: memoryLimit, FanIn: fanIn}
}

// DefaultConfig returns M=4, K=2.
func DefaultConfig() Config {
	return Config{MemoryLimit: DefaultMemoryLimit, FanIn: DefaultFanIn}
}

// Validate checks the parameter ranges.
func (c Config) Validate() error {
	if c.MemoryLimit < 1 {
		return fmt.Errorf("memory limit %d: %w", c.MemoryLimit, ErrInvalidMemoryLimit)
	}
	if c.FanIn < 2 {
		return fmt.Errorf("fan-in %d: %w", c.FanIn, ErrInvalidFanIn)
	}
	return nil
}
