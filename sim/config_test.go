package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewConfig_FieldEquivalence(t *testing.T) {
	got := NewConfig(8, 3)
	want := Config{MemoryLimit: 8, FanIn: 3}
	assert.Equal(t, want, got)
}

func TestNewConfig_ZeroValues_NoDefaults(t *testing.T) {
	// Zero-value arguments must NOT inject defaults
	assert.Equal(t, Config{}, NewConfig(0, 0))
}

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 4, cfg.MemoryLimit)
	assert.Equal(t, 2, cfg.FanIn)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate_Boundaries(t *testing.T) {
	assert.NoError(t, NewConfig(1, 2).Validate())
	assert.ErrorIs(t, NewConfig(0, 2).Validate(), ErrInvalidMemoryLimit)
	assert.ErrorIs(t, NewConfig(1, 1).Validate(), ErrInvalidFanIn)
	// memory limit is checked first
	assert.ErrorIs(t, NewConfig(0, 0).Validate(), ErrInvalidMemoryLimit)
}
