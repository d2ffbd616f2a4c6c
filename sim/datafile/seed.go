package datafile

import (
	"fmt"
	"hash/fnv"
	"math/rand"
)

// PrimaryStream is the stream name that uses the seed directly, so a single
// generated file matches `run --random` with the same seed.
const PrimaryStream = ""

// StreamForFile returns the stream name for the i-th generated file.
// File 0 is the primary stream.
func StreamForFile(i int) string {
	if i == 0 {
		return PrimaryStream
	}
	return fmt.Sprintf("file_%d", i)
}

// Sources provides deterministic, isolated RNG instances per named stream.
//
// Derivation formula:
//   - For PrimaryStream: uses seed directly
//   - For all other streams: seed XOR fnv1a64(name)
//
// Thread-safety: NOT thread-safe. Must be called from single goroutine.
type Sources struct {
	seed    int64
	streams map[string]*rand.Rand
}

// NewSources creates Sources from a master seed.
func NewSources(seed int64) *Sources {
	return &Sources{
		seed:    seed,
		streams: make(map[string]*rand.Rand),
	}
}

// For returns the RNG for the named stream. The same name always returns
// the same *rand.Rand instance. Never returns nil.
func (s *Sources) For(name string) *rand.Rand {
	if rng, ok := s.streams[name]; ok {
		return rng
	}
	derived := s.seed
	if name != PrimaryStream {
		derived = s.seed ^ fnv1a64(name)
	}
	rng := rand.New(rand.NewSource(derived))
	s.streams[name] = rng
	return rng
}

// Seed returns the master seed.
func (s *Sources) Seed() int64 {
	return s.seed
}

func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
