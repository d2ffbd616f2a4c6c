package datafile

import (
	"fmt"
	"sort"

	"github.com/cespare/xxhash/v2"
	"github.com/spaolacci/murmur3"
	"github.com/zeebo/xxh3"
)

// Digest algorithm names accepted by Digest.
const (
	DigestXXHash64 = "xxhash64"
	DigestXXH3     = "xxh3"
	DigestMurmur3  = "murmur3"

	DefaultDigest = DigestXXHash64
)

var digestFuncs = map[string]func([]byte) uint64{
	DigestXXHash64: xxhash.Sum64,
	DigestXXH3:     xxh3.Hash,
	DigestMurmur3:  murmur3.Sum64,
}

// ValidDigestAlgorithms is the set of recognized digest names.
// The empty string selects DefaultDigest.
var ValidDigestAlgorithms = map[string]bool{"": true, DigestXXHash64: true, DigestXXH3: true, DigestMurmur3: true}

// DigestNames lists the algorithm names in sorted order.
func DigestNames() []string {
	names := make([]string, 0, len(digestFuncs))
	for name := range digestFuncs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Digest checksums the binary encoding of data, so a digest of the values
// equals a digest of the file written by WriteFloat64File.
func Digest(algo string, data []float64) (uint64, error) {
	if algo == "" {
		algo = DefaultDigest
	}
	fn, ok := digestFuncs[algo]
	if !ok {
		return 0, fmt.Errorf("%q: %w", algo, ErrUnknownDigest)
	}
	return fn(Encode(data)), nil
}
