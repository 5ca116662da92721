// Package dedup filters a modulus stream down to first-seen-order uniques.
package dedup

import (
	"github.com/bits-and-blooms/bloom/v3"
)

// Sized for the full collection run: ~1e7 moduli at a false-positive rate
// of 1e-9, which works out to 431327627 bits and 30 hash functions. A false
// positive drops a genuinely new modulus; at this rate that is an accepted
// sampling property of the audit.
const (
	expectedModuli    = 10_000_000
	falsePositiveRate = 1e-9
)

// Filter answers "have I seen this modulus before?" with test-and-add
// semantics. The Bloom-backed form may very rarely answer yes to a new
// modulus; the exact form never does, at the cost of holding every modulus
// in memory.
type Filter struct {
	bloom *bloom.BloomFilter
	exact map[string]struct{}
}

// New returns the Bloom-backed filter used for full-scale runs.
func New() *Filter {
	return &Filter{bloom: bloom.NewWithEstimates(expectedModuli, falsePositiveRate)}
}

// NewExact returns a map-backed filter with deterministic behavior.
func NewExact() *Filter {
	return &Filter{exact: make(map[string]struct{})}
}

// Seen tests and records the modulus in one step. The first call for a
// given modulus returns false; later calls return true.
func (f *Filter) Seen(modulus []byte) bool {
	if f.exact != nil {
		if _, ok := f.exact[string(modulus)]; ok {
			return true
		}
		f.exact[string(modulus)] = struct{}{}
		return false
	}
	return f.bloom.TestAndAdd(modulus)
}
