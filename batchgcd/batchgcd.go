// Package batchgcd finds RSA moduli that share a prime factor with any other
// modulus in a large set, in near-linear time, using D.J. Bernstein's
// product/remainder tree construction ("How to find smooth parts of
// integers", http://cr.yp.to/papers.html#smoothparts).
//
// NOTE: the tree construction was written with fastgcd available at
// https://factorable.net/ as a reference, which was written by Nadia Heninger
// and J. Alex Halderman. I thank them for their original code and paper.
package batchgcd

import (
	"sort"

	"github.com/ncw/gmp"
)

var one = gmp.NewInt(1)

// nextPowerOfTwo returns the smallest power of two >= n.
func nextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// pad right-pads the moduli with 1 entries to the next power of two. The
// multiplicative identity contributes nothing to any product and can never
// match.
func pad(moduli []*gmp.Int) []*gmp.Int {
	target := nextPowerOfTwo(len(moduli))
	if target == len(moduli) {
		return moduli
	}
	padded := make([]*gmp.Int, len(moduli), target)
	copy(padded, moduli)
	for len(padded) < target {
		padded = append(padded, one)
	}
	return padded
}

// Audit runs the sharded batch GCD over the moduli and returns every
// non-trivial match, sorted by ascending input index. workers must be a
// power of two no larger than the padded modulus count.
func Audit(moduli []*gmp.Int, workers int) ([]Match, error) {
	if len(moduli) == 0 {
		return nil, nil
	}
	padded := pad(moduli)

	gcds, err := runSharded(padded, workers)
	if err != nil {
		return nil, err
	}

	matches := make([]Match, 0)
	for i, g := range gcds {
		if i >= len(moduli) || g.BitLen() == 1 {
			continue
		}
		matches = append(matches, newMatch(i, moduli[i], g))
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Index < matches[j].Index })
	return matches, nil
}

// MaxWorkers returns the largest admissible worker count for n moduli given
// ncpu CPUs: a power of two no larger than either.
func MaxWorkers(n, ncpu int) int {
	padded := nextPowerOfTwo(n)
	k := 1
	for k*2 <= ncpu && k*2 <= padded {
		k *= 2
	}
	return k
}
