package batchgcd

import (
	"github.com/ncw/gmp"
)

// leafGCDs finishes one partition: remainder tree down to the leaves, then
// for each modulus the exact quotient z = (head mod m^2)/m and gcd(z, m).
// The quotient form matches gcd(P/m, m) for squarefree m, which every honest
// RSA modulus is.
//
// A result of 1 means the modulus shares no factor with the rest of the set.
// Pad entries (m = 1) always come out as 1: the remainder is 0, the quotient
// is 0, and gcd(0, 1) = 1.
func leafGCDs(moduli []*gmp.Int, tree *ProductTree, head *gmp.Int) []*gmp.Int {
	rems := tree.Remainders(head)
	gcds := make([]*gmp.Int, len(moduli))
	tmp := new(gmp.Int)

	for i, m := range moduli {
		tmp.Quo(rems[i], m)
		if tmp.Sign() == 0 {
			// gcd(0, m) = m; gmp's GCD yields 0 when an argument is 0.
			gcds[i] = new(gmp.Int).Set(m)
			continue
		}
		gcds[i] = new(gmp.Int).GCD(nil, nil, tmp, m)
	}
	return gcds
}
