package batchgcd

import (
	"fmt"

	"github.com/ncw/gmp"
)

// Match reports that the modulus at Index shares a non-trivial factor with
// at least one other modulus in the audited set. Divisor is the recovered
// common factor; Cofactor is Modulus/Divisor. When the same modulus appears
// twice in the input, Divisor equals the modulus itself.
type Match struct {
	Index    int
	Modulus  *gmp.Int
	Divisor  *gmp.Int
	Cofactor *gmp.Int
}

func newMatch(index int, modulus, divisor *gmp.Int) Match {
	return Match{
		Index:    index,
		Modulus:  modulus,
		Divisor:  divisor,
		Cofactor: new(gmp.Int).Quo(modulus, divisor),
	}
}

// Duplicate reports whether this match is a same-modulus collision rather
// than a shared-prime collision.
func (m Match) Duplicate() bool {
	return m.Divisor.Cmp(m.Modulus) == 0
}

func (m Match) String() string {
	if m.Duplicate() {
		return fmt.Sprintf("DUPLICATE: %d N=%x", m.Index, m.Modulus)
	}
	if m.Divisor.Cmp(m.Cofactor) < 0 {
		return fmt.Sprintf("COLLISION: %d N=%x P=%x Q=%x", m.Index, m.Modulus, m.Divisor, m.Cofactor)
	}
	return fmt.Sprintf("COLLISION: %d N=%x P=%x Q=%x", m.Index, m.Modulus, m.Cofactor, m.Divisor)
}

// Csv renders the match in the audit output format: decimal index, comma,
// lowercase hex divisor.
func (m Match) Csv() string {
	return fmt.Sprintf("%d,%x", m.Index, m.Divisor)
}

// Test verifies the divisor/cofactor split against the modulus.
func (m Match) Test() bool {
	if m.Divisor.Sign() == 0 {
		return false
	}
	n := new(gmp.Int).Mul(m.Divisor, m.Cofactor)
	return n.Cmp(m.Modulus) == 0
}
