package batchgcd

import (
	"github.com/ncw/gmp"
)

// Remainders runs the remainder tree top-down and returns the leaf-level
// remainders: R[0] = head, R[i][j] = R[i-1][j/2] mod levels[i][j]^2.
//
// head replaces the tree's own root. A monolithic run passes Root(); the
// shard coordinator passes the spliced head remainder it computed for this
// partition, which is bit-for-bit what the upper levels of a monolithic
// remainder tree would have produced here.
func (t *ProductTree) Remainders(head *gmp.Int) []*gmp.Int {
	row := []*gmp.Int{head}
	tmp := new(gmp.Int)

	for level := 1; level < len(t.levels); level++ {
		nodes := t.levels[level]
		next := make([]*gmp.Int, len(nodes))
		for j, x := range nodes {
			tmp.Mul(x, x)
			next[j] = new(gmp.Int).Rem(row[j/2], tmp)
		}
		row = next
	}
	return row
}
