package batchgcd

import (
	"github.com/go-errors/errors"
	"github.com/ncw/gmp"
)

// ProductTree is a complete binary tree built over a power-of-two number of
// leaves. levels[0] is the root; levels[len-1] is the leaf slice itself.
// Each internal node is the product of its two children.
type ProductTree struct {
	levels [][]*gmp.Int
}

// NewProductTree builds the tree bottom-up, level by level. The leaf count
// must be a power of two; anything else is a logic error in the caller.
func NewProductTree(leaves []*gmp.Int) (*ProductTree, error) {
	n := len(leaves)
	if n == 0 || n&(n-1) != 0 {
		return nil, errors.Errorf("product tree wants a power-of-two leaf count, got %d", n)
	}

	levels := [][]*gmp.Int{leaves}
	for len(levels[len(levels)-1]) > 1 {
		prev := levels[len(levels)-1]
		next := make([]*gmp.Int, len(prev)/2)
		for i := range next {
			next[i] = new(gmp.Int).Mul(prev[2*i], prev[2*i+1])
		}
		levels = append(levels, next)
	}

	// Reverse so the root sits at level 0.
	for i, j := 0, len(levels)-1; i < j; i, j = i+1, j-1 {
		levels[i], levels[j] = levels[j], levels[i]
	}
	return &ProductTree{levels: levels}, nil
}

// Root returns the product of all leaves.
func (t *ProductTree) Root() *gmp.Int {
	return t.levels[0][0]
}

// Leaves returns the leaf slice the tree was built over.
func (t *ProductTree) Leaves() []*gmp.Int {
	return t.levels[len(t.levels)-1]
}

// Depth returns the number of levels.
func (t *ProductTree) Depth() int {
	return len(t.levels)
}
