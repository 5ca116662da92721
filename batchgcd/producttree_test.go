package batchgcd

import (
	"testing"

	"github.com/ncw/gmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ints(vals ...int64) []*gmp.Int {
	out := make([]*gmp.Int, len(vals))
	for i, v := range vals {
		out[i] = gmp.NewInt(v)
	}
	return out
}

func TestProductTreeShape(t *testing.T) {
	for _, n := range []int{0, 3, 5, 6, 12} {
		_, err := NewProductTree(make([]*gmp.Int, n))
		assert.Error(t, err, "leaf count %d", n)
	}
}

func TestProductTreeSingleton(t *testing.T) {
	tree, err := NewProductTree(ints(42))
	require.NoError(t, err)
	assert.Equal(t, 1, tree.Depth())
	assert.Equal(t, int64(42), tree.Root().Int64())
}

func TestProductTreeLevels(t *testing.T) {
	tree, err := NewProductTree(ints(2, 3, 5, 7))
	require.NoError(t, err)
	require.Equal(t, 3, tree.Depth())
	assert.Equal(t, int64(210), tree.Root().Int64())
	assert.Equal(t, int64(6), tree.levels[1][0].Int64())
	assert.Equal(t, int64(35), tree.levels[1][1].Int64())
}

func TestRemaindersMonolithic(t *testing.T) {
	leaves := ints(15, 77, 221, 13)
	tree, err := NewProductTree(leaves)
	require.NoError(t, err)

	rems := tree.Remainders(tree.Root())
	require.Len(t, rems, 4)

	product := tree.Root()
	sq := new(gmp.Int)
	want := new(gmp.Int)
	for i, leaf := range leaves {
		sq.Mul(leaf, leaf)
		want.Rem(product, sq)
		assert.Zero(t, rems[i].Cmp(want), "leaf %d", i)
	}
}

func TestRemaindersExternalHead(t *testing.T) {
	// A head that is not the tree's own product must flow down unchanged
	// through the mod-square chain.
	tree, err := NewProductTree(ints(15, 77))
	require.NoError(t, err)

	head := gmp.NewInt(1000)
	rems := tree.Remainders(head)
	assert.Equal(t, int64(1000%225), rems[0].Int64())
	assert.Equal(t, int64(1000%5929), rems[1].Int64())
}
