package moduli

import (
	"bytes"
	"os"
	"path/filepath"
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

func writeTemp(t *testing.T, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "moduli")
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func assertEqualModuli(t *testing.T, want, got []*gmp.Int) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Zero(t, want[i].Cmp(got[i]), "modulus %d", i)
	}
}

func TestHexRoundTrip(t *testing.T) {
	ms := ints(15, 77, 221, 0xc0ffee)

	var buf bytes.Buffer
	require.NoError(t, WriteHex(&buf, ms))
	assert.Equal(t, "f\n4d\ndd\nc0ffee\n", buf.String())

	got, err := Read(writeTemp(t, buf.Bytes()))
	require.NoError(t, err)
	assertEqualModuli(t, ms, got)
}

func TestPackedRoundTrip(t *testing.T) {
	ms := ints(15, 77, 0xc0ffee)

	var buf bytes.Buffer
	require.NoError(t, WritePacked(&buf, ms))
	// 4-byte little-endian length, then big-endian magnitude.
	assert.Equal(t, []byte{1, 0, 0, 0, 0x0f}, buf.Bytes()[:5])

	got, err := Read(writeTemp(t, buf.Bytes()))
	require.NoError(t, err)
	assertEqualModuli(t, ms, got)
}

func TestReadHexWithCsvColumn(t *testing.T) {
	path := writeTemp(t, []byte("4d,ignored trailer\ndd\n"))
	got, err := Read(path)
	require.NoError(t, err)
	assertEqualModuli(t, ints(77, 221), got)
}

func TestReadEmptyFile(t *testing.T) {
	got, err := Read(writeTemp(t, nil))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReadInvalidHex(t *testing.T) {
	_, err := Read(writeTemp(t, []byte("c0ffee\nnothex\n")))
	assert.Error(t, err)
}

func TestReadTruncatedPacked(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePacked(&buf, ints(0xc0ffee)))
	_, err := Read(writeTemp(t, buf.Bytes()[:buf.Len()-1]))
	assert.Error(t, err)
}

func TestReadMissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}
