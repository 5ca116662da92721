// Package moduli reads and writes the modulus-list interchange formats that
// sit between extraction and the batch-GCD audit.
//
// Two forms exist: hex (one lowercase modulus per line, optionally with
// ignored trailing CSV columns) and packed binary (per modulus, a 4-byte
// little-endian length followed by that many bytes of big-endian magnitude).
// Read sniffs the form; a first line made of hex digits selects hex.
package moduli

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-errors/errors"
	"github.com/ncw/gmp"
)

// Read loads a modulus list from path, accepting either form.
func Read(path string) ([]*gmp.Int, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, 0)
	}
	defer fp.Close()

	br := bufio.NewReaderSize(fp, 1<<20)
	head, err := br.Peek(64)
	if err != nil && err != io.EOF {
		return nil, errors.Wrap(err, 0)
	}
	if looksLikeHex(head) {
		return readHex(br, path)
	}
	return readPacked(br, path)
}

// looksLikeHex reports whether the stream head reads as a hex line. An empty
// file counts as hex (an empty list).
func looksLikeHex(head []byte) bool {
	if len(head) == 0 {
		return true
	}
	for _, c := range head {
		switch {
		case c == '\n' || c == ',':
			return true
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		default:
			return false
		}
	}
	return true
}

func readHex(r io.Reader, path string) ([]*gmp.Int, error) {
	var moduli []*gmp.Int

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1<<20), 1<<20)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		// Accept CSV moduli, so long as modulus is first column
		s := strings.SplitN(line, ",", 2)[0]

		m := new(gmp.Int)
		if _, ok := m.SetString(s, 16); !ok {
			return nil, errors.Errorf("invalid modulus in %s: %q", path, line)
		}
		moduli = append(moduli, m)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, 0)
	}
	return moduli, nil
}

func readPacked(r io.Reader, path string) ([]*gmp.Int, error) {
	var moduli []*gmp.Int
	var length [4]byte

	for {
		if _, err := io.ReadFull(r, length[:]); err != nil {
			if err == io.EOF {
				return moduli, nil
			}
			return nil, errors.WrapPrefix(err, path, 0)
		}
		buf := make([]byte, binary.LittleEndian.Uint32(length[:]))
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, errors.WrapPrefix(err, path, 0)
		}
		moduli = append(moduli, new(gmp.Int).SetBytes(buf))
	}
}

// WriteHex emits the hex form: lowercase, no 0x prefix, no leading-zero pad.
func WriteHex(w io.Writer, moduli []*gmp.Int) error {
	bw := bufio.NewWriter(w)
	for _, m := range moduli {
		if _, err := fmt.Fprintf(bw, "%x\n", m); err != nil {
			return errors.Wrap(err, 0)
		}
	}
	return bw.Flush()
}

// WritePacked emits the binary form.
func WritePacked(w io.Writer, moduli []*gmp.Int) error {
	bw := bufio.NewWriter(w)
	var length [4]byte
	for _, m := range moduli {
		buf := m.Bytes()
		binary.LittleEndian.PutUint32(length[:], uint32(len(buf)))
		if _, err := bw.Write(length[:]); err != nil {
			return errors.Wrap(err, 0)
		}
		if _, err := bw.Write(buf); err != nil {
			return errors.Wrap(err, 0)
		}
	}
	return bw.Flush()
}
