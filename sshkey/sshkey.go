// Package sshkey extracts RSA moduli from OpenSSH authorized_keys lines.
package sshkey

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"strings"
)

var (
	// ErrNotRSA marks a line carrying some other key algorithm. Not a
	// failure; the caller skips the key.
	ErrNotRSA = errors.New("not an ssh-rsa key")

	// ErrMalformed marks a line that claims to be ssh-rsa but does not
	// decode: bad base64, broken length framing, or a wrong part count.
	ErrMalformed = errors.New("malformed ssh-rsa key")
)

const rsaPrefix = "ssh-rsa "

// ParseModulus returns the canonical modulus of an ssh-rsa authorized_keys
// line: the minimal big-endian encoding of N with the signed-magnitude pad
// byte stripped.
//
// The base64 body is a sequence of 4-byte big-endian length-prefixed
// strings; for RSA exactly three: the algorithm name, the public exponent
// and the modulus. Part values are not re-validated here.
func ParseModulus(line string) ([]byte, error) {
	if !strings.HasPrefix(line, rsaPrefix) {
		return nil, ErrNotRSA
	}

	fields := strings.Fields(line)
	if len(fields) < 2 {
		return nil, ErrMalformed
	}
	blob, err := base64.StdEncoding.DecodeString(fields[1])
	if err != nil {
		return nil, ErrMalformed
	}

	parts, err := wireParts(blob)
	if err != nil {
		return nil, err
	}
	if len(parts) != 3 {
		return nil, ErrMalformed
	}

	n := parts[2]
	if len(n) > 0 && n[0] == 0 {
		n = n[1:]
	}
	return n, nil
}

// wireParts splits an SSH wire blob into its length-prefixed strings.
func wireParts(blob []byte) ([][]byte, error) {
	var parts [][]byte
	for len(blob) > 0 {
		if len(blob) < 4 {
			return nil, ErrMalformed
		}
		length := binary.BigEndian.Uint32(blob)
		blob = blob[4:]
		if uint64(length) > uint64(len(blob)) {
			return nil, ErrMalformed
		}
		parts = append(parts, blob[:length])
		blob = blob[length:]
	}
	return parts, nil
}

// MarshalRSA is the inverse of ParseModulus for a canonical modulus: it
// re-encodes the exponent and modulus into the wire blob, restoring the
// sign pad when the modulus high bit is set.
func MarshalRSA(e, n []byte) []byte {
	if len(n) > 0 && n[0]&0x80 != 0 {
		padded := make([]byte, len(n)+1)
		copy(padded[1:], n)
		n = padded
	}

	out := make([]byte, 0, 4+len(rsaPrefix)+4+len(e)+4+len(n))
	for _, part := range [][]byte{[]byte("ssh-rsa"), e, n} {
		var length [4]byte
		binary.BigEndian.PutUint32(length[:], uint32(len(part)))
		out = append(out, length[:]...)
		out = append(out, part...)
	}
	return out
}
