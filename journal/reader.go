package journal

import (
	"bufio"
	"encoding/json"
	"io"

	"github.com/go-errors/errors"
)

// Reader yields records from one chunk's byte stream, splitting at LF.
// Empty lines produce nothing. A non-empty trailing line without a
// terminating LF is still emitted. The caller concatenates chunk streams by
// opening one Reader per chunk in order.
type Reader struct {
	br *bufio.Reader
}

func NewReader(r io.Reader) *Reader {
	return &Reader{br: bufio.NewReaderSize(r, 1<<20)}
}

// Next returns the next record, or io.EOF at end of stream. Any decode or
// schema failure is a hard error: a corrupt record invalidates the journal.
func (r *Reader) Next() (*Record, error) {
	for {
		line, err := r.br.ReadBytes('\n')
		if err != nil && err != io.EOF {
			return nil, errors.Wrap(err, 0)
		}
		atEOF := err == io.EOF

		line = trimLF(line)
		if len(line) == 0 {
			if atEOF {
				return nil, io.EOF
			}
			continue
		}

		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, errors.WrapPrefix(err, "corrupt journal record", 0)
		}
		if err := rec.validate(); err != nil {
			return nil, err
		}
		return &rec, nil
	}
}

func trimLF(line []byte) []byte {
	if len(line) > 0 && line[len(line)-1] == '\n' {
		line = line[:len(line)-1]
	}
	return line
}
