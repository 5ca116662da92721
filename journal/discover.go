package journal

import (
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/go-errors/errors"
	"github.com/ulikunitz/xz"
)

var chunkName = regexp.MustCompile(`^keys-\d{4}\.json(\.xz)?$`)

// Discover lists the journal chunks in dir, ascending by chunk id. Files
// that don't match the chunk naming scheme are ignored.
func Discover(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, 0)
	}

	var chunks []string
	for _, entry := range entries {
		if entry.IsDir() || !chunkName.MatchString(entry.Name()) {
			continue
		}
		chunks = append(chunks, entry.Name())
	}
	sort.Strings(chunks)
	return chunks, nil
}

type chunkStream struct {
	io.Reader
	file *os.File
}

func (c *chunkStream) Close() error {
	return c.file.Close()
}

// Open opens one chunk as a byte stream, decompressing .xz transparently.
func Open(dir, name string) (io.ReadCloser, error) {
	file, err := os.Open(filepath.Join(dir, name))
	if err != nil {
		return nil, errors.Wrap(err, 0)
	}

	if !strings.HasSuffix(name, ".xz") {
		return file, nil
	}

	xr, err := xz.NewReader(file)
	if err != nil {
		file.Close()
		return nil, errors.WrapPrefix(err, name, 0)
	}
	return &chunkStream{Reader: xr, file: file}, nil
}

// Scan runs fn over every record of every chunk in dir, in chunk order.
func Scan(dir string, fn func(chunk string, rec *Record) error) error {
	chunks, err := Discover(dir)
	if err != nil {
		return err
	}

	for _, chunk := range chunks {
		stream, err := Open(dir, chunk)
		if err != nil {
			return err
		}

		reader := NewReader(stream)
		for {
			rec, err := reader.Next()
			if err == io.EOF {
				break
			}
			if err != nil {
				stream.Close()
				return errors.WrapPrefix(err, chunk, 0)
			}
			if err := fn(chunk, rec); err != nil {
				stream.Close()
				return err
			}
		}
		if err := stream.Close(); err != nil {
			return errors.Wrap(err, 0)
		}
	}
	return nil
}
