package journal

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
)

const (
	recordAlice = `{"user":{"id":1,"login":"alice","createdAt":"2018-03-01T10:00:00Z","updatedAt":"2019-01-05T00:00:00Z"},"keys":["ssh-rsa AAAA alice@host"]}`
	recordBob   = `{"user":{"id":2,"login":"bob","name":"Bob","company":"ACME","createdAt":"2017-07-14T08:30:00Z","updatedAt":"2018-11-20T12:00:00Z"},"keys":[]}`
	recordCarol = `{"user":{"id":3,"login":"carol","createdAt":"2020-02-02T02:02:02Z","updatedAt":"2020-02-02T02:02:02Z"},"keys":["ssh-ed25519 AAAA","ssh-rsa BBBB"]}`
)

func readAll(t *testing.T, r *Reader) []*Record {
	t.Helper()
	var out []*Record
	for {
		rec, err := r.Next()
		if err == io.EOF {
			return out
		}
		require.NoError(t, err)
		out = append(out, rec)
	}
}

func TestReaderFraming(t *testing.T) {
	// Leading LF, interior empty line, and an unterminated trailing record.
	stream := "\n" + recordAlice + "\n\n" + recordBob + "\n" + recordCarol

	records := readAll(t, NewReader(strings.NewReader(stream)))
	require.Len(t, records, 3)
	assert.Equal(t, "alice", records[0].User.Login)
	assert.Equal(t, "bob", records[1].User.Login)
	assert.Equal(t, "carol", records[2].User.Login)
	assert.Len(t, records[2].Keys, 2)
}

func TestReaderEmptyStream(t *testing.T) {
	records := readAll(t, NewReader(strings.NewReader("")))
	assert.Empty(t, records)

	records = readAll(t, NewReader(strings.NewReader("\n\n")))
	assert.Empty(t, records)
}

func TestReaderCorruptRecord(t *testing.T) {
	tests := []struct {
		name   string
		stream string
	}{
		{"not json", "{nope\n"},
		{"missing id", `{"user":{"login":"x","createdAt":"2020-01-01T00:00:00Z","updatedAt":"2020-01-01T00:00:00Z"},"keys":[]}` + "\n"},
		{"missing login", `{"user":{"id":9,"createdAt":"2020-01-01T00:00:00Z","updatedAt":"2020-01-01T00:00:00Z"},"keys":[]}` + "\n"},
		{"negative id", `{"user":{"id":-2,"login":"x","createdAt":"2020-01-01T00:00:00Z","updatedAt":"2020-01-01T00:00:00Z"},"keys":[]}` + "\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewReader(strings.NewReader(tt.stream)).Next()
			assert.Error(t, err)
		})
	}
}

func TestReaderParsesProfile(t *testing.T) {
	records := readAll(t, NewReader(strings.NewReader(recordBob+"\n")))
	require.Len(t, records, 1)
	assert.Equal(t, int64(2), records[0].User.ID)
	assert.Equal(t, "ACME", records[0].User.Company)
	assert.Equal(t, 2017, records[0].User.CreatedAt.Year())
}

func writeChunk(t *testing.T, dir, name, content string) {
	t.Helper()
	if strings.HasSuffix(name, ".xz") {
		f, err := os.Create(filepath.Join(dir, name))
		require.NoError(t, err)
		defer f.Close()
		xw, err := xz.NewWriter(f)
		require.NoError(t, err)
		_, err = xw.Write([]byte(content))
		require.NoError(t, err)
		require.NoError(t, xw.Close())
		return
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"keys-0002.json", "keys-0001.json.xz", "keys-0010.json",
		"keys-003.json", "keys-00005.json", "notes.txt", "keys-0004.json.gz",
	} {
		writeChunk(t, dir, name, "")
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "keys-0009.json"), 0o755))

	chunks, err := Discover(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"keys-0001.json.xz", "keys-0002.json", "keys-0010.json"}, chunks)
}

func TestDiscoverMissingDir(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestOpenXz(t *testing.T) {
	dir := t.TempDir()
	writeChunk(t, dir, "keys-0001.json.xz", recordAlice+"\n")

	stream, err := Open(dir, "keys-0001.json.xz")
	require.NoError(t, err)
	defer stream.Close()

	records := readAll(t, NewReader(stream))
	require.Len(t, records, 1)
	assert.Equal(t, "alice", records[0].User.Login)
}

func TestScanConcatenatesChunks(t *testing.T) {
	dir := t.TempDir()
	writeChunk(t, dir, "keys-0002.json", recordCarol+"\n")
	writeChunk(t, dir, "keys-0001.json.xz", recordAlice+"\n"+recordBob+"\n")

	var logins []string
	err := Scan(dir, func(chunk string, rec *Record) error {
		logins = append(logins, chunk+":"+rec.User.Login)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"keys-0001.json.xz:alice",
		"keys-0001.json.xz:bob",
		"keys-0002.json:carol",
	}, logins)
}

func TestScanPropagatesCorruption(t *testing.T) {
	dir := t.TempDir()
	writeChunk(t, dir, "keys-0001.json", "{broken\n")

	err := Scan(dir, func(string, *Record) error { return nil })
	assert.Error(t, err)
}
