package fileutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "result.json")

	require.NoError(t, WriteFileAtomic(path, []byte("hello world"), 0o644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files must not remain")
}

func TestWriteFileAtomicOverwrite(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "result.json")
	require.NoError(t, WriteFileAtomic(path, []byte("initial"), 0o644))
	require.NoError(t, WriteFileAtomic(path, []byte("updated content"), 0o644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "updated content", string(data))
}

func TestWriteFileAtomicInvalidDir(t *testing.T) {
	t.Parallel()

	assert.Error(t, WriteFileAtomic("/nonexistent/dir/test.txt", []byte("data"), 0o644))
}

func TestJSONRoundTrip(t *testing.T) {
	t.Parallel()

	type ratings struct {
		Bots map[string]float64 `json:"bots"`
		Note string             `json:"note"`
	}
	path := filepath.Join(t.TempDir(), "ratings.json")
	in := ratings{Bots: map[string]float64{"a": 1516, "b": 1484}, Note: "<a&b>"}
	require.NoError(t, WriteJSONAtomic(path, in))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"note": "<a&b>"`)
	assert.True(t, bytes.HasSuffix(data, []byte("\n")))

	var out ratings
	found, err := ReadJSON(path, &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, in, out)
}

func TestReadJSONMissing(t *testing.T) {
	t.Parallel()

	var out map[string]int
	found, err := ReadJSON(filepath.Join(t.TempDir(), "missing.json"), &out)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, out)
}

func TestReadJSONCorrupt(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))

	var out map[string]int
	found, err := ReadJSON(path, &out)
	assert.True(t, found)
	assert.Error(t, err)
}
