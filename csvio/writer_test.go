package csvio_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vortex-fintech/crmclean/csvio"
	"github.com/vortex-fintech/crmclean/foundation/errx"
)

func TestWriteAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")

	err := csvio.WriteAtomic(path, []string{"email"}, [][]string{{"a@b.com"}, {"b@c.com"}})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "email\na@b.com\nb@c.com\n", string(data))

	// No temp files left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "out.csv", entries[0].Name())
}

func TestWriteAtomicQuoting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	err := csvio.WriteAtomic(path, []string{"email", "note"}, [][]string{{"a@b.com", "hello, world"}})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "email,note\na@b.com,\"hello, world\"\n", string(data))
}

func TestWriteAtomicBadDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.csv")

	err := csvio.WriteAtomic(path, []string{"email"}, nil)
	require.Error(t, err)
	assert.True(t, errx.IsOutput(err))

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}
