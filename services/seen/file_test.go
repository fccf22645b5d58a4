package seen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustAdd(t *testing.T, store Store, id string) {
	t.Helper()
	_, err := store.Add(id)
	require.NoError(t, err)
}

func TestFileStoreLoadMissingFile(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "absent.txt"))

	// A missing file is an empty set, not an error
	assert.NoError(t, store.Load())
	assert.Equal(t, 0, store.Len())
	assert.False(t, store.Contains("anything"))
}

func TestFileStoreLoadToleratesBlankAndDuplicateLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen.txt")
	require.NoError(t, os.WriteFile(path, []byte("a\n\nb\r\na\n   \nb\n"), 0644))

	store := NewFileStore(path)
	require.NoError(t, store.Load())

	assert.Equal(t, 2, store.Len())
	assert.True(t, store.Contains("a"))
	assert.True(t, store.Contains("b"))
}

func TestFileStoreAddReportsNewlyAdded(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "seen.txt"))
	require.NoError(t, store.Load())

	added, err := store.Add("x")
	require.NoError(t, err)
	assert.True(t, added)

	added, err = store.Add("x")
	require.NoError(t, err)
	assert.False(t, added)

	assert.Equal(t, 1, store.Len())
	assert.True(t, store.Contains("x"))
}

func TestFileStoreAddReportsLoadedIdsAsNotNew(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen.txt")
	require.NoError(t, os.WriteFile(path, []byte("old-id\n"), 0644))

	store := NewFileStore(path)
	require.NoError(t, store.Load())

	added, err := store.Add("old-id")
	require.NoError(t, err)
	assert.False(t, added)
}

func TestFileStorePersistRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen.txt")

	store := NewFileStore(path)
	require.NoError(t, store.Load())
	mustAdd(t, store, "post-1")
	mustAdd(t, store, "post-2")
	require.NoError(t, store.Persist())

	// No temp file left behind after the rename
	assert.NoFileExists(t, path+".tmp")

	reloaded := NewFileStore(path)
	require.NoError(t, reloaded.Load())
	assert.True(t, reloaded.Contains("post-1"))
	assert.True(t, reloaded.Contains("post-2"))
	assert.Equal(t, 2, reloaded.Len())
}

func TestFileStorePersistKeepsLoadedIds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen.txt")
	require.NoError(t, os.WriteFile(path, []byte("old-id\n"), 0644))

	store := NewFileStore(path)
	require.NoError(t, store.Load())
	mustAdd(t, store, "new-id")
	require.NoError(t, store.Persist())

	reloaded := NewFileStore(path)
	require.NoError(t, reloaded.Load())
	assert.True(t, reloaded.Contains("old-id"))
	assert.True(t, reloaded.Contains("new-id"))
}
