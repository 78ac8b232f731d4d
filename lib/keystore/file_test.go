package keystore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_MissingFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.yaml")
	fs, err := OpenFileStore(path)
	require.NoError(t, err)
	assert.Empty(t, fs.Snapshot())

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "file is created lazily on first write")
}

func TestFileStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "store.yaml")

	fs, err := OpenFileStore(path)
	require.NoError(t, err)
	require.NoError(t, fs.Set(RawKey("K_APP_ENDPOINT"), StringValue("https://custom")))
	require.NoError(t, fs.Set(RawKey("K_DID_OPEN_APP"), BoolValue(true)))
	require.NoError(t, fs.Set(RawKey("temp"), StringValue("gone")))
	require.NoError(t, fs.Remove(RawKey("temp")))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	reopened, err := OpenFileStore(path)
	require.NoError(t, err)

	v, ok := reopened.Get(RawKey("K_APP_ENDPOINT"))
	require.True(t, ok)
	assert.True(t, v.Equal(StringValue("https://custom")))

	v, ok = reopened.Get(RawKey("K_DID_OPEN_APP"))
	require.True(t, ok)
	assert.True(t, v.Equal(BoolValue(true)), "bools must keep their kind across restarts")

	_, ok = reopened.Get(RawKey("temp"))
	assert.False(t, ok)
}

func TestFileStore_CorruptFileIsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.yaml")
	require.NoError(t, os.WriteFile(path, []byte("a: [unclosed\n"), 0o600))

	_, err := OpenFileStore(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCorruptStore)
}

func TestFileStore_SkipsUnsupportedValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.yaml")
	require.NoError(t, os.WriteFile(path, []byte("a: 12\nb: hello\n"), 0o600))

	fs, err := OpenFileStore(path)
	require.NoError(t, err)
	_, ok := fs.Get(RawKey("a"))
	assert.False(t, ok)
	_, ok = fs.Get(RawKey("b"))
	assert.True(t, ok)
}

func TestFileStore_FailedWriteEmitsNoEvent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "store.yaml")
	fs, err := OpenFileStore(path)
	require.NoError(t, err)

	// A directory in place of the target makes the final rename fail.
	require.NoError(t, os.Mkdir(path, 0o700))

	var events int
	fs.Subscribe(func(Event) { events++ })
	err = fs.Set(RawKey("a"), StringValue("x"))
	require.Error(t, err)
	assert.Zero(t, events)

	_, ok := fs.Get(RawKey("a"))
	assert.False(t, ok, "a failed write must not change the in-memory view")
}

func TestFileStore_CloseFlushes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.yaml")
	fs, err := OpenFileStore(path)
	require.NoError(t, err)
	require.NoError(t, fs.Close())

	_, err = os.Stat(path)
	assert.NoError(t, err)
	assert.Equal(t, path, fs.Path())
}
