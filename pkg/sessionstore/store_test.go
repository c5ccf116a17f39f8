package sessionstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	store, err := loadFrom(filepath.Join(t.TempDir(), "session.yaml"))
	require.NoError(t, err)
	assert.Empty(t, store.ID())
}

func TestSetAndReload(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "session.yaml")

	store, err := loadFrom(path)
	require.NoError(t, err)
	require.NoError(t, store.Set("sess-42"))

	reloaded, err := loadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "sess-42", reloaded.ID())
	assert.Equal(t, CurrentVersion, reloaded.Version)
}

func TestClear(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "session.yaml")

	store, err := loadFrom(path)
	require.NoError(t, err)
	require.NoError(t, store.Set("sess-42"))
	require.NoError(t, store.Clear())

	reloaded, err := loadFrom(path)
	require.NoError(t, err)
	assert.Empty(t, reloaded.ID())
}

func TestLoad_CorruptFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "session.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{not yaml: ["), 0o644))

	_, err := loadFrom(path)
	require.Error(t, err)
}

func TestSet_CreatesParentDirectory(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "dir", "session.yaml")

	store, err := loadFrom(path)
	require.NoError(t, err)
	require.NoError(t, store.Set("sess-1"))

	_, err = os.Stat(path)
	require.NoError(t, err)
}
