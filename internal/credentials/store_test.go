package credentials

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Veraticus/gastos/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreContract(t *testing.T) {
	backends := []struct {
		open func(t *testing.T) Store
		name string
	}{
		{
			name: "memory",
			open: func(_ *testing.T) Store { return NewMemoryStore() },
		},
		{
			name: "file",
			open: func(t *testing.T) Store {
				return NewFileStore(filepath.Join(t.TempDir(), "gastos", "session.json"))
			},
		},
		{
			name: "sqlite",
			open: func(t *testing.T) Store {
				return Open(context.Background(), config.BackendSQLite, filepath.Join(t.TempDir(), "gastos.db"))
			},
		},
	}

	for _, tt := range backends {
		t.Run(tt.name, func(t *testing.T) {
			store := tt.open(t)
			if closer, ok := store.(interface{ Close() error }); ok {
				t.Cleanup(func() { _ = closer.Close() })
			}

			_, ok := store.Load()
			assert.False(t, ok, "fresh store should be empty")

			store.Save("token-1")
			store.Save("token-2")
			token, ok := store.Load()
			require.True(t, ok)
			assert.Equal(t, "token-2", token)

			store.Clear()
			_, ok = store.Load()
			assert.False(t, ok)

			// Clearing twice is harmless.
			store.Clear()

			store.Save("")
			_, ok = store.Load()
			assert.False(t, ok, "an empty token is not a session")
		})
	}
}

func TestFileStoreSurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	NewFileStore(path).Save("persisted")

	token, ok := NewFileStore(path).Load()
	require.True(t, ok)
	assert.Equal(t, "persisted", token)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestFileStoreIgnoresCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, ok := NewFileStore(path).Load()
	assert.False(t, ok)
}

func TestFileStoreUnavailableIsSilent(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0600))

	// The parent "directory" is a regular file, so every write fails.
	store := NewFileStore(filepath.Join(blocker, "session.json"))

	assert.NotPanics(t, func() {
		store.Save("lost")
		store.Clear()
	})
	_, ok := store.Load()
	assert.False(t, ok)
}

func TestOpenUnavailableSQLiteDegrades(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0600))

	store := Open(context.Background(), config.BackendSQLite, filepath.Join(blocker, "gastos.db"))

	store.Save("lost")
	_, ok := store.Load()
	assert.False(t, ok)
	assert.IsType(t, unavailableStore{}, store)
}

func TestOpenSelectsBackend(t *testing.T) {
	assert.IsType(t, &MemoryStore{}, Open(context.Background(), config.BackendMemory, ""))
	assert.IsType(t, &FileStore{}, Open(context.Background(), config.BackendFile, filepath.Join(t.TempDir(), "s.json")))
}
