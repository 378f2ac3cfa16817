package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlankKeysAreRejected(t *testing.T) {
	store, _ := createTestStorage(t)
	ctx := context.Background()

	keys := []struct {
		name string
		key  string
	}{
		{name: "empty", key: ""},
		{name: "spaces", key: "  "},
		{name: "tabs and newlines", key: "\t\n"},
	}

	for _, tt := range keys {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, store.PutCredential(ctx, tt.key, "value"), ErrEmptyString)
			_, _, err := store.GetCredential(ctx, tt.key)
			assert.ErrorIs(t, err, ErrEmptyString)
			assert.ErrorIs(t, store.DeleteCredential(ctx, tt.key), ErrEmptyString)
		})
	}

	// A rejected write leaves the table untouched.
	var rows int
	require.NoError(t, store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM credentials").Scan(&rows))
	assert.Zero(t, rows)
}

func TestBlankPathIsRejected(t *testing.T) {
	_, err := Open(context.Background(), " ")
	assert.ErrorIs(t, err, ErrEmptyString)

	_, err = NewSQLiteStorage("")
	assert.ErrorIs(t, err, ErrEmptyString)

	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "ok.db"))
	require.NoError(t, err)
	assert.NoError(t, store.Close())
}
