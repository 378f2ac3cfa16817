package credentials

import (
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// fileState is the on-disk document.
type fileState struct {
	SavedAt     time.Time `json:"saved_at"`
	AccessToken string    `json:"access_token"`
}

// FileStore keeps the token in a JSON file readable only by the owner.
type FileStore struct {
	path string
}

// NewFileStore returns a store backed by the file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file location.
func (f *FileStore) Path() string {
	return f.path
}

// Save writes token to disk.
func (f *FileStore) Save(token string) {
	if err := os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		slog.Warn("Failed to create credential directory", "path", f.path, "error", err)
		return
	}

	data, err := json.MarshalIndent(fileState{AccessToken: token, SavedAt: time.Now()}, "", "  ")
	if err != nil {
		slog.Warn("Failed to encode credentials", "error", err)
		return
	}

	// Write-then-rename so a crash never leaves a half-written token behind.
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		slog.Warn("Failed to write credentials", "path", f.path, "error", err)
		return
	}
	if err := os.Rename(tmp, f.path); err != nil {
		_ = os.Remove(tmp)
		slog.Warn("Failed to write credentials", "path", f.path, "error", err)
	}
}

// Load reads the token from disk.
func (f *FileStore) Load() (string, bool) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.Warn("Failed to read credentials", "path", f.path, "error", err)
		}
		return "", false
	}

	var state fileState
	if err := json.Unmarshal(data, &state); err != nil {
		slog.Warn("Ignoring unreadable credentials file", "path", f.path, "error", err)
		return "", false
	}
	if state.AccessToken == "" {
		return "", false
	}

	return state.AccessToken, true
}

// Clear removes the file.
func (f *FileStore) Clear() {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("Failed to remove credentials", "path", f.path, "error", err)
	}
}
