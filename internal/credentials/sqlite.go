package credentials

import (
	"context"
	"log/slog"

	"github.com/Veraticus/gastos/internal/storage"
)

// SQLiteStore keeps the token in the local SQLite database.
type SQLiteStore struct {
	db *storage.SQLiteStorage
}

// NewSQLiteStore wraps an opened, migrated database.
func NewSQLiteStore(db *storage.SQLiteStorage) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Save stores token.
func (s *SQLiteStore) Save(token string) {
	if err := s.db.PutCredential(context.Background(), TokenKey, token); err != nil {
		slog.Warn("Failed to save credentials", "path", s.db.Path(), "error", err)
	}
}

// Load returns the stored token.
func (s *SQLiteStore) Load() (string, bool) {
	token, ok, err := s.db.GetCredential(context.Background(), TokenKey)
	if err != nil {
		slog.Warn("Failed to read credentials", "path", s.db.Path(), "error", err)
		return "", false
	}
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

// Clear removes the stored token.
func (s *SQLiteStore) Clear() {
	if err := s.db.DeleteCredential(context.Background(), TokenKey); err != nil {
		slog.Warn("Failed to remove credentials", "path", s.db.Path(), "error", err)
	}
}

// Close releases the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
