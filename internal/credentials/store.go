// Package credentials persists the bearer token between runs.
//
// Every backend degrades the same way: if the underlying storage cannot be
// read or written, the failure is logged and the call becomes a no-op. A
// client whose store is broken simply starts anonymous next time.
package credentials

import (
	"context"
	"log/slog"

	"github.com/Veraticus/gastos/internal/config"
	"github.com/Veraticus/gastos/internal/storage"
)

// TokenKey is the single durable key holding the bearer token.
const TokenKey = "access_token"

// Store is a durable holder for one bearer token.
type Store interface {
	Save(token string)
	Load() (string, bool)
	Clear()
}

// Open returns the store selected by backend. An unavailable backend yields
// a store that logs and discards every call.
func Open(ctx context.Context, backend, path string) Store {
	switch backend {
	case config.BackendMemory:
		return NewMemoryStore()
	case config.BackendSQLite:
		db, err := storage.Open(ctx, path)
		if err != nil {
			slog.Warn("Credential database unavailable, session will not persist",
				"path", path,
				"error", err)
			return unavailableStore{}
		}
		return NewSQLiteStore(db)
	default:
		return NewFileStore(path)
	}
}

// unavailableStore stands in for a backend that could not be opened.
type unavailableStore struct{}

func (unavailableStore) Save(string) {}

func (unavailableStore) Load() (string, bool) { return "", false }

func (unavailableStore) Clear() {}
