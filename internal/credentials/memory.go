package credentials

import "sync"

// MemoryStore keeps the token for the life of the process only.
type MemoryStore struct {
	token string
	mu    sync.Mutex
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Save stores token.
func (m *MemoryStore) Save(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
}

// Load returns the stored token. An empty token counts as absent.
func (m *MemoryStore) Load() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, m.token != ""
}

// Clear forgets the token.
func (m *MemoryStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
}
