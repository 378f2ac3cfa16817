// Package session owns the client's authenticated identity.
//
// A Context is the one process-wide session value. It is created once at
// startup and passed by reference to the gateway and to the manager; there
// is no package-level session.
package session

import (
	"sync"

	"github.com/Veraticus/gastos/internal/credentials"
)

// State is either Anonymous or Authenticated.
type State int

const (
	// Anonymous means no bearer token is held.
	Anonymous State = iota
	// Authenticated means a bearer token is held and sent with every request.
	Authenticated
)

func (s State) String() string {
	switch s {
	case Authenticated:
		return "authenticated"
	default:
		return "anonymous"
	}
}

// Context holds the current bearer token.
type Context struct {
	token string
	mu    sync.RWMutex
}

// NewContext returns a context holding token; an empty token is anonymous.
func NewContext(token string) *Context {
	return &Context{token: token}
}

// Restore builds the startup context from whatever store holds. No network
// call is made; a persisted token is trusted until the backend rejects it.
func Restore(store credentials.Store) *Context {
	token, ok := store.Load()
	if !ok {
		return NewContext("")
	}
	return NewContext(token)
}

// Token returns the current token. It satisfies gateway.TokenSource.
func (c *Context) Token() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token, c.token != ""
}

// State reports whether a token is held.
func (c *Context) State() State {
	if _, ok := c.Token(); ok {
		return Authenticated
	}
	return Anonymous
}

// replace swaps the token and runs persist inside the same critical section,
// so no request can observe the new token before the store does or vice versa.
func (c *Context) replace(token string, persist func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	persist()
	c.token = token
}
