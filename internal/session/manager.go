package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/Veraticus/gastos/internal/common"
	"github.com/Veraticus/gastos/internal/credentials"
	"github.com/Veraticus/gastos/internal/gateway"
	"golang.org/x/oauth2"
)

// Backend endpoints used by the manager.
const (
	TokenPath    = "/token"
	RegisterPath = "/usuarios/"
)

// Gateway is the subset of gateway.Client the manager needs.
type Gateway interface {
	Request(ctx context.Context, method, path string, body any) (*gateway.Response, error)
	URL(path string) string
	HTTPClient() *http.Client
}

// Listener is called after every session transition.
type Listener func(State)

// Manager performs login, logout, and registration, keeping the session
// context and the credential store in step.
type Manager struct {
	session   *Context
	store     credentials.Store
	gw        Gateway
	logger    *slog.Logger
	listeners map[int]Listener
	nextID    int
	mu        sync.Mutex
}

// NewManager wires a manager to an existing session context.
func NewManager(session *Context, store credentials.Store, gw Gateway) *Manager {
	return &Manager{
		session:   session,
		store:     store,
		gw:        gw,
		logger:    common.Component("session"),
		listeners: make(map[int]Listener),
	}
}

// Session returns the context the manager mutates.
func (m *Manager) Session() *Context {
	return m.session
}

// State returns the current session state.
func (m *Manager) State() State {
	return m.session.State()
}

// Subscribe registers fn for session-state-changed signals and returns a
// function that removes it.
func (m *Manager) Subscribe(fn Listener) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++
	m.listeners[id] = fn

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.listeners, id)
	}
}

// Login exchanges identifier and secret for a bearer token via the OAuth2
// password grant. On success the token is persisted and becomes active for
// every later request. On failure nothing changes.
func (m *Manager) Login(ctx context.Context, identifier, secret string) error {
	cfg := oauth2.Config{
		Endpoint: oauth2.Endpoint{
			TokenURL:  m.gw.URL(TokenPath),
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}

	tokenCtx := context.WithValue(ctx, oauth2.HTTPClient, m.gw.HTTPClient())
	tok, err := cfg.PasswordCredentialsToken(tokenCtx, identifier, secret)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			status := 0
			if retrieveErr.Response != nil {
				status = retrieveErr.Response.StatusCode
			}
			m.logger.Info("Login rejected", "identifier", identifier, "status", status)
			return common.NewUserError(common.ErrInvalidCredentials.Error(), common.ErrInvalidCredentials)
		}

		common.LogError(m.logger, err, "Login failed", common.Fields{"identifier": identifier})
		return common.NewUserError("could not reach the server, please try again", fmt.Errorf("%w: %w", common.ErrNetwork, err))
	}

	m.session.replace(tok.AccessToken, func() { m.store.Save(tok.AccessToken) })
	m.logger.Info("Logged in", "identifier", identifier)
	m.notify(Authenticated)

	return nil
}

// Logout forgets the session. It always succeeds.
func (m *Manager) Logout(_ context.Context) {
	m.session.replace("", m.store.Clear)
	m.logger.Info("Logged out")
	m.notify(Anonymous)
}

// Expire handles a backend rejection of the current token. It behaves like
// Logout so the user is sent back to the login view instead of seeing
// repeated silent failures.
func (m *Manager) Expire(_ context.Context) {
	m.session.replace("", m.store.Clear)
	m.logger.Warn("Session rejected by backend, logging out")
	m.notify(Anonymous)
}

// Register creates an account. It never changes the session: registering
// does not log the user in.
func (m *Manager) Register(ctx context.Context, email, secret, displayName string) error {
	if email == "" {
		return &common.ValidationError{Field: "email", Reason: "is required"}
	}
	if secret == "" {
		return &common.ValidationError{Field: "password", Reason: "is required"}
	}

	body := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"nombre"`
	}{
		Email:    email,
		Password: secret,
		Name:     displayName,
	}

	resp, err := m.gw.Request(ctx, http.MethodPost, RegisterPath, body)
	if err != nil {
		common.LogError(m.logger, err, "Registration failed", common.Fields{"email": email})
		return common.NewUserError("registration failed, please try again", fmt.Errorf("%w: %w", common.ErrRegistrationFailed, err))
	}

	switch {
	case resp.OK():
		m.logger.Info("Registered account", "email", email)
		return nil
	case resp.StatusCode == http.StatusBadRequest:
		return common.NewUserError("that email is already registered", common.ErrAlreadyRegistered)
	default:
		m.logger.Error("Registration rejected", "email", email, "status", resp.StatusCode, "detail", resp.Detail())
		return common.NewUserError("registration failed, please try again", fmt.Errorf("%w: %w", common.ErrRegistrationFailed, &common.StatusError{StatusCode: resp.StatusCode, Body: resp.Detail()}))
	}
}

func (m *Manager) notify(state State) {
	m.mu.Lock()
	listeners := make([]Listener, 0, len(m.listeners))
	for id := 0; id < m.nextID; id++ {
		if fn, ok := m.listeners[id]; ok {
			listeners = append(listeners, fn)
		}
	}
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(state)
	}
}
