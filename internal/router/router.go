// Package router decides which view the client may show for a session state.
package router

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Veraticus/gastos/internal/common"
	"github.com/Veraticus/gastos/internal/session"
)

// View identifies a screen (or, in the CLI, a command group).
type View string

// Known views.
const (
	ViewRoot         View = "root"
	ViewLogin        View = "login"
	ViewRegister     View = "register"
	ViewTransactions View = "transactions"
	ViewCategories   View = "categories"
	ViewDashboard    View = "dashboard"
)

// DefaultView is where an authenticated user lands.
const DefaultView = ViewTransactions

// ErrUnknownView is returned for a view the router does not know.
var ErrUnknownView = errors.New("unknown view")

var public = map[View]bool{
	ViewLogin:    true,
	ViewRegister: true,
}

var restricted = map[View]bool{
	ViewTransactions: true,
	ViewCategories:   true,
	ViewDashboard:    true,
}

// RestrictedViews lists the views that require a session.
func RestrictedViews() []View {
	return []View{ViewTransactions, ViewCategories, ViewDashboard}
}

// Known reports whether v names a view.
func Known(v View) bool {
	return v == ViewRoot || public[v] || restricted[v]
}

// IsPublic reports whether v can be shown without a session.
func IsPublic(v View) bool {
	return public[v]
}

// Allowed is the access predicate: public views always, restricted views
// only with a session.
func Allowed(v View, state session.State) bool {
	return public[v] || state == session.Authenticated
}

// StateSource is the subset of session.Manager the navigator reads.
type StateSource interface {
	State() session.State
	Subscribe(fn session.Listener) func()
}

// Navigator tracks the current view and keeps it consistent with the session.
type Navigator struct {
	source      StateSource
	logger      *slog.Logger
	unsubscribe func()
	current     View
	mu          sync.Mutex
}

// NewNavigator starts on ViewRoot resolved for the current session and
// follows later session changes.
func NewNavigator(source StateSource) *Navigator {
	n := &Navigator{
		source: source,
		logger: common.Component("router"),
	}
	n.current = n.resolve(ViewRoot, source.State())
	n.unsubscribe = source.Subscribe(n.onSessionChange)
	return n
}

// Current returns the view being shown.
func (n *Navigator) Current() View {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// Navigate attempts to show v and returns the view actually shown. A denied
// destination is discarded in favor of login.
func (n *Navigator) Navigate(v View) (View, error) {
	if !Known(v) {
		return n.Current(), fmt.Errorf("%w: %q", ErrUnknownView, v)
	}

	state := n.source.State()

	n.mu.Lock()
	defer n.mu.Unlock()

	n.current = n.resolve(v, state)
	if n.current != v && v != ViewRoot {
		n.logger.Info("Navigation redirected", "requested", v, "shown", n.current, "state", state)
	}
	return n.current, nil
}

// Close stops following session changes.
func (n *Navigator) Close() {
	if n.unsubscribe != nil {
		n.unsubscribe()
	}
}

func (n *Navigator) resolve(v View, state session.State) View {
	if v == ViewRoot {
		v = DefaultView
	}
	if !Allowed(v, state) {
		return ViewLogin
	}
	return v
}

func (n *Navigator) onSessionChange(state session.State) {
	n.mu.Lock()
	defer n.mu.Unlock()

	prev := n.current
	switch state {
	case session.Anonymous:
		if !IsPublic(n.current) {
			n.current = ViewLogin
		}
	case session.Authenticated:
		if IsPublic(n.current) {
			n.current = DefaultView
		}
	}

	if prev != n.current {
		n.logger.Debug("Session change moved view", "from", prev, "to", n.current, "state", state)
	}
}
