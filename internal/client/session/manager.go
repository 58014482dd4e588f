// Package session owns the client's authentication state: login, signup,
// logout, and restoration of a persisted session on startup. All other
// components only read snapshots; the Manager is the single writer.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/recipedeck/internal/client/api"
	"github.com/dmitrijs2005/recipedeck/internal/client/models"
	"github.com/dmitrijs2005/recipedeck/internal/client/repositories/sessionstore"
	"github.com/dmitrijs2005/recipedeck/internal/logging"
	"github.com/golang-jwt/jwt/v5"
)

type Status int

const (
	Unauthenticated Status = iota
	Restoring
	Authenticated
)

// Session is the authentication state exposed to the presentation layer.
// User is non-nil iff Status is Authenticated.
type Session struct {
	Status Status
	User   *models.UserIdentity
}

type Manager struct {
	client api.Client
	store  sessionstore.Repository
	log    logging.Logger

	mu      sync.Mutex
	session Session
}

// NewManager constructs a Manager. The initial status is Restoring so the
// presentation layer renders a loading state until Restore has resolved;
// this avoids flashing the unauthenticated screen on every start.
func NewManager(client api.Client, store sessionstore.Repository, log logging.Logger) *Manager {
	return &Manager{
		client:  client,
		store:   store,
		log:     log.With("component", "session"),
		session: Session{Status: Restoring},
	}
}

// Snapshot returns a copy of the current session state.
func (m *Manager) Snapshot() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.session
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}

func (m *Manager) set(s Session) {
	m.mu.Lock()
	m.session = s
	m.mu.Unlock()
}

// Restore attempts to recover a persisted session: load the stored token,
// skip the network round-trip when the token is a JWT that has already
// expired, otherwise ask the backend who we are. Any failure collapses
// silently to Unauthenticated - an absent session is expected on first run.
func (m *Manager) Restore(ctx context.Context) Session {
	m.set(Session{Status: Restoring})

	token, err := m.store.Get(ctx, sessionstore.KeyToken)
	if err != nil || token == "" {
		m.set(Session{Status: Unauthenticated})
		return m.Snapshot()
	}

	if tokenExpired(token) {
		m.log.Info(ctx, "stored token expired, discarding")
		_ = m.store.Clear(ctx)
		m.set(Session{Status: Unauthenticated})
		return m.Snapshot()
	}

	m.client.SetToken(token)
	identity, err := m.client.CurrentIdentity(ctx)
	if err != nil || identity == nil {
		if err != nil {
			m.log.Warn(ctx, "session restore failed", "error", err)
		}
		m.client.SetToken("")
		_ = m.store.Clear(ctx)
		m.set(Session{Status: Unauthenticated})
		return m.Snapshot()
	}

	m.log.Info(ctx, "session restored", "user", identity.Email)
	m.set(Session{Status: Authenticated, User: identity})
	return m.Snapshot()
}

// tokenExpired reports whether token is a JWT whose exp claim has passed.
// The claims are read unverified: this is only an optimization to skip a
// doomed round-trip, the backend remains the authority. Opaque tokens are
// never treated as expired here.
func tokenExpired(token string) bool {
	claims := &jwt.RegisteredClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(token, claims)
	if err != nil || claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Before(time.Now())
}

// Login authenticates and then re-resolves the identity via the "who am I"
// query as an explicit second step, so a divergence between the auth
// endpoint and the identity endpoint cannot leave a stale identity. On any
// failure the session stays Unauthenticated and the error is returned for
// the presentation layer to display.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	token, err := m.client.Authenticate(ctx, email, password)
	if err != nil {
		m.set(Session{Status: Unauthenticated})
		return err
	}

	identity, err := m.client.CurrentIdentity(ctx)
	if err != nil || identity == nil {
		m.client.SetToken("")
		m.set(Session{Status: Unauthenticated})
		if err != nil {
			return err
		}
		return &api.Error{Kind: api.ErrAuth, Message: "identity could not be resolved after login"}
	}

	if err := m.store.SaveSession(ctx, token, email); err != nil {
		// A session that does not survive a restart is still a session.
		m.log.Warn(ctx, "failed to persist session", "error", err)
	}

	m.set(Session{Status: Authenticated, User: identity})
	return nil
}

// Signup registers a new account and immediately logs it in, so a
// successful signup never leaves the user registered but logged out.
func (m *Manager) Signup(ctx context.Context, email, password, name string) error {
	if err := m.client.Register(ctx, email, password, name); err != nil {
		return err
	}
	return m.Login(ctx, email, password)
}

// Logout invalidates the remote session best-effort and unconditionally
// clears all local session state, so the client can never get stuck
// Authenticated after a user-initiated logout.
func (m *Manager) Logout(ctx context.Context) {
	if err := m.client.InvalidateSession(ctx); err != nil {
		m.log.Warn(ctx, "remote session invalidation failed", "error", err)
	}
	m.client.SetToken("")
	if err := m.store.Clear(ctx); err != nil {
		m.log.Warn(ctx, "failed to clear persisted session", "error", err)
	}
	m.set(Session{Status: Unauthenticated})
}
