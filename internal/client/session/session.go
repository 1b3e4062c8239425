// Package session owns the client-side authentication state: a tri-state
// status derived from the credential store at startup and kept in sync with
// it through login/logout.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/abejanet/abejanet/internal/client/credstore"
	"github.com/abejanet/abejanet/internal/core/domain"
)

// Status is the authentication state of the client.
//
// StatusUnknown is the mandatory initial value: it means the credential
// store has not been read yet, which is different from having read it and
// found nothing. Consumers must not navigate while the status is unknown.
type Status int

const (
	StatusUnknown Status = iota
	StatusAuthenticated
	StatusAnonymous
)

func (s Status) String() string {
	switch s {
	case StatusAuthenticated:
		return "authenticated"
	case StatusAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// State is a snapshot of the session. Token and Role are only meaningful
// when Status is StatusAuthenticated.
type State struct {
	Token  string
	Status Status
	Role   domain.Role
}

// Manager owns the in-memory auth state. Initialize, Login, and Logout run
// serialized end-to-end behind opMu, storage I/O included, so a slow
// Initialize cannot finish after a concurrent Login and clobber its result:
// whole operations run in order and the last one wins. Subscribers are
// notified synchronously, on the caller's goroutine, before the mutating
// call returns.
type Manager struct {
	store credstore.Store
	log   zerolog.Logger

	// opMu serializes whole transitions (store read/write + state swap).
	// mu only guards the state snapshot and the subscriber set.
	opMu    sync.Mutex
	mu      sync.Mutex
	state   State
	subs    map[int]func(State)
	nextSub int
}

func NewManager(store credstore.Store, log zerolog.Logger) *Manager {
	return &Manager{
		store: store,
		log:   log,
		state: State{Status: StatusUnknown},
		subs:  make(map[int]func(State)),
	}
}

// State returns the current snapshot.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Subscribe registers fn to be called on every state change. The returned
// cancel function removes the subscription. fn must not call back into the
// Manager's mutating methods.
func (m *Manager) Subscribe(fn func(State)) (cancel func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subs, id)
	}
}

// Initialize resolves the unknown state by reading the credential store.
// Token and role both present means a previous session survives the
// restart; anything else, including a storage read failure, resolves to
// anonymous.
func (m *Manager) Initialize(ctx context.Context) {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	token, tokenErr := m.store.Get(ctx, credstore.KeyAccessToken)
	role, roleErr := m.store.Get(ctx, credstore.KeyUserRole)

	for _, err := range []error{tokenErr, roleErr} {
		if err != nil && !errors.Is(err, credstore.ErrNotFound) {
			m.log.Error().Err(err).Msg("session: failed to load auth state from storage")
		}
	}

	if tokenErr == nil && roleErr == nil && token != "" && role != "" {
		m.setState(State{Token: token, Status: StatusAuthenticated, Role: domain.Role(role)})
		return
	}
	m.setState(State{Status: StatusAnonymous})
}

// Login persists the issued token and role, then flips the in-memory state
// to authenticated. The in-memory update happens even when persistence
// fails — the session works until restart — but the storage error is
// returned so the caller can warn the user.
func (m *Manager) Login(ctx context.Context, token string, role domain.Role) error {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	var persistErr error
	if err := m.store.Set(ctx, credstore.KeyAccessToken, token); err != nil {
		persistErr = err
	}
	if err := m.store.Set(ctx, credstore.KeyUserRole, string(role)); err != nil {
		persistErr = errors.Join(persistErr, err)
	}
	if persistErr != nil {
		m.log.Error().Err(persistErr).Msg("session: failed to persist auth state")
	}

	m.setState(State{Token: token, Status: StatusAuthenticated, Role: role})
	return persistErr
}

// Logout clears persisted credentials best-effort and always resets the
// in-memory state to anonymous, even when removal partially fails.
func (m *Manager) Logout(ctx context.Context) error {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	var removeErr error
	if err := m.store.Remove(ctx, credstore.KeyAccessToken); err != nil {
		removeErr = err
	}
	if err := m.store.Remove(ctx, credstore.KeyUserRole); err != nil {
		removeErr = errors.Join(removeErr, err)
	}
	if removeErr != nil {
		m.log.Error().Err(removeErr).Msg("session: failed to clear auth state from storage")
	}

	m.setState(State{Status: StatusAnonymous})
	return removeErr
}

func (m *Manager) setState(st State) {
	m.mu.Lock()
	m.state = st
	subs := make([]func(State), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.mu.Unlock()

	for _, fn := range subs {
		fn(st)
	}
}
