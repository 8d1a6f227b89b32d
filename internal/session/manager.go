package session

import (
	"context"
	"sync"

	"github.com/inkpost/inkpost/internal/auth"
)

// ChangeListener observes token changes. The token is empty when the
// session has returned to the anonymous state.
type ChangeListener func(ctx context.Context, token string)

// ManagerOption customizes manager construction.
type ManagerOption func(*Manager)

// WithLogger overrides the logger used for persistence failures.
func WithLogger(logger auth.Logger) ManagerOption {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// Manager is a state machine over a single variable, the session token:
// empty means Anonymous, non-empty means Authenticated. Its transitions are
// hydrate (construction only), Login, and Logout.
//
// The persistence contract is a standing rule, not per-mutator code: every
// change to the held token fires the registered change listeners exactly
// once, and the listener installed at construction mirrors the token into
// the durable store (set on Authenticated entry, remove on Anonymous
// entry). Hydrate adopts the stored value without firing listeners, so
// reading never re-triggers a write.
type Manager struct {
	mu        sync.Mutex
	token     string
	store     Store
	logger    auth.Logger
	listeners []ChangeListener
}

// NewManager builds a manager bound to the given store and hydrates it:
// a previously stored token moves the session straight to Authenticated.
// Hydration performs zero writes; a failed read is logged and leaves the
// session Anonymous.
func NewManager(ctx context.Context, store Store, opts ...ManagerOption) *Manager {
	m := &Manager{
		store:  store,
		logger: auth.DefaultLogger(),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}

	m.listeners = append(m.listeners, m.persist)
	m.hydrate(ctx)

	return m
}

// OnChange registers a listener fired on every token change. Consumers
// subscribe here instead of keeping their own copies of the token.
func (m *Manager) OnChange(fn ChangeListener) {
	if fn == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// Token returns the currently held token, empty when Anonymous.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// Login transitions to Authenticated with the given token. Calling it
// again with a new token replaces the held value.
func (m *Manager) Login(ctx context.Context, token string) {
	m.apply(ctx, token)
}

// Logout transitions to Anonymous.
func (m *Manager) Logout(ctx context.Context) {
	m.apply(ctx, "")
}

// hydrate reads the durable store once. Adopting the stored value bypasses
// the change listeners, so reading never triggers a write.
func (m *Manager) hydrate(ctx context.Context) {
	token, err := m.store.Get(ctx, SessionKey)
	if err != nil {
		m.logger.Warn("session hydrate failed, starting anonymous: %v", err)
		return
	}

	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
}

// apply is the single transition point: any change to the token value
// fires every listener exactly once. Same-value transitions are no-ops.
func (m *Manager) apply(ctx context.Context, next string) {
	m.mu.Lock()
	if m.token == next {
		m.mu.Unlock()
		return
	}
	m.token = next
	listeners := make([]ChangeListener, len(m.listeners))
	copy(listeners, m.listeners)
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(ctx, next)
	}
}

// persist mirrors the token into durable storage. A storage failure is
// non-fatal: the in-memory transition has already completed and the error
// is only reported, never rolled back.
func (m *Manager) persist(ctx context.Context, token string) {
	var err error
	if token == "" {
		err = m.store.Remove(ctx, SessionKey)
	} else {
		err = m.store.Set(ctx, SessionKey, token)
	}

	if err != nil {
		m.logger.Error("session persist failed: %v", err)
	}
}
