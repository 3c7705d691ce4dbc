package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/KingOfTheAce2/BEAR-AI-sub007/internal/model/api"
	authmodel "github.com/KingOfTheAce2/BEAR-AI-sub007/internal/model/auth"
	"github.com/KingOfTheAce2/BEAR-AI-sub007/internal/storage"
)

// Invoker is the slice of the invocation adapter the manager needs.
type Invoker interface {
	Invoke(ctx context.Context, cmd api.Command, params json.RawMessage) (json.RawMessage, error)
}

// Store is the durable key-value surface backing persistence.
type Store interface {
	Set(key, value string) error
	Get(key string) (string, bool, error)
	Delete(key string) error
}

// ExpiredCallback is invoked when the session is observed to be invalid.
type ExpiredCallback func()

// Manager owns the current session identifier. At most one session id is
// held at a time; every mutation is a single assignment under the lock.
type Manager struct {
	adapter   Invoker
	store     Store
	onExpired ExpiredCallback

	mu           sync.RWMutex
	session      authmodel.Session
	refreshToken string
}

// NewManager wires the manager to its adapter and durable store. store may
// be nil, in which case persistence calls are no-ops.
func NewManager(adapter Invoker, store Store) *Manager {
	return &Manager{adapter: adapter, store: store}
}

// SetExpiryCallback registers the observer notified on session expiry.
func (m *Manager) SetExpiryCallback(cb ExpiredCallback) {
	m.onExpired = cb
}

// SessionID returns the active session id, or "" when unauthenticated.
func (m *Manager) SessionID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.SessionID
}

// IsAuthenticated reports whether a session id is held.
func (m *Manager) IsAuthenticated() bool {
	return m.SessionID() != ""
}

// Login delegates to the adapter and stores the returned session id. On
// failure the prior state is left untouched.
func (m *Manager) Login(ctx context.Context, creds authmodel.Credentials) authmodel.LoginResult {
	params, err := json.Marshal(creds)
	if err != nil {
		return authmodel.LoginResult{Error: err.Error()}
	}

	data, err := m.adapter.Invoke(ctx, api.CmdAuthLogin, params)
	if err != nil {
		return authmodel.LoginResult{Error: err.Error()}
	}

	var result authmodel.LoginResult
	if err := json.Unmarshal(data, &result); err != nil {
		return authmodel.LoginResult{Error: "unreadable login response"}
	}
	if !result.Success || result.Token == "" {
		if result.Error == "" {
			result.Error = "login rejected"
		}
		result.Success = false
		return result
	}

	now := time.Now().UTC()
	m.mu.Lock()
	m.session = authmodel.Session{
		SessionID:       result.Token,
		EstablishedAt:   now,
		LastValidatedAt: now,
	}
	m.refreshToken = result.RefreshToken
	m.mu.Unlock()

	m.Save()
	return result
}

// Logout revokes the session. Returns false without any underlying call
// when no session is active; the second logout in a row is a safe no-op.
func (m *Manager) Logout(ctx context.Context) bool {
	if !m.IsAuthenticated() {
		return false
	}

	if _, err := m.adapter.Invoke(ctx, api.CmdAuthLogout, nil); err != nil {
		logrus.WithError(err).Warn("logout call failed, keeping session state")
		return false
	}

	m.clearState()
	return true
}

// Validate asks the backend whether the held session id is still good. A
// definitive "invalid" clears the session and fires the expiry callback.
func (m *Manager) Validate(ctx context.Context) bool {
	if !m.IsAuthenticated() {
		return false
	}

	data, err := m.adapter.Invoke(ctx, api.CmdAuthValidate, nil)
	if err != nil {
		logrus.WithError(err).Warn("session validation call failed")
		return false
	}

	var result authmodel.ValidateResult
	if err := json.Unmarshal(data, &result); err != nil {
		logrus.Warn("unreadable validation response")
		return false
	}

	if !result.Valid {
		m.expire()
		return false
	}

	m.mu.Lock()
	m.session.LastValidatedAt = time.Now().UTC()
	m.mu.Unlock()
	return true
}

// Refresh exchanges the refresh token for a new session. Failure clears the
// session and notifies the expiry observer.
func (m *Manager) Refresh(ctx context.Context) authmodel.LoginResult {
	if !m.IsAuthenticated() {
		return authmodel.LoginResult{Error: "no active session"}
	}

	m.mu.RLock()
	refreshToken := m.refreshToken
	m.mu.RUnlock()

	params, _ := json.Marshal(map[string]string{"refreshToken": refreshToken})
	data, err := m.adapter.Invoke(ctx, api.CmdAuthRefresh, params)
	if err != nil {
		m.expire()
		return authmodel.LoginResult{Error: err.Error()}
	}

	var result authmodel.LoginResult
	if err := json.Unmarshal(data, &result); err != nil || !result.Success || result.Token == "" {
		m.expire()
		if result.Error == "" {
			result.Error = "refresh rejected"
		}
		result.Success = false
		return result
	}

	now := time.Now().UTC()
	m.mu.Lock()
	m.session = authmodel.Session{
		SessionID:       result.Token,
		EstablishedAt:   m.session.EstablishedAt,
		LastValidatedAt: now,
	}
	m.refreshToken = result.RefreshToken
	m.mu.Unlock()

	m.Save()
	return result
}

// Save persists the current session id under the fixed storage key.
func (m *Manager) Save() {
	if m.store == nil {
		return
	}

	id := m.SessionID()
	if id == "" {
		return
	}
	if err := m.store.Set(storage.SessionKey, id); err != nil {
		logrus.WithError(err).Warn("failed to persist session")
	}
}

// Load restores a previously saved session id. Returns true iff one existed.
func (m *Manager) Load() bool {
	if m.store == nil {
		return false
	}

	value, ok, err := m.store.Get(storage.SessionKey)
	if err != nil {
		logrus.WithError(err).Warn("failed to load persisted session")
		return false
	}
	if !ok || value == "" {
		return false
	}

	now := time.Now().UTC()
	m.mu.Lock()
	m.session = authmodel.Session{
		SessionID:       value,
		EstablishedAt:   now,
		LastValidatedAt: now,
	}
	m.mu.Unlock()
	return true
}

// Clear drops the in-memory and persisted session without a backend call.
func (m *Manager) Clear() {
	m.clearState()
}

// Expire clears the session and notifies the expiry observer, for callers
// that learn about invalidation out of band, such as the request executor
// hitting a terminal 401.
func (m *Manager) Expire() {
	m.expire()
}

func (m *Manager) clearState() {
	m.mu.Lock()
	m.session = authmodel.Session{}
	m.refreshToken = ""
	m.mu.Unlock()

	if m.store != nil {
		if err := m.store.Delete(storage.SessionKey); err != nil {
			logrus.WithError(err).Warn("failed to clear persisted session")
		}
	}
}

func (m *Manager) expire() {
	m.clearState()
	if m.onExpired != nil {
		m.onExpired()
	}
}
