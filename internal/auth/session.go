// Package auth wraps the phone-verification login flow and owns the
// persisted session.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/bazaargo/storefront/internal/api"
	"github.com/bazaargo/storefront/internal/domain"
	"github.com/bazaargo/storefront/internal/storage"
)

// PhoneVerifier is the third-party provider: it sends a one-time code and
// turns a received code into an opaque verified credential.
type PhoneVerifier interface {
	RequestCode(ctx context.Context, phone string) error
	ConfirmCode(ctx context.Context, phone, code string) (credential string, err error)
	Invalidate(ctx context.Context) error
}

// CartClearer empties the cart; logout wipes it along with the session.
type CartClearer interface {
	Clear()
}

// Manager holds the current session in memory and mirrors it to durable
// storage. It implements api.TokenSource and api.SessionClearer.
type Manager struct {
	verifier PhoneVerifier
	backend  *api.Client
	store    storage.Store
	cart     CartClearer
	logger   *zap.Logger

	mu      sync.RWMutex
	session *domain.AuthSession
}

func NewManager(verifier PhoneVerifier, backend *api.Client, store storage.Store, cart CartClearer, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		verifier: verifier,
		backend:  backend,
		store:    store,
		cart:     cart,
		logger:   logger,
	}
}

// SetBackend injects the API client after construction. The client and the
// manager reference each other through small interfaces, so one of the two
// has to be wired late.
func (m *Manager) SetBackend(backend *api.Client) {
	m.backend = backend
}

// Load restores the persisted session, if any. A token without a readable
// user record still counts as authenticated.
func (m *Manager) Load() {
	token, err := m.store.Get(storage.KeyToken)
	if errors.Is(err, storage.ErrNotFound) {
		return
	}
	if err != nil {
		m.logger.Warn("read persisted token failed", zap.Error(err))
		return
	}

	sess := domain.AuthSession{Token: string(token)}
	if data, err := m.store.Get(storage.KeyUser); err == nil {
		if err := json.Unmarshal(data, &sess.User); err != nil {
			m.logger.Warn("discarding undecodable persisted user", zap.Error(err))
		}
	}

	m.mu.Lock()
	m.session = &sess
	m.mu.Unlock()
}

// Token satisfies api.TokenSource. Empty means unauthenticated.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.session == nil {
		return ""
	}
	return m.session.Token
}

// Current returns the active session, or nil.
func (m *Manager) Current() *domain.AuthSession {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.session == nil {
		return nil
	}
	s := *m.session
	return &s
}

// RequestCode asks the provider to send a one-time code to the phone.
func (m *Manager) RequestCode(ctx context.Context, phone string) error {
	if err := m.verifier.RequestCode(ctx, phone); err != nil {
		return fmt.Errorf("request verification code: %w", err)
	}
	return nil
}

// Verify completes the login: confirms the code with the provider, exchanges
// the credential with the backend, and persists the resulting session.
func (m *Manager) Verify(ctx context.Context, phone, code, name string) (*domain.AuthSession, error) {
	credential, err := m.verifier.ConfirmCode(ctx, phone, code)
	if err != nil {
		return nil, fmt.Errorf("confirm verification code: %w", err)
	}

	sess, err := m.backend.ExchangeCredential(ctx, api.ExchangeCredentialRequest{
		Credential: credential,
		Name:       name,
		Phone:      phone,
	})
	if err != nil {
		return nil, fmt.Errorf("exchange credential: %w", err)
	}

	if err := m.persist(sess); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.session = sess
	m.mu.Unlock()

	m.logger.Info("logged in", zap.Int64("user_id", sess.User.ID))
	s := *sess
	return &s, nil
}

// Logout ends the backend session, invalidates the provider session, and
// clears all local state: token, user record, and cart. Remote failures are
// logged but never block the local wipe.
func (m *Manager) Logout(ctx context.Context) {
	if err := m.backend.Logout(ctx); err != nil {
		m.logger.Warn("backend logout failed", zap.Error(err))
	}
	if err := m.verifier.Invalidate(ctx); err != nil {
		m.logger.Warn("provider session invalidation failed", zap.Error(err))
	}

	m.ClearSession()
	if m.cart != nil {
		m.cart.Clear()
	}
}

// ClearSession wipes the persisted token and user record. Also called by the
// API gateway on a 401.
func (m *Manager) ClearSession() {
	if err := m.store.Delete(storage.KeyToken); err != nil {
		m.logger.Warn("delete persisted token failed", zap.Error(err))
	}
	if err := m.store.Delete(storage.KeyUser); err != nil {
		m.logger.Warn("delete persisted user failed", zap.Error(err))
	}

	m.mu.Lock()
	m.session = nil
	m.mu.Unlock()
}

func (m *Manager) persist(sess *domain.AuthSession) error {
	if err := m.store.Put(storage.KeyToken, []byte(sess.Token)); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	user, err := json.Marshal(sess.User)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	if err := m.store.Put(storage.KeyUser, user); err != nil {
		return fmt.Errorf("persist user: %w", err)
	}
	return nil
}
