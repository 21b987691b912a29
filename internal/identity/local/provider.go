// Package local is an identity.Provider that keeps accounts in the
// document store itself. It backs the mongo and memory connectors, which
// have no auth emulator to talk to.
package local

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"alcyxob/fitness-testkit/internal/docstore"
	"alcyxob/fitness-testkit/internal/domain"
	"alcyxob/fitness-testkit/internal/identity"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AccountsCollection holds one document per account.
const AccountsCollection = "accounts"

// ErrHashingFailed is returned when bcrypt cannot hash a new password.
var ErrHashingFailed = errors.New("failed to hash password")

// Provider implements identity.Provider.
type Provider struct {
	store  docstore.Store
	cost   int
	logger *zap.Logger

	mu       sync.Mutex
	sessions map[string]time.Time // uid -> signed in at
}

// New creates a provider over store. A zero cost uses bcrypt.DefaultCost.
func New(store docstore.Store, cost int, logger *zap.Logger) *Provider {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{
		store:    store,
		cost:     cost,
		logger:   logger,
		sessions: make(map[string]time.Time),
	}
}

// CreateUser registers an account and signs it in.
func (p *Provider) CreateUser(ctx context.Context, email, password string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := identity.ValidateCredentials(email, password); err != nil {
		return nil, err
	}

	existing, err := p.store.Find(ctx, AccountsCollection, "email", email)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, identity.ErrEmailExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return nil, ErrHashingFailed
	}

	now := time.Now().UTC()
	uid, err := p.store.Add(ctx, AccountsCollection, map[string]any{
		"email":        email,
		"passwordHash": string(hashed),
		"createdAt":    now,
	})
	if err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}

	p.mu.Lock()
	p.sessions[uid] = now
	p.mu.Unlock()

	p.logger.Info("test account created", zap.String("uid", uid), zap.String("email", email))
	return &domain.User{ID: uid, Email: email, CreatedAt: now}, nil
}

// SignOut ends the session of uid. Signing out twice is not an error.
func (p *Provider) SignOut(_ context.Context, uid string) error {
	if uid == "" {
		return identity.ErrUnknownUser
	}
	p.mu.Lock()
	delete(p.sessions, uid)
	p.mu.Unlock()
	p.logger.Debug("signed out", zap.String("uid", uid))
	return nil
}

// SignedIn reports whether uid has an open session.
func (p *Provider) SignedIn(uid string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.sessions[uid]
	return ok
}

var _ identity.Provider = (*Provider)(nil)
