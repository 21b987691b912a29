// Package firebaseauth is an identity.Provider on the Firebase Auth
// emulator, driven through the Firebase admin SDK.
package firebaseauth

import (
	"context"
	"fmt"
	"time"

	"alcyxob/fitness-testkit/internal/domain"
	"alcyxob/fitness-testkit/internal/identity"

	"firebase.google.com/go/v4/auth"
	"go.uber.org/zap"
)

// EmulatorHostEnv is read by the admin SDK when the auth client is built.
const EmulatorHostEnv = "FIREBASE_AUTH_EMULATOR_HOST"

// AuthClient is the part of *auth.Client the provider uses.
type AuthClient interface {
	CreateUser(ctx context.Context, user *auth.UserToCreate) (*auth.UserRecord, error)
	RevokeRefreshTokens(ctx context.Context, uid string) error
}

// Provider implements identity.Provider.
type Provider struct {
	client AuthClient
	logger *zap.Logger
}

func New(client AuthClient, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{client: client, logger: logger}
}

func (p *Provider) CreateUser(ctx context.Context, email, password string) (*domain.User, error) {
	if err := identity.ValidateCredentials(email, password); err != nil {
		return nil, err
	}
	params := (&auth.UserToCreate{}).Email(email).Password(password)
	rec, err := p.client.CreateUser(ctx, params)
	if err != nil {
		if auth.IsEmailAlreadyExists(err) {
			return nil, fmt.Errorf("%w: %v", identity.ErrEmailExists, err)
		}
		return nil, err
	}

	user := &domain.User{ID: rec.UID, Email: rec.Email, CreatedAt: time.Now().UTC()}
	if rec.UserMetadata != nil && rec.UserMetadata.CreationTimestamp > 0 {
		user.CreatedAt = time.UnixMilli(rec.UserMetadata.CreationTimestamp).UTC()
	}
	p.logger.Info("test account created", zap.String("uid", user.ID), zap.String("email", user.Email))
	return user, nil
}

// SignOut revokes the refresh tokens of uid, which ends every client session.
func (p *Provider) SignOut(ctx context.Context, uid string) error {
	if uid == "" {
		return identity.ErrUnknownUser
	}
	if err := p.client.RevokeRefreshTokens(ctx, uid); err != nil {
		if auth.IsUserNotFound(err) {
			return fmt.Errorf("%w: %v", identity.ErrUnknownUser, err)
		}
		return err
	}
	return nil
}

var _ identity.Provider = (*Provider)(nil)
