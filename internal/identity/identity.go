// Package identity creates and signs out disposable test accounts.
package identity

import (
	"context"
	"errors"
	"strings"

	"alcyxob/fitness-testkit/internal/domain"
)

// MinPasswordLength matches the auth emulator's own password rule.
const MinPasswordLength = 6

var (
	ErrEmailExists        = errors.New("an account with this email already exists")
	ErrInvalidCredentials = errors.New("email and a password of at least 6 characters are required")
	ErrUnknownUser        = errors.New("unknown user")
)

// Provider is implemented by every auth backend.
type Provider interface {
	// CreateUser registers a new account and signs it in.
	CreateUser(ctx context.Context, email, password string) (*domain.User, error)
	// SignOut ends every session of uid.
	SignOut(ctx context.Context, uid string) error
}

// ValidateCredentials applies the rules shared by all providers.
func ValidateCredentials(email, password string) error {
	if strings.TrimSpace(email) == "" || !strings.Contains(email, "@") || len(password) < MinPasswordLength {
		return ErrInvalidCredentials
	}
	return nil
}
