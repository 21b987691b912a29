package local

import (
	"context"
	"testing"

	"alcyxob/fitness-testkit/internal/docstore/memory"
	"alcyxob/fitness-testkit/internal/identity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestProvider() (*Provider, *memory.Store) {
	store := memory.New()
	return New(store, bcrypt.MinCost, nil), store
}

func TestCreateUser(t *testing.T) {
	ctx := context.Background()
	p, store := newTestProvider()

	user, err := p.CreateUser(ctx, " Runner@Example.com ", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "runner@example.com", user.Email)
	assert.True(t, p.SignedIn(user.ID))
	assert.Equal(t, 1, store.Len(AccountsCollection))

	docs, err := store.List(ctx, AccountsCollection)
	require.NoError(t, err)
	assert.NotEqual(t, "password123", docs[0].Data["passwordHash"])
}

func TestCreateUser_Duplicate(t *testing.T) {
	ctx := context.Background()
	p, _ := newTestProvider()

	_, err := p.CreateUser(ctx, "dup@example.com", "password123")
	require.NoError(t, err)
	_, err = p.CreateUser(ctx, "dup@example.com", "password123")
	assert.ErrorIs(t, err, identity.ErrEmailExists)
}

func TestCreateUser_InvalidCredentials(t *testing.T) {
	ctx := context.Background()
	p, _ := newTestProvider()

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"empty_email", "", "password123"},
		{"no_at", "runner", "password123"},
		{"short_password", "a@example.com", "123"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.CreateUser(ctx, tt.email, tt.password)
			assert.ErrorIs(t, err, identity.ErrInvalidCredentials)
		})
	}
}

func TestSignOut(t *testing.T) {
	ctx := context.Background()
	p, _ := newTestProvider()

	user, err := p.CreateUser(ctx, "in@example.com", "password123")
	require.NoError(t, err)
	other, err := p.CreateUser(ctx, "other@example.com", "password123")
	require.NoError(t, err)

	require.NoError(t, p.SignOut(ctx, user.ID))
	assert.False(t, p.SignedIn(user.ID))
	assert.True(t, p.SignedIn(other.ID))
	require.NoError(t, p.SignOut(ctx, user.ID))

	assert.ErrorIs(t, p.SignOut(ctx, ""), identity.ErrUnknownUser)
}
