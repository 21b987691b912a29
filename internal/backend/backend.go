// Package backend connects the harness to an auth service and a document
// store. Each connector mirrors the three setup calls of a mobile BaaS
// client: initialize the app, point auth at its emulator, point the
// document store at its emulator.
package backend

import (
	"context"
	"errors"
	"fmt"

	"alcyxob/fitness-testkit/internal/config"
	"alcyxob/fitness-testkit/internal/docstore"
	"alcyxob/fitness-testkit/internal/identity"

	"go.uber.org/zap"
)

// ErrAlreadyConfigured is returned, together with the value built the first
// time, when a setup call is repeated on a connector.
var ErrAlreadyConfigured = errors.New("backend already configured")

// ErrNotInitialized is returned by emulator setup before InitializeApp.
var ErrNotInitialized = errors.New("backend app not initialized")

// Connector is implemented by every backend.
type Connector interface {
	InitializeApp(ctx context.Context, projectID string) error
	UseAuthEmulator(ctx context.Context, host string, port int) (identity.Provider, error)
	UseStoreEmulator(ctx context.Context, host string, port int) (docstore.Store, error)
	Close(ctx context.Context) error
}

// New returns the connector named by cfg.Backend.
func New(cfg config.Config, logger *zap.Logger) (Connector, error) {
	switch cfg.Backend {
	case config.BackendFirebase, "":
		return NewFirebase(logger), nil
	case config.BackendMongo:
		return NewMongo(cfg.Database, logger), nil
	case config.BackendMemory:
		return NewMemory(logger), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}
