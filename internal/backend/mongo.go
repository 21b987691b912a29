package backend

import (
	"context"
	"fmt"
	"sync"

	"alcyxob/fitness-testkit/internal/config"
	"alcyxob/fitness-testkit/internal/docstore"
	mongostore "alcyxob/fitness-testkit/internal/docstore/mongo"
	"alcyxob/fitness-testkit/internal/identity"
	"alcyxob/fitness-testkit/internal/identity/local"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Mongo runs the harness against a throwaway MongoDB (for example a
// mongo container) with accounts kept by the local identity provider.
// The connection is opened from cfg.URI in InitializeApp; the emulator
// host and port arguments are only logged.
type Mongo struct {
	cfg    config.DatabaseConfig
	logger *zap.Logger

	mu       sync.Mutex
	client   *mongo.Client
	db       *mongo.Database
	store    *mongostore.Store
	bound    bool
	provider *local.Provider
}

func NewMongo(cfg config.DatabaseConfig, logger *zap.Logger) *Mongo {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Mongo{cfg: cfg, logger: logger}
}

// InitializeApp connects to MongoDB. The database name defaults to the
// project id when none is configured.
func (m *Mongo) InitializeApp(ctx context.Context, projectID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.client != nil {
		return ErrAlreadyConfigured
	}
	client, err := mongostore.ConnectDB(ctx, m.cfg.URI)
	if err != nil {
		return fmt.Errorf("connect mongo: %w", err)
	}
	name := m.cfg.Name
	if name == "" {
		name = projectID
	}
	m.client = client
	m.db = client.Database(name)
	m.store = mongostore.NewStore(m.db, m.logger)
	mongostore.EnsureHierarchyIndexes(ctx, m.db, m.logger)
	m.logger.Info("mongo connected", zap.String("database", name))
	return nil
}

func (m *Mongo) UseAuthEmulator(_ context.Context, host string, port int) (identity.Provider, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.store == nil {
		return nil, ErrNotInitialized
	}
	if m.provider != nil {
		return m.provider, ErrAlreadyConfigured
	}
	m.provider = local.New(m.store, 0, m.logger)
	m.logger.Debug("local accounts in use; auth emulator address ignored", zap.String("host", host), zap.Int("port", port))
	return m.provider, nil
}

func (m *Mongo) UseStoreEmulator(_ context.Context, host string, port int) (docstore.Store, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.store == nil {
		return nil, ErrNotInitialized
	}
	if m.bound {
		return m.store, ErrAlreadyConfigured
	}
	m.bound = true
	m.logger.Debug("mongo uri in use; store emulator address ignored", zap.String("host", host), zap.Int("port", port))
	return m.store, nil
}

func (m *Mongo) Close(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.client == nil {
		return nil
	}
	err := mongostore.DisconnectDB(ctx, m.client)
	m.client, m.db, m.store, m.provider = nil, nil, nil, nil
	m.bound = false
	return err
}
