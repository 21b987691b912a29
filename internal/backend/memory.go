package backend

import (
	"context"
	"sync"

	"alcyxob/fitness-testkit/internal/docstore"
	"alcyxob/fitness-testkit/internal/docstore/memory"
	"alcyxob/fitness-testkit/internal/identity"
	"alcyxob/fitness-testkit/internal/identity/local"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Memory keeps everything in process. It is what unit tests and dry runs
// of the CLI use.
type Memory struct {
	logger *zap.Logger

	mu          sync.Mutex
	initialized bool
	store       *memory.Store
	bound       bool
	provider    *local.Provider
}

func NewMemory(logger *zap.Logger) *Memory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Memory{logger: logger}
}

func (m *Memory) InitializeApp(_ context.Context, projectID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.initialized {
		return ErrAlreadyConfigured
	}
	m.initialized = true
	m.store = memory.New()
	m.logger.Debug("memory backend initialized", zap.String("project", projectID))
	return nil
}

func (m *Memory) UseAuthEmulator(context.Context, string, int) (identity.Provider, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.initialized {
		return nil, ErrNotInitialized
	}
	if m.provider != nil {
		return m.provider, ErrAlreadyConfigured
	}
	// Hashing cost only slows tests down here.
	m.provider = local.New(m.store, bcrypt.MinCost, m.logger)
	return m.provider, nil
}

func (m *Memory) UseStoreEmulator(context.Context, string, int) (docstore.Store, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.initialized {
		return nil, ErrNotInitialized
	}
	if m.bound {
		return m.store, ErrAlreadyConfigured
	}
	m.bound = true
	return m.store, nil
}

// Store exposes the underlying memory store for assertions.
func (m *Memory) Store() *memory.Store {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store
}

// Provider exposes the local identity provider for assertions.
func (m *Memory) Provider() *local.Provider {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.provider
}

func (m *Memory) Close(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var err error
	if m.store != nil {
		err = m.store.Close(ctx)
	}
	m.initialized, m.bound = false, false
	m.store, m.provider = nil, nil
	return err
}
