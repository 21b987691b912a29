// Package harness points a test process at local emulators and provides
// the fixture operations integration tests use: disposable users, the
// seeded program hierarchy, collection clearing and sign-out.
package harness

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"alcyxob/fitness-testkit/internal/backend"
	"alcyxob/fitness-testkit/internal/config"
	"alcyxob/fitness-testkit/internal/docstore"
	"alcyxob/fitness-testkit/internal/domain"
	"alcyxob/fitness-testkit/internal/identity"

	"go.uber.org/zap"
)

// DefaultPassword is used when CreateTestUser gets an empty password.
const DefaultPassword = "password123"

// UsersCollection is the top-level collection seeded programs hang off.
const UsersCollection = "users"

// ErrNotFound is returned when a seeded program does not exist.
var ErrNotFound = errors.New("not found")

// Options configures Initialize.
type Options struct {
	Connector backend.Connector
	ProjectID string
	Emulator  config.EmulatorConfig
	Logger    *zap.Logger
	// Now overrides the clock used for timestamps and generated emails.
	Now func() time.Time
}

// Harness is the process-wide fixture helper returned by Initialize.
type Harness struct {
	conn     backend.Connector
	store    docstore.Store
	identity identity.Provider
	logger   *zap.Logger
	now      func() time.Time

	mu      sync.Mutex
	current *domain.User
}

var (
	initMu      sync.Mutex
	initialized bool
	shared      *Harness
)

// Initialize connects the process to the emulators once. Later calls return
// the harness built by the first successful call and do not touch the
// connector. An ErrAlreadyConfigured from any setup step is logged and
// ignored; any other error is returned and the process stays uninitialized.
func Initialize(ctx context.Context, opts Options) (*Harness, error) {
	initMu.Lock()
	defer initMu.Unlock()
	if initialized {
		return shared, nil
	}
	if opts.Connector == nil {
		return nil, errors.New("harness: connector is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	if err := opts.Connector.InitializeApp(ctx, opts.ProjectID); err != nil {
		if !benign(logger, "initialize app", err) {
			return nil, err
		}
	}
	provider, err := opts.Connector.UseAuthEmulator(ctx, opts.Emulator.Host, opts.Emulator.AuthPort)
	if err != nil && !benign(logger, "use auth emulator", err) {
		return nil, err
	}
	store, err := opts.Connector.UseStoreEmulator(ctx, opts.Emulator.Host, opts.Emulator.FirestorePort)
	if err != nil && !benign(logger, "use store emulator", err) {
		return nil, err
	}
	if provider == nil || store == nil {
		return nil, errors.New("harness: connector returned no auth provider or store")
	}

	shared = &Harness{
		conn:     opts.Connector,
		store:    store,
		identity: provider,
		logger:   logger,
		now:      now,
	}
	initialized = true
	logger.Info("harness initialized",
		zap.String("project", opts.ProjectID),
		zap.String("host", opts.Emulator.Host),
		zap.Int("auth_port", opts.Emulator.AuthPort),
		zap.Int("store_port", opts.Emulator.FirestorePort))
	return shared, nil
}

func benign(logger *zap.Logger, step string, err error) bool {
	if errors.Is(err, backend.ErrAlreadyConfigured) {
		logger.Debug("already configured, continuing", zap.String("step", step))
		return true
	}
	return false
}

// Initialized reports whether Initialize has succeeded in this process.
func Initialized() bool {
	initMu.Lock()
	defer initMu.Unlock()
	return initialized
}

// Shutdown closes the connector and clears the process-wide flag, so the
// next Initialize starts from scratch.
func Shutdown(ctx context.Context) error {
	initMu.Lock()
	defer initMu.Unlock()
	if !initialized {
		return nil
	}
	err := shared.conn.Close(ctx)
	shared, initialized = nil, false
	return err
}

// Store returns the document store the harness writes to.
func (h *Harness) Store() docstore.Store {
	return h.store
}

// CurrentUser returns the user signed in by the last CreateTestUser, or nil.
func (h *Harness) CurrentUser() *domain.User {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current
}

// CreateTestUser creates an account on the auth emulator. An empty email is
// replaced by a timestamp-based one so repeated runs never collide.
func (h *Harness) CreateTestUser(ctx context.Context, email, password string) (*domain.User, error) {
	if email == "" {
		email = fmt.Sprintf("test%d@example.com", h.now().UnixNano())
	}
	if password == "" {
		password = DefaultPassword
	}
	user, err := h.identity.CreateUser(ctx, email, password)
	if err != nil {
		return nil, err
	}
	h.mu.Lock()
	h.current = user
	h.mu.Unlock()
	return user, nil
}

// ClearCollections deletes every document of each named top-level
// collection, one at a time. Subcollections are not touched. Only ever run
// this against an emulator.
func (h *Harness) ClearCollections(ctx context.Context, names ...string) error {
	for _, name := range names {
		docs, err := h.store.List(ctx, name)
		if err != nil {
			return err
		}
		for _, doc := range docs {
			if err := h.store.Delete(ctx, doc.Path); err != nil {
				return err
			}
		}
		h.logger.Debug("collection cleared", zap.String("collection", name), zap.Int("deleted", len(docs)))
	}
	return nil
}

// SignOut ends the session of the current user. It is a no-op when nobody
// is signed in.
func (h *Harness) SignOut(ctx context.Context) error {
	h.mu.Lock()
	user := h.current
	h.mu.Unlock()
	if user == nil {
		return nil
	}
	if err := h.identity.SignOut(ctx, user.ID); err != nil {
		return err
	}
	h.mu.Lock()
	h.current = nil
	h.mu.Unlock()
	return nil
}

// SignOutUser ends the session of uid. The current user is cleared only
// when it is uid.
func (h *Harness) SignOutUser(ctx context.Context, uid string) error {
	if err := h.identity.SignOut(ctx, uid); err != nil {
		return err
	}
	h.mu.Lock()
	if h.current != nil && h.current.ID == uid {
		h.current = nil
	}
	h.mu.Unlock()
	return nil
}
