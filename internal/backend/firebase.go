package backend

import (
	"context"
	"fmt"
	"net"
	"os"
	"strconv"
	"sync"

	"alcyxob/fitness-testkit/internal/docstore"
	"alcyxob/fitness-testkit/internal/docstore/firestore"
	"alcyxob/fitness-testkit/internal/identity"
	"alcyxob/fitness-testkit/internal/identity/firebaseauth"

	firebase "firebase.google.com/go/v4"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// Firebase connects to the Firebase Auth and Firestore emulators.
type Firebase struct {
	logger *zap.Logger

	mu        sync.Mutex
	app       *firebase.App
	projectID string
	authAddr  string
	provider  identity.Provider
	storeAddr string
	store     docstore.Store
}

func NewFirebase(logger *zap.Logger) *Firebase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Firebase{logger: logger}
}

// InitializeApp creates the firebase app for projectID. Emulators accept
// any credentials, so the app is built without any.
func (f *Firebase) InitializeApp(ctx context.Context, projectID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.app != nil {
		return ErrAlreadyConfigured
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, option.WithoutAuthentication())
	if err != nil {
		return fmt.Errorf("initialize firebase app: %w", err)
	}
	f.app = app
	f.projectID = projectID
	f.logger.Info("firebase app initialized", zap.String("project", projectID))
	return nil
}

func (f *Firebase) UseAuthEmulator(ctx context.Context, host string, port int) (identity.Provider, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.app == nil {
		return nil, ErrNotInitialized
	}
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	if f.provider != nil {
		if addr != f.authAddr {
			return nil, fmt.Errorf("auth already bound to %s, cannot rebind to %s", f.authAddr, addr)
		}
		return f.provider, ErrAlreadyConfigured
	}
	if err := os.Setenv(firebaseauth.EmulatorHostEnv, addr); err != nil {
		return nil, err
	}
	client, err := f.app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("auth client: %w", err)
	}
	f.provider = firebaseauth.New(client, f.logger)
	f.authAddr = addr
	f.logger.Info("auth emulator connected", zap.String("addr", addr))
	return f.provider, nil
}

func (f *Firebase) UseStoreEmulator(ctx context.Context, host string, port int) (docstore.Store, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.app == nil {
		return nil, ErrNotInitialized
	}
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	if f.store != nil {
		if addr != f.storeAddr {
			return nil, fmt.Errorf("firestore already bound to %s, cannot rebind to %s", f.storeAddr, addr)
		}
		return f.store, ErrAlreadyConfigured
	}
	if err := os.Setenv(firestore.EmulatorHostEnv, addr); err != nil {
		return nil, err
	}
	store, err := firestore.Open(ctx, f.projectID, f.logger, option.WithoutAuthentication())
	if err != nil {
		return nil, err
	}
	f.store = store
	f.storeAddr = addr
	f.logger.Info("firestore emulator connected", zap.String("addr", addr))
	return f.store, nil
}

func (f *Firebase) Close(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	var err error
	if f.store != nil {
		err = f.store.Close(ctx)
	}
	f.app, f.provider, f.store = nil, nil, nil
	f.authAddr, f.storeAddr = "", ""
	return err
}
