// Package prefs persists small string preferences, such as the theme mode,
// under fixed keys.
package prefs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"alcyxob/fitness-testkit/internal/config"

	"go.uber.org/zap"
)

// Backend names accepted in prefs.backend.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendS3     = "s3"
	BackendMemory = "memory"
)

// Store is a string key-value store. GetString reports ok=false for a key
// that was never set or has been removed.
type Store interface {
	GetString(ctx context.Context, key string) (value string, ok bool, err error)
	SetString(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Open builds the store selected by cfg.Prefs.Backend.
func Open(ctx context.Context, cfg config.Config, logger *zap.Logger) (Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch cfg.Prefs.Backend {
	case BackendFile, "":
		path, err := defaultPath(cfg.Prefs.Path, "prefs.yaml")
		if err != nil {
			return nil, err
		}
		logger.Debug("using file preferences", zap.String("path", path))
		return NewFileStore(path), nil
	case BackendSQLite:
		path, err := defaultPath(cfg.Prefs.Path, "prefs.db")
		if err != nil {
			return nil, err
		}
		logger.Debug("using sqlite preferences", zap.String("path", path))
		return OpenSQLite(ctx, path)
	case BackendS3:
		return NewS3Store(ctx, cfg.S3, cfg.Prefs.Prefix, logger)
	case BackendMemory:
		return NewMemoryStore(nil), nil
	default:
		return nil, fmt.Errorf("unknown prefs backend %q", cfg.Prefs.Backend)
	}
}

func defaultPath(path, name string) (string, error) {
	if path != "" {
		return path, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "fitkit", name), nil
}
