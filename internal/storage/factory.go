package storage

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"contactboard/internal/config"
)

// NewStoreFromConfig opens the backend selected by cfg.Type. The "none"
// backend yields a nil Store: the caller runs without persistent storage.
func NewStoreFromConfig(ctx context.Context, cfg config.StorageConfig, logger logrus.FieldLogger) (Store, error) {
	switch cfg.Type {
	case config.StorageBadger:
		return NewBadgerStore(BadgerOptions{Path: cfg.BadgerPath, InMemory: cfg.BadgerInMemory}, logger)
	case config.StorageRedis:
		return DialRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, logger)
	case config.StorageSQLite:
		return NewSQLiteStore(ctx, cfg.SQLitePath, logger)
	case config.StorageBrowser:
		if cfg.BrowserURL == "" {
			return nil, fmt.Errorf("browser storage requires browser_url to be set")
		}
		return OpenBrowserStore(ctx, cfg.BrowserURL, cfg.BrowserTimeout, logger)
	case config.StorageMemory:
		return NewMemoryStore(), nil
	case config.StorageNone:
		logger.Warn("Persistent storage disabled; changes will not be kept")
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
