package factory

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mikey/spam-classifier/internal/adapters/cache"
	"github.com/mikey/spam-classifier/internal/config"
	"go.uber.org/zap"
)

// CacheFactory creates cache repositories based on configuration
type CacheFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewCacheFactory creates a new cache factory
func NewCacheFactory(cfg *config.Config, logger *zap.Logger) *CacheFactory {
	return &CacheFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateCacheRepository creates a cache repository based on the
// configuration. It returns nil when caching is disabled.
func (f *CacheFactory) CreateCacheRepository() (cache.Repository, error) {
	cacheCfg := f.cfg.GetCache()
	if !cacheCfg.Enabled {
		return nil, nil
	}

	cleanupFreq, err := f.cfg.GetDuration("cache.cleanup_frequency")
	if err != nil {
		return nil, fmt.Errorf("invalid cache cleanup frequency: %w", err)
	}

	f.logger.Info("Creating verdict cache", zap.String("type", cacheCfg.Type))

	switch cacheCfg.Type {
	case "memory":
		return cache.NewMemoryCache(f.logger, cleanupFreq), nil
	case "sqlite":
		if err := ensureDir(cacheCfg.SQLitePath); err != nil {
			return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
		}
		return cache.NewSQLiteCache(cacheCfg.SQLitePath, f.logger, cleanupFreq)
	case "mysql":
		return cache.NewMySQLCache(cacheCfg.MySQLDSN, f.logger, cleanupFreq)
	case "postgres":
		return cache.NewPostgresCache(cacheCfg.PostgresDSN, f.logger, cleanupFreq)
	case "bolt":
		if err := ensureDir(cacheCfg.BoltPath); err != nil {
			return nil, fmt.Errorf("failed to create bolt directory: %w", err)
		}
		return cache.NewBoltCache(cacheCfg.BoltPath, f.logger, cleanupFreq)
	default:
		return nil, fmt.Errorf("unsupported cache type: %s", cacheCfg.Type)
	}
}

// GetCacheTTL returns the configured cache TTL
func (f *CacheFactory) GetCacheTTL() (time.Duration, error) {
	return f.cfg.GetDuration("cache.ttl")
}

// IsCacheEnabled returns whether caching is enabled
func (f *CacheFactory) IsCacheEnabled() bool {
	return f.cfg.GetCache().Enabled
}

func ensureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0755)
}
