package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mikey/spam-classifier/internal/core"
	"go.uber.org/zap"
)

// dialect holds the statements that differ between SQL engines.
// Timestamps are stored as Unix seconds so every engine compares them the
// same way.
type dialect struct {
	name    string
	driver  string
	schema  []string
	upsert  string
	get     string
	del     string
	cleanup string
}

// SQLCache is a database/sql implementation of the CacheRepository interface
type SQLCache struct {
	db      *sql.DB
	dialect dialect
	logger  *zap.Logger
	now     func() time.Time
	janitor *janitor
}

func newSQLCache(d dialect, dsn string, logger *zap.Logger, cleanupFreq time.Duration) (*SQLCache, error) {
	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", d.name, err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w", d.name, err)
	}

	for _, stmt := range d.schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to prepare %s schema: %w", d.name, err)
		}
	}

	cache := &SQLCache{
		db:      db,
		dialect: d,
		logger:  logger,
		now:     time.Now,
	}

	cache.janitor = startJanitor(cache, cleanupFreq, logger)

	return cache, nil
}

// Get retrieves a cached entry by key
func (c *SQLCache) Get(ctx context.Context, key string) (*core.CacheEntry, error) {
	var entry core.CacheEntry
	var label string
	var lastSeen, expiresAt int64

	err := c.db.QueryRowContext(ctx, c.dialect.get, key).
		Scan(&entry.Key, &label, &entry.RawLabel, &lastSeen, &expiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query cache: %w", err)
	}

	entry.Label = core.Label(label)
	entry.LastSeen = time.Unix(lastSeen, 0)
	entry.ExpiresAt = time.Unix(expiresAt, 0)

	if c.now().After(entry.ExpiresAt) {
		return nil, ErrExpired
	}

	return &entry, nil
}

// Set stores a cache entry
func (c *SQLCache) Set(ctx context.Context, entry *core.CacheEntry) error {
	_, err := c.db.ExecContext(ctx, c.dialect.upsert,
		entry.Key,
		string(entry.Label),
		entry.RawLabel,
		entry.LastSeen.Unix(),
		entry.ExpiresAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert cache entry: %w", err)
	}
	return nil
}

// Delete removes a cache entry
func (c *SQLCache) Delete(ctx context.Context, key string) error {
	if _, err := c.db.ExecContext(ctx, c.dialect.del, key); err != nil {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}
	return nil
}

// Cleanup removes expired entries
func (c *SQLCache) Cleanup(ctx context.Context) error {
	result, err := c.db.ExecContext(ctx, c.dialect.cleanup, c.now().Unix())
	if err != nil {
		return fmt.Errorf("failed to clean up expired entries: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		c.logger.Warn("Failed to get rows affected during cleanup", zap.Error(err))
	} else {
		c.logger.Debug("Cleaned up expired cache entries",
			zap.String("backend", c.dialect.name),
			zap.Int64("expired_count", rowsAffected))
	}

	return nil
}

// Stop stops the background cleanup task and closes the database connection
func (c *SQLCache) Stop() {
	c.janitor.stop()
	if err := c.db.Close(); err != nil {
		c.logger.Error("Failed to close database", zap.String("backend", c.dialect.name), zap.Error(err))
	}
}
