package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mikey/spam-classifier/internal/core"
	"go.etcd.io/bbolt"
	"go.uber.org/zap"
)

var bucketVerdicts = []byte("verdicts")

type boltEntry struct {
	Label     string `json:"label"`
	RawLabel  int    `json:"raw_label"`
	LastSeen  int64  `json:"last_seen"`
	ExpiresAt int64  `json:"expires_at"`
}

// BoltCache is a bbolt implementation of the CacheRepository interface
type BoltCache struct {
	db      *bbolt.DB
	logger  *zap.Logger
	now     func() time.Time
	janitor *janitor
}

// NewBoltCache opens or creates a bbolt cache file
func NewBoltCache(path string, logger *zap.Logger, cleanupFreq time.Duration) (*BoltCache, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketVerdicts); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", bucketVerdicts, err)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	cache := &BoltCache{
		db:     db,
		logger: logger,
		now:    time.Now,
	}

	cache.janitor = startJanitor(cache, cleanupFreq, logger)

	return cache, nil
}

// Get retrieves a cached entry by key
func (c *BoltCache) Get(ctx context.Context, key string) (*core.CacheEntry, error) {
	var stored boltEntry
	err := c.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketVerdicts).Get([]byte(key))
		if data == nil {
			return ErrNotFound
		}
		return json.Unmarshal(data, &stored)
	})
	if err != nil {
		return nil, err
	}

	entry := &core.CacheEntry{
		Key:       key,
		Label:     core.Label(stored.Label),
		RawLabel:  stored.RawLabel,
		LastSeen:  time.Unix(stored.LastSeen, 0),
		ExpiresAt: time.Unix(stored.ExpiresAt, 0),
	}
	if c.now().After(entry.ExpiresAt) {
		return nil, ErrExpired
	}
	return entry, nil
}

// Set stores a cache entry
func (c *BoltCache) Set(ctx context.Context, entry *core.CacheEntry) error {
	data, err := json.Marshal(boltEntry{
		Label:     string(entry.Label),
		RawLabel:  entry.RawLabel,
		LastSeen:  entry.LastSeen.Unix(),
		ExpiresAt: entry.ExpiresAt.Unix(),
	})
	if err != nil {
		return err
	}
	return c.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketVerdicts).Put([]byte(entry.Key), data)
	})
}

// Delete removes a cache entry
func (c *BoltCache) Delete(ctx context.Context, key string) error {
	return c.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketVerdicts).Delete([]byte(key))
	})
}

// Cleanup removes expired entries
func (c *BoltCache) Cleanup(ctx context.Context) error {
	now := c.now()
	expiredCount := 0

	err := c.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketVerdicts)

		var expired [][]byte
		err := b.ForEach(func(k, v []byte) error {
			var stored boltEntry
			if err := json.Unmarshal(v, &stored); err != nil || now.After(time.Unix(stored.ExpiresAt, 0)) {
				expired = append(expired, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}

		for _, k := range expired {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		expiredCount = len(expired)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to clean up expired entries: %w", err)
	}

	c.logger.Debug("Cleaned up expired cache entries", zap.Int("expired_count", expiredCount))
	return nil
}

// Stop stops the background cleanup task and closes the database
func (c *BoltCache) Stop() {
	c.janitor.stop()
	if err := c.db.Close(); err != nil {
		c.logger.Error("Failed to close bolt db", zap.Error(err))
	}
}
