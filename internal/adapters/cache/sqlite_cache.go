package cache

import (
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

var sqliteDialect = dialect{
	name:   "SQLite",
	driver: "sqlite3",
	schema: []string{
		`CREATE TABLE IF NOT EXISTS verdict_cache (
			cache_key TEXT PRIMARY KEY,
			label TEXT NOT NULL,
			raw_label INTEGER NOT NULL,
			last_seen INTEGER NOT NULL,
			expires_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_verdict_cache_expires_at ON verdict_cache(expires_at)`,
	},
	upsert: `INSERT OR REPLACE INTO verdict_cache (cache_key, label, raw_label, last_seen, expires_at)
		VALUES (?, ?, ?, ?, ?)`,
	get: `SELECT cache_key, label, raw_label, last_seen, expires_at
		FROM verdict_cache WHERE cache_key = ?`,
	del:     `DELETE FROM verdict_cache WHERE cache_key = ?`,
	cleanup: `DELETE FROM verdict_cache WHERE expires_at < ?`,
}

// NewSQLiteCache creates a new SQLite cache
func NewSQLiteCache(dbPath string, logger *zap.Logger, cleanupFreq time.Duration) (*SQLCache, error) {
	return newSQLCache(sqliteDialect, dbPath, logger, cleanupFreq)
}
