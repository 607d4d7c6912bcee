package cache

import (
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

var postgresDialect = dialect{
	name:   "PostgreSQL",
	driver: "postgres",
	schema: []string{
		`CREATE TABLE IF NOT EXISTS verdict_cache (
			cache_key VARCHAR(64) PRIMARY KEY,
			label VARCHAR(16) NOT NULL,
			raw_label INTEGER NOT NULL,
			last_seen BIGINT NOT NULL,
			expires_at BIGINT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_verdict_cache_expires_at ON verdict_cache(expires_at)`,
	},
	upsert: `INSERT INTO verdict_cache (cache_key, label, raw_label, last_seen, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (cache_key) DO UPDATE SET
			label = EXCLUDED.label,
			raw_label = EXCLUDED.raw_label,
			last_seen = EXCLUDED.last_seen,
			expires_at = EXCLUDED.expires_at`,
	get: `SELECT cache_key, label, raw_label, last_seen, expires_at
		FROM verdict_cache WHERE cache_key = $1`,
	del:     `DELETE FROM verdict_cache WHERE cache_key = $1`,
	cleanup: `DELETE FROM verdict_cache WHERE expires_at < $1`,
}

// NewPostgresCache creates a new PostgreSQL cache
func NewPostgresCache(dsn string, logger *zap.Logger, cleanupFreq time.Duration) (*SQLCache, error) {
	return newSQLCache(postgresDialect, dsn, logger, cleanupFreq)
}
