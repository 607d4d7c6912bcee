package cache

import (
	"time"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

var mysqlDialect = dialect{
	name:   "MySQL",
	driver: "mysql",
	schema: []string{
		`CREATE TABLE IF NOT EXISTS verdict_cache (
			cache_key VARCHAR(64) PRIMARY KEY,
			label VARCHAR(16) NOT NULL,
			raw_label INT NOT NULL,
			last_seen BIGINT NOT NULL,
			expires_at BIGINT NOT NULL,
			INDEX idx_verdict_cache_expires_at (expires_at)
		)`,
	},
	upsert: `INSERT INTO verdict_cache (cache_key, label, raw_label, last_seen, expires_at)
		VALUES (?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			label = VALUES(label),
			raw_label = VALUES(raw_label),
			last_seen = VALUES(last_seen),
			expires_at = VALUES(expires_at)`,
	get: `SELECT cache_key, label, raw_label, last_seen, expires_at
		FROM verdict_cache WHERE cache_key = ?`,
	del:     `DELETE FROM verdict_cache WHERE cache_key = ?`,
	cleanup: `DELETE FROM verdict_cache WHERE expires_at < ?`,
}

// NewMySQLCache creates a new MySQL cache
func NewMySQLCache(dsn string, logger *zap.Logger, cleanupFreq time.Duration) (*SQLCache, error) {
	return newSQLCache(mysqlDialect, dsn, logger, cleanupFreq)
}
