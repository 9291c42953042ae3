package redis

import "time"

// Config holds the Redis connection settings. An empty URL means the
// process runs without Redis and picks an in-process cache instead.
type Config struct {
	ConnectionURL  string        `env:"REDIS_URL"`                              // ConnectionURL in the form "redis://:password@localhost:6379/0".
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`    // RetryAttempts is the number of startup ping attempts.
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"2s"`   // RetryInterval is the pause between attempts.
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"15s"` // ConnectTimeout bounds the whole connect phase.
	ScanBatchSize  int64         `env:"REDIS_SCAN_BATCH_SIZE" envDefault:"500"` // ScanBatchSize is the COUNT hint for prefix invalidation scans.
	KeyPrefix      string        `env:"REDIS_KEY_PREFIX" envDefault:""`         // KeyPrefix namespaces every cache key.
}

// Enabled reports whether a Redis URL was configured.
func (c Config) Enabled() bool {
	return c.ConnectionURL != ""
}
