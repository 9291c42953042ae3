package main

import (
	"fmt"
	"time"
)

// Cache drivers accepted by CACHE_DRIVER.
const (
	cacheDriverMemory = "memory"
	cacheDriverNoop   = "noop"
	cacheDriverRedis  = "redis"
)

type appConfig struct {
	Env            string        `env:"APP_ENV" envDefault:"development"`
	Name           string        `env:"APP_NAME" envDefault:"tgpaywall"`
	UpsellURL      string        `env:"TILDA_UPSELL_URL"`
	CacheDriver    string        `env:"CACHE_DRIVER"`
	CacheCapacity  int           `env:"CACHE_MEMORY_CAPACITY" envDefault:"10000"`
	CORSOrigins    []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	RequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT" envDefault:"30s"`
	HealthTimeout  time.Duration `env:"HEALTHCHECK_TIMEOUT" envDefault:"3s"`
}

func (c *appConfig) Validate() error {
	switch c.CacheDriver {
	case "", cacheDriverMemory, cacheDriverNoop, cacheDriverRedis:
	default:
		return fmt.Errorf("unknown CACHE_DRIVER %q", c.CacheDriver)
	}
	if c.CacheCapacity <= 0 {
		return fmt.Errorf("CACHE_MEMORY_CAPACITY must be positive, got %d", c.CacheCapacity)
	}
	return nil
}

// cacheDriver resolves an empty CACHE_DRIVER: redis when REDIS_URL is set,
// memory otherwise.
func (c appConfig) cacheDriver(redisEnabled bool) string {
	if c.CacheDriver != "" {
		return c.CacheDriver
	}
	if redisEnabled {
		return cacheDriverRedis
	}
	return cacheDriverMemory
}
