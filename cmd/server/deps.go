package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tgpaywall/tgpaywall/pkg/cache"
	"github.com/tgpaywall/tgpaywall/pkg/config"
	"github.com/tgpaywall/tgpaywall/pkg/httpserver"
	"github.com/tgpaywall/tgpaywall/pkg/logger"
	"github.com/tgpaywall/tgpaywall/pkg/pg"
	"github.com/tgpaywall/tgpaywall/pkg/redis"
	"github.com/tgpaywall/tgpaywall/pkg/requestid"
	"github.com/tgpaywall/tgpaywall/svc/content"
)

// deps holds the process wide resources every command shares. close
// releases them in reverse order of acquisition.
type deps struct {
	cfg     appConfig
	log     *slog.Logger
	pool    *pgxpool.Pool
	pgCfg   pg.Config
	cache   cache.Cache
	checks  []httpserver.Check
	closers []func()
}

func newLogger(cfg appConfig) *slog.Logger {
	return logger.New(
		logger.WithEnvironment(cfg.Env, cfg.Name),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	)
}

// connect loads the app config and opens Postgres, and the cache when
// withCache is set.
func connect(ctx context.Context, withCache bool) (*deps, error) {
	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		return nil, err
	}
	d := &deps{cfg: cfg, log: newLogger(cfg)}

	var pgCfg pg.Config
	if err := config.Load(&pgCfg); err != nil {
		return nil, err
	}
	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	d.pool = pool
	d.pgCfg = pgCfg
	d.closers = append(d.closers, pool.Close)
	d.checks = append(d.checks, httpserver.Check{Name: "postgres", Fn: pg.Healthcheck(pool)})

	if !withCache {
		d.cache = cache.Noop{}
		return d, nil
	}
	if err := d.openCache(ctx); err != nil {
		d.close()
		return nil, err
	}
	return d, nil
}

func (d *deps) openCache(ctx context.Context) error {
	var redisCfg redis.Config
	if err := config.Load(&redisCfg); err != nil {
		return err
	}

	driver := d.cfg.cacheDriver(redisCfg.Enabled())
	switch driver {
	case cacheDriverNoop:
		d.cache = cache.Noop{}
	case cacheDriverMemory:
		d.cache = cache.NewMemory(d.cfg.CacheCapacity)
	case cacheDriverRedis:
		client, err := redis.Connect(ctx, redisCfg)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		d.closers = append(d.closers, func() { _ = client.Close() })
		d.checks = append(d.checks, httpserver.Check{Name: "redis", Fn: redis.Healthcheck(client)})
		d.cache = redis.NewCache(client, redisCfg)
	}

	d.log.Info("cache ready", logger.Component("cache"), slog.String("driver", driver))
	return nil
}

func (d *deps) contentReader() *content.Reader {
	return content.NewReader(content.NewPGStore(d.pool),
		content.WithCache(d.cache),
		content.WithLogger(d.log),
	)
}

func (d *deps) close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
}
