package subscription

import (
	"log/slog"
	"time"

	"github.com/tgpaywall/tgpaywall/pkg/cache"
	"github.com/tgpaywall/tgpaywall/pkg/logger"
)

// Observer receives resolution and webhook outcomes, typically to export
// them as metrics.
type Observer interface {
	ObserveResolution(source string, active bool)
	ObserveWebhook(event, outcome string)
}

type noopObserver struct{}

func (noopObserver) ObserveResolution(string, bool) {}
func (noopObserver) ObserveWebhook(string, string)  {}

type options struct {
	cache          cache.Cache
	cacheTTL       time.Duration
	fallback       FallbackPolicy
	billingTimeout time.Duration
	logger         *slog.Logger
	observer       Observer
	now            func() time.Time
}

func defaultOptions() options {
	return options{
		cache:          cache.Noop{},
		cacheTTL:       DefaultCacheTTL,
		fallback:       DenyAll(),
		billingTimeout: DefaultBillingTimeout,
		logger:         logger.Discard(),
		observer:       noopObserver{},
		now:            time.Now,
	}
}

// Option configures a Resolver or a WebhookProcessor.
type Option func(*options)

// WithCache sets the cache in front of the store. Defaults to cache.Noop.
func WithCache(c cache.Cache) Option {
	return func(o *options) {
		if c != nil {
			o.cache = c
		}
	}
}

// WithCacheTTL sets how long a resolution stays cached. Defaults to DefaultCacheTTL.
func WithCacheTTL(ttl time.Duration) Option {
	return func(o *options) {
		if ttl > 0 {
			o.cacheTTL = ttl
		}
	}
}

// WithFallback sets the policy applied when billing is unavailable. Defaults to DenyAll.
func WithFallback(p FallbackPolicy) Option {
	return func(o *options) {
		if p != nil {
			o.fallback = p
		}
	}
}

// WithBillingTimeout bounds a single billing lookup. Defaults to DefaultBillingTimeout.
func WithBillingTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.billingTimeout = d
		}
	}
}

// WithLogger sets the logger. Defaults to a discarding logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithObserver reports resolutions and webhook outcomes, typically to metrics.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.observer = obs
		}
	}
}

// WithClock overrides time.Now, used for fallback expiry.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}
