// Package ratelimiter is a keyed token bucket limiter with HTTP middleware.
// Each key (usually a client IP) gets its own golang.org/x/time/rate
// limiter; idle keys are evicted LRU-first once MaxKeys is reached.
package ratelimiter

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/tgpaywall/tgpaywall/pkg/cache"
)

var (
	ErrInvalidConfig = errors.New("ratelimiter: invalid configuration")
	ErrLimited       = errors.New("ratelimiter: too many requests")
)

// Config defines the bucket shared by every key.
type Config struct {
	RequestsPerMinute int `env:"VERIFY_RATE_LIMIT" envDefault:"30"`
	Burst             int `env:"VERIFY_RATE_BURST" envDefault:"10"`
	MaxKeys           int `env:"VERIFY_RATE_MAX_KEYS" envDefault:"10000"`
}

func (c Config) validate() error {
	if c.RequestsPerMinute <= 0 {
		return fmt.Errorf("%w: requests per minute must be positive, got %d", ErrInvalidConfig, c.RequestsPerMinute)
	}
	if c.Burst <= 0 {
		return fmt.Errorf("%w: burst must be positive, got %d", ErrInvalidConfig, c.Burst)
	}
	if c.MaxKeys <= 0 {
		return fmt.Errorf("%w: max keys must be positive, got %d", ErrInvalidConfig, c.MaxKeys)
	}
	return nil
}

// Result describes one Allow decision.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// Limiter is safe for concurrent use.
type Limiter struct {
	limit   rate.Limit
	burst   int
	perMin  int
	buckets *cache.LRUCache[string, *rate.Limiter]
	now     func() time.Time
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		if now != nil {
			l.now = now
		}
	}
}

// New validates cfg and returns a Limiter keeping one bucket per key.
func New(cfg Config, opts ...Option) (*Limiter, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	l := &Limiter{
		limit:   rate.Limit(float64(cfg.RequestsPerMinute) / 60),
		burst:   cfg.Burst,
		perMin:  cfg.RequestsPerMinute,
		buckets: cache.NewLRUCache[string, *rate.Limiter](cfg.MaxKeys),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Allow takes one token from key's bucket.
func (l *Limiter) Allow(key string) Result {
	now := l.now()
	b := l.bucket(key)

	res := Result{Limit: l.perMin}
	r := b.ReserveN(now, 1)
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		res.RetryAfter = delay
	} else {
		res.Allowed = true
	}
	res.Remaining = max(0, int(math.Floor(b.TokensAt(now))))
	return res
}

func (l *Limiter) bucket(key string) *rate.Limiter {
	if b, ok := l.buckets.Get(key); ok {
		return b
	}
	// Two racing callers may both create a bucket; the last Put wins and
	// at most one extra token is granted.
	b := rate.NewLimiter(l.limit, l.burst)
	l.buckets.Put(key, b)
	return b
}

// KeyFunc extracts the limiter key from a request. An empty key skips limiting.
type KeyFunc func(r *http.Request) string

// Middleware enforces the limiter per key. Denied requests get Retry-After
// and are passed to onLimited, which writes the 429 response.
func Middleware(l *Limiter, keyFunc KeyFunc, onLimited func(w http.ResponseWriter, r *http.Request, err error)) func(http.Handler) http.Handler {
	if onLimited == nil {
		onLimited = func(w http.ResponseWriter, _ *http.Request, _ error) {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := keyFunc(r)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			res := l.Allow(key)
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))

			if !res.Allowed {
				secs := int(math.Ceil(res.RetryAfter.Seconds()))
				w.Header().Set("Retry-After", strconv.Itoa(max(1, secs)))
				onLimited(w, r, ErrLimited)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
