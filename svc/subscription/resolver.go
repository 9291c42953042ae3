package subscription

import (
	"context"
	"errors"
	"time"

	"github.com/tgpaywall/tgpaywall/pkg/cache"
	"github.com/tgpaywall/tgpaywall/pkg/logger"
	"github.com/tgpaywall/tgpaywall/pkg/tribute"
)

// BillingProvider answers subscription queries from the payment provider.
type BillingProvider interface {
	CheckSubscription(ctx context.Context, telegramUserID string) (tribute.Subscription, error)
}

// Resolver reads subscription state through cache, store and billing.
// It holds no mutable state and is safe for concurrent use.
type Resolver struct {
	store   Store
	billing BillingProvider
	opts    options
}

// NewResolver builds a Resolver over store and billing. Without options it
// caches nothing and denies access when billing is unavailable.
func NewResolver(store Store, billing BillingProvider, opts ...Option) *Resolver {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Resolver{store: store, billing: billing, opts: o}
}

// Resolve returns the subscription state of telegramUserID.
//
// Cache errors degrade to a miss. Store errors are returned wrapped in
// ErrStoreUnavailable. Billing errors switch to the fallback policy, whose
// answer is neither persisted nor cached.
func (r *Resolver) Resolve(ctx context.Context, telegramUserID string) (Resolution, error) {
	if telegramUserID == "" {
		return Resolution{}, ErrEmptyUserID
	}

	res, err := r.resolve(ctx, telegramUserID)
	if err != nil {
		return Resolution{}, err
	}
	r.opts.observer.ObserveResolution(string(res.Source), res.IsActive)
	return res, nil
}

func (r *Resolver) resolve(ctx context.Context, telegramUserID string) (Resolution, error) {
	log := r.opts.logger.With(logger.Component("subscription"), logger.UserID(telegramUserID))
	key := CacheKey(telegramUserID)

	cached, err := cache.GetJSON[UserAccess](ctx, r.opts.cache, key)
	switch {
	case err == nil:
		return Resolution{IsActive: cached.IsActive, Source: SourceCache}, nil
	case !errors.Is(err, cache.ErrMiss):
		log.WarnContext(ctx, "subscription cache read failed", logger.CacheKey(key), logger.Error(err))
	}

	access, err := r.store.FindUserAccess(ctx, telegramUserID)
	switch {
	case err == nil:
		r.remember(ctx, access)
		return Resolution{IsActive: access.IsActive, Source: SourceStore}, nil
	case !errors.Is(err, ErrNotFound):
		return Resolution{}, errors.Join(ErrStoreUnavailable, err)
	}

	billingCtx, cancel := context.WithTimeout(ctx, r.opts.billingTimeout)
	started := time.Now()
	sub, err := r.billing.CheckSubscription(billingCtx, telegramUserID)
	cancel()
	if err != nil {
		res := r.opts.fallback(telegramUserID, r.opts.now())
		res.Source = SourceFallback
		log.WarnContext(ctx, "billing provider unavailable, applying fallback policy",
			logger.Error(err),
			logger.Duration(time.Since(started)),
			logger.Source(string(res.Source)),
		)
		return res, nil
	}

	access, err = r.store.UpsertUserAccess(ctx, telegramUserID, sub.IsActive)
	if err != nil {
		return Resolution{}, errors.Join(ErrStoreUnavailable, err)
	}
	r.remember(ctx, access)

	return Resolution{
		IsActive:  sub.IsActive,
		Source:    SourceBilling,
		PlanID:    sub.PlanID,
		ExpiresAt: sub.ExpiresAt,
	}, nil
}

func (r *Resolver) remember(ctx context.Context, access UserAccess) {
	key := CacheKey(access.TelegramUserID)
	if err := cache.SetJSON(ctx, r.opts.cache, key, access, r.opts.cacheTTL); err != nil {
		r.opts.logger.WarnContext(ctx, "subscription cache write failed",
			logger.Component("subscription"),
			logger.CacheKey(key),
			logger.Error(err),
		)
	}
}
