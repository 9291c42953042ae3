// Package subscription decides whether a Telegram user holds an active
// subscription. It reads through cache, store and the billing provider in
// that order, and applies subscription changes pushed by provider webhooks.
package subscription

import (
	"errors"
	"time"
)

// CacheKeyPrefix namespaces subscription entries in the shared cache.
const CacheKeyPrefix = "subscription:"

// DefaultCacheTTL bounds how long a resolved state is served from cache.
const DefaultCacheTTL = 300 * time.Second

// DefaultBillingTimeout bounds a single billing provider call.
const DefaultBillingTimeout = 5 * time.Second

var (
	ErrEmptyUserID      = errors.New("subscription: telegram user id is required")
	ErrNotFound         = errors.New("subscription: user access not found")
	ErrStoreUnavailable = errors.New("subscription: store unavailable")
	ErrInvalidSignature = errors.New("subscription: invalid webhook signature")
	ErrInvalidPayload   = errors.New("subscription: invalid webhook payload")
)

// UserAccess is the persisted subscription state of one Telegram user.
type UserAccess struct {
	TelegramUserID string    `json:"telegramUserId"`
	IsActive       bool      `json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Source names the tier a Resolution came from.
type Source string

const (
	SourceCache    Source = "cache"
	SourceStore    Source = "store"
	SourceBilling  Source = "billing"
	SourceFallback Source = "fallback"
)

// Resolution is the outcome of Resolve.
type Resolution struct {
	IsActive  bool
	Source    Source
	PlanID    string
	ExpiresAt *time.Time
}

// CacheKey returns the cache key holding the state of telegramUserID.
func CacheKey(telegramUserID string) string {
	return CacheKeyPrefix + telegramUserID
}
