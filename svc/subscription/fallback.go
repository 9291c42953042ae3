package subscription

import (
	"strings"
	"time"
)

// FallbackPlanID is reported for users activated by an allow list.
const FallbackPlanID = "premium_monthly"

// FallbackPeriod is the expiry horizon reported for allow-listed users.
const FallbackPeriod = 30 * 24 * time.Hour

// FallbackPolicy decides the subscription state when the billing provider
// cannot answer. Its result is returned to the caller but never persisted
// or cached.
type FallbackPolicy func(telegramUserID string, now time.Time) Resolution

// DenyAll treats every user as unsubscribed.
func DenyAll() FallbackPolicy {
	return func(string, time.Time) Resolution {
		return Resolution{IsActive: false, Source: SourceFallback}
	}
}

// AllowList treats the listed ids as subscribed and everyone else as not.
// Blank ids are ignored.
func AllowList(ids ...string) FallbackPolicy {
	allowed := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			allowed[id] = struct{}{}
		}
	}

	return func(telegramUserID string, now time.Time) Resolution {
		if _, ok := allowed[telegramUserID]; !ok {
			return Resolution{IsActive: false, Source: SourceFallback}
		}
		expires := now.Add(FallbackPeriod)
		return Resolution{
			IsActive:  true,
			Source:    SourceFallback,
			PlanID:    FallbackPlanID,
			ExpiresAt: &expires,
		}
	}
}
