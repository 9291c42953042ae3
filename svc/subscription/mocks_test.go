package subscription_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/tgpaywall/tgpaywall/pkg/tribute"
	"github.com/tgpaywall/tgpaywall/svc/subscription"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) FindUserAccess(ctx context.Context, telegramUserID string) (subscription.UserAccess, error) {
	args := m.Called(ctx, telegramUserID)
	return args.Get(0).(subscription.UserAccess), args.Error(1)
}

func (m *mockStore) UpsertUserAccess(ctx context.Context, telegramUserID string, isActive bool) (subscription.UserAccess, error) {
	args := m.Called(ctx, telegramUserID, isActive)
	return args.Get(0).(subscription.UserAccess), args.Error(1)
}

type mockBilling struct {
	mock.Mock
}

func (m *mockBilling) CheckSubscription(ctx context.Context, telegramUserID string) (tribute.Subscription, error) {
	args := m.Called(ctx, telegramUserID)
	return args.Get(0).(tribute.Subscription), args.Error(1)
}

// billingFunc adapts a function to subscription.BillingProvider.
type billingFunc func(ctx context.Context, telegramUserID string) (tribute.Subscription, error)

func (f billingFunc) CheckSubscription(ctx context.Context, telegramUserID string) (tribute.Subscription, error) {
	return f(ctx, telegramUserID)
}

// brokenCache fails every operation with a non-miss error.
type brokenCache struct{}

var errCacheDown = errors.New("cache down")

func (brokenCache) Get(context.Context, string) ([]byte, error)              { return nil, errCacheDown }
func (brokenCache) Set(context.Context, string, []byte, time.Duration) error { return errCacheDown }
func (brokenCache) Delete(context.Context, ...string) error                  { return errCacheDown }
func (brokenCache) DeletePrefix(context.Context, string) error               { return errCacheDown }

type recordingObserver struct {
	mu          sync.Mutex
	resolutions []string
	webhooks    []string
}

func (o *recordingObserver) ObserveResolution(source string, active bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if active {
		source += ":active"
	}
	o.resolutions = append(o.resolutions, source)
}

func (o *recordingObserver) ObserveWebhook(event, outcome string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.webhooks = append(o.webhooks, event+"="+outcome)
}

func access(id string, active bool) subscription.UserAccess {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return subscription.UserAccess{TelegramUserID: id, IsActive: active, CreatedAt: now, UpdatedAt: now}
}
