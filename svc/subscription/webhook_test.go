package subscription_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tgpaywall/tgpaywall/pkg/cache"
	"github.com/tgpaywall/tgpaywall/pkg/webhook"
	"github.com/tgpaywall/tgpaywall/svc/subscription"
)

const webhookSecret = "tribute-api-key"

func signed(body string) ([]byte, string) {
	return []byte(body), webhook.SignHex(webhookSecret, []byte(body))
}

func TestWebhookProcessor_Process(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("cancelled event clears state and cache", func(t *testing.T) {
		t.Parallel()

		mem := cache.NewMemory(16)
		require.NoError(t, cache.SetJSON(ctx, mem, "subscription:42", access("42", true), time.Minute))
		store := &mockStore{}
		store.On("UpsertUserAccess", mock.Anything, "42", false).Return(access("42", false), nil).Once()
		obs := &recordingObserver{}

		p := subscription.NewWebhookProcessor(store, webhookSecret, subscription.WithCache(mem), subscription.WithObserver(obs))
		body, sig := signed(`{"event":"subscription.cancelled","data":{"telegramUserId":"42"}}`)

		outcome, err := p.Process(ctx, body, sig)
		require.NoError(t, err)
		assert.Equal(t, subscription.OutcomeDeactivated, outcome)
		store.AssertExpectations(t)

		_, err = mem.Get(ctx, "subscription:42")
		assert.ErrorIs(t, err, cache.ErrMiss)
		assert.Equal(t, []string{"subscription.cancelled=deactivated"}, obs.webhooks)
	})

	t.Run("activation events", func(t *testing.T) {
		t.Parallel()

		for _, event := range []string{"subscription.created", "subscription.updated", "subscription.renewed"} {
			store := &mockStore{}
			store.On("UpsertUserAccess", mock.Anything, "777", true).Return(access("777", true), nil).Once()

			p := subscription.NewWebhookProcessor(store, webhookSecret)
			body, sig := signed(`{"event":"` + event + `","data":{"userId":777}}`)

			outcome, err := p.Process(ctx, body, sig)
			require.NoError(t, err, event)
			assert.Equal(t, subscription.OutcomeActivated, outcome, event)
			store.AssertExpectations(t)
		}
	})

	t.Run("expired event deactivates", func(t *testing.T) {
		t.Parallel()

		store := &mockStore{}
		store.On("UpsertUserAccess", mock.Anything, "42", false).Return(access("42", false), nil).Once()

		body, sig := signed(`{"event":"subscription.expired","data":{"telegramUserId":42}}`)
		outcome, err := subscription.NewWebhookProcessor(store, webhookSecret).Process(ctx, body, sig)
		require.NoError(t, err)
		assert.Equal(t, subscription.OutcomeDeactivated, outcome)
	})

	t.Run("bad signature changes nothing", func(t *testing.T) {
		t.Parallel()

		mem := cache.NewMemory(16)
		require.NoError(t, cache.SetJSON(ctx, mem, "subscription:42", access("42", true), time.Minute))
		store := &mockStore{}

		p := subscription.NewWebhookProcessor(store, webhookSecret, subscription.WithCache(mem))
		body := []byte(`{"event":"subscription.cancelled","data":{"telegramUserId":"42"}}`)

		outcome, err := p.Process(ctx, body, webhook.SignHex("wrong-secret", body))
		assert.ErrorIs(t, err, subscription.ErrInvalidSignature)
		assert.ErrorIs(t, err, webhook.ErrInvalidSignature)
		assert.Equal(t, subscription.OutcomeRejected, outcome)

		store.AssertNotCalled(t, "UpsertUserAccess", mock.Anything, mock.Anything, mock.Anything)
		cached, err := cache.GetJSON[subscription.UserAccess](ctx, mem, "subscription:42")
		require.NoError(t, err)
		assert.True(t, cached.IsActive)
	})

	t.Run("missing signature", func(t *testing.T) {
		t.Parallel()

		store := &mockStore{}
		_, err := subscription.NewWebhookProcessor(store, webhookSecret).
			Process(ctx, []byte(`{"event":"subscription.created","data":{"userId":1}}`), "")
		assert.ErrorIs(t, err, subscription.ErrInvalidSignature)
		assert.ErrorIs(t, err, webhook.ErrMissingSignature)
		store.AssertNotCalled(t, "UpsertUserAccess", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("signed but malformed payload", func(t *testing.T) {
		t.Parallel()

		body, sig := signed(`{"event":`)
		_, err := subscription.NewWebhookProcessor(&mockStore{}, webhookSecret).Process(ctx, body, sig)
		assert.ErrorIs(t, err, subscription.ErrInvalidPayload)
	})

	t.Run("unknown event is ignored", func(t *testing.T) {
		t.Parallel()

		store := &mockStore{}
		body, sig := signed(`{"event":"donation.received","data":{"telegramUserId":"42"}}`)

		outcome, err := subscription.NewWebhookProcessor(store, webhookSecret).Process(ctx, body, sig)
		require.NoError(t, err)
		assert.Equal(t, subscription.OutcomeIgnored, outcome)
		store.AssertNotCalled(t, "UpsertUserAccess", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("event without identity is skipped", func(t *testing.T) {
		t.Parallel()

		store := &mockStore{}
		body, sig := signed(`{"event":"subscription.created","data":{}}`)

		outcome, err := subscription.NewWebhookProcessor(store, webhookSecret).Process(ctx, body, sig)
		require.NoError(t, err)
		assert.Equal(t, subscription.OutcomeSkipped, outcome)
		store.AssertNotCalled(t, "UpsertUserAccess", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("loosely typed payloads", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name    string
			body    string
			userID  string
			active  bool
			outcome subscription.Outcome
		}{
			{name: "unknown event with object id", body: `{"event":"donation.received","data":{"userId":{"id":1}}}`, outcome: subscription.OutcomeIgnored},
			{name: "unknown event with fractional id", body: `{"event":"donation.received","data":{"userId":1.5}}`, outcome: subscription.OutcomeIgnored},
			{name: "unknown event with scalar data", body: `{"event":"donation.received","data":"x"}`, outcome: subscription.OutcomeIgnored},
			{name: "cancel with integral float id", body: `{"event":"subscription.cancelled","data":{"telegramUserId":42.0}}`, userID: "42", outcome: subscription.OutcomeDeactivated},
			{name: "cancel with exponent id", body: `{"event":"subscription.cancelled","data":{"telegramUserId":1e3}}`, userID: "1000", outcome: subscription.OutcomeDeactivated},
			{name: "create with id past int64", body: `{"event":"subscription.created","data":{"userId":92233720368547758070}}`, userID: "92233720368547758070", active: true, outcome: subscription.OutcomeActivated},
			{name: "create with object id", body: `{"event":"subscription.created","data":{"userId":{"id":1}}}`, outcome: subscription.OutcomeSkipped},
			{name: "create with fractional id", body: `{"event":"subscription.created","data":{"telegramUserId":1.5}}`, outcome: subscription.OutcomeSkipped},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()

				store := &mockStore{}
				if tt.userID != "" {
					store.On("UpsertUserAccess", mock.Anything, tt.userID, tt.active).Return(access(tt.userID, tt.active), nil).Once()
				}
				obs := &recordingObserver{}

				body, sig := signed(tt.body)
				outcome, err := subscription.NewWebhookProcessor(store, webhookSecret, subscription.WithObserver(obs)).
					Process(ctx, body, sig)
				require.NoError(t, err)
				assert.Equal(t, tt.outcome, outcome)
				assert.Len(t, obs.webhooks, 1)
				if tt.userID == "" {
					store.AssertNotCalled(t, "UpsertUserAccess", mock.Anything, mock.Anything, mock.Anything)
				} else {
					store.AssertExpectations(t)
				}
			})
		}
	})

	t.Run("store failure", func(t *testing.T) {
		t.Parallel()

		store := &mockStore{}
		store.On("UpsertUserAccess", mock.Anything, "42", true).Return(subscription.UserAccess{}, errors.New("pool closed"))
		body, sig := signed(`{"event":"subscription.created","data":{"telegramUserId":"42"}}`)

		_, err := subscription.NewWebhookProcessor(store, webhookSecret).Process(ctx, body, sig)
		assert.ErrorIs(t, err, subscription.ErrStoreUnavailable)
	})

	t.Run("cache failure does not fail delivery", func(t *testing.T) {
		t.Parallel()

		store := &mockStore{}
		store.On("UpsertUserAccess", mock.Anything, "42", true).Return(access("42", true), nil)
		body, sig := signed(`{"event":"subscription.renewed","data":{"telegramUserId":"42"}}`)

		outcome, err := subscription.NewWebhookProcessor(store, webhookSecret, subscription.WithCache(brokenCache{})).
			Process(ctx, body, sig)
		require.NoError(t, err)
		assert.Equal(t, subscription.OutcomeActivated, outcome)
	})
}
