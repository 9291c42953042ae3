package subscription

import (
	"context"
	"errors"

	"github.com/tgpaywall/tgpaywall/pkg/logger"
	"github.com/tgpaywall/tgpaywall/pkg/tribute"
	"github.com/tgpaywall/tgpaywall/pkg/webhook"
)

// Outcome describes what a webhook delivery did. OutcomeIgnored is an
// authentic delivery of an event that is not handled; OutcomeSkipped is a
// handled event that carried no user identity.
type Outcome string

const (
	OutcomeActivated   Outcome = "activated"
	OutcomeDeactivated Outcome = "deactivated"
	OutcomeIgnored     Outcome = "ignored"
	OutcomeSkipped     Outcome = "skipped"
	OutcomeRejected    Outcome = "rejected"
)

// WebhookProcessor applies Tribute subscription events to the store.
type WebhookProcessor struct {
	store  Store
	secret string
	opts   options
}

// NewWebhookProcessor builds a processor verifying deliveries with secret.
func NewWebhookProcessor(store Store, secret string, opts ...Option) *WebhookProcessor {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &WebhookProcessor{store: store, secret: secret, opts: o}
}

// Process verifies and applies one delivery. body must be the raw request
// body; signature the value of tribute.SignatureHeader.
func (p *WebhookProcessor) Process(ctx context.Context, body []byte, signature string) (Outcome, error) {
	log := p.opts.logger.With(logger.Component("tribute_webhook"))

	if err := webhook.VerifyHexSignature(p.secret, body, signature); err != nil {
		log.WarnContext(ctx, "webhook signature rejected", logger.Error(err))
		p.opts.observer.ObserveWebhook("", string(OutcomeRejected))
		return OutcomeRejected, errors.Join(ErrInvalidSignature, err)
	}

	ev, err := tribute.ParseEvent(body)
	if err != nil {
		p.opts.observer.ObserveWebhook("", string(OutcomeRejected))
		return OutcomeRejected, errors.Join(ErrInvalidPayload, err)
	}
	log = log.With(logger.Event(ev.Name))

	var active bool
	switch ev.Name {
	case tribute.EventSubscriptionCreated, tribute.EventSubscriptionUpdated, tribute.EventSubscriptionRenewed:
		active = true
	case tribute.EventSubscriptionCancelled, tribute.EventSubscriptionExpired:
		active = false
	default:
		log.InfoContext(ctx, "unhandled webhook event")
		p.opts.observer.ObserveWebhook(ev.Name, string(OutcomeIgnored))
		return OutcomeIgnored, nil
	}

	userID, err := ev.Identity()
	if err != nil {
		log.WarnContext(ctx, "webhook event with unreadable telegram user id", logger.Error(err))
		p.opts.observer.ObserveWebhook(ev.Name, string(OutcomeSkipped))
		return OutcomeSkipped, nil
	}
	if userID == "" {
		log.WarnContext(ctx, "webhook event without telegram user id")
		p.opts.observer.ObserveWebhook(ev.Name, string(OutcomeSkipped))
		return OutcomeSkipped, nil
	}
	log = log.With(logger.UserID(userID))

	if _, err := p.store.UpsertUserAccess(ctx, userID, active); err != nil {
		log.ErrorContext(ctx, "failed to apply webhook event", logger.Error(err))
		return "", errors.Join(ErrStoreUnavailable, err)
	}

	key := CacheKey(userID)
	if err := p.opts.cache.Delete(ctx, key); err != nil {
		log.WarnContext(ctx, "subscription cache invalidation failed", logger.CacheKey(key), logger.Error(err))
	}

	outcome := OutcomeDeactivated
	if active {
		outcome = OutcomeActivated
	}
	log.InfoContext(ctx, "subscription updated from webhook", logger.Source(string(outcome)))
	p.opts.observer.ObserveWebhook(ev.Name, string(outcome))

	return outcome, nil
}
