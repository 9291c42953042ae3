package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/tgpaywall/tgpaywall/pkg/logger"
	"github.com/tgpaywall/tgpaywall/pkg/telegram"
	"github.com/tgpaywall/tgpaywall/svc/subscription"
)

// InitDataValidator verifies a raw Mini App launch payload.
type InitDataValidator interface {
	Validate(raw string) telegram.Result
}

// SubscriptionResolver answers whether a user is subscribed.
type SubscriptionResolver interface {
	Resolve(ctx context.Context, telegramUserID string) (subscription.Resolution, error)
}

// Session is the result of a successful Telegram sign-in.
type Session struct {
	Token      string
	Subscribed bool
	User       telegram.User
	Source     subscription.Source
	ExpiresAt  time.Time
}

// Authenticator turns verified init data into a session carrying the
// user's current subscription state.
type Authenticator struct {
	validator InitDataValidator
	resolver  SubscriptionResolver
	sessions  *SessionService
	logger    *slog.Logger
}

// NewAuthenticator wires init-data validation, subscription lookup and
// session issuance. A nil logger discards output.
func NewAuthenticator(v InitDataValidator, r SubscriptionResolver, s *SessionService, log *slog.Logger) *Authenticator {
	if log == nil {
		log = logger.Discard()
	}
	return &Authenticator{validator: v, resolver: r, sessions: s, logger: log}
}

// Authenticate validates initData, resolves the subscription and issues a
// session. Invalid or user-less payloads return ErrInvalidInitData.
func (a *Authenticator) Authenticate(ctx context.Context, initData string) (*Session, error) {
	result := a.validator.Validate(initData)
	if !result.Valid || result.User == nil {
		a.logger.InfoContext(ctx, "telegram init data rejected", logger.Component("auth"))
		return nil, ErrInvalidInitData
	}

	user := *result.User
	userID := user.IDString()

	res, err := a.resolver.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := a.sessions.issue(SessionPayload{TelegramUserID: userID, IsSubscribed: res.IsActive})
	if err != nil {
		return nil, err
	}

	a.logger.InfoContext(ctx, "telegram session issued",
		logger.Component("auth"),
		logger.UserID(userID),
		logger.Source(string(res.Source)),
		slog.Bool("subscribed", res.IsActive),
	)

	return &Session{
		Token:      token,
		Subscribed: res.IsActive,
		User:       user,
		Source:     res.Source,
		ExpiresAt:  expiresAt,
	}, nil
}
