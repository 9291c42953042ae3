// Package auth mounts the Telegram sign-in endpoint.
package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tgpaywall/tgpaywall/handler"
	"github.com/tgpaywall/tgpaywall/pkg/binder"
	"github.com/tgpaywall/tgpaywall/pkg/clientip"
	"github.com/tgpaywall/tgpaywall/pkg/ratelimiter"
	"github.com/tgpaywall/tgpaywall/pkg/telegram"
	authsvc "github.com/tgpaywall/tgpaywall/svc/auth"
)

// Authenticator is satisfied by authsvc.Authenticator.
type Authenticator interface {
	Authenticate(ctx context.Context, initData string) (*authsvc.Session, error)
}

type Service struct {
	authenticator Authenticator
	limiter       *ratelimiter.Limiter
	errorHandler  handler.ErrorHandler[handler.Context]
}

type Option func(*Service)

// WithRateLimiter limits sign-in attempts per client IP.
func WithRateLimiter(l *ratelimiter.Limiter) Option {
	return func(s *Service) {
		s.limiter = l
	}
}

// NewService returns the Telegram sign-in module.
func NewService(a Authenticator, errorHandler handler.ErrorHandler[handler.Context], opts ...Option) *Service {
	s := &Service{authenticator: a, errorHandler: errorHandler}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handle returns the module router. Mount it under /api/auth.
func (s *Service) Handle() http.Handler {
	r := chi.NewRouter()

	if s.limiter != nil {
		r.Use(ratelimiter.Middleware(s.limiter, clientip.GetIP, s.tooManyRequests))
	}

	r.Post("/telegram-verify", handler.Wrap(s.verify,
		handler.WithBinders[handler.Context, verifyRequest](binder.JSON()),
		handler.WithErrorHandler[handler.Context, verifyRequest](s.errorHandler),
	))

	return r
}

type verifyRequest struct {
	InitData string `json:"initData" validate:"required"`
}

type verifyResponse struct {
	Subscribed bool          `json:"subscribed"`
	SessionJWT string        `json:"sessionJWT"`
	User       telegram.User `json:"user"`
}

func (s *Service) verify(ctx handler.Context, req verifyRequest) handler.Response {
	session, err := s.authenticator.Authenticate(ctx, req.InitData)
	switch {
	case errors.Is(err, authsvc.ErrInvalidInitData):
		return handler.Error(handler.ErrInvalidInitData)
	case err != nil:
		return handler.Error(err)
	}

	return handler.JSON(verifyResponse{
		Subscribed: session.Subscribed,
		SessionJWT: session.Token,
		User:       session.User,
	})
}

func (s *Service) tooManyRequests(w http.ResponseWriter, r *http.Request, _ error) {
	if s.errorHandler == nil {
		http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		return
	}
	s.errorHandler(handler.NewContext(w, r), handler.ErrTooManyRequests)
}
