// Package billing mounts the Tribute webhook receiver and the public upsell
// endpoints.
package billing

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tgpaywall/tgpaywall/handler"
	"github.com/tgpaywall/tgpaywall/pkg/qrcode"
	"github.com/tgpaywall/tgpaywall/pkg/tribute"
	"github.com/tgpaywall/tgpaywall/pkg/webhook"
	"github.com/tgpaywall/tgpaywall/svc/subscription"
)

// WebhookProcessor is satisfied by subscription.WebhookProcessor.
type WebhookProcessor interface {
	Process(ctx context.Context, body []byte, signature string) (subscription.Outcome, error)
}

type Service struct {
	processor    WebhookProcessor
	upsellURL    string
	qr           *qrcode.Handler
	errorHandler handler.ErrorHandler[handler.Context]
}

// NewService returns the billing module. With an empty upsellURL the public
// upsell routes answer 404.
func NewService(p WebhookProcessor, upsellURL string, errorHandler handler.ErrorHandler[handler.Context]) *Service {
	return &Service{
		processor:    p,
		upsellURL:    upsellURL,
		qr:           qrcode.NewHandler(upsellURL, qrcode.DefaultSize),
		errorHandler: errorHandler,
	}
}

// Handle returns the webhook router. Mount it under /api/tribute.
func (s *Service) Handle() http.Handler {
	r := chi.NewRouter()
	r.Post("/webhook", handler.Wrap(s.webhook,
		handler.WithErrorHandler[handler.Context, struct{}](s.errorHandler),
	))
	return r
}

// HandlePublic returns the upsell routes. Mount it under /api/public/upsell.
func (s *Service) HandlePublic() http.Handler {
	r := chi.NewRouter()
	r.Get("/", handler.Wrap(s.upsell,
		handler.WithErrorHandler[handler.Context, struct{}](s.errorHandler),
	))
	r.Method(http.MethodGet, "/qr.png", s.qr)
	return r
}

func (s *Service) webhook(ctx handler.Context, _ struct{}) handler.Response {
	body, signature, err := webhook.ReadSigned(ctx.Request(), tribute.SignatureHeader, 0)
	if err != nil {
		return handler.Error(handler.ErrBadRequest)
	}

	if _, err := s.processor.Process(ctx, body, signature); err != nil {
		return handler.Error(mapError(err))
	}
	return handler.JSON(map[string]bool{"success": true})
}

func (s *Service) upsell(handler.Context, struct{}) handler.Response {
	if s.upsellURL == "" {
		return handler.Error(handler.HTTPError{Code: http.StatusNotFound, Key: "content.not_found"})
	}
	return handler.JSON(map[string]string{"url": s.upsellURL})
}

func mapError(err error) error {
	switch {
	case errors.Is(err, webhook.ErrMissingSignature):
		return handler.ErrSignatureMissing
	case errors.Is(err, subscription.ErrInvalidSignature):
		return handler.ErrSignatureInvalid
	case errors.Is(err, subscription.ErrInvalidPayload):
		return handler.ErrBadRequest
	default:
		return err
	}
}
