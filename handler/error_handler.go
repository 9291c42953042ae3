package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/tgpaywall/tgpaywall/pkg/binder"
	"github.com/tgpaywall/tgpaywall/pkg/i18n"
	"github.com/tgpaywall/tgpaywall/pkg/logger"
	"github.com/tgpaywall/tgpaywall/pkg/requestid"
)

// ErrorRenderer writes errors as the JSON envelope
// {"error":{"code","message"}} with messages localized to the request
// language. 4xx are logged at warn, 5xx at error.
type ErrorRenderer struct {
	log        *slog.Logger
	translator *i18n.Translator
}

// NewErrorRenderer returns a renderer for the JSON error envelope. tr may be
// nil, in which case the key doubles as the message.
func NewErrorRenderer(log *slog.Logger, tr *i18n.Translator) *ErrorRenderer {
	if log == nil {
		log = logger.Discard()
	}
	return &ErrorRenderer{log: log, translator: tr}
}

// NewErrorHandler returns an ErrorHandler backed by an ErrorRenderer.
func NewErrorHandler(log *slog.Logger, tr *i18n.Translator) ErrorHandler[Context] {
	e := NewErrorRenderer(log, tr)
	return func(ctx Context, err error) {
		e.Render(ctx.ResponseWriter(), ctx.Request(), err)
	}
}

// Render classifies err and writes the response.
func (e *ErrorRenderer) Render(w http.ResponseWriter, r *http.Request, err error) {
	status, body := e.classify(r, err)

	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	e.log.LogAttrs(r.Context(), level, "request failed",
		logger.Component("http"),
		logger.RequestID(requestid.FromContext(r.Context())),
		logger.StatusCode(status),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		logger.Error(err),
	)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (e *ErrorRenderer) classify(r *http.Request, err error) (int, ErrorBody) {
	var (
		httpErr HTTPError
		valErr  ValidationError
	)
	switch {
	case errors.As(err, &valErr):
		return http.StatusBadRequest, ErrorBody{Error: ErrorDetail{
			Code:    "errors.validation",
			Message: e.message(r, "errors.validation"),
			Details: valErr,
		}}
	case errors.As(err, &httpErr):
		return httpErr.Code, e.body(r, httpErr.Key)
	case errors.Is(err, binder.ErrBodyTooLarge):
		return http.StatusRequestEntityTooLarge, e.body(r, ErrBadRequest.Key)
	case errors.Is(err, binder.ErrInvalidJSON),
		errors.Is(err, binder.ErrInvalidQuery),
		errors.Is(err, binder.ErrUnsupportedMediaType):
		return http.StatusBadRequest, e.body(r, ErrBadRequest.Key)
	default:
		return http.StatusInternalServerError, e.body(r, ErrInternal.Key)
	}
}

func (e *ErrorRenderer) body(r *http.Request, key string) ErrorBody {
	return ErrorBody{Error: ErrorDetail{Code: key, Message: e.message(r, key)}}
}

func (e *ErrorRenderer) message(r *http.Request, key string) string {
	if e.translator == nil {
		return key
	}
	return e.translator.Tc(r.Context(), key)
}

// writePlainError is the fallback when Wrap has no ErrorHandler.
func writePlainError(w http.ResponseWriter, err error) {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		http.Error(w, httpErr.Key, httpErr.Code)
		return
	}
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
