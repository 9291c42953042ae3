// Package handler adapts typed request handlers to net/http. A handler
// receives a bound and validated request struct and returns a Response;
// binding, validation and rendering errors go to one ErrorHandler.
//
//	type searchRequest struct {
//		Query string `query:"q" validate:"required"`
//	}
//
//	r.Get("/search", handler.Wrap(search,
//		handler.WithBinders[handler.Context, searchRequest](binder.Query()),
//		handler.WithErrorHandler[handler.Context, searchRequest](errs),
//	))
package handler

import (
	"context"
	"net/http"
	"reflect"
	"time"
)

// Context exposes the request and writer alongside the request context.
type Context interface {
	context.Context
	Request() *http.Request
	ResponseWriter() http.ResponseWriter
}

// NewContext wraps a request and its writer.
func NewContext(w http.ResponseWriter, r *http.Request) Context {
	return &httpContext{w: w, r: r}
}

type httpContext struct {
	w http.ResponseWriter
	r *http.Request
}

func (c *httpContext) Request() *http.Request              { return c.r }
func (c *httpContext) ResponseWriter() http.ResponseWriter { return c.w }
func (c *httpContext) Deadline() (time.Time, bool)         { return c.r.Context().Deadline() }
func (c *httpContext) Done() <-chan struct{}               { return c.r.Context().Done() }
func (c *httpContext) Err() error                          { return c.r.Context().Err() }
func (c *httpContext) Value(key any) any                   { return c.r.Context().Value(key) }

// HandlerFunc handles a typed request.
type HandlerFunc[C Context, R any] func(ctx C, req R) Response

// Response renders itself to the writer.
type Response interface {
	Render(w http.ResponseWriter, r *http.Request) error
}

// Bind fills v from the request.
type Bind func(r *http.Request, v any) error

// ErrorHandler writes the response for a failed request.
type ErrorHandler[C Context] func(ctx C, err error)

// Decorator wraps a HandlerFunc. The first decorator given is the outermost.
type Decorator[C Context, R any] func(HandlerFunc[C, R]) HandlerFunc[C, R]

type wrapConfig[C Context, R any] struct {
	binders        []Bind
	errorHandler   ErrorHandler[C]
	contextFactory func(http.ResponseWriter, *http.Request) C
	decorators     []Decorator[C, R]
	skipValidation bool
}

// WrapOption configures Wrap.
type WrapOption[C Context, R any] func(*wrapConfig[C, R])

// WithBinders appends binders, applied in order.
func WithBinders[C Context, R any](binders ...Bind) WrapOption[C, R] {
	return func(c *wrapConfig[C, R]) {
		c.binders = append(c.binders, binders...)
	}
}

// WithErrorHandler replaces the plain-text default error handler.
func WithErrorHandler[C Context, R any](h ErrorHandler[C]) WrapOption[C, R] {
	return func(c *wrapConfig[C, R]) {
		if h != nil {
			c.errorHandler = h
		}
	}
}

// WithContextFactory is required when C is not handler.Context.
func WithContextFactory[C Context, R any](f func(http.ResponseWriter, *http.Request) C) WrapOption[C, R] {
	return func(c *wrapConfig[C, R]) {
		if f != nil {
			c.contextFactory = f
		}
	}
}

// WithDecorators wraps the handler; the first decorator runs outermost.
func WithDecorators[C Context, R any](decorators ...Decorator[C, R]) WrapOption[C, R] {
	return func(c *wrapConfig[C, R]) {
		c.decorators = append(c.decorators, decorators...)
	}
}

// WithoutValidation skips the `validate` tag check after binding.
func WithoutValidation[C Context, R any]() WrapOption[C, R] {
	return func(c *wrapConfig[C, R]) {
		c.skipValidation = true
	}
}

// Wrap converts h into an http.HandlerFunc. After binding, struct requests
// are checked against their `validate` tags.
func Wrap[C Context, R any](h HandlerFunc[C, R], opts ...WrapOption[C, R]) http.HandlerFunc {
	cfg := &wrapConfig[C, R]{
		errorHandler: func(ctx C, err error) {
			writePlainError(ctx.ResponseWriter(), err)
		},
		contextFactory: func(w http.ResponseWriter, r *http.Request) C {
			c, ok := NewContext(w, r).(C)
			if !ok {
				panic("handler: custom context type requires WithContextFactory")
			}
			return c
		},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	final := h
	for i := len(cfg.decorators) - 1; i >= 0; i-- {
		final = cfg.decorators[i](final)
	}

	validate := !cfg.skipValidation && isStruct[R]()

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := cfg.contextFactory(w, r)

		var req R
		for _, bind := range cfg.binders {
			if err := bind(r, &req); err != nil {
				cfg.errorHandler(ctx, err)
				return
			}
		}
		if validate {
			if err := Validate(req); err != nil {
				cfg.errorHandler(ctx, err)
				return
			}
		}

		resp := final(ctx, req)
		if resp == nil {
			cfg.errorHandler(ctx, ErrNilResponse)
			return
		}
		if err := resp.Render(w, r); err != nil {
			cfg.errorHandler(ctx, err)
		}
	}
}

func isStruct[R any]() bool {
	t := reflect.TypeFor[R]()
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct
}
