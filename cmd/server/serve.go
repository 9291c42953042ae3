package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/urfave/cli/v2"

	"github.com/tgpaywall/tgpaywall/handler"
	"github.com/tgpaywall/tgpaywall/modules/auth"
	"github.com/tgpaywall/tgpaywall/modules/billing"
	"github.com/tgpaywall/tgpaywall/modules/content"
	"github.com/tgpaywall/tgpaywall/pkg/circuit"
	"github.com/tgpaywall/tgpaywall/pkg/config"
	"github.com/tgpaywall/tgpaywall/pkg/httpserver"
	"github.com/tgpaywall/tgpaywall/pkg/i18n"
	"github.com/tgpaywall/tgpaywall/pkg/logger"
	"github.com/tgpaywall/tgpaywall/pkg/metrics"
	"github.com/tgpaywall/tgpaywall/pkg/ratelimiter"
	"github.com/tgpaywall/tgpaywall/pkg/requestid"
	"github.com/tgpaywall/tgpaywall/pkg/telegram"
	"github.com/tgpaywall/tgpaywall/pkg/tribute"
	"github.com/tgpaywall/tgpaywall/svc/access"
	authsvc "github.com/tgpaywall/tgpaywall/svc/auth"
	"github.com/tgpaywall/tgpaywall/svc/subscription"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API",
		Action: func(c *cli.Context) error {
			return serve(c.Context)
		},
	}
}

func serve(ctx context.Context) error {
	d, err := connect(ctx, true)
	if err != nil {
		return err
	}
	defer d.close()

	var (
		httpCfg     httpserver.Config
		tributeCfg  tribute.Config
		telegramCfg telegram.Config
		authCfg     authsvc.Config
		limitCfg    ratelimiter.Config
	)
	for _, load := range []func() error{
		func() error { return config.Load(&httpCfg) },
		func() error { return config.Load(&tributeCfg) },
		func() error { return config.Load(&telegramCfg) },
		func() error { return config.Load(&authCfg) },
		func() error { return config.Load(&limitCfg) },
	} {
		if err := load(); err != nil {
			return err
		}
	}

	m := metrics.New()
	tr, err := i18n.New(i18n.WithLogger(d.log))
	if err != nil {
		return err
	}
	errs := handler.NewErrorHandler(d.log, tr)

	billingClient := tribute.NewClient(tributeCfg,
		tribute.WithLogger(d.log),
		tribute.WithStateObserver(func(s circuit.State) { m.SetBreakerState(int(s)) }),
	)
	subscriptions := subscription.NewPGStore(d.pool)
	subOpts := []subscription.Option{
		subscription.WithCache(d.cache),
		subscription.WithFallback(subscription.AllowList(tributeCfg.FallbackActiveIDs...)),
		subscription.WithBillingTimeout(tributeCfg.Timeout),
		subscription.WithLogger(d.log),
		subscription.WithObserver(m),
	}
	resolver := subscription.NewResolver(subscriptions, billingClient, subOpts...)
	processor := subscription.NewWebhookProcessor(subscriptions, tributeCfg.APIKey, subOpts...)

	sessions, err := authsvc.NewSessionService([]byte(authCfg.JWTSecret))
	if err != nil {
		return err
	}
	validator := telegram.NewValidator(telegramCfg.BotToken, telegram.WithMaxAge(telegramCfg.MaxAge))
	limiter, err := ratelimiter.New(limitCfg)
	if err != nil {
		return err
	}

	authModule := auth.NewService(
		authsvc.NewAuthenticator(validator, resolver, sessions, d.log),
		errs,
		auth.WithRateLimiter(limiter),
	)
	contentModule := content.NewService(d.contentReader(), access.NewGate(sessions), errs)
	billingModule := billing.NewService(processor, d.cfg.UpsellURL, errs)

	r := chi.NewRouter()
	r.Use(
		middleware.RealIP,
		requestid.Middleware,
		middleware.Recoverer,
		m.Middleware,
		cors.Handler(cors.Options{
			AllowedOrigins:   d.cfg.CORSOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Accept-Language", "Authorization", "Content-Type"},
			AllowCredentials: false,
			MaxAge:           300,
		}),
		i18n.Middleware(tr),
	)

	r.Route("/api", func(api chi.Router) {
		api.Get("/health", httpserver.HealthCheckHandler(d.log, d.cfg.HealthTimeout))
		api.Get("/health/ready", httpserver.HealthCheckHandler(d.log, d.cfg.HealthTimeout, d.checks...))

		api.Group(func(api chi.Router) {
			api.Use(middleware.Timeout(d.cfg.RequestTimeout))
			api.Mount("/auth", authModule.Handle())
			api.Mount("/content", contentModule.Handle())
			api.Mount("/public/upsell", billingModule.HandlePublic())
			api.Mount("/public", contentModule.HandlePublic())
			api.Mount("/tribute", billingModule.Handle())
		})
	})
	r.Method(http.MethodGet, "/metrics", m.Handler())

	srv := httpserver.New(httpCfg,
		httpserver.WithLogger(d.log),
		httpserver.WithStartHook(func(addr string) {
			d.log.Info("api listening", logger.Component("http"), slog.String("addr", addr))
		}),
	)
	if err := srv.Run(ctx, r); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
