// Package tribute is a client for the Tribute subscription API and the
// webhook contract Tribute uses to push subscription changes.
package tribute

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tgpaywall/tgpaywall/pkg/circuit"
	"github.com/tgpaywall/tgpaywall/pkg/logger"
)

const maxResponseSize = 64 << 10

// Subscription is the provider's view of a user's subscription.
type Subscription struct {
	IsActive  bool       `json:"isActive"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	PlanID    string     `json:"planId,omitempty"`
}

// Client calls the Tribute REST API. Safe for concurrent use.
type Client struct {
	baseURL    string
	apiKey     string
	channelID  string
	httpClient *http.Client
	breaker    *circuit.Breaker
	logger     *slog.Logger
	onState    func(circuit.State)
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithBreaker replaces the breaker built from Config.
func WithBreaker(b *circuit.Breaker) ClientOption {
	return func(c *Client) {
		if b != nil {
			c.breaker = b
		}
	}
}

// WithStateObserver is called after each breaker state change, for metrics.
func WithStateObserver(fn func(circuit.State)) ClientOption {
	return func(c *Client) {
		c.onState = fn
	}
}

// WithLogger sets the client logger.
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient builds a client from cfg. The HTTP client timeout is cfg.Timeout;
// callers still pass a deadline through the context.
func NewClient(cfg Config, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(cfg.APIBase, "/"),
		apiKey:     cfg.APIKey,
		channelID:  cfg.ChannelID,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.breaker == nil {
		c.breaker = circuit.New(
			circuit.WithFailureThreshold(cfg.CircuitFailureThreshold),
			circuit.WithSuccessThreshold(cfg.CircuitSuccessThreshold),
			circuit.WithRecoveryTimeout(cfg.CircuitRecoveryTimeout),
			circuit.WithStateChange(func(from, to circuit.State) {
				c.logger.Warn("tribute circuit state changed",
					logger.Component("tribute"),
					slog.String("from", from.String()),
					slog.String("to", to.String()),
				)
				if c.onState != nil {
					c.onState(to)
				}
			}),
		)
	}

	return c
}

// CheckSubscription fetches the subscription state of a Telegram user.
//
// Every failure (transport, timeout, non-2xx, undecodable body, open
// breaker) is returned as an error; the caller decides on a fallback.
func (c *Client) CheckSubscription(ctx context.Context, telegramUserID string) (Subscription, error) {
	if telegramUserID == "" {
		return Subscription{}, ErrEmptyUserID
	}

	var sub Subscription
	err := c.breaker.Execute(func() error {
		var err error
		sub, err = c.fetchSubscription(ctx, telegramUserID)
		return err
	}, countsAsOutage)
	if errors.Is(err, circuit.ErrOpen) {
		return Subscription{}, errors.Join(ErrUnavailable, err)
	}
	if err != nil {
		return Subscription{}, err
	}

	return sub, nil
}

// BreakerStats exposes the circuit breaker counters for health output.
func (c *Client) BreakerStats() circuit.Stats {
	return c.breaker.Stats()
}

func (c *Client) fetchSubscription(ctx context.Context, telegramUserID string) (Subscription, error) {
	endpoint := c.baseURL + "/api/v1/subscriptions/" + url.PathEscape(telegramUserID)
	if c.channelID != "" {
		endpoint += "?" + url.Values{"channelId": {c.channelID}}.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Subscription{}, fmt.Errorf("tribute: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Subscription{}, errors.Join(ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseSize))
		return Subscription{}, &StatusError{Code: resp.StatusCode}
	}

	var sub Subscription
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&sub); err != nil {
		return Subscription{}, errors.Join(ErrInvalidResponse, err)
	}

	return sub, nil
}

// countsAsOutage keeps caller cancellations and request-specific 4xx
// answers from tripping the breaker.
func countsAsOutage(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Temporary()
	}
	return true
}
