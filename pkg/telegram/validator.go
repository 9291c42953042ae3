// Package telegram verifies Telegram Mini App init data.
//
// The client hands the backend the raw query string it received from
// Telegram.WebApp.initData. The payload is trusted only when its hash is the
// HMAC-SHA256 of the sorted key=value lines, keyed with
// HMAC-SHA256("WebAppData", botToken), and auth_date is at most MaxAge old.
package telegram

import (
	"crypto/hmac"
	"encoding/hex"
	"time"
)

// DefaultMaxAge is how long a launch payload stays acceptable.
const DefaultMaxAge = 24 * time.Hour

// Result is the outcome of Validate. User is set only when Valid is true.
type Result struct {
	Valid bool
	User  *User
	Data  *InitData
}

// Validator checks init data against one bot token.
type Validator struct {
	botToken string
	maxAge   time.Duration
	now      func() time.Time
}

// ValidatorOption configures Validator.
type ValidatorOption func(*Validator)

// WithMaxAge overrides DefaultMaxAge. Non-positive values are ignored.
func WithMaxAge(d time.Duration) ValidatorOption {
	return func(v *Validator) {
		if d > 0 {
			v.maxAge = d
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) ValidatorOption {
	return func(v *Validator) {
		if now != nil {
			v.now = now
		}
	}
}

// NewValidator panics on an empty bot token: it is required configuration.
func NewValidator(botToken string, opts ...ValidatorOption) *Validator {
	if botToken == "" {
		panic(ErrMissingBotToken)
	}
	v := &Validator{botToken: botToken, maxAge: DefaultMaxAge, now: time.Now}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Check parses raw and returns the reason it is not trustworthy, if any.
// Freshness is checked before the signature.
func (v *Validator) Check(raw string) (*InitData, error) {
	data, err := Parse(raw)
	if err != nil {
		return nil, err
	}

	age := v.now().Unix() - data.AuthDate.Unix()
	if age > int64(v.maxAge/time.Second) {
		return nil, ErrExpired
	}

	want := hex.EncodeToString(signature(v.botToken, data.Values))
	if !hmac.Equal([]byte(data.Hash), []byte(want)) {
		return nil, ErrHashMismatch
	}

	return data, nil
}

// Validate reports whether raw is authentic and fresh. It never returns an
// error: every failure yields Result{Valid: false}.
func (v *Validator) Validate(raw string) Result {
	data, err := v.Check(raw)
	if err != nil {
		return Result{}
	}
	return Result{Valid: true, User: data.User, Data: data}
}

// UserID returns the decimal user id of a valid payload that carries a user.
func (v *Validator) UserID(raw string) (string, bool) {
	res := v.Validate(raw)
	if !res.Valid || res.User == nil {
		return "", false
	}
	return res.User.IDString(), true
}
