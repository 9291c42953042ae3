package tribute

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// SignatureHeader carries the hex HMAC-SHA256 of the raw webhook body,
// keyed by the API key.
const SignatureHeader = "trbt-signature"

// Webhook event names.
const (
	EventSubscriptionCreated   = "subscription.created"
	EventSubscriptionUpdated   = "subscription.updated"
	EventSubscriptionRenewed   = "subscription.renewed"
	EventSubscriptionCancelled = "subscription.cancelled"
	EventSubscriptionExpired   = "subscription.expired"
)

// Event is a webhook delivery. Data stays raw until the event is known to
// be one the caller handles.
type Event struct {
	Name string          `json:"event"`
	Data json.RawMessage `json:"data"`
}

type eventData struct {
	TelegramUserID json.RawMessage `json:"telegramUserId"`
	UserID         json.RawMessage `json:"userId"`
}

// Identity returns data.telegramUserId, falling back to data.userId. It is
// empty with a nil error when neither is set, and fails only when no usable
// id is present and at least one of them could not be read.
func (ev Event) Identity() (string, error) {
	if isNull(ev.Data) {
		return "", nil
	}
	var d eventData
	if err := json.Unmarshal(ev.Data, &d); err != nil {
		return "", errors.Join(ErrInvalidUserID, err)
	}

	var errs []error
	for _, raw := range []json.RawMessage{d.TelegramUserID, d.UserID} {
		id, err := parseUserID(raw)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if id != "" {
			return id, nil
		}
	}
	if len(errs) > 0 {
		return "", errors.Join(append([]error{ErrInvalidUserID}, errs...)...)
	}
	return "", nil
}

// parseUserID accepts a JSON string or any integral JSON number, including
// float notation such as 42.0 or 1e3 and integers past int64.
func parseUserID(raw json.RawMessage) (string, error) {
	if isNull(raw) {
		return "", nil
	}
	raw = bytes.TrimSpace(raw)
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return strings.TrimSpace(s), nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return "", err
	}
	n, ok := v.(json.Number)
	if !ok {
		return "", fmt.Errorf("user id must be a string or a number, got %s", raw)
	}
	if isDigits(n.String()) {
		return strings.TrimLeft(n.String(), "0"), nil
	}
	if i, err := n.Int64(); err == nil {
		return strconv.FormatInt(i, 10), nil
	}
	r, ok := new(big.Rat).SetString(n.String())
	if !ok || !r.IsInt() {
		return "", fmt.Errorf("user id must be an integer, got %s", n)
	}
	return r.Num().String(), nil
}

func isNull(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// ParseEvent decodes a webhook body. The signature must be checked first.
func ParseEvent(body []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(body, &ev); err != nil {
		return Event{}, errors.Join(ErrInvalidEvent, err)
	}
	return ev, nil
}
