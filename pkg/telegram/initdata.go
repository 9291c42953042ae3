package telegram

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// User is the Telegram account embedded in init data.
type User struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name,omitempty"`
	Username     string `json:"username,omitempty"`
	LanguageCode string `json:"language_code,omitempty"`
	IsPremium    bool   `json:"is_premium,omitempty"`
	PhotoURL     string `json:"photo_url,omitempty"`
}

// IDString returns the decimal user id used as the UserAccess key.
func (u User) IDString() string {
	return strconv.FormatInt(u.ID, 10)
}

// InitData is the parsed, not yet verified, Mini App launch payload.
type InitData struct {
	QueryID  string
	User     *User
	AuthDate time.Time
	Hash     string
	Values   url.Values
}

// Parse decodes raw without checking its signature or age.
func Parse(raw string) (*InitData, error) {
	values, err := url.ParseQuery(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	data := &InitData{
		QueryID: values.Get("query_id"),
		Hash:    values.Get("hash"),
		Values:  values,
	}
	if data.Hash == "" {
		return nil, ErrMissingHash
	}

	ts, err := strconv.ParseInt(values.Get("auth_date"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAuthDate, err)
	}
	data.AuthDate = time.Unix(ts, 0)

	if rawUser := values.Get("user"); rawUser != "" {
		var u User
		if err := json.Unmarshal([]byte(rawUser), &u); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidUser, err)
		}
		data.User = &u
	}

	return data, nil
}
