package telegram

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"slices"
	"strings"
)

// webAppDataKey is the fixed HMAC key Telegram uses to derive the secret from the bot token.
const webAppDataKey = "WebAppData"

// Sign returns the hex hash Telegram would attach to values. Any existing
// "hash" entry is ignored.
func Sign(botToken string, values url.Values) string {
	return hex.EncodeToString(signature(botToken, values))
}

// SignValues sets values' hash and returns the encoded query string.
func SignValues(botToken string, values url.Values) string {
	signed := url.Values{}
	for k, v := range values {
		if k != "hash" {
			signed[k] = slices.Clone(v)
		}
	}
	signed.Set("hash", Sign(botToken, signed))
	return signed.Encode()
}

func signature(botToken string, values url.Values) []byte {
	secret := hmac.New(sha256.New, []byte(webAppDataKey))
	secret.Write([]byte(botToken))

	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(checkString(values)))
	return mac.Sum(nil)
}

// checkString joins every key=value pair except hash, sorted by key, with newlines.
func checkString(values url.Values) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		if k != "hash" {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)

	var b strings.Builder
	for _, k := range keys {
		for _, v := range values[k] {
			if b.Len() > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(k)
			b.WriteByte('=')
			b.WriteString(v)
		}
	}
	return b.String()
}
