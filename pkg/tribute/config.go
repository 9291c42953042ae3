package tribute

import (
	"fmt"
	"net/url"
	"time"
)

// Config holds the Tribute API credentials and client tuning.
// The API key also signs inbound webhooks.
type Config struct {
	APIBase           string        `env:"TRIBUTE_API_BASE,required"`
	APIKey            string        `env:"TRIBUTE_API_KEY,required"`
	ChannelID         string        `env:"TRIBUTE_CHANNEL_ID"`
	Timeout           time.Duration `env:"TRIBUTE_TIMEOUT" envDefault:"5s"`
	FallbackActiveIDs []string      `env:"TRIBUTE_FALLBACK_ACTIVE_IDS" envSeparator:","`

	CircuitFailureThreshold int           `env:"TRIBUTE_CIRCUIT_FAILURE_THRESHOLD" envDefault:"5"`
	CircuitSuccessThreshold int           `env:"TRIBUTE_CIRCUIT_SUCCESS_THRESHOLD" envDefault:"2"`
	CircuitRecoveryTimeout  time.Duration `env:"TRIBUTE_CIRCUIT_RECOVERY_TIMEOUT" envDefault:"30s"`
}

func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	u, err := url.ParseRequestURI(c.APIBase)
	if err != nil || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidBaseURL, c.APIBase)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("tribute: timeout must be positive, got %s", c.Timeout)
	}
	return nil
}
