package notion

import "time"

// Config holds the integration token and the content database.
type Config struct {
	Token      string        `env:"NOTION_TOKEN,required"`
	DatabaseID string        `env:"NOTION_DATABASE_ID,required"`
	BaseURL    string        `env:"NOTION_API_BASE" envDefault:"https://api.notion.com/v1"`
	Timeout    time.Duration `env:"NOTION_TIMEOUT" envDefault:"30s"`

	// RequestsPerSecond stays under Notion's average limit of three requests per second.
	RequestsPerSecond float64 `env:"NOTION_REQUESTS_PER_SECOND" envDefault:"3"`
}

func (c *Config) Validate() error {
	if c.Token == "" {
		return ErrMissingToken
	}
	if c.DatabaseID == "" {
		return ErrMissingDatabaseID
	}
	return nil
}
