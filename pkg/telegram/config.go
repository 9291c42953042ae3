package telegram

import "time"

// Config holds the bot credentials used to verify Mini App launches.
type Config struct {
	BotToken string        `env:"TELEGRAM_BOT_TOKEN,required"`
	MaxAge   time.Duration `env:"TELEGRAM_INIT_DATA_MAX_AGE" envDefault:"24h"`
}

func (c *Config) Validate() error {
	if c.BotToken == "" {
		return ErrMissingBotToken
	}
	return nil
}
