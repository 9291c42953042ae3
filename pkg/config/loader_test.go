package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgpaywall/tgpaywall/pkg/config"
)

type defaultsConfig struct {
	Name    string        `env:"CFG_TEST_NAME" envDefault:"tgpaywall"`
	Timeout time.Duration `env:"CFG_TEST_TIMEOUT" envDefault:"5s"`
	IDs     []string      `env:"CFG_TEST_IDS" envSeparator:","`
}

type requiredConfig struct {
	Token string `env:"CFG_TEST_REQUIRED,required"`
}

type secretConfig struct {
	Secret string `env:"CFG_TEST_SECRET"`
}

func (c *secretConfig) Validate() error {
	if len(c.Secret) < 8 {
		return errors.New("secret too short")
	}
	return nil
}

func TestLoad(t *testing.T) {
	t.Run("defaults and slices", func(t *testing.T) {
		config.Reset()
		t.Setenv("CFG_TEST_IDS", "1,2,3")

		var cfg defaultsConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, "tgpaywall", cfg.Name)
		assert.Equal(t, 5*time.Second, cfg.Timeout)
		assert.Equal(t, []string{"1", "2", "3"}, cfg.IDs)
	})

	t.Run("cached per type", func(t *testing.T) {
		config.Reset()
		t.Setenv("CFG_TEST_NAME", "first")
		var first defaultsConfig
		require.NoError(t, config.Load(&first))

		t.Setenv("CFG_TEST_NAME", "second")
		var second defaultsConfig
		require.NoError(t, config.Load(&second))

		assert.Equal(t, "first", second.Name)
	})

	t.Run("missing required", func(t *testing.T) {
		config.Reset()
		var cfg requiredConfig
		err := config.Load(&cfg)
		require.Error(t, err)
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})

	t.Run("validator rejects", func(t *testing.T) {
		config.Reset()
		t.Setenv("CFG_TEST_SECRET", "short")
		var cfg secretConfig
		err := config.Load(&cfg)
		require.Error(t, err)
		assert.ErrorIs(t, err, config.ErrInvalidConfig)
	})

	t.Run("validator accepts", func(t *testing.T) {
		config.Reset()
		t.Setenv("CFG_TEST_SECRET", "long-enough-secret")
		var cfg secretConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, "long-enough-secret", cfg.Secret)
	})

	t.Run("nil pointer", func(t *testing.T) {
		var cfg *defaultsConfig
		assert.ErrorIs(t, config.Load(cfg), config.ErrNilPointer)
	})
}

func TestMustLoadPanics(t *testing.T) {
	config.Reset()
	assert.Panics(t, func() {
		var cfg requiredConfig
		config.MustLoad(&cfg)
	})
}
