// Package config provides configuration management for askai.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const (
	DefaultModel    = "gpt-3.5-turbo-instruct"
	DefaultEndpoint = "https://api.openai.com/v1/completions"
	DefaultBaseURL  = "https://api.openai.com/v1"
	DefaultMaxTok   = 256
	DefaultLogLevel = "warn"
)

// Config holds all configuration for one askai invocation.
type Config struct {
	// APIKey is sent as the bearer token on every request.
	APIKey string `env:"OPENAI_API_KEY" validate:"required"`

	// Model is the completion model identifier.
	Model string `env:"OPENAI_MODEL" validate:"required"`

	// Endpoint is the full URL of the completions endpoint.
	Endpoint string `env:"API_ENDPOINT" validate:"required,url"`

	// BaseURL is the API root used for listing models (GET <BaseURL>/models).
	BaseURL string `env:"OPENAI_BASE_URL" validate:"required,url"`

	// MaxTokens caps the length of the generated completion.
	MaxTokens int `env:"MAX_TOKENS" validate:"gte=1"`

	// Timeout bounds each HTTP request. Zero means no timeout.
	Timeout time.Duration `env:"ASKAI_TIMEOUT" validate:"gte=0"`

	// LogLevel is a zerolog level name.
	LogLevel string `env:"LOG_LEVEL" validate:"oneof=trace debug info warn error fatal panic disabled"`

	// HomeDir holds config.env.
	HomeDir string `env:"ASKAI_HOME"`

	// invalid collects values that were set but could not be parsed.
	invalid []string
}

// Load creates a Config from the environment, a .env file in the working
// directory and the config file, in that order of precedence, then defaults.
func Load() (*Config, error) {
	home := HomeDir()

	// godotenv never overrides variables that are already set, so the first
	// file loaded wins over the later ones.
	for _, path := range []string{".env", filepath.Join(home, configFileName)} {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
		log.Debug().Str("path", path).Msg("loaded env file")
	}

	cfg := &Config{
		APIKey:   os.Getenv("OPENAI_API_KEY"),
		Model:    envOr("OPENAI_MODEL", DefaultModel),
		Endpoint: envOr("API_ENDPOINT", DefaultEndpoint),
		BaseURL:  strings.TrimRight(envOr("OPENAI_BASE_URL", DefaultBaseURL), "/"),
		LogLevel: strings.ToLower(envOr("LOG_LEVEL", DefaultLogLevel)),
		HomeDir:  home,
	}
	cfg.MaxTokens = cfg.envOrInt("MAX_TOKENS", DefaultMaxTok)
	cfg.Timeout = cfg.envOrDuration("ASKAI_TIMEOUT", 0)
	return cfg, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by the environment variable that sets them.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("env"); name != "" {
			return name
		}
		return f.Name
	})
	return v
}

// Validate checks that required configuration is present and well formed.
func (c *Config) Validate() error {
	msgs := append([]string(nil), c.invalid...)

	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return err
		}
		for _, fe := range fieldErrs {
			msgs = append(msgs, describe(fe))
		}
	}
	if len(msgs) == 0 {
		return nil
	}
	return errors.New(strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "url":
		return fmt.Sprintf("%s must be a URL, got %q", fe.Field(), fe.Value())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %q check", fe.Field(), fe.Tag())
	}
}

func (c *Config) envOrDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		c.invalid = append(c.invalid, fmt.Sprintf("%s must be a duration such as 30s, got %q", key, v))
		return fallback
	}
	return d
}

func (c *Config) envOrInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		c.invalid = append(c.invalid, fmt.Sprintf("%s must be an integer, got %q", key, v))
		return fallback
	}
	return n
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// HomeDir returns the askai config directory: $ASKAI_HOME or ~/.askai.
func HomeDir() string {
	return envOr("ASKAI_HOME", defaultHomeDir())
}

func defaultHomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".askai"
	}
	return filepath.Join(home, ".askai")
}
