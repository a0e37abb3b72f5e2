package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

const configFileName = "config.env"

// Key describes a single configuration value.
type Key struct {
	Name   string
	Desc   string
	Secret bool
}

// Keys lists every configurable value in display order.
var Keys = []Key{
	{"OPENAI_API_KEY", "API key sent as the bearer token", true},
	{"OPENAI_MODEL", "Completion model identifier", false},
	{"API_ENDPOINT", "Completions endpoint URL", false},
	{"OPENAI_BASE_URL", "API base URL used to list models", false},
	{"MAX_TOKENS", "Maximum tokens to generate", false},
	{"ASKAI_TIMEOUT", "HTTP timeout, e.g. 30s (0 = none)", false},
	{"LOG_LEVEL", "Log level (debug, info, warn, error)", false},
}

// LookupKey returns the Key named name.
func LookupKey(name string) (Key, bool) {
	for _, k := range Keys {
		if k.Name == name {
			return k, true
		}
	}
	return Key{}, false
}

// FilePath returns the config file location under home.
func FilePath(home string) string {
	return filepath.Join(home, configFileName)
}

// ReadFile returns the key/value pairs stored in the config file under home.
// A missing file yields an empty map.
func ReadFile(home string) (map[string]string, error) {
	values, err := godotenv.Read(FilePath(home))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, err
	}
	return values, nil
}

// SetValue stores key=value in the config file under home, creating it if needed.
// An empty value removes the key.
func SetValue(home, key, value string) error {
	if _, ok := LookupKey(key); !ok {
		return fmt.Errorf("unknown config key %q", key)
	}
	values, err := ReadFile(home)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if value == "" {
		delete(values, key)
	} else {
		values[key] = value
	}

	content, err := godotenv.Marshal(values)
	if err != nil {
		return fmt.Errorf("encoding config file: %w", err)
	}
	if err := os.MkdirAll(home, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if content != "" {
		content += "\n"
	}
	if err := os.WriteFile(FilePath(home), []byte(content), 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// EffectiveValue returns the current value for a key, preferring env vars over
// the config file.
func EffectiveValue(key string, fileValues map[string]string) (value, source string) {
	if v := os.Getenv(key); v != "" {
		return v, "env"
	}
	if v := fileValues[key]; v != "" {
		return v, "file"
	}
	return "", ""
}

// MaskSecret masks a secret string, showing only the first 4 and last 4 characters.
func MaskSecret(s string) string {
	if len(s) <= 12 {
		return strings.Repeat("*", len(s))
	}
	return s[:4] + strings.Repeat("*", len(s)-8) + s[len(s)-4:]
}
