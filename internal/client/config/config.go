package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	defaultAPIBaseURL           = "http://localhost:5002/api"
	defaultRequestTimeout       = 10 * time.Second
	defaultSessionCheckInterval = 30 * time.Second
	defaultPageSize             = 10
	defaultLogLevel             = "info"
	defaultLogBackend           = "zap"
	storeFileName               = "quotekeeper.db"
)

// Config holds runtime settings for the quotes CLI.
//
// Units: RequestTimeout and SessionCheckInterval are time.Duration values.
type Config struct {
	APIBaseURL           string        `env:"QUOTES_API_URL" validate:"required,url"`
	RequestTimeout       time.Duration `env:"QUOTES_REQUEST_TIMEOUT" validate:"gt=0"`
	StorePath            string        `env:"QUOTES_STORE_PATH" validate:"required"`
	CredentialSecret     string        `env:"QUOTES_CREDENTIAL_SECRET"`
	SessionCheckInterval time.Duration `env:"QUOTES_SESSION_CHECK_INTERVAL" validate:"gt=0"`
	PageSize             int           `env:"QUOTES_PAGE_SIZE" validate:"min=1,max=100"`
	LogLevel             string        `env:"QUOTES_LOG_LEVEL"`
	LogBackend           string        `env:"QUOTES_LOG_BACKEND" validate:"omitempty,oneof=zap slog nop"`
	StrictDecode         bool          `env:"QUOTES_STRICT_DECODE"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = defaultAPIBaseURL
	c.RequestTimeout = defaultRequestTimeout
	c.StorePath = defaultStorePath()
	c.CredentialSecret = ""
	c.SessionCheckInterval = defaultSessionCheckInterval
	c.PageSize = defaultPageSize
	c.LogLevel = defaultLogLevel
	c.LogBackend = defaultLogBackend
	c.StrictDecode = false
}

// Validate reports the first invalid field, if any.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// a config file, the environment and command-line flags. Later sources take
// precedence over earlier ones.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseFile(cfg); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaultStorePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return storeFileName
	}
	return filepath.Join(dir, "quotekeeper", storeFileName)
}
