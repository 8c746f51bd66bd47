package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/quotekeeper/internal/flagx"
	"github.com/dmitrijs2005/quotekeeper/internal/timex"
	"gopkg.in/yaml.v3"
)

// fileConfig is the on-disk shape shared by the JSON and YAML loaders.
// Pointer fields distinguish "absent" from zero so only keys present in the
// file override earlier values.
type fileConfig struct {
	APIBaseURL           *string         `json:"api_base_url" yaml:"api_base_url"`
	RequestTimeout       *timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	StorePath            *string         `json:"store_path" yaml:"store_path"`
	CredentialSecret     *string         `json:"credential_secret" yaml:"credential_secret"`
	SessionCheckInterval *timex.Duration `json:"session_check_interval" yaml:"session_check_interval"`
	PageSize             *int            `json:"page_size" yaml:"page_size"`
	LogLevel             *string         `json:"log_level" yaml:"log_level"`
	LogBackend           *string         `json:"log_backend" yaml:"log_backend"`
	StrictDecode         *bool           `json:"strict_decode" yaml:"strict_decode"`
}

// parseFile overlays cfg with the file named by -c/-config. Files ending in
// .yaml or .yml are decoded as YAML, anything else as JSON. No flag means no
// file and no changes.
func parseFile(cfg *Config) error {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return fmt.Errorf("decode config file %s: %w", path, err)
	}

	fc.apply(cfg)
	return nil
}

func (fc *fileConfig) apply(cfg *Config) {
	if fc.APIBaseURL != nil {
		cfg.APIBaseURL = *fc.APIBaseURL
	}
	if fc.RequestTimeout != nil {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	if fc.StorePath != nil {
		cfg.StorePath = *fc.StorePath
	}
	if fc.CredentialSecret != nil {
		cfg.CredentialSecret = *fc.CredentialSecret
	}
	if fc.SessionCheckInterval != nil {
		cfg.SessionCheckInterval = fc.SessionCheckInterval.Duration
	}
	if fc.PageSize != nil {
		cfg.PageSize = *fc.PageSize
	}
	if fc.LogLevel != nil {
		cfg.LogLevel = *fc.LogLevel
	}
	if fc.LogBackend != nil {
		cfg.LogBackend = *fc.LogBackend
	}
	if fc.StrictDecode != nil {
		cfg.StrictDecode = *fc.StrictDecode
	}
}
