package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dmitrijs2005/schoolconnect/internal/flagx"
)

// fileConfig is the on-disk shape. Empty fields leave the current value.
type fileConfig struct {
	ServerURL      string    `json:"api_base_url" yaml:"api_base_url"`
	StorePath      string    `json:"store_path" yaml:"store_path"`
	RequestTimeout *Duration `json:"request_timeout" yaml:"request_timeout"`
	LogLevel       string    `json:"log_level" yaml:"log_level"`
	LogFormat      string    `json:"log_format" yaml:"log_format"`
	ServiceName    string    `json:"service_name" yaml:"service_name"`
}

// parseFile overlays cfg with the file named by -c/-config, if any.
func parseFile(cfg *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
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
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	fc.apply(cfg)
	return nil
}

func (fc *fileConfig) apply(cfg *Config) {
	if fc.ServerURL != "" {
		cfg.ServerURL = fc.ServerURL
	}
	if fc.StorePath != "" {
		cfg.StorePath = fc.StorePath
	}
	if fc.RequestTimeout != nil {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	if fc.LogLevel != "" {
		cfg.LogLevel = fc.LogLevel
	}
	if fc.LogFormat != "" {
		cfg.LogFormat = fc.LogFormat
	}
	if fc.ServiceName != "" {
		cfg.ServiceName = fc.ServiceName
	}
}
