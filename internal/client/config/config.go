package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// Config holds runtime settings for the SchoolConnect client.
type Config struct {
	ServerURL      string
	StorePath      string
	RequestTimeout time.Duration
	LogLevel       string
	LogFormat      string
	ServiceName    string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://localhost:3000/api"
	c.StorePath = "schoolconnect.db"
	c.RequestTimeout = 10 * time.Second
	c.LogLevel = "warn"
	c.LogFormat = "text"
	c.ServiceName = "schoolconnect-client"
}

// LoadConfig builds a Config from defaults, the environment, an optional
// config file and flags, in that order. args are the command-line
// arguments without the program name.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseEnv(cfg, ".env"); err != nil {
		return nil, err
	}
	if err := parseFile(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.ServerURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid api base url %q", c.ServerURL)
	}
	if c.StorePath == "" {
		return errors.New("store path must not be empty")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	return nil
}
