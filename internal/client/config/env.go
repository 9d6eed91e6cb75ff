package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "SCHOOLCONNECT_"

// parseEnv overlays cfg with SCHOOLCONNECT_* variables. Values from envFile
// are used only for variables missing from the process environment; a
// missing envFile is not an error.
func parseEnv(cfg *Config, envFile string) error {
	fileVars, err := godotenv.Read(envFile)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("read %s: %w", envFile, err)
	}

	lookup := func(name string) string {
		if v, ok := os.LookupEnv(envPrefix + name); ok {
			return v
		}
		return fileVars[envPrefix+name]
	}

	if v := lookup("API_BASE_URL"); v != "" {
		cfg.ServerURL = v
	}
	if v := lookup("STORE_PATH"); v != "" {
		cfg.StorePath = v
	}
	if v := lookup("REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sREQUEST_TIMEOUT: %w", envPrefix, err)
		}
		cfg.RequestTimeout = d
	}
	if v := lookup("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := lookup("LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := lookup("SERVICE_NAME"); v != "" {
		cfg.ServiceName = v
	}
	return nil
}
