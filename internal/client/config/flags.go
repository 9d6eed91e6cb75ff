package config

import (
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/schoolconnect/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string     base URL of the identity service
//	-d string     path of the local session database
//	-t duration   request timeout
//	-l string     log level
//
// args are filtered with flagx.FilterArgs first so flags owned by other
// loaders (-c) do not make parsing fail.
func parseFlags(cfg *Config, args []string) error {
	filtered := flagx.FilterArgs(args, []string{"-a", "-d", "-t", "-l"})

	fs := flag.NewFlagSet("schoolconnect", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the identity service")
	fs.StringVar(&cfg.StorePath, "d", cfg.StorePath, "path of the local session database")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "request timeout")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(filtered); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	return nil
}
