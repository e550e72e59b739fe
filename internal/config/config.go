// Package config loads server settings from flags, falling back to
// environment variables.
package config

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
)

var ErrInvalidConfig = errors.New("invalid config")

const (
	EnvAddr     = "MINDCHESS_ADDR"
	EnvOrigins  = "MINDCHESS_ORIGINS"
	EnvLogLevel = "MINDCHESS_LOG_LEVEL"
)

type Config struct {
	Addr         string
	AllowOrigins string
	LogLevel     log.Level
	DefaultWhite string
	DefaultBlack string
}

func Default() Config {
	return Config{
		Addr:         ":3000",
		AllowOrigins: "http://localhost:5173",
		LogLevel:     log.InfoLevel,
		DefaultWhite: "White",
		DefaultBlack: "Black",
	}
}

// Load parses args (without the program name). Environment values from
// getenv replace the defaults; flags replace both.
func Load(args []string, getenv func(string) string) (Config, error) {
	cfg := Default()
	if v := getenv(EnvAddr); v != "" {
		cfg.Addr = v
	}
	if v := getenv(EnvOrigins); v != "" {
		cfg.AllowOrigins = v
	}
	level := cfg.LogLevel.String()
	if v := getenv(EnvLogLevel); v != "" {
		level = v
	}

	fs := flag.NewFlagSet("mindchess", flag.ContinueOnError)
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	fs.StringVar(&cfg.AllowOrigins, "origins", cfg.AllowOrigins, "comma separated origins allowed by CORS and the websocket upgrade")
	fs.StringVar(&level, "log-level", level, "debug, info, warn, error or fatal")
	fs.StringVar(&cfg.DefaultWhite, "white", cfg.DefaultWhite, "name used when a game is created without a white player")
	fs.StringVar(&cfg.DefaultBlack, "black", cfg.DefaultBlack, "name used when a game is created without a black player")
	if err := fs.Parse(args); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	lvl, err := log.ParseLevel(level)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	cfg.LogLevel = lvl

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: empty listen address", ErrInvalidConfig)
	}
	if len(c.Origins()) == 0 {
		return fmt.Errorf("%w: no allowed origins", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.DefaultWhite) == "" || strings.TrimSpace(c.DefaultBlack) == "" {
		return fmt.Errorf("%w: default player names must not be blank", ErrInvalidConfig)
	}
	if strings.EqualFold(c.DefaultWhite, c.DefaultBlack) {
		return fmt.Errorf("%w: default player names must differ", ErrInvalidConfig)
	}
	return nil
}

// Origins splits AllowOrigins into its trimmed, non-empty entries.
func (c Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
