package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env
// vars. Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if FANCRED_CONFIG is set
//  3. env (prefix FANCRED_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("FANCRED_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: FANCRED_ADDR, FANCRED_CHAIN_ID, ...
	// Underscores are preserved to match the koanf tags on the struct.
	envProvider := env.Provider("FANCRED_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "fancred_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.ChainID <= 0:
		return fmt.Errorf("%w: chain_id must be positive", ErrInvalidConfig)
	case c.StoreBackend != StoreMemory && c.StoreBackend != StoreSQLite:
		return fmt.Errorf("%w: unknown store_backend %q", ErrInvalidConfig, c.StoreBackend)
	case c.StoreBackend == StoreSQLite && c.SQLitePath == "":
		return fmt.Errorf("%w: sqlite_path required for the sqlite backend", ErrInvalidConfig)
	case c.LedgerLatencyMinMS < 0 || c.LedgerLatencyMaxMS < c.LedgerLatencyMinMS:
		return fmt.Errorf("%w: ledger latency range is inverted", ErrInvalidConfig)
	case c.ReadTimeoutMS <= 0:
		return fmt.Errorf("%w: read_timeout_ms must be positive", ErrInvalidConfig)
	}
	return nil
}
