package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/okian/finmacro/internal/adapters/provider/yahoo"
	"github.com/okian/finmacro/internal/domain/model"
	"github.com/okian/finmacro/internal/domain/valuation"
	"github.com/okian/finmacro/pkg/logger"
)

// Environment names.
const (
	EnvPrefix = "FINMACRO_"
	EnvFile   = "FINMACRO_CONFIG"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if FINMACRO_CONFIG is set
//  3. env (prefix FINMACRO_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv(EnvFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// FINMACRO_QUEUE_SIZE -> queue_size, matching the koanf tags.
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	cfg.Tickers = splitTickers(cfg.Tickers)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var validate = validator.New()

// Validate checks the validate tags, then the settings that name a log
// level, frequency, interval or method.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return invalid("log_level: %v", err)
	}
	if !model.Frequency(c.StatementFrequency).Valid() {
		return invalid("statement_frequency must be annual or quarter, got %q", c.StatementFrequency)
	}
	if _, err := yahoo.ParseInterval(c.PriceInterval); err != nil {
		return invalid("price_interval: %v", err)
	}
	if !knownMethod(c.RankMethod) {
		return invalid("rank_method %q is not a valuation method", c.RankMethod)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}

func knownMethod(name string) bool {
	for _, m := range valuation.Methods {
		if string(m) == name {
			return true
		}
	}
	return false
}

// splitTickers flattens comma separated entries, upper-cases them and drops
// blanks.
func splitTickers(in []string) []string {
	var out []string
	for _, entry := range in {
		for _, t := range strings.Split(entry, ",") {
			if t = strings.ToUpper(strings.TrimSpace(t)); t != "" {
				out = append(out, t)
			}
		}
	}
	return out
}
