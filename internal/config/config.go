// Package config defines the batch configuration and how it is loaded.
//
// Conventions:
// - Defaults come from New; Load layers a YAML file and the environment on top.
// - Ranges are declared as validate tags; validation failures wrap
//   ErrInvalidConfig and load failures wrap ErrLoadConfig.
package config

import (
	"runtime"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// WorkerCount sets the number of valuation workers.
	WorkerCount int `koanf:"worker_count" validate:"gt=0"`

	// QueueSize bounds the in-memory job queue.
	QueueSize int `koanf:"queue_size" validate:"gt=0"`

	// DedupeSize caps how many tickers a run remembers.
	DedupeSize int `koanf:"dedupe_size" validate:"gt=0"`

	// DiscountingFactor is 1 + the required rate of return.
	DiscountingFactor float64 `koanf:"discounting_factor" validate:"gt=1"`

	// TerminalMultiplier scales the last projected period.
	TerminalMultiplier float64 `koanf:"terminal_multiplier" validate:"gt=0"`

	// Tickers restricts the run to these symbols. Empty means the index
	// constituents. Comma separated in the environment.
	Tickers []string `koanf:"tickers"`

	// Limit caps how many companies are valued; 0 means all.
	Limit int `koanf:"limit" validate:"gte=0"`

	// StatementFrequency is "annual" or "quarter".
	StatementFrequency string `koanf:"statement_frequency"`

	// PriceInterval is the bar width of price history: 1d, 1wk or 1mo.
	PriceInterval string `koanf:"price_interval"`

	// PriceHistoryYears is how far back prices are fetched.
	PriceHistoryYears int `koanf:"price_history_years" validate:"gt=0"`

	// RequestTimeoutMS bounds each page fetch.
	RequestTimeoutMS int `koanf:"request_timeout_ms" validate:"gt=0"`

	// BatchTimeoutSec bounds the whole run.
	BatchTimeoutSec int `koanf:"batch_timeout_sec" validate:"gt=0"`

	// RequestsPerSecond caps page fetches across all workers; 0 means no cap.
	RequestsPerSecond float64 `koanf:"requests_per_second" validate:"gte=0"`

	UserAgent      string `koanf:"user_agent"`
	WikipediaURL   string `koanf:"wikipedia_url" validate:"required,url"`
	MarketWatchURL string `koanf:"marketwatch_url" validate:"required,url"`
	YahooURL       string `koanf:"yahoo_url" validate:"required,url"`

	// OutputPath receives the valuations CSV; empty means stdout.
	OutputPath string `koanf:"output_path"`

	// StatementsDir, when set, receives one CSV per fetched statement.
	StatementsDir string `koanf:"statements_dir"`

	// MetricsFile, when set, receives the metrics in text exposition format.
	MetricsFile string `koanf:"metrics_file"`

	// TopN is how many tickers the closing ranking logs; 0 disables it.
	TopN int `koanf:"top_n" validate:"gte=0"`

	// RankMethod is the valuation method the ranking uses.
	RankMethod string `koanf:"rank_method"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		WorkerCount:        runtime.NumCPU(),
		QueueSize:          1024,
		DedupeSize:         10_000,
		DiscountingFactor:  1.1,
		TerminalMultiplier: 10,
		StatementFrequency: "annual",
		PriceInterval:      "1mo",
		PriceHistoryYears:  6,
		RequestTimeoutMS:   30_000,
		BatchTimeoutSec:    3600,
		RequestsPerSecond:  5,
		UserAgent:          "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36",
		WikipediaURL:       "https://en.wikipedia.org/wiki/List_of_S%26P_500_companies",
		MarketWatchURL:     "https://www.marketwatch.com/investing/stock",
		YahooURL:           "https://finance.yahoo.com/quote",
		TopN:               10,
		RankMethod:         "dfe",
	}
}

// RequestTimeout returns RequestTimeoutMS as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMS) * time.Millisecond
}

// BatchTimeout returns BatchTimeoutSec as a duration.
func (c *Config) BatchTimeout() time.Duration {
	return time.Duration(c.BatchTimeoutSec) * time.Second
}

// PriceHistory returns PriceHistoryYears as a duration.
func (c *Config) PriceHistory() time.Duration {
	return time.Duration(c.PriceHistoryYears) * 365 * 24 * time.Hour
}
