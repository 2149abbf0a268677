package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/finmacro/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldResemble, config.New())
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("FINMACRO_WORKER_COUNT", "16")
			_ = os.Setenv("FINMACRO_QUEUE_SIZE", "64")
			_ = os.Setenv("FINMACRO_DISCOUNTING_FACTOR", "1.15")
			_ = os.Setenv("FINMACRO_TICKERS", "aapl, msft,,brk.b")
			_ = os.Setenv("FINMACRO_STATEMENT_FREQUENCY", "quarter")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 16)
				convey.So(cfg.QueueSize, convey.ShouldEqual, 64)
				convey.So(cfg.DiscountingFactor, convey.ShouldEqual, 1.15)
				convey.So(cfg.StatementFrequency, convey.ShouldEqual, "quarter")
			})

			convey.Convey("And tickers should be split and normalised", func() {
				convey.So(cfg.Tickers, convey.ShouldResemble, []string{"AAPL", "MSFT", "BRK.B"})
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
# batch settings
worker_count: 4
queue_size: 300
tickers:
  - ibm
  - ko
limit: 2
price_interval: 1wk
output_path: /tmp/valuations.csv  # written at the end of the run
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("FINMACRO_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 4)
				convey.So(cfg.QueueSize, convey.ShouldEqual, 300)
				convey.So(cfg.Tickers, convey.ShouldResemble, []string{"IBM", "KO"})
				convey.So(cfg.Limit, convey.ShouldEqual, 2)
				convey.So(cfg.PriceInterval, convey.ShouldEqual, "1wk")
				convey.So(cfg.OutputPath, convey.ShouldEqual, "/tmp/valuations.csv")
			})

			convey.Convey("And environment variables should override file values", func() {
				_ = os.Setenv("FINMACRO_WORKER_COUNT", "32")

				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 32) // Overridden by env
				convey.So(cfg.QueueSize, convey.ShouldEqual, 300)  // From file
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("FINMACRO_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("FINMACRO_CONFIG", "/non/existent/file.yaml")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When a value is out of range", func() {
			cases := map[string]string{
				"FINMACRO_WORKER_COUNT":        "0",
				"FINMACRO_QUEUE_SIZE":          "-1",
				"FINMACRO_DISCOUNTING_FACTOR":  "1",
				"FINMACRO_TERMINAL_MULTIPLIER": "0",
				"FINMACRO_LIMIT":               "-5",
				"FINMACRO_STATEMENT_FREQUENCY": "monthly",
				"FINMACRO_PRICE_INTERVAL":      "1h",
				"FINMACRO_LOG_LEVEL":           "loud",
				"FINMACRO_RANK_METHOD":         "vibes",
				"FINMACRO_REQUESTS_PER_SECOND": "-1",
				"FINMACRO_YAHOO_URL":           "not a url",
			}

			convey.Convey("Then each is rejected as invalid config", func() {
				for name, value := range cases {
					clearConfigEnvVars()
					_ = os.Setenv(name, value)

					cfg, err := config.Load(ctx)
					convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
					convey.So(cfg, convey.ShouldBeNil)
				}
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"FINMACRO_CONFIG",
		"FINMACRO_WORKER_COUNT",
		"FINMACRO_QUEUE_SIZE",
		"FINMACRO_DISCOUNTING_FACTOR",
		"FINMACRO_TERMINAL_MULTIPLIER",
		"FINMACRO_TICKERS",
		"FINMACRO_LIMIT",
		"FINMACRO_STATEMENT_FREQUENCY",
		"FINMACRO_PRICE_INTERVAL",
		"FINMACRO_LOG_LEVEL",
		"FINMACRO_RANK_METHOD",
		"FINMACRO_REQUESTS_PER_SECOND",
		"FINMACRO_YAHOO_URL",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "finmacro-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
