package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/okian/finmacro/internal/adapters/export"
	"github.com/okian/finmacro/internal/adapters/provider/marketwatch"
	"github.com/okian/finmacro/internal/adapters/provider/wikipedia"
	"github.com/okian/finmacro/internal/adapters/provider/yahoo"
	"github.com/okian/finmacro/internal/adapters/web"
	app "github.com/okian/finmacro/internal/app"
	"github.com/okian/finmacro/internal/config"
	"github.com/okian/finmacro/internal/domain/model"
	"github.com/okian/finmacro/internal/domain/valuation"
	"github.com/okian/finmacro/pkg/logger"
	"github.com/okian/finmacro/pkg/metrics"
)

// providers groups the scrapers a run fetches through.
type providers struct {
	companies  *wikipedia.Lister
	statements *marketwatch.Provider
	prices     *yahoo.Provider
}

func newProviders(cfg *config.Config, log logger.Logger) (providers, error) {
	interval, err := yahoo.ParseInterval(cfg.PriceInterval)
	if err != nil {
		return providers{}, err
	}
	client := web.New(
		web.WithTimeout(cfg.RequestTimeout()),
		web.WithUserAgent(cfg.UserAgent),
		web.WithRateLimit(cfg.RequestsPerSecond),
		web.WithLogger(log.Named("web")),
	)
	return providers{
		companies: wikipedia.NewLister(client,
			wikipedia.WithURL(cfg.WikipediaURL),
			wikipedia.WithLogger(log.Named("wikipedia"))),
		statements: marketwatch.NewProvider(client,
			marketwatch.WithBaseURL(cfg.MarketWatchURL),
			marketwatch.WithLogger(log.Named("marketwatch"))),
		prices: yahoo.NewProvider(client,
			yahoo.WithBaseURL(cfg.YahooURL),
			yahoo.WithInterval(interval),
			yahoo.WithLogger(log.Named("yahoo"))),
	}, nil
}

// run values the configured companies and writes the results to the
// configured outputs, or out when no output path is set.
func run(ctx context.Context, cfg *config.Config, log logger.Logger, out io.Writer) error {
	p, err := newProviders(cfg, log)
	if err != nil {
		return err
	}

	companies, err := selectCompanies(ctx, cfg, p.companies)
	if err != nil {
		return err
	}
	log.Info(ctx, "companies selected", logger.Int("companies", len(companies)))

	engine := valuation.New(
		valuation.WithDiscountingFactor(cfg.DiscountingFactor),
		valuation.WithTerminalMultiplier(cfg.TerminalMultiplier),
	)
	valuer := app.NewCompanyValuer(p.statements, p.prices,
		app.WithEngine(engine),
		app.WithFrequency(model.Frequency(cfg.StatementFrequency)),
		app.WithPriceHistory(cfg.PriceHistory()),
		app.WithValuerLogger(log.Named("valuer")),
	)
	svc := app.New(
		app.WithLogger(log),
		app.WithWorkerCount(cfg.WorkerCount),
		app.WithQueueSize(cfg.QueueSize),
		app.WithDedupeSize(cfg.DedupeSize),
		app.WithValuer(valuer),
	)
	defer svc.Stop()

	batchCtx, cancel := context.WithTimeout(ctx, cfg.BatchTimeout())
	defer cancel()

	vals, runErr := svc.Run(batchCtx, companies)
	if runErr != nil && vals == nil {
		return runErr
	}

	if err := writeValuations(cfg.OutputPath, out, vals); err != nil {
		return err
	}
	if runErr != nil {
		log.Warn(ctx, "batch incomplete, partial valuations written",
			logger.Int("valued", len(vals)),
			logger.Error(runErr),
		)
		return runErr
	}
	if cfg.StatementsDir != "" {
		if err := dumpRaw(ctx, cfg, p, companies, vals, log); err != nil {
			return err
		}
	}
	if cfg.TopN > 0 {
		logRanking(ctx, svc, valuation.Method(cfg.RankMethod), cfg.TopN, log)
	}
	if cfg.MetricsFile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
			return err
		}
	}

	stats := svc.GetStats()
	log.Info(ctx, "run complete",
		logger.Any("run_id", stats["runID"]),
		logger.Any("valued", stats["completed"]),
		logger.Any("failed", stats["failed"]))
	return nil
}

// selectCompanies returns the configured tickers, or the index constituents
// when none are configured, capped by the limit.
func selectCompanies(ctx context.Context, cfg *config.Config, lister *wikipedia.Lister) ([]model.Company, error) {
	var companies []model.Company
	if len(cfg.Tickers) > 0 {
		companies = make([]model.Company, len(cfg.Tickers))
		for i, t := range cfg.Tickers {
			companies[i] = model.Company{Symbol: t}
		}
	} else {
		list, err := lister.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing companies: %w", err)
		}
		companies = list
	}
	if cfg.Limit > 0 && len(companies) > cfg.Limit {
		companies = companies[:cfg.Limit]
	}
	return companies, nil
}

func writeValuations(path string, fallback io.Writer, vals []model.Valuation) error {
	if path == "" {
		return export.WriteValuations(fallback, vals)
	}
	return writeFile(path, func(w io.Writer) error { return export.WriteValuations(w, vals) })
}

// dumpRaw writes the company list and, for every valued ticker, each
// statement and the price history as fetched.
func dumpRaw(ctx context.Context, cfg *config.Config, p providers, companies []model.Company,
	vals []model.Valuation, log logger.Logger,
) error {
	dir := cfg.StatementsDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("statements dir: %w", err)
	}
	if err := writeFile(filepath.Join(dir, "companies.csv"), func(w io.Writer) error {
		return export.WriteCompanies(w, companies)
	}); err != nil {
		return err
	}

	for i := range vals {
		ticker := vals[i].Ticker
		stmts, err := p.statements.Statements(ctx, ticker)
		if err != nil {
			log.Warn(ctx, "statements not dumped", logger.String("ticker", ticker), logger.Error(err))
		}
		for _, st := range stmts {
			name := fmt.Sprintf("%s_%s.csv", strings.ToLower(ticker), st.Kind)
			if err := writeFile(filepath.Join(dir, name), func(w io.Writer) error {
				return export.WriteStatement(w, st)
			}); err != nil {
				return err
			}
		}

		end := vals[i].ValuedAt
		bars, err := p.prices.History(ctx, ticker, end.Add(-cfg.PriceHistory()), end)
		if err != nil {
			log.Warn(ctx, "prices not dumped", logger.String("ticker", ticker), logger.Error(err))
			continue
		}
		name := fmt.Sprintf("%s_prices.csv", strings.ToLower(ticker))
		if err := writeFile(filepath.Join(dir, name), func(w io.Writer) error {
			return export.WritePrices(w, bars)
		}); err != nil {
			return err
		}
	}
	return nil
}

func logRanking(ctx context.Context, svc *app.Service, method valuation.Method, n int, log logger.Logger) {
	top, err := svc.Rank(ctx, method, n)
	if err != nil {
		log.Warn(ctx, "ranking failed", logger.Error(err))
		return
	}
	for _, e := range top {
		log.Info(ctx, "ranked",
			logger.String("method", string(method)),
			logger.Int("rank", e.Rank),
			logger.String("ticker", e.Ticker),
			logger.Float64("value", e.Value),
			logger.Float64("last_price", e.LastPrice),
			logger.Float64("upside", e.Upside))
	}
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
