package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/okian/finmacro/internal/domain/fundamentals"
	"github.com/okian/finmacro/internal/domain/model"
	"github.com/okian/finmacro/internal/domain/valuation"
	"github.com/okian/finmacro/pkg/logger"
	"github.com/okian/finmacro/pkg/metrics"
)

// DefaultPriceHistory is how far back price history is fetched. It covers
// the five annual statement periods plus the running year.
const DefaultPriceHistory = 6 * 365 * 24 * time.Hour

// FundamentalsProvider fetches financial statements.
type FundamentalsProvider interface {
	Fundamentals(ctx context.Context, ticker string, kinds ...model.StatementKind) (model.Fundamentals, error)
}

// PriceProvider fetches price history.
type PriceProvider interface {
	History(ctx context.Context, ticker string, start, end time.Time) ([]model.PriceBar, error)
}

// CompanyValuer fetches a company's statements and prices and runs every
// valuation method over them.
type CompanyValuer struct {
	statements FundamentalsProvider
	prices     PriceProvider
	engine     *valuation.Engine
	frequency  model.Frequency
	history    time.Duration
	now        func() time.Time
	logger     logger.Logger
}

// ValuerOption applies a configuration option to the CompanyValuer.
type ValuerOption func(*CompanyValuer)

// WithEngine sets the valuation engine.
func WithEngine(e *valuation.Engine) ValuerOption {
	return func(v *CompanyValuer) {
		if e != nil {
			v.engine = e
		}
	}
}

// WithFrequency selects annual or quarterly statements.
func WithFrequency(f model.Frequency) ValuerOption {
	return func(v *CompanyValuer) {
		if f.Valid() {
			v.frequency = f
		}
	}
}

// WithPriceHistory sets how far back price history is fetched.
func WithPriceHistory(d time.Duration) ValuerOption {
	return func(v *CompanyValuer) {
		if d > 0 {
			v.history = d
		}
	}
}

// WithClock sets the time source.
func WithClock(now func() time.Time) ValuerOption {
	return func(v *CompanyValuer) {
		if now != nil {
			v.now = now
		}
	}
}

// WithValuerLogger sets the logger diagnostics are written to.
func WithValuerLogger(l logger.Logger) ValuerOption {
	return func(v *CompanyValuer) {
		if l != nil {
			v.logger = l
		}
	}
}

// NewCompanyValuer creates a valuer over the given providers.
func NewCompanyValuer(statements FundamentalsProvider, prices PriceProvider, opts ...ValuerOption) *CompanyValuer {
	v := &CompanyValuer{
		statements: statements,
		prices:     prices,
		engine:     valuation.New(),
		frequency:  model.Annual,
		history:    DefaultPriceHistory,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.logger == nil {
		v.logger = logger.Get().Named("valuer")
	}
	return v
}

// Value fetches c's fundamentals and prices and computes all four methods.
// Only fetch and extraction failures are errors; a method that cannot be
// computed is unavailable in the returned valuation.
func (v *CompanyValuer) Value(ctx context.Context, c model.Company) (model.Valuation, error) { //nolint:gocritic // hugeParam: read only
	ticker := c.Symbol

	f, err := v.statements.Fundamentals(ctx, ticker, v.kinds()...)
	if err != nil {
		metrics.RecordErrorByComponent("valuer", "fundamentals")
		return model.Valuation{}, fmt.Errorf("%w: %w", ErrFetchFundamentals, err)
	}

	end := v.now()
	bars, err := v.prices.History(ctx, ticker, end.Add(-v.history), end)
	if err != nil {
		metrics.RecordErrorByComponent("valuer", "prices")
		return model.Valuation{}, fmt.Errorf("%w: %w", ErrFetchPrices, err)
	}

	in, err := fundamentals.Extract(f, bars, v.frequency)
	if err != nil {
		metrics.RecordErrorByComponent("valuer", "extract")
		return model.Valuation{}, err
	}

	eng := v.engine.WithReporter(reporter(v.logger, ticker))
	out := model.Valuation{
		Ticker:   ticker,
		Name:     c.Name,
		Sector:   c.Sector,
		Periods:  len(in.Periods),
		DFE:      eng.DiscountedFutureEarnings(ctx, in.EPS),
		DCF:      eng.DiscountedCashFlow(ctx, in.FCF, in.Shares),
		PS:       eng.PriceToSales(ctx, in.Revenue, in.Shares, in.Price),
		PE:       eng.PriceToEarnings(ctx, in.EPS, in.Price),
		ValuedAt: end.UTC(),
	}
	if p := in.LastPrice(); !math.IsNaN(p) {
		out.LastPrice = p
	}
	return out, nil
}

func (v *CompanyValuer) kinds() []model.StatementKind {
	if v.frequency == model.Quarterly {
		return []model.StatementKind{model.IncomeStatementQuarter, model.CashFlowQuarter}
	}
	return []model.StatementKind{model.IncomeStatement, model.CashFlow}
}

// reporter logs each diagnostic against ticker and counts it.
func reporter(l logger.Logger, ticker string) valuation.Reporter {
	logged := valuation.LogReporter(l, logger.String("ticker", ticker))
	return valuation.ReporterFunc(func(ctx context.Context, d valuation.Diagnostic) {
		metrics.RecordUnavailable(string(d.Method), valuation.KindName(d.Kind))
		logged.Report(ctx, d)
	})
}
