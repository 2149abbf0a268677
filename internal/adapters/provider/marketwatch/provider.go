// Package marketwatch fetches and parses MarketWatch financial statements.
package marketwatch

import (
	"context"
	"fmt"
	"net/url"

	"github.com/okian/finmacro/internal/adapters/web"
	"github.com/okian/finmacro/internal/domain/model"
	"github.com/okian/finmacro/pkg/logger"
)

// DefaultBaseURL is the stock section of the site.
const DefaultBaseURL = "https://www.marketwatch.com/investing/stock"

const provider = "marketwatch"

var paths = map[model.StatementKind]string{
	model.IncomeStatement:        "/%s/financials",
	model.IncomeStatementQuarter: "/%s/financials/income/quarter",
	model.BalanceSheet:           "/%s/financials/balance-sheet",
	model.BalanceSheetQuarter:    "/%s/financials/balance-sheet/quarter",
	model.CashFlow:               "/%s/financials/cash-flow",
	model.CashFlowQuarter:        "/%s/financials/cash-flow/quarter",
}

// Provider fetches statement pages.
type Provider struct {
	getter  web.Getter
	baseURL string
	log     logger.Logger
}

// Option applies a configuration option to the Provider.
type Option func(*Provider)

// WithBaseURL overrides the site base URL.
func WithBaseURL(u string) Option {
	return func(p *Provider) {
		if u != "" {
			p.baseURL = u
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(p *Provider) {
		if l != nil {
			p.log = l
		}
	}
}

// NewProvider creates a Provider that fetches through g.
func NewProvider(g web.Getter, opts ...Option) *Provider {
	p := &Provider{getter: g, baseURL: DefaultBaseURL, log: logger.Nop()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// URL returns the page of one statement kind for ticker.
func (p *Provider) URL(ticker string, kind model.StatementKind) (string, error) {
	path, ok := paths[kind]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	return p.baseURL + fmt.Sprintf(path, url.PathEscape(ticker)), nil
}

// Statement fetches and parses one statement.
func (p *Provider) Statement(ctx context.Context, ticker string, kind model.StatementKind) (model.Statement, error) {
	u, err := p.URL(ticker, kind)
	if err != nil {
		return model.Statement{}, err
	}
	body, err := p.getter.Get(ctx, provider, u)
	if err != nil {
		return model.Statement{}, err
	}
	st, err := ParseStatement(kind, body)
	if err != nil {
		return model.Statement{}, fmt.Errorf("%s: %w", ticker, err)
	}
	p.log.Debug(ctx, "statement parsed",
		logger.String("ticker", ticker),
		logger.String("kind", string(kind)),
		logger.Int("rows", len(st.Rows)),
		logger.Strings("periods", st.Periods))
	return st, nil
}

// Fundamentals fetches the given statement kinds, or all six when none are
// given. The first failing page aborts the fetch.
func (p *Provider) Fundamentals(ctx context.Context, ticker string, kinds ...model.StatementKind) (model.Fundamentals, error) {
	if len(kinds) == 0 {
		kinds = model.StatementKinds
	}
	f := model.Fundamentals{
		Ticker:     ticker,
		Statements: make(map[model.StatementKind]model.Statement, len(kinds)),
	}
	for _, kind := range kinds {
		st, err := p.Statement(ctx, ticker, kind)
		if err != nil {
			return model.Fundamentals{}, err
		}
		f.Statements[kind] = st
	}
	return f, nil
}

// Statements fetches all six statements in model.StatementKinds order.
func (p *Provider) Statements(ctx context.Context, ticker string) ([]model.Statement, error) {
	f, err := p.Fundamentals(ctx, ticker)
	if err != nil {
		return nil, err
	}
	out := make([]model.Statement, 0, len(model.StatementKinds))
	for _, kind := range model.StatementKinds {
		out = append(out, f.Statements[kind])
	}
	return out, nil
}
