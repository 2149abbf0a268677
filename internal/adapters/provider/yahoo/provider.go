// Package yahoo fetches historical prices from Yahoo Finance.
package yahoo

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/okian/finmacro/internal/adapters/web"
	"github.com/okian/finmacro/internal/domain/model"
	"github.com/okian/finmacro/pkg/logger"
)

// DefaultBaseURL is the quote section of the site.
const DefaultBaseURL = "https://finance.yahoo.com/quote"

const provider = "yahoo"

// Provider fetches price history pages.
type Provider struct {
	getter   web.Getter
	baseURL  string
	interval Interval
	log      logger.Logger
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

// WithInterval sets the bar width. It is validated on each request.
func WithInterval(i Interval) Option {
	return func(p *Provider) {
		p.interval = i
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

// NewProvider creates a Provider with monthly bars that fetches through g.
func NewProvider(g web.Getter, opts ...Option) *Provider {
	p := &Provider{getter: g, baseURL: DefaultBaseURL, interval: Monthly, log: logger.Nop()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// URL returns the history page of ticker between start and end.
func (p *Provider) URL(ticker string, start, end time.Time) (string, error) {
	interval, err := ParseInterval(string(p.interval))
	if err != nil {
		return "", err
	}
	q := url.Values{}
	q.Set("period1", fmt.Sprint(start.Unix()))
	q.Set("period2", fmt.Sprint(end.Unix()))
	q.Set("interval", string(interval))
	q.Set("filter", "history")
	q.Set("frequency", string(interval))
	return fmt.Sprintf("%s/%s/history?%s", p.baseURL, url.PathEscape(ticker), q.Encode()), nil
}

// History fetches the bars of ticker between start and end, oldest first.
func (p *Provider) History(ctx context.Context, ticker string, start, end time.Time) ([]model.PriceBar, error) {
	u, err := p.URL(ticker, start, end)
	if err != nil {
		return nil, err
	}
	body, err := p.getter.Get(ctx, provider, u)
	if err != nil {
		return nil, err
	}
	bars, err := ParseHistory(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ticker, err)
	}
	p.log.Debug(ctx, "price history parsed",
		logger.String("ticker", ticker),
		logger.Int("bars", len(bars)))
	return bars, nil
}
