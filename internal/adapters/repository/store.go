// Package repository holds the valuations of a run.
package repository

import (
	"context"

	"github.com/okian/finmacro/internal/domain/model"
	"github.com/okian/finmacro/internal/domain/valuation"
)

// Entry is one row of a ranking.
type Entry struct {
	Rank      int
	Ticker    string
	Name      string
	Value     float64
	LastPrice float64
	// Upside is Value / LastPrice - 1.
	Upside float64
}

// Store provides read/write access to valuations.
type Store interface {
	// Put stores v under its ticker, replacing any earlier valuation.
	Put(ctx context.Context, v model.Valuation) error

	// Get returns the valuation of ticker, or ErrNotFound.
	Get(ctx context.Context, ticker string) (model.Valuation, error)

	// List returns every valuation ordered by ticker.
	List(ctx context.Context) ([]model.Valuation, error)

	// TopN ranks tickers by upside of method's value over the last price,
	// best first. Tickers without a value or a positive price are left out.
	TopN(ctx context.Context, method valuation.Method, n int) ([]Entry, error)

	// Count returns the number of stored valuations.
	Count(ctx context.Context) int
}
