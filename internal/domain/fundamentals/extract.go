// Package fundamentals turns fetched statements and price history into the
// per-period series the valuation engine consumes.
package fundamentals

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/okian/finmacro/internal/domain/model"
	"github.com/okian/finmacro/internal/domain/valuation"
)

// Inputs are the engine series for one ticker, aligned to the income
// statement periods.
type Inputs struct {
	Periods []string
	EPS     valuation.Series
	Revenue valuation.Series
	Shares  valuation.Series
	FCF     valuation.Series
	Price   valuation.Series
}

// LastPrice returns the latest finite price, or NaN.
func (in Inputs) LastPrice() float64 {
	for i := len(in.Price) - 1; i >= 0; i-- {
		if !math.IsNaN(in.Price[i]) {
			return in.Price[i]
		}
	}
	return math.NaN()
}

// Extract picks the engine rows from f for the given frequency and aligns
// closing prices from bars to each statement period. A missing row leaves
// its series nil.
func Extract(f model.Fundamentals, bars []model.PriceBar, freq model.Frequency) (Inputs, error) {
	incomeKind, cashKind := model.IncomeStatement, model.CashFlow
	if freq == model.Quarterly {
		incomeKind, cashKind = model.IncomeStatementQuarter, model.CashFlowQuarter
	}

	income, ok := f.Statement(incomeKind)
	if !ok {
		return Inputs{}, fmt.Errorf("%s %s: %w", f.Ticker, incomeKind, ErrStatementMissing)
	}
	cash, ok := f.Statement(cashKind)
	if !ok {
		return Inputs{}, fmt.Errorf("%s %s: %w", f.Ticker, cashKind, ErrStatementMissing)
	}

	in := Inputs{
		Periods: append([]string(nil), income.Periods...),
		EPS:     series(income, EPSLabels),
		Revenue: series(income, RevenueLabels),
		Shares:  series(income, SharesLabels),
		FCF:     align(cash, FCFLabels, income.Periods),
	}
	in.Price = Prices(in.Periods, bars)
	return in, nil
}

func series(s model.Statement, labels []string) valuation.Series {
	r, ok := s.Row(labels...)
	if !ok {
		return nil
	}
	return valuation.Series(r.Values).Clone()
}

// align returns the row values of s reordered to periods. Periods that s
// does not carry are NaN.
func align(s model.Statement, labels []string, periods []string) valuation.Series {
	r, ok := s.Row(labels...)
	if !ok {
		return nil
	}
	index := make(map[string]int, len(s.Periods))
	for i, p := range s.Periods {
		index[strings.TrimSpace(p)] = i
	}
	out := make(valuation.Series, len(periods))
	for i, p := range periods {
		j, ok := index[strings.TrimSpace(p)]
		if !ok || j >= len(r.Values) {
			out[i] = math.NaN()
			continue
		}
		out[i] = r.Values[j]
	}
	return out
}

// Prices returns, for each period, the close of the latest bar dated on or
// before the period end. Periods without such a bar, or that do not parse,
// are NaN.
func Prices(periods []string, bars []model.PriceBar) valuation.Series {
	sorted := append([]model.PriceBar(nil), bars...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	out := make(valuation.Series, len(periods))
	for i, p := range periods {
		out[i] = math.NaN()
		end, err := PeriodEnd(p)
		if err != nil {
			continue
		}
		k := sort.Search(len(sorted), func(k int) bool { return sorted[k].Date.After(end) })
		if k > 0 {
			out[i] = sorted[k-1].Close
		}
	}
	return out
}

// PeriodEnd parses a statement period header into the last day it covers.
// A bare year is 31 December; a month is its last day.
func PeriodEnd(period string) (time.Time, error) {
	p := strings.TrimSpace(period)
	if t, err := time.Parse("2006", p); err == nil {
		return time.Date(t.Year(), time.December, 31, 0, 0, 0, 0, time.UTC), nil
	}
	for _, layout := range []string{"02-Jan-2006", "2-Jan-2006", "2006-01-02", "Jan 2, 2006"} {
		if t, err := time.Parse(layout, p); err == nil {
			return t, nil
		}
	}
	if t, err := time.Parse("Jan 2006", p); err == nil {
		return t.AddDate(0, 1, -1), nil
	}
	return time.Time{}, fmt.Errorf("unrecognised period %q", period)
}
