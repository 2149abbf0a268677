package model

import (
	"time"

	"github.com/okian/finmacro/internal/domain/valuation"
)

// Job is a unit of work for the worker pool.
type Job struct {
	ID      string
	RunID   string
	Company Company
}

// Valuation is the per-ticker output of one run.
type Valuation struct {
	RunID     string           `csv:"run_id"`
	Ticker    string           `csv:"ticker"`
	Name      string           `csv:"name"`
	Sector    string           `csv:"sector"`
	Periods   int              `csv:"periods"`
	LastPrice float64          `csv:"last_price"`
	DFE       valuation.Result `csv:"dfe"`
	DCF       valuation.Result `csv:"dcf"`
	PS        valuation.Result `csv:"price_to_sales"`
	PE        valuation.Result `csv:"price_to_earnings"`
	ValuedAt  time.Time        `csv:"valued_at"`
}

// Results returns the four method results in reporting order.
func (v Valuation) Results() []valuation.Result {
	return []valuation.Result{v.DFE, v.DCF, v.PS, v.PE}
}

// AvailableCount returns how many methods produced a value.
func (v Valuation) AvailableCount() int {
	n := 0
	for _, r := range v.Results() {
		if r.Available {
			n++
		}
	}
	return n
}
