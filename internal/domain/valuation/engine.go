// Package valuation computes per-share company valuations from per-period
// fundamentals: discounted future earnings, discounted cash flow,
// price/sales and price/earnings.
//
// Every method returns a Result. Bad input never panics and never yields a
// silent zero: the result is unavailable and a Diagnostic goes to the
// configured Reporter.
package valuation

import (
	"context"
	"fmt"
	"math"
)

// Engine defaults and limits.
const (
	DefaultDiscountingFactor  = 1.1
	DefaultTerminalMultiplier = 10.0
	// MinPeriods is the shortest series the discounting methods accept.
	MinPeriods = 3
	// ProjectionPeriods is how many future periods are extrapolated.
	ProjectionPeriods = 5
)

// Engine evaluates the valuation formulas. It holds no mutable state and is
// safe for concurrent use.
type Engine struct {
	discountingFactor  float64
	terminalMultiplier float64
	reporter           Reporter
}

// New creates an Engine with the default factor and multiplier and a
// reporter that drops diagnostics.
func New(opts ...Option) *Engine {
	e := &Engine{
		discountingFactor:  DefaultDiscountingFactor,
		terminalMultiplier: DefaultTerminalMultiplier,
		reporter:           nopReporter{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WithReporter returns a copy of e that reports to r.
func (e *Engine) WithReporter(r Reporter) *Engine {
	c := *e
	if r != nil {
		c.reporter = r
	}
	return &c
}

// DiscountingFactor returns the configured discounting factor.
func (e *Engine) DiscountingFactor() float64 { return e.discountingFactor }

// TerminalMultiplier returns the configured terminal multiplier.
func (e *Engine) TerminalMultiplier() float64 { return e.terminalMultiplier }

// DiscountedFutureEarnings projects eps linearly for ProjectionPeriods,
// multiplies the last projection by the terminal multiplier and sums the
// projections discounted by factor^-(i+1).
func (e *Engine) DiscountedFutureEarnings(ctx context.Context, eps Series) Result {
	const m = MethodDiscountedFutureEarnings
	inputs := map[string]Series{"eps": eps}

	if !e.validParameters(ctx, m, inputs) {
		return Unavailable(m)
	}
	if eps.Len() < MinPeriods {
		e.fail(ctx, m, ErrInsufficientData, inputs, "need at least %d eps values, got %d", MinPeriods, eps.Len())
		return Unavailable(m)
	}
	if i := eps.NonFinite(); i >= 0 {
		e.fail(ctx, m, ErrDegenerateInput, inputs, "eps[%d] is not finite", i)
		return Unavailable(m)
	}
	return e.discounted(ctx, m, eps, inputs)
}

// DiscountedCashFlow applies the DiscountedFutureEarnings procedure to free
// cash flow per share.
func (e *Engine) DiscountedCashFlow(ctx context.Context, fcf, shares Series) Result {
	const m = MethodDiscountedCashFlow
	inputs := map[string]Series{"fcf": fcf, "shares": shares}

	if !e.validParameters(ctx, m, inputs) {
		return Unavailable(m)
	}
	if fcf.Len() != shares.Len() {
		e.fail(ctx, m, ErrShapeMismatch, inputs, "fcf has %d values, shares has %d", fcf.Len(), shares.Len())
		return Unavailable(m)
	}
	if fcf.Len() < MinPeriods {
		e.fail(ctx, m, ErrInsufficientData, inputs, "need at least %d periods, got %d", MinPeriods, fcf.Len())
		return Unavailable(m)
	}
	if !e.finite(ctx, m, inputs, namedSeries{"fcf", fcf}, namedSeries{"shares", shares}) {
		return Unavailable(m)
	}
	if i := shares.Zero(); i >= 0 {
		e.fail(ctx, m, ErrDegenerateInput, inputs, "shares[%d] is zero", i)
		return Unavailable(m)
	}
	return e.discounted(ctx, m, Div(fcf, shares), inputs)
}

// PriceToSales scales the mean historical price/sales ratio by the latest
// revenue per share.
func (e *Engine) PriceToSales(ctx context.Context, revenue, shares, price Series) Result {
	const m = MethodPriceToSales
	inputs := map[string]Series{"revenue": revenue, "shares": shares, "price": price}

	if revenue.Len() != shares.Len() || revenue.Len() != price.Len() {
		e.fail(ctx, m, ErrShapeMismatch, inputs, "revenue/shares/price lengths %d/%d/%d",
			revenue.Len(), shares.Len(), price.Len())
		return Unavailable(m)
	}
	if revenue.Len() == 0 {
		e.fail(ctx, m, ErrInsufficientData, inputs, "empty series")
		return Unavailable(m)
	}
	if !e.finite(ctx, m, inputs,
		namedSeries{"revenue", revenue}, namedSeries{"shares", shares}, namedSeries{"price", price}) {
		return Unavailable(m)
	}
	if i := shares.Zero(); i >= 0 {
		e.fail(ctx, m, ErrDegenerateInput, inputs, "shares[%d] is zero", i)
		return Unavailable(m)
	}
	perShare := Div(revenue, shares)
	if i := perShare.Zero(); i >= 0 {
		e.fail(ctx, m, ErrDegenerateInput, inputs, "revenue[%d] is zero", i)
		return Unavailable(m)
	}
	ratio := Div(price, perShare)
	return e.finish(ctx, m, ratio.Mean()*perShare.Last(), inputs)
}

// PriceToEarnings scales the mean historical price/earnings ratio by the
// latest eps.
func (e *Engine) PriceToEarnings(ctx context.Context, eps, price Series) Result {
	const m = MethodPriceToEarnings
	inputs := map[string]Series{"eps": eps, "price": price}

	if eps.Len() != price.Len() {
		e.fail(ctx, m, ErrShapeMismatch, inputs, "eps has %d values, price has %d", eps.Len(), price.Len())
		return Unavailable(m)
	}
	if eps.Len() == 0 {
		e.fail(ctx, m, ErrInsufficientData, inputs, "empty series")
		return Unavailable(m)
	}
	if !e.finite(ctx, m, inputs, namedSeries{"eps", eps}, namedSeries{"price", price}) {
		return Unavailable(m)
	}
	if i := eps.Zero(); i >= 0 {
		e.fail(ctx, m, ErrDegenerateInput, inputs, "eps[%d] is zero", i)
		return Unavailable(m)
	}
	ratio := Div(price, eps)
	return e.finish(ctx, m, ratio.Mean()*eps.Last(), inputs)
}

// discounted runs extrapolate -> terminal multiple -> discount -> sum.
// The weights follow array order: the nearest projection gets factor^-1
// and the terminal projection factor^-ProjectionPeriods.
func (e *Engine) discounted(ctx context.Context, m Method, s Series, inputs map[string]Series) Result {
	ext := ExtrapolateLinear(s, ProjectionPeriods)
	ext[len(ext)-1] *= e.terminalMultiplier
	weights := DiscountWeights(e.discountingFactor, ProjectionPeriods)
	return e.finish(ctx, m, Dot(ext, weights), inputs)
}

func (e *Engine) finish(ctx context.Context, m Method, v float64, inputs map[string]Series) Result {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		e.fail(ctx, m, ErrDegenerateInput, inputs, "result is not finite")
		return Unavailable(m)
	}
	return available(m, v)
}

func (e *Engine) validParameters(ctx context.Context, m Method, inputs map[string]Series) bool {
	f, t := e.discountingFactor, e.terminalMultiplier
	switch {
	case math.IsNaN(f) || math.IsInf(f, 0) || f <= 1:
		e.fail(ctx, m, ErrInvalidParameter, inputs, "discounting factor %v must be greater than 1", f)
		return false
	case math.IsNaN(t) || math.IsInf(t, 0) || t <= 0:
		e.fail(ctx, m, ErrInvalidParameter, inputs, "terminal multiplier %v must be positive", t)
		return false
	}
	return true
}

type namedSeries struct {
	name string
	s    Series
}

// finite reports the first NaN or infinite value among series, in order.
func (e *Engine) finite(ctx context.Context, m Method, inputs map[string]Series, series ...namedSeries) bool {
	for _, ns := range series {
		if j := ns.s.NonFinite(); j >= 0 {
			e.fail(ctx, m, ErrDegenerateInput, inputs, "%s[%d] is not finite", ns.name, j)
			return false
		}
	}
	return true
}

func (e *Engine) fail(ctx context.Context, m Method, kind error, inputs map[string]Series, format string, args ...any) {
	snapshot := make(map[string]Series, len(inputs))
	for k, v := range inputs {
		snapshot[k] = v.Clone()
	}
	e.reporter.Report(ctx, Diagnostic{
		Method:  m,
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Inputs:  snapshot,
	})
}
