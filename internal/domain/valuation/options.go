package valuation

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithDiscountingFactor sets 1 + the required rate of return. Values that
// are not greater than 1 make every discounting method unavailable.
func WithDiscountingFactor(f float64) Option {
	return func(e *Engine) {
		e.discountingFactor = f
	}
}

// WithTerminalMultiplier sets the multiple applied to the last projected
// period. Values that are not positive make every discounting method
// unavailable.
func WithTerminalMultiplier(m float64) Option {
	return func(e *Engine) {
		e.terminalMultiplier = m
	}
}

// WithReporter sets the diagnostics sink.
func WithReporter(r Reporter) Option {
	return func(e *Engine) {
		if r != nil {
			e.reporter = r
		}
	}
}
