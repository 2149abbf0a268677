package worker

import "errors"

// Sentinel kinds for worker errors.
var (
	ErrValuation = errors.New("valuation failed")
	ErrStore     = errors.New("storing valuation failed")
)
