package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNoValuer          = errors.New("no valuer configured")
	ErrNotStarted        = errors.New("service not started")
	ErrFetchFundamentals = errors.New("fetching fundamentals failed")
	ErrFetchPrices       = errors.New("fetching prices failed")
)
