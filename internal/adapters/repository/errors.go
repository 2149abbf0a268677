package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound      = errors.New("valuation not found")
	ErrInvalidLimit  = errors.New("invalid ranking limit")
	ErrInvalidTicker = errors.New("empty ticker")
	ErrUnknownMethod = errors.New("unknown valuation method")
)
