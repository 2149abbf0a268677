package valuation

import "errors"

// Sentinel kinds reported through Diagnostic.Kind.
var (
	// ErrInsufficientData means a series is shorter than the method needs.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrShapeMismatch means corresponding series have different lengths.
	ErrShapeMismatch = errors.New("series length mismatch")
	// ErrDegenerateInput covers division by zero and non-finite values.
	ErrDegenerateInput = errors.New("degenerate input")
	// ErrInvalidParameter means the discounting factor or terminal multiplier is out of range.
	ErrInvalidParameter = errors.New("invalid parameter")
)
