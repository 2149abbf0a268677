package yahoo

import "errors"

var (
	// ErrInvalidInterval is returned for an interval other than 1d, 1wk or 1mo.
	ErrInvalidInterval = errors.New("invalid price interval")
	// ErrNoTable is returned when a history page carries no table.
	ErrNoTable = errors.New("no history table")
)
