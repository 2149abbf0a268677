package marketwatch

import "errors"

var (
	// ErrNoTable is returned when a statement page carries no table.
	ErrNoTable = errors.New("no statement table")
	// ErrNumber is returned for cells that are not MarketWatch numbers.
	ErrNumber = errors.New("not a number")
	// ErrUnknownKind is returned for a statement kind with no page.
	ErrUnknownKind = errors.New("unknown statement kind")
)
