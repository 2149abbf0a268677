package wikipedia

import "errors"

// ErrTableNotFound is returned when the page has no constituents table.
var ErrTableNotFound = errors.New("constituents table not found")
