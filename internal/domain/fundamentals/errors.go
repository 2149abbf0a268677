package fundamentals

import "errors"

// ErrStatementMissing is returned when a statement needed for the selected
// frequency was not fetched.
var ErrStatementMissing = errors.New("statement missing")
