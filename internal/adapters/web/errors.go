package web

import "errors"

// ErrStatus is returned when a page answers with a 4xx or 5xx status.
var ErrStatus = errors.New("unexpected http status")
