package yahoo

import "fmt"

// Interval is the bar width of a history request.
type Interval string

// Supported intervals.
const (
	Daily   Interval = "1d"
	Weekly  Interval = "1wk"
	Monthly Interval = "1mo"
)

// ParseInterval validates s.
func ParseInterval(s string) (Interval, error) {
	switch i := Interval(s); i {
	case Daily, Weekly, Monthly:
		return i, nil
	default:
		return "", fmt.Errorf("%w: %q, want one of 1d, 1wk, 1mo", ErrInvalidInterval, s)
	}
}
