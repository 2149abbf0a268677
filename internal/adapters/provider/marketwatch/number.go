package marketwatch

import (
	"fmt"
	"strconv"
	"strings"
)

// Magnitude suffixes, checked in this order.
var suffixes = []struct {
	suffix     string
	multiplier float64
}{
	{"T", 1e12},
	{"B", 1e9},
	{"M", 1e6},
	{"K", 1e3},
	{"%", 1e-2},
}

// ParseNumber converts a MarketWatch cell such as "1,234.5M", "(12.3%)" or
// "-" into a float. A lone dash is zero.
func ParseNumber(s string) (float64, error) {
	n := strings.TrimSpace(s)
	if n == "-" {
		return 0, nil
	}
	n = strings.ReplaceAll(n, ",", "")

	sign := 1.0
	if strings.HasPrefix(n, "(") && strings.HasSuffix(n, ")") {
		n = n[1 : len(n)-1]
		sign = -1
	}

	multiplier := 1.0
	for _, sf := range suffixes {
		if strings.HasSuffix(n, sf.suffix) {
			n = strings.TrimSuffix(n, sf.suffix)
			multiplier = sf.multiplier
		}
	}

	v, err := strconv.ParseFloat(n, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNumber, s)
	}
	return v * multiplier * sign, nil
}
