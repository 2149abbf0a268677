package valuation

import (
	"strconv"
)

// Method identifies one of the valuation formulas.
type Method string

// Valuation methods.
const (
	MethodDiscountedFutureEarnings Method = "dfe"
	MethodDiscountedCashFlow       Method = "dcf"
	MethodPriceToSales             Method = "price_to_sales"
	MethodPriceToEarnings          Method = "price_to_earnings"
)

// Methods lists every method in reporting order.
var Methods = []Method{
	MethodDiscountedFutureEarnings,
	MethodDiscountedCashFlow,
	MethodPriceToSales,
	MethodPriceToEarnings,
}

// Result is a per-share valuation or an explicit unavailable marker.
// The zero Result is unavailable.
type Result struct {
	Method    Method
	Value     float64
	Available bool
}

func available(m Method, v float64) Result { return Result{Method: m, Value: v, Available: true} }

// Unavailable returns the unavailable result for m.
func Unavailable(m Method) Result { return Result{Method: m} }

// Get returns the value and whether it is available.
func (r Result) Get() (float64, bool) {
	return r.Value, r.Available
}

func (r Result) String() string {
	if !r.Available {
		return "unavailable"
	}
	return strconv.FormatFloat(r.Value, 'f', 4, 64)
}

// MarshalCSV renders an empty cell for unavailable results.
func (r Result) MarshalCSV() (string, error) {
	if !r.Available {
		return "", nil
	}
	return strconv.FormatFloat(r.Value, 'f', -1, 64), nil
}

// MarshalJSON renders null for unavailable results.
func (r Result) MarshalJSON() ([]byte, error) {
	if !r.Available {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, r.Value, 'g', -1, 64), nil
}
