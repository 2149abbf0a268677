package valuation

import "math"

// Series is an ordered sequence of per-period values, oldest first.
type Series []float64

// Len returns the number of periods.
func (s Series) Len() int { return len(s) }

// Last returns the most recent value. s must not be empty.
func (s Series) Last() float64 { return s[len(s)-1] }

// Clone returns a copy that does not share storage with s.
func (s Series) Clone() Series {
	if s == nil {
		return nil
	}
	out := make(Series, len(s))
	copy(out, s)
	return out
}

// NonFinite returns the index of the first NaN or infinite value, or -1.
func (s Series) NonFinite() int {
	for i, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return i
		}
	}
	return -1
}

// Zero returns the index of the first exact zero, or -1.
func (s Series) Zero() int {
	for i, v := range s {
		if v == 0 {
			return i
		}
	}
	return -1
}

// Mean returns the arithmetic mean. s must not be empty.
func (s Series) Mean() float64 {
	var sum float64
	for _, v := range s {
		sum += v
	}
	return sum / float64(len(s))
}

// Div divides num by den element-wise. Lengths must match and den must not
// contain zeros; callers check both.
func Div(num, den Series) Series {
	out := make(Series, len(num))
	for i := range num {
		out[i] = num[i] / den[i]
	}
	return out
}

// Dot returns the inner product of a and b over the shorter length.
func Dot(a, b Series) float64 {
	n := min(len(a), len(b))
	var sum float64
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}

// ExtrapolateLinear continues the straight line through the last two samples
// of s (sampled at integer indices) for n further periods. s needs at least
// two values.
func ExtrapolateLinear(s Series, n int) Series {
	x0 := len(s) - 2
	y0 := s[x0]
	slope := s[x0+1] - y0
	out := make(Series, n)
	for i := range out {
		x := len(s) + i
		out[i] = y0 + slope*float64(x-x0)
	}
	return out
}

// DiscountWeights returns factor^-(i+1) for i in [0, n).
func DiscountWeights(factor float64, n int) Series {
	out := make(Series, n)
	for i := range out {
		out[i] = math.Pow(factor, -float64(i+1))
	}
	return out
}
