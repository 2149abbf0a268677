package valuation_test

import (
	"math"
	"testing"

	"github.com/okian/finmacro/internal/domain/valuation"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSeries(t *testing.T) {
	Convey("Given a series", t, func() {
		s := valuation.Series{2, 4, 0, 6}

		So(s.Len(), ShouldEqual, 4)
		So(s.Last(), ShouldEqual, 6)
		So(s.Mean(), ShouldEqual, 3)
		So(s.Zero(), ShouldEqual, 2)
		So(s.NonFinite(), ShouldEqual, -1)

		Convey("Clone does not share storage", func() {
			c := s.Clone()
			c[0] = 100
			So(s[0], ShouldEqual, 2)
			So(valuation.Series(nil).Clone(), ShouldBeNil)
		})

		Convey("NonFinite finds NaN and infinities", func() {
			So(valuation.Series{1, math.Inf(-1)}.NonFinite(), ShouldEqual, 1)
			So(valuation.Series{math.NaN()}.NonFinite(), ShouldEqual, 0)
		})
	})

	Convey("Given two series", t, func() {
		So(valuation.Div(valuation.Series{10, 9}, valuation.Series{2, 3}), ShouldResemble, valuation.Series{5, 3})
		So(valuation.Dot(valuation.Series{1, 2, 3}, valuation.Series{4, 5}), ShouldEqual, 14)
	})
}

func TestExtrapolateLinear(t *testing.T) {
	Convey("Given the five-year eps fixture", t, func() {
		ext := valuation.ExtrapolateLinear(valuation.Series{1.0, 1.2, 1.5, 1.8, 2.0}, 5)

		Convey("Then the line through the last two samples continues", func() {
			want := []float64{2.2, 2.4, 2.6, 2.8, 3.0}
			So(ext, ShouldHaveLength, 5)
			for i, w := range want {
				So(ext[i], ShouldAlmostEqual, w, 1e-12)
			}
		})
	})

	Convey("Given a two-sample series", t, func() {
		ext := valuation.ExtrapolateLinear(valuation.Series{3, 1}, 3)
		So(ext, ShouldResemble, valuation.Series{-1, -3, -5})
	})
}

func TestDiscountWeights(t *testing.T) {
	Convey("Given a factor of 2", t, func() {
		So(valuation.DiscountWeights(2, 3), ShouldResemble, valuation.Series{0.5, 0.25, 0.125})
	})
}
