package marketwatch_test

import (
	"errors"
	"testing"

	"github.com/okian/finmacro/internal/adapters/provider/marketwatch"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParseNumber(t *testing.T) {
	Convey("Given MarketWatch cells", t, func() {
		cases := []struct {
			in   string
			want float64
		}{
			{"-", 0},
			{"12", 12},
			{"1,234.5", 1234.5},
			{"(3.2)", -3.2},
			{"2.5T", 2.5e12},
			{"274.52B", 274.52e9},
			{"(1.5M)", -1.5e6},
			{"800K", 800e3},
			{"12.5%", 0.125},
			{"(7.2%)", -0.072},
			{" 3.1B ", 3.1e9},
		}
		for _, c := range cases {
			got, err := marketwatch.ParseNumber(c.in)
			So(err, ShouldBeNil)
			So(got, ShouldAlmostEqual, c.want, 1e-6)
		}

		Convey("Non-numeric cells are rejected", func() {
			for _, in := range []string{"", "N/A", "abc", "--"} {
				_, err := marketwatch.ParseNumber(in)
				So(errors.Is(err, marketwatch.ErrNumber), ShouldBeTrue)
			}
		})
	})
}
