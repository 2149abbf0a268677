package valuation_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/okian/finmacro/internal/domain/valuation"
	. "github.com/smartystreets/goconvey/convey"
)

func TestResult(t *testing.T) {
	Convey("Given an unavailable result", t, func() {
		r := valuation.Unavailable(valuation.MethodDiscountedCashFlow)

		Convey("Then it renders as empty, null and unavailable", func() {
			_, ok := r.Get()
			So(ok, ShouldBeFalse)
			So(r.String(), ShouldEqual, "unavailable")

			cell, err := r.MarshalCSV()
			So(err, ShouldBeNil)
			So(cell, ShouldEqual, "")

			b, err := json.Marshal(r)
			So(err, ShouldBeNil)
			So(string(b), ShouldEqual, "null")
		})

		Convey("And the zero value is also unavailable", func() {
			So(valuation.Result{}.Available, ShouldBeFalse)
		})
	})

	Convey("Given an available result", t, func() {
		r := valuation.New().PriceToEarnings(context.Background(),
			valuation.Series{1.0, 1.5, 2.0}, valuation.Series{20, 30, 40})

		Convey("Then it renders the value", func() {
			So(r.String(), ShouldEqual, "40.0000")

			cell, err := r.MarshalCSV()
			So(err, ShouldBeNil)
			So(cell, ShouldEqual, "40")

			b, err := json.Marshal(map[string]valuation.Result{"pe": r})
			So(err, ShouldBeNil)
			So(string(b), ShouldEqual, `{"pe":40}`)
		})
	})
}

func TestDiagnostic(t *testing.T) {
	Convey("Given a diagnostic", t, func() {
		d := valuation.Diagnostic{
			Method:  valuation.MethodPriceToSales,
			Kind:    valuation.ErrDegenerateInput,
			Message: "revenue[0] is zero",
		}

		Convey("Then Err wraps the kind", func() {
			err := d.Err()
			So(errors.Is(err, valuation.ErrDegenerateInput), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "price_to_sales")
			So(err.Error(), ShouldContainSubstring, "revenue[0] is zero")
		})
	})

	Convey("Given every diagnostic kind", t, func() {
		So(valuation.KindName(valuation.ErrInsufficientData), ShouldEqual, "insufficient_data")
		So(valuation.KindName(valuation.ErrShapeMismatch), ShouldEqual, "shape_mismatch")
		So(valuation.KindName(valuation.ErrDegenerateInput), ShouldEqual, "degenerate_input")
		So(valuation.KindName(valuation.ErrInvalidParameter), ShouldEqual, "invalid_parameter")
		So(valuation.KindName(fmt.Errorf("other")), ShouldEqual, "unknown")
	})
}
