package yahoo_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/okian/finmacro/internal/adapters/provider/yahoo"
	"github.com/okian/finmacro/internal/adapters/web"
	. "github.com/smartystreets/goconvey/convey"
)

const historyPage = `<html><body><table>
<thead><tr><th>Date</th><th>Open</th><th>High</th><th>Low</th><th>Close*</th><th>Adj. close**</th><th>Volume</th></tr></thead>
<tbody>
<tr><td>31 Jul 2020</td><td>204.40</td><td>205.10</td><td>199.01</td><td>205.01</td><td>205.01</td><td>51,247,969</td></tr>
<tr><td>13 Jul 2020</td><td colspan="6">0.51 Dividend</td></tr>
<tr><td>Jul 1, 2020</td><td>203.14</td><td>216.38</td><td>197.51</td><td>203.00</td><td>203.00</td><td>770,306,200</td></tr>
<tr><td>2020-06-01</td><td>182.54</td><td>204.40</td><td>181.35</td><td>203.51</td><td>202.90</td><td>-</td></tr>
<tr><td>someday</td><td>1</td><td>1</td><td>1</td><td>1</td><td>1</td><td>1</td></tr>
</tbody></table></body></html>`

func TestParseHistory(t *testing.T) {
	Convey("Given a monthly history page", t, func() {
		bars, err := yahoo.ParseHistory(historyPage)

		Convey("Then price rows are parsed oldest first", func() {
			So(err, ShouldBeNil)
			So(bars, ShouldHaveLength, 2)
			So(bars[0].Date, ShouldEqual, time.Date(2020, time.July, 1, 0, 0, 0, 0, time.UTC))
			So(bars[0].Close, ShouldEqual, 203.0)
			So(bars[0].Volume, ShouldEqual, 770306200.0)
			So(bars[1].Open, ShouldEqual, 204.40)
			So(bars[1].High, ShouldEqual, 205.10)
			So(bars[1].Low, ShouldEqual, 199.01)
			So(bars[1].AdjClose, ShouldEqual, 205.01)
		})
	})

	Convey("Given a page without a table", t, func() {
		_, err := yahoo.ParseHistory("<html></html>")
		So(errors.Is(err, yahoo.ErrNoTable), ShouldBeTrue)
	})
}

func TestParseInterval(t *testing.T) {
	Convey("Given interval names", t, func() {
		for _, s := range []string{"1d", "1wk", "1mo"} {
			i, err := yahoo.ParseInterval(s)
			So(err, ShouldBeNil)
			So(string(i), ShouldEqual, s)
		}
		_, err := yahoo.ParseInterval("1y")
		So(errors.Is(err, yahoo.ErrInvalidInterval), ShouldBeTrue)
	})
}

func TestProviderHistory(t *testing.T) {
	start := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2020, time.December, 31, 0, 0, 0, 0, time.UTC)

	Convey("Given a provider with weekly bars", t, func() {
		p := yahoo.NewProvider(web.New(), yahoo.WithBaseURL("https://example.test/quote"), yahoo.WithInterval(yahoo.Weekly))

		Convey("Then the URL carries the period and interval", func() {
			raw, err := p.URL("BRK.B", start, end)
			So(err, ShouldBeNil)
			u, err := url.Parse(raw)
			So(err, ShouldBeNil)
			So(u.Path, ShouldEqual, "/quote/BRK.B/history")
			q := u.Query()
			So(q.Get("period1"), ShouldEqual, fmt.Sprint(start.Unix()))
			So(q.Get("period2"), ShouldEqual, fmt.Sprint(end.Unix()))
			So(q.Get("interval"), ShouldEqual, "1wk")
			So(q.Get("frequency"), ShouldEqual, "1wk")
			So(q.Get("filter"), ShouldEqual, "history")
		})
	})

	Convey("Given a provider with an unsupported interval", t, func() {
		p := yahoo.NewProvider(web.New(), yahoo.WithInterval("1y"))
		_, err := p.History(context.Background(), "ACME", start, end)
		So(errors.Is(err, yahoo.ErrInvalidInterval), ShouldBeTrue)
	})

	Convey("Given a server hosting history", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/ACME/history" {
				http.NotFound(w, r)
				return
			}
			fmt.Fprint(w, historyPage)
		}))
		defer srv.Close()

		p := yahoo.NewProvider(web.New(), yahoo.WithBaseURL(srv.URL))

		Convey("When fetching a known ticker", func() {
			bars, err := p.History(context.Background(), "ACME", start, end)
			So(err, ShouldBeNil)
			So(bars, ShouldHaveLength, 2)
		})

		Convey("When fetching an unknown ticker", func() {
			_, err := p.History(context.Background(), "NOPE", start, end)
			So(errors.Is(err, web.ErrStatus), ShouldBeTrue)
		})
	})
}
