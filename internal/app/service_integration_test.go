package service_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/okian/finmacro/internal/adapters/export"
	"github.com/okian/finmacro/internal/adapters/provider/marketwatch"
	"github.com/okian/finmacro/internal/adapters/provider/yahoo"
	"github.com/okian/finmacro/internal/adapters/web"
	service "github.com/okian/finmacro/internal/app"
	"github.com/okian/finmacro/internal/domain/valuation"
	"github.com/okian/finmacro/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

const acmeIncome = `<html><body><table>
<tr><th>Item</th><th>2020</th><th>2021</th><th>2022</th><th>5-year trend</th></tr>
<tr><td>Sales/Revenue</td><td>100</td><td>110</td><td>120</td><td></td></tr>
<tr><td>Sales Growth</td><td>-</td><td>10.00%</td><td>9.09%</td><td></td></tr>
<tr><td>EPS (Basic)</td><td>1.00</td><td>1.50</td><td>2.00</td><td></td></tr>
<tr><td>Basic Shares Outstanding</td><td>10</td><td>10</td><td>10</td><td></td></tr>
</table></body></html>`

const acmeCashFlow = `<html><body><table>
<tr><th>Item</th><th>2020</th><th>2021</th><th>2022</th><th>5-year trend</th></tr>
<tr><td>Free Cash Flow</td><td>5</td><td>6</td><td>7</td><td></td></tr>
</table></body></html>`

const acmeHistory = `<html><body><table>
<tr><th>Date</th><th>Open</th><th>High</th><th>Low</th><th>Close*</th><th>Adj Close**</th><th>Volume</th></tr>
<tr><td>Dec 30, 2022</td><td>39</td><td>41</td><td>38</td><td>40</td><td>40</td><td>1,000</td></tr>
<tr><td>Dec 31, 2021</td><td>29</td><td>31</td><td>28</td><td>30</td><td>30</td><td>1,000</td></tr>
<tr><td>Dec 15, 2021</td><td colspan="6">0.5 Dividend</td></tr>
<tr><td>Dec 31, 2020</td><td>19</td><td>21</td><td>18</td><td>20</td><td>20</td><td>1,000</td></tr>
</table></body></html>`

func siteServer() *httptest.Server {
	pages := map[string]string{
		"/investing/stock/ACME/financials":           acmeIncome,
		"/investing/stock/ACME/financials/cash-flow": acmeCashFlow,
		"/quote/ACME/history":                        acmeHistory,
	}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(page))
	}))
}

func TestServiceIntegration(t *testing.T) {
	Convey("Given a service wired to scraped statement and price pages", t, func() {
		srv := siteServer()
		defer srv.Close()

		client := web.New(web.WithTimeout(5 * time.Second))
		valuer := service.NewCompanyValuer(
			marketwatch.NewProvider(client, marketwatch.WithBaseURL(srv.URL+"/investing/stock")),
			yahoo.NewProvider(client, yahoo.WithBaseURL(srv.URL+"/quote")),
			service.WithClock(func() time.Time { return valuedAt }),
			service.WithValuerLogger(logger.Nop()),
		)
		svc := service.New(service.WithWorkerCount(2), service.WithValuer(valuer))
		defer svc.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		Convey("When running a batch with a known and an unknown ticker", func() {
			vals, err := svc.Run(ctx, companies("ACME", "acme", "NOPE"))

			Convey("Then the known ticker is valued end to end", func() {
				So(err, ShouldBeNil)
				So(vals, ShouldHaveLength, 1)
				acme := vals[0]
				So(acme.Ticker, ShouldEqual, "ACME")
				So(acme.Periods, ShouldEqual, 3)
				So(acme.LastPrice, ShouldEqual, 40)
				So(acme.PE.Value, ShouldAlmostEqual, 40, 1e-9)
				So(acme.AvailableCount(), ShouldEqual, 4)
			})

			Convey("Then the unknown ticker is counted as failed", func() {
				stats := svc.GetStats()
				So(stats["completed"], ShouldEqual, int64(1))
				So(stats["failed"], ShouldEqual, int64(1))
			})

			Convey("Then the valuations export as csv", func() {
				var buf bytes.Buffer
				So(export.WriteValuations(&buf, vals), ShouldBeNil)
				lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
				So(lines, ShouldHaveLength, 2)
				So(lines[1], ShouldStartWith, svc.RunID()+",ACME,ACME Inc.,,3,40,")
			})

			Convey("Then the ranking holds the valued ticker at no upside", func() {
				top, err := svc.Rank(ctx, valuation.MethodPriceToEarnings, 5)
				So(err, ShouldBeNil)
				So(top, ShouldHaveLength, 1)
				So(top[0].Rank, ShouldEqual, 1)
				So(top[0].Upside, ShouldAlmostEqual, 0, 1e-9)
			})
		})
	})
}
