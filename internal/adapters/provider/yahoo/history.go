package yahoo

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/okian/finmacro/internal/adapters/web"
	"github.com/okian/finmacro/internal/domain/model"
)

// Columns of a history row: date, open, high, low, close, adjusted close, volume.
const historyColumns = 7

var dateLayouts = []string{"2 Jan 2006", "Jan 2, 2006", "2006-01-02"}

// ParseHistory reads the price table of a history page. Rows shorter than
// the header (dividends and splits) and rows that do not parse are skipped.
// Bars are returned oldest first.
func ParseHistory(html string) ([]model.PriceBar, error) {
	doc, err := web.Document(html)
	if err != nil {
		return nil, err
	}
	tables := doc.Find("table")
	if tables.Length() == 0 {
		return nil, ErrNoTable
	}

	var header []string
	var bars []model.PriceBar
	tables.Each(func(t int, table *goquery.Selection) {
		table.Find("tr").Each(func(i int, tr *goquery.Selection) {
			if t == 0 && i == 0 {
				header = web.Texts(tr.Find("th"))
			}
			cells := web.Texts(tr.Find("td"))
			if len(cells) < len(header) || len(cells) < historyColumns {
				return
			}
			if bar, err := parseBar(cells); err == nil {
				bars = append(bars, bar)
			}
		})
	})

	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return bars, nil
}

func parseBar(cells []string) (model.PriceBar, error) {
	date, err := parseDate(cells[0])
	if err != nil {
		return model.PriceBar{}, err
	}
	var v [historyColumns - 1]float64
	for i := range v {
		f, err := strconv.ParseFloat(strings.ReplaceAll(cells[i+1], ",", ""), 64)
		if err != nil {
			return model.PriceBar{}, fmt.Errorf("column %d: %w", i+1, err)
		}
		v[i] = f
	}
	return model.PriceBar{
		Date:     date,
		Open:     v[0],
		High:     v[1],
		Low:      v[2],
		Close:    v[3],
		AdjClose: v[4],
		Volume:   v[5],
	}, nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}
