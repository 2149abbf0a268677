package marketwatch

import (
	"fmt"
	"math"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/okian/finmacro/internal/adapters/web"
	"github.com/okian/finmacro/internal/domain/model"
)

// ParseStatement combines every table on a statement page into one
// Statement. The header comes from the first row of the first table; every
// row loses its last column (the trend chart). Empty rows and derived rows
// whose label ends in "Growth" or "Margin" are skipped. Cells that do not
// parse are NaN in Values and kept verbatim in Raw.
func ParseStatement(kind model.StatementKind, html string) (model.Statement, error) {
	doc, err := web.Document(html)
	if err != nil {
		return model.Statement{}, err
	}
	tables := doc.Find("table")
	if tables.Length() == 0 {
		return model.Statement{}, fmt.Errorf("%s: %w", kind, ErrNoTable)
	}

	st := model.Statement{Kind: kind}
	tables.Each(func(t int, table *goquery.Selection) {
		table.Find("tr").Each(func(i int, tr *goquery.Selection) {
			if t == 0 && i == 0 {
				st.Header = dropLast(web.Texts(tr.Find("th")))
				if len(st.Header) > 1 {
					st.Periods = st.Header[1:]
				}
			}

			cells := dropLast(web.Texts(tr.Find("td")))
			if len(cells) == 0 {
				return
			}
			label := collapseLabel(cells[0])
			if strings.HasSuffix(label, "Growth") || strings.HasSuffix(label, "Margin") {
				return
			}
			st.Rows = append(st.Rows, row(label, cells[1:]))
		})
	})
	return st, nil
}

func row(label string, raw []string) model.Row {
	r := model.Row{Label: label, Raw: raw, Values: make([]float64, len(raw))}
	for i, cell := range raw {
		v, err := ParseNumber(cell)
		if err != nil {
			v = math.NaN()
		}
		r.Values[i] = v
	}
	return r
}

func dropLast(s []string) []string {
	if len(s) == 0 {
		return s
	}
	return s[:len(s)-1]
}

// collapseLabel undoes the markup that renders each label twice, once for
// wide and once for narrow layouts.
func collapseLabel(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	n := len(s)
	switch {
	case n > 0 && n%2 == 0 && s[:n/2] == s[n/2:]:
		return s[:n/2]
	case n%2 == 1 && s[n/2] == ' ' && s[:n/2] == s[n/2+1:]:
		return s[:n/2]
	}
	return s
}
