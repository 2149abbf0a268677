// Package wikipedia lists S&P 500 constituents from Wikipedia.
package wikipedia

import (
	"context"
	"fmt"

	"github.com/PuerkitoBio/goquery"

	"github.com/okian/finmacro/internal/adapters/web"
	"github.com/okian/finmacro/internal/domain/model"
	"github.com/okian/finmacro/pkg/logger"
)

// DefaultURL is the constituents page.
const DefaultURL = "https://en.wikipedia.org/wiki/List_of_S%26P_500_companies"

const provider = "wikipedia"

// Column headers mapped onto Company fields.
const (
	colSymbol       = "Symbol"
	colSecurity     = "Security"
	colSector       = "GICS Sector"
	colSubIndustry  = "GICS Sub-Industry"
	colHeadquarters = "Headquarters Location"
	colDateAdded    = "Date added"
	colCIK          = "CIK"
	colFounded      = "Founded"
)

// Lister fetches the company list.
type Lister struct {
	getter web.Getter
	url    string
	log    logger.Logger
}

// Option applies a configuration option to the Lister.
type Option func(*Lister)

// WithURL overrides the page URL.
func WithURL(url string) Option {
	return func(l *Lister) {
		if url != "" {
			l.url = url
		}
	}
}

// WithLogger sets the logger.
func WithLogger(lg logger.Logger) Option {
	return func(l *Lister) {
		if lg != nil {
			l.log = lg
		}
	}
}

// NewLister creates a Lister that fetches through g.
func NewLister(g web.Getter, opts ...Option) *Lister {
	l := &Lister{getter: g, url: DefaultURL, log: logger.Nop()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// List downloads and parses the constituents table.
func (l *Lister) List(ctx context.Context) ([]model.Company, error) {
	l.log.Debug(ctx, "downloading company list", logger.String("url", l.url))
	body, err := l.getter.Get(ctx, provider, l.url)
	if err != nil {
		return nil, err
	}
	companies, err := ParseCompanies(body)
	if err != nil {
		return nil, err
	}
	l.log.Info(ctx, "company list parsed", logger.Int("companies", len(companies)))
	return companies, nil
}

// ParseCompanies reads table#constituents. The first row's th cells are the
// header; each later row zips the header with its td cells.
func ParseCompanies(html string) ([]model.Company, error) {
	doc, err := web.Document(html)
	if err != nil {
		return nil, err
	}
	table := doc.Find("table#constituents").First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("%s: %w", provider, ErrTableNotFound)
	}

	rows := table.Find("tr")
	header := web.Texts(rows.First().Find("th"))

	var out []model.Company
	rows.Each(func(i int, row *goquery.Selection) {
		if i == 0 {
			return
		}
		cells := web.Texts(row.Find("td"))
		if len(cells) == 0 {
			return
		}
		fields := make(map[string]string, len(header))
		for i := 0; i < len(header) && i < len(cells); i++ {
			fields[header[i]] = cells[i]
		}
		out = append(out, company(fields))
	})
	return out, nil
}

func company(fields map[string]string) model.Company {
	return model.Company{
		Symbol:       fields[colSymbol],
		Name:         fields[colSecurity],
		Sector:       fields[colSector],
		SubIndustry:  fields[colSubIndustry],
		Headquarters: fields[colHeadquarters],
		DateAdded:    fields[colDateAdded],
		CIK:          fields[colCIK],
		Founded:      fields[colFounded],
		Fields:       fields,
	}
}
