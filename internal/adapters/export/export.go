// Package export writes run output as CSV.
package export

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"github.com/okian/finmacro/internal/domain/model"
)

// WriteValuations writes one row per valuation with a header row.
// Unavailable results are empty cells.
func WriteValuations(w io.Writer, vals []model.Valuation) error {
	if err := gocsv.Marshal(vals, w); err != nil {
		return fmt.Errorf("write valuations: %w", err)
	}
	return nil
}

// WritePrices writes price bars with a header row.
func WritePrices(w io.Writer, bars []model.PriceBar) error {
	if err := gocsv.Marshal(bars, w); err != nil {
		return fmt.Errorf("write prices: %w", err)
	}
	return nil
}

// WriteCompanies writes the company list with a header row.
func WriteCompanies(w io.Writer, companies []model.Company) error {
	if err := gocsv.Marshal(companies, w); err != nil {
		return fmt.Errorf("write companies: %w", err)
	}
	return nil
}

// WriteStatement writes a statement as it appeared on the page: the header
// row, then each row label followed by its raw cells.
func WriteStatement(w io.Writer, st model.Statement) error {
	cw := gocsv.DefaultCSVWriter(w)
	if len(st.Header) > 0 {
		if err := cw.Write(st.Header); err != nil {
			return fmt.Errorf("write %s header: %w", st.Kind, err)
		}
	}
	for _, r := range st.Rows {
		if err := cw.Write(append([]string{r.Label}, r.Raw...)); err != nil {
			return fmt.Errorf("write %s row %q: %w", st.Kind, r.Label, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write %s: %w", st.Kind, err)
	}
	return nil
}
