// Package model contains domain models passed between layers.
package model

// Company is one row of the constituents list.
type Company struct {
	Symbol       string `csv:"symbol"`
	Name         string `csv:"name"`
	Sector       string `csv:"sector"`
	SubIndustry  string `csv:"sub_industry"`
	Headquarters string `csv:"headquarters"`
	DateAdded    string `csv:"date_added"`
	CIK          string `csv:"cik"`
	Founded      string `csv:"founded"`

	// Fields keeps every header -> cell pair of the source row.
	Fields map[string]string `csv:"-"`
}

// Frequency selects annual or quarterly statements.
type Frequency string

// Statement frequencies.
const (
	Annual    Frequency = "annual"
	Quarterly Frequency = "quarter"
)

// Valid reports whether f is a known frequency.
func (f Frequency) Valid() bool {
	return f == Annual || f == Quarterly
}
