package model

import "strings"

// StatementKind names one of the six financial statement tables.
type StatementKind string

// Statement kinds.
const (
	IncomeStatement        StatementKind = "income_statement"
	IncomeStatementQuarter StatementKind = "income_statement_quarter"
	BalanceSheet           StatementKind = "balance_sheet"
	BalanceSheetQuarter    StatementKind = "balance_sheet_quarter"
	CashFlow               StatementKind = "cash_flow"
	CashFlowQuarter        StatementKind = "cash_flow_quarter"
)

// StatementKinds lists every kind in fetch order.
var StatementKinds = []StatementKind{
	IncomeStatement,
	IncomeStatementQuarter,
	BalanceSheet,
	BalanceSheetQuarter,
	CashFlow,
	CashFlowQuarter,
}

// Row is one line item of a statement.
type Row struct {
	Label string
	// Raw holds the cell text per period.
	Raw []string
	// Values holds the parsed cells; NaN where a cell did not parse.
	Values []float64
}

// Statement is a parsed statement table. Header[0] is the label column
// title; Periods are the remaining header cells, oldest first.
type Statement struct {
	Kind    StatementKind
	Header  []string
	Periods []string
	Rows    []Row
}

// Row returns the first row whose label matches one of labels,
// case-insensitively and ignoring surrounding space.
func (s Statement) Row(labels ...string) (Row, bool) {
	for _, want := range labels {
		want = strings.TrimSpace(want)
		for _, r := range s.Rows {
			if strings.EqualFold(strings.TrimSpace(r.Label), want) {
				return r, true
			}
		}
	}
	return Row{}, false
}

// Fundamentals bundles the statements fetched for one ticker.
type Fundamentals struct {
	Ticker     string
	Statements map[StatementKind]Statement
}

// Statement returns the statement of the given kind.
func (f Fundamentals) Statement(kind StatementKind) (Statement, bool) {
	s, ok := f.Statements[kind]
	return s, ok
}
