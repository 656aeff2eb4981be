// Package models provides the data structures used throughout the application.
package models

// Cell positions of a transaction row in the e-bill statement table.
const (
	CellDateToken   = 1
	CellPostDate    = 2
	CellDescription = 3
	CellAmount      = 4
	CellCardSuffix  = 5
	CellAuxiliary   = 6
)

// RawRow is one admitted statement table row, before normalization.
type RawRow struct {
	Index       int
	DateToken   string
	PostDate    string
	Description string
	Amount      string
	CardSuffix  string
	Auxiliary   string
}

// TransactionRecord is the normalized output unit written to the report.
// Field order defines the CSV header order.
type TransactionRecord struct {
	Date      string `csv:"Transaction Date" json:"date" yaml:"date"`
	Amount    string `csv:"Amount (CNY)" json:"amount" yaml:"amount"`
	Category  string `csv:"Category" json:"category" yaml:"category"`
	Direction string `csv:"Direction" json:"direction" yaml:"direction"`
	Account   string `csv:"Account" json:"account" yaml:"account"`
}

// IsSpend reports whether the record is an outgoing payment.
func (r TransactionRecord) IsSpend() bool {
	return r.Direction == DirectionSpend
}
