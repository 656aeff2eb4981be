package models

import "github.com/shopspring/decimal"

// Summary aggregates a converted statement.
type Summary struct {
	Count       int             `json:"count" yaml:"count"`
	SpendCount  int             `json:"spend_count" yaml:"spend_count"`
	IncomeCount int             `json:"income_count" yaml:"income_count"`
	SpendTotal  decimal.Decimal `json:"spend_total" yaml:"spend_total"`
	IncomeTotal decimal.Decimal `json:"income_total" yaml:"income_total"`
	Categories  map[string]int  `json:"categories" yaml:"categories"`
	Skipped     int             `json:"skipped_amounts" yaml:"skipped_amounts"`
}

// Net returns income plus spend; spend totals are negative.
func (s Summary) Net() decimal.Decimal {
	return s.IncomeTotal.Add(s.SpendTotal)
}
