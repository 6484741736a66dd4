package models

import "github.com/shopspring/decimal"

func init() {
	// Prices travel as JSON numbers (17.5), not strings ("17.5").
	decimal.MarshalJSONWithoutQuotes = true
}

// RoundMoney rounds half away from zero to two decimal places.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
