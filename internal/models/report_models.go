package models

import "github.com/shopspring/decimal"

// ReportRow is one (congregation, magazine, variant) line of a period report.
type ReportRow struct {
	CongregationID   int64           `json:"congregationId"`
	CongregationName string          `json:"congregationName"`
	Area             string          `json:"area"`
	MagazineCode     string          `json:"magazineCode"`
	MagazineName     string          `json:"magazineName"`
	ClassName        string          `json:"className"`
	AgeRange         string          `json:"ageRange"`
	VariantCode      string          `json:"variantCode"`
	VariantName      string          `json:"variantName"`
	Period           string          `json:"period"`
	Status           OrderStatus     `json:"status"`
	Quantity         int             `json:"quantity"`
	UnitPrice        decimal.Decimal `json:"unitPrice"`
	TotalValue       decimal.Decimal `json:"totalValue"`
}

// ReportTotals sums every row of a report.
type ReportTotals struct {
	Quantity   int             `json:"quantity"`
	TotalValue decimal.Decimal `json:"totalValue"`
}

// PeriodReport is the response of the admin period report.
type PeriodReport struct {
	Period     string       `json:"period"`
	PeriodCode string       `json:"periodCode"`
	Rows       []ReportRow  `json:"rows"`
	Totals     ReportTotals `json:"totals"`
}
