package domain

import "github.com/shopspring/decimal"

// AccountBalance is one row of a trial balance: total posted debits and
// credits per account, with the net balance (debits minus credits).
type AccountBalance struct {
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	TotalDebit  decimal.Decimal `json:"totalDebit"`
	TotalCredit decimal.Decimal `json:"totalCredit"`
	Balance     decimal.Decimal `json:"balance"`
}
