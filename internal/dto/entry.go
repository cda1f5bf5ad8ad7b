package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryLineRequest is one debit or credit line of a journal entry request.
type EntryLineRequest struct {
	AccountID string          `json:"accountID"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Memo      string          `json:"memo,omitempty"`
}

// CreateEntryRequest is the input for creating a journal entry in Draft.
type CreateEntryRequest struct {
	Date        time.Time          `json:"date"`
	Description string             `json:"description"`
	Lines       []EntryLineRequest `json:"lines"`
}
