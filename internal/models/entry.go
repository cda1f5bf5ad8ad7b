package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry is the persistence representation of a journal entry header.
// Status is stored as its ordinal.
type JournalEntry struct {
	EntryID         string
	TransactionDate time.Time
	Description     string
	Status          int
	ReversalOfID    *string
	ReversedByID    *string
	AuditFields
}

// EntryLine is the persistence representation of a journal entry line.
// Amounts are numeric(18,2); no rounding occurs during aggregation.
type EntryLine struct {
	LineID    string
	EntryID   string
	AccountID string
	Debit     decimal.Decimal
	Credit    decimal.Decimal
	Memo      string
}
