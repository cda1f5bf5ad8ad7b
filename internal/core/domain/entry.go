package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finledger/ledger-core/internal/apperrors"
)

// EntryStatus is the state of a journal entry. Persisted as its ordinal.
type EntryStatus int

const (
	Draft    EntryStatus = iota + 1 // mutable, not yet part of the ledger
	Posted                          // finalized, immutable
	Reversed                        // posted entry negated by a reversal
	Reversal                        // counter-entry created to reverse another
)

// String returns the status name for logging and error messages.
func (s EntryStatus) String() string {
	switch s {
	case Draft:
		return "DRAFT"
	case Posted:
		return "POSTED"
	case Reversed:
		return "REVERSED"
	case Reversal:
		return "REVERSAL"
	}
	return fmt.Sprintf("UNKNOWN(%d)", int(s))
}

// EntryLine is a single debit or credit line within a journal entry.
// A line belongs to exactly one entry and has no independent lifecycle.
type EntryLine struct {
	LineID    string          `json:"lineID"`
	EntryID   string          `json:"entryID"`
	AccountID string          `json:"accountID"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Memo      string          `json:"memo,omitempty"`
}

// LineInput is the caller-supplied shape of a line before the entry exists.
type LineInput struct {
	AccountID string
	Debit     decimal.Decimal
	Credit    decimal.Decimal
	Memo      string
}

// JournalEntry is the aggregate root for a balanced financial event.
// All state transitions go through the methods below; once an entry leaves
// Draft its line set is immutable.
type JournalEntry struct {
	EntryID         string      `json:"entryID"` // Primary key (UUID)
	TransactionDate time.Time   `json:"transactionDate"`
	Description     string      `json:"description"`
	Lines           []EntryLine `json:"lines"`
	Status          EntryStatus `json:"status"`
	ReversalOfID    *string     `json:"reversalOfID,omitempty"` // set on the Reversal entry
	ReversedByID    *string     `json:"reversedByID,omitempty"` // set on the Reversed original
	AuditFields
}

// NewJournalEntry constructs a journal entry in Draft status, enforcing the
// double-entry invariants: at least two lines, every line carries a nonzero
// debit or a nonzero credit but never both (a 0/0 line is rejected as
// meaningless), no negative amounts, and debits balance credits exactly.
// The description is free-form and may be empty.
func NewJournalEntry(date time.Time, description string, lines []LineInput, creatorUserID string, now time.Time) (*JournalEntry, error) {
	if len(lines) < 2 {
		return nil, fmt.Errorf("%w: a journal entry must have at least two lines", apperrors.ErrValidation)
	}

	entryID := uuid.NewString()
	entryLines := make([]EntryLine, len(lines))
	for i, in := range lines {
		if in.AccountID == "" {
			return nil, fmt.Errorf("%w: line %d is missing an account reference", apperrors.ErrValidation, i)
		}
		if in.Debit.IsNegative() || in.Credit.IsNegative() {
			return nil, fmt.Errorf("%w: line %d has a negative amount", apperrors.ErrValidation, i)
		}
		hasDebit := in.Debit.IsPositive()
		hasCredit := in.Credit.IsPositive()
		if hasDebit && hasCredit {
			return nil, fmt.Errorf("%w: line %d cannot have both debit and credit values", apperrors.ErrValidation, i)
		}
		if !hasDebit && !hasCredit {
			return nil, fmt.Errorf("%w: line %d must have a nonzero debit or credit", apperrors.ErrValidation, i)
		}
		entryLines[i] = EntryLine{
			LineID:    uuid.NewString(),
			EntryID:   entryID,
			AccountID: in.AccountID,
			Debit:     in.Debit,
			Credit:    in.Credit,
			Memo:      in.Memo,
		}
	}

	entry := &JournalEntry{
		EntryID:         entryID,
		TransactionDate: date,
		Description:     description,
		Lines:           entryLines,
		Status:          Draft,
		AuditFields: AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := entry.ValidateBalance(); err != nil {
		return nil, err
	}
	return entry, nil
}

// ValidateBalance re-asserts the double-entry invariant with exact decimal
// comparison. It is called at construction AND again at posting: the
// aggregate may have been reloaded from storage between commands, so balance
// is never trusted once and assumed thereafter.
func (e *JournalEntry) ValidateBalance() error {
	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for _, line := range e.Lines {
		totalDebit = totalDebit.Add(line.Debit)
		totalCredit = totalCredit.Add(line.Credit)
	}
	if !totalDebit.Equal(totalCredit) {
		return fmt.Errorf("%w: journal entry is out of balance: total debit %s, total credit %s",
			apperrors.ErrValidation, totalDebit.String(), totalCredit.String())
	}
	return nil
}

// Post finalizes a draft entry. Posting is the only transition into Posted
// and the only way an entry becomes eligible for reporting. It returns the
// JournalEntryPosted event for the caller's unit of work to record.
func (e *JournalEntry) Post(userID string, now time.Time) (Event, error) {
	if e.Status != Draft {
		return nil, fmt.Errorf("%w: only draft entries can be posted, status is %s", apperrors.ErrInvalidState, e.Status)
	}
	if err := e.ValidateBalance(); err != nil {
		return nil, err
	}

	e.Status = Posted
	e.LastUpdatedAt = now
	e.LastUpdatedBy = userID

	return JournalEntryPosted{EntryID: e.EntryID, At: now}, nil
}

// BuildReversal creates the counter-entry that exactly negates a posted
// entry: same accounts, same amounts, debit and credit swapped line for
// line. The new entry is marked Reversal, the receiver becomes Reversed, and
// the two are linked as a permanent pair. Both mutations must be persisted
// atomically by the caller. Reversal is the only supported correction; posted
// entries are never deleted.
func (e *JournalEntry) BuildReversal(reason, userID string, now time.Time) (*JournalEntry, Event, error) {
	if e.Status != Posted {
		return nil, nil, fmt.Errorf("%w: only posted entries can be reversed, status is %s", apperrors.ErrInvalidState, e.Status)
	}

	swapped := make([]LineInput, len(e.Lines))
	for i, line := range e.Lines {
		swapped[i] = LineInput{
			AccountID: line.AccountID,
			Debit:     line.Credit,
			Credit:    line.Debit,
			Memo:      line.Memo,
		}
	}

	description := fmt.Sprintf("Reversal of entry %s: %s", e.EntryID, reason)
	reversal, err := NewJournalEntry(now, description, swapped, userID, now)
	if err != nil {
		return nil, nil, err
	}

	reversal.Status = Reversal
	reversal.ReversalOfID = &e.EntryID

	e.Status = Reversed
	e.ReversedByID = &reversal.EntryID
	e.LastUpdatedAt = now
	e.LastUpdatedBy = userID

	event := JournalEntryReversed{
		EntryID:    e.EntryID,
		ReversalID: reversal.EntryID,
		At:         now,
	}
	return reversal, event, nil
}
