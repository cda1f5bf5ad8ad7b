package domain

import "time"

// Event is a domain event produced by an aggregate state transition.
// Events are returned explicitly from the transition methods (never queued
// inside the aggregate) so emission is visible in the function signature and
// testable without a persistence layer.
type Event interface {
	EventType() string
	OccurredAt() time.Time
}

// AccountCreated is emitted when a new ledger account is created.
type AccountCreated struct {
	AccountID string    `json:"accountID"`
	Code      string    `json:"code"`
	At        time.Time `json:"occurredAt"`
}

func (e AccountCreated) EventType() string     { return "AccountCreated" }
func (e AccountCreated) OccurredAt() time.Time { return e.At }

// JournalEntryPosted is emitted when a draft entry is finalized.
type JournalEntryPosted struct {
	EntryID string    `json:"entryID"`
	At      time.Time `json:"occurredAt"`
}

func (e JournalEntryPosted) EventType() string     { return "JournalEntryPosted" }
func (e JournalEntryPosted) OccurredAt() time.Time { return e.At }

// JournalEntryReversed is emitted when a posted entry is reversed by a
// counter-entry. It references both halves of the reversal pair.
type JournalEntryReversed struct {
	EntryID    string    `json:"entryID"`
	ReversalID string    `json:"reversalID"`
	At         time.Time `json:"occurredAt"`
}

func (e JournalEntryReversed) EventType() string     { return "JournalEntryReversed" }
func (e JournalEntryReversed) OccurredAt() time.Time { return e.At }
