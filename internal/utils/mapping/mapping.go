// Package mapping converts between persistence models and domain objects.
package mapping

import (
	"github.com/finledger/ledger-core/internal/core/domain"
	"github.com/finledger/ledger-core/internal/models"
)

// ToModelAccount converts a domain account to its persistence model.
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:   d.AccountID,
		Code:        d.Code,
		Name:        d.Name,
		AccountType: string(d.AccountType),
		IsActive:    d.IsActive,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
}

// ToDomainAccount converts a persisted account row to the domain object.
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:   m.AccountID,
		Code:        m.Code,
		Name:        m.Name,
		AccountType: domain.AccountType(m.AccountType),
		IsActive:    m.IsActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

// ToModelEntry converts a domain journal entry header to its persistence
// model. Lines are mapped separately via ToModelEntryLines.
func ToModelEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		EntryID:         d.EntryID,
		TransactionDate: d.TransactionDate,
		Description:     d.Description,
		Status:          int(d.Status),
		ReversalOfID:    d.ReversalOfID,
		ReversedByID:    d.ReversedByID,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
}

// ToDomainEntry converts a persisted entry header and its line rows to the
// domain aggregate.
func ToDomainEntry(m models.JournalEntry, lines []models.EntryLine) domain.JournalEntry {
	domainLines := make([]domain.EntryLine, len(lines))
	for i, l := range lines {
		domainLines[i] = domain.EntryLine{
			LineID:    l.LineID,
			EntryID:   l.EntryID,
			AccountID: l.AccountID,
			Debit:     l.Debit,
			Credit:    l.Credit,
			Memo:      l.Memo,
		}
	}
	return domain.JournalEntry{
		EntryID:         m.EntryID,
		TransactionDate: m.TransactionDate,
		Description:     m.Description,
		Lines:           domainLines,
		Status:          domain.EntryStatus(m.Status),
		ReversalOfID:    m.ReversalOfID,
		ReversedByID:    m.ReversedByID,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

// ToModelEntryLines converts the aggregate's lines to persistence rows.
func ToModelEntryLines(d domain.JournalEntry) []models.EntryLine {
	lines := make([]models.EntryLine, len(d.Lines))
	for i, l := range d.Lines {
		lines[i] = models.EntryLine{
			LineID:    l.LineID,
			EntryID:   l.EntryID,
			AccountID: l.AccountID,
			Debit:     l.Debit,
			Credit:    l.Credit,
			Memo:      l.Memo,
		}
	}
	return lines
}

// ToDomainOutboxMessage converts a persisted outbox row to the domain object.
func ToDomainOutboxMessage(m models.OutboxMessage) domain.OutboxMessage {
	return domain.OutboxMessage{
		MessageID:   m.MessageID,
		EventType:   m.EventType,
		Content:     m.Content,
		OccurredAt:  m.OccurredAt,
		ProcessedAt: m.ProcessedAt,
		Attempts:    m.Attempts,
		LastError:   m.LastError,
	}
}

// ToDomainAuditLog converts a persisted audit row to the domain object.
func ToDomainAuditLog(m models.AuditLog) domain.AuditLog {
	return domain.AuditLog{
		AuditID:    m.AuditID,
		UserID:     m.UserID,
		Action:     domain.AuditAction(m.Action),
		EntityName: m.EntityName,
		EntityID:   m.EntityID,
		Changes:    m.Changes,
		OccurredAt: m.OccurredAt,
	}
}
