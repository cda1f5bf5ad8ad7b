package services

import (
	"context"
	"fmt"
	"time"

	"github.com/finledger/ledger-core/internal/apperrors"
	"github.com/finledger/ledger-core/internal/core/domain"
	"github.com/finledger/ledger-core/internal/core/ports"
	portssvc "github.com/finledger/ledger-core/internal/core/ports/services"
	"github.com/finledger/ledger-core/internal/dto"
	"github.com/finledger/ledger-core/internal/platform/tenant"
)

// EntryService implements journal entry commands and queries.
type EntryService struct {
	BaseService
	entryReader   ports.EntryReader
	accountReader ports.AccountReader
	txManager     ports.TxManager
}

// NewEntryService creates an EntryService.
func NewEntryService(entryReader ports.EntryReader, accountReader ports.AccountReader, txManager ports.TxManager) *EntryService {
	return &EntryService{
		entryReader:   entryReader,
		accountReader: accountReader,
		txManager:     txManager,
	}
}

var _ portssvc.EntrySvcFacade = (*EntryService)(nil)

// CreateEntry validates and persists a new journal entry in Draft. Every
// referenced account must exist and be active.
func (s *EntryService) CreateEntry(ctx context.Context, ns tenant.Namespace, req dto.CreateEntryRequest, creatorUserID string) (*domain.JournalEntry, error) {
	creatorUserID = actingUser(ctx, creatorUserID)
	lines := make([]domain.LineInput, len(req.Lines))
	accountIDs := make([]string, 0, len(req.Lines))
	seen := make(map[string]struct{}, len(req.Lines))
	for i, l := range req.Lines {
		lines[i] = domain.LineInput{
			AccountID: l.AccountID,
			Debit:     l.Debit,
			Credit:    l.Credit,
			Memo:      l.Memo,
		}
		if _, ok := seen[l.AccountID]; !ok && l.AccountID != "" {
			seen[l.AccountID] = struct{}{}
			accountIDs = append(accountIDs, l.AccountID)
		}
	}

	entry, err := domain.NewJournalEntry(req.Date, req.Description, lines, creatorUserID, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	accounts, err := s.accountReader.FindAccountsByIDs(ctx, ns, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to verify referenced accounts: %w", err)
	}
	for _, id := range accountIDs {
		account, ok := accounts[id]
		if !ok {
			return nil, fmt.Errorf("%w: account with ID %s not found", apperrors.ErrNotFound, id)
		}
		if !account.IsActive {
			return nil, fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, account.Code)
		}
	}

	err = s.txManager.WithinTx(ctx, ns, creatorUserID, func(uow ports.UnitOfWork) error {
		return uow.Entries().SaveEntry(ctx, ns, *entry)
	})
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "journal entry created", "entryID", entry.EntryID, "lines", len(entry.Lines))
	return entry, nil
}

// PostEntry transitions a draft entry to Posted. The aggregate is loaded
// under a row lock so concurrent post/reverse commands on the same entry
// serialize inside the database.
func (s *EntryService) PostEntry(ctx context.Context, ns tenant.Namespace, entryID string, userID string) error {
	userID = actingUser(ctx, userID)
	err := s.txManager.WithinTx(ctx, ns, userID, func(uow ports.UnitOfWork) error {
		entry, err := uow.Entries().FindEntryByIDForUpdate(ctx, ns, entryID)
		if err != nil {
			return err
		}

		event, err := entry.Post(userID, time.Now().UTC())
		if err != nil {
			return err
		}

		if err := uow.Entries().UpdateEntryStatus(ctx, ns, *entry); err != nil {
			return err
		}
		uow.RecordEvent(event)
		return nil
	})
	if err != nil {
		return err
	}

	s.LogInfo(ctx, "journal entry posted", "entryID", entryID)
	return nil
}

// ReverseEntry creates and posts the reversing entry for a posted entry and
// links the pair. Both sides commit atomically.
func (s *EntryService) ReverseEntry(ctx context.Context, ns tenant.Namespace, entryID string, reason string, userID string) (*domain.JournalEntry, error) {
	userID = actingUser(ctx, userID)
	var reversal *domain.JournalEntry
	err := s.txManager.WithinTx(ctx, ns, userID, func(uow ports.UnitOfWork) error {
		entry, err := uow.Entries().FindEntryByIDForUpdate(ctx, ns, entryID)
		if err != nil {
			return err
		}

		rev, event, err := entry.BuildReversal(reason, userID, time.Now().UTC())
		if err != nil {
			return err
		}

		if err := uow.Entries().SaveEntry(ctx, ns, *rev); err != nil {
			return err
		}
		if err := uow.Entries().UpdateEntryStatus(ctx, ns, *entry); err != nil {
			return err
		}
		uow.RecordEvent(event)

		reversal = rev
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "journal entry reversed", "entryID", entryID, "reversalID", reversal.EntryID)
	return reversal, nil
}

// GetEntryByID retrieves a journal entry with its lines.
func (s *EntryService) GetEntryByID(ctx context.Context, ns tenant.Namespace, entryID string) (*domain.JournalEntry, error) {
	return s.entryReader.FindEntryByID(ctx, ns, entryID)
}
