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

// AccountService implements account commands and queries.
type AccountService struct {
	BaseService
	accountReader ports.AccountReader
	txManager     ports.TxManager
	locker        ports.Locker
	lockLease     time.Duration
}

// NewAccountService creates an AccountService.
func NewAccountService(accountReader ports.AccountReader, txManager ports.TxManager, locker ports.Locker, lockLease time.Duration) *AccountService {
	return &AccountService{
		accountReader: accountReader,
		txManager:     txManager,
		locker:        locker,
		lockLease:     lockLease,
	}
}

var _ portssvc.AccountSvcFacade = (*AccountService)(nil)

func accountLockKey(ns tenant.Namespace, code string) string {
	return fmt.Sprintf("lock:tenant:%s:account:%s", ns.Schema(), code)
}

// CreateAccount validates and persists a new account. Creation for a given
// code is serialized across instances with a short lease: a concurrent
// attempt on the same code is rejected with ErrLockBusy rather than queued,
// and a coordinator failure rejects the command outright.
func (s *AccountService) CreateAccount(ctx context.Context, ns tenant.Namespace, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	creatorUserID = actingUser(ctx, creatorUserID)
	account, event, err := domain.NewAccount(req.Code, req.Name, domain.AccountType(req.AccountType), creatorUserID, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	lease, err := s.locker.Acquire(ctx, accountLockKey(ns, account.Code), s.lockLease)
	if err != nil {
		s.LogError(ctx, "lock coordinator failed, rejecting account creation", "code", account.Code, "error", err)
		return nil, fmt.Errorf("%w: could not coordinate account creation for code %s: %v", apperrors.ErrInternal, account.Code, err)
	}
	if lease == nil {
		return nil, fmt.Errorf("%w: account code %s is being created by another request", apperrors.ErrLockBusy, account.Code)
	}
	defer func() {
		// Release must reach the coordinator even when the caller canceled
		// mid-command; otherwise the key stays locked for the full lease.
		releaseCtx := context.WithoutCancel(ctx)
		if err := lease.Release(releaseCtx); err != nil {
			s.LogWarn(ctx, "failed to release account creation lock", "code", account.Code, "error", err)
		}
	}()

	err = s.txManager.WithinTx(ctx, ns, creatorUserID, func(uow ports.UnitOfWork) error {
		if err := uow.Accounts().SaveAccount(ctx, ns, *account); err != nil {
			return err
		}
		uow.RecordEvent(event)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "account created", "accountID", account.AccountID, "code", account.Code)
	return account, nil
}

// GetAccountByID retrieves an account by its ID.
func (s *AccountService) GetAccountByID(ctx context.Context, ns tenant.Namespace, accountID string) (*domain.Account, error) {
	return s.accountReader.FindAccountByID(ctx, ns, accountID)
}

// ListAccounts returns accounts ordered by code.
func (s *AccountService) ListAccounts(ctx context.Context, ns tenant.Namespace, limit, offset int) ([]domain.Account, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.accountReader.ListAccounts(ctx, ns, limit, offset)
}
