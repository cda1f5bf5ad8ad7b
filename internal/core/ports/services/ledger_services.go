package services

import (
	"context"

	"github.com/finledger/ledger-core/internal/core/domain"
	"github.com/finledger/ledger-core/internal/dto"
	"github.com/finledger/ledger-core/internal/platform/tenant"
)

// AccountSvcFacade defines the account command surface.
type AccountSvcFacade interface {
	CreateAccount(ctx context.Context, ns tenant.Namespace, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error)
	GetAccountByID(ctx context.Context, ns tenant.Namespace, accountID string) (*domain.Account, error)
	ListAccounts(ctx context.Context, ns tenant.Namespace, limit, offset int) ([]domain.Account, error)
}

// EntrySvcFacade defines the journal entry command surface.
type EntrySvcFacade interface {
	CreateEntry(ctx context.Context, ns tenant.Namespace, req dto.CreateEntryRequest, creatorUserID string) (*domain.JournalEntry, error)
	PostEntry(ctx context.Context, ns tenant.Namespace, entryID string, userID string) error
	ReverseEntry(ctx context.Context, ns tenant.Namespace, entryID string, reason string, userID string) (*domain.JournalEntry, error)
	GetEntryByID(ctx context.Context, ns tenant.Namespace, entryID string) (*domain.JournalEntry, error)
}

// ReportingSvcFacade defines the read-only query surface.
type ReportingSvcFacade interface {
	TrialBalance(ctx context.Context, ns tenant.Namespace, postedOnly bool) ([]domain.AccountBalance, error)
}

// AuditSvcFacade exposes the audit trail.
type AuditSvcFacade interface {
	ListAuditLogs(ctx context.Context, ns tenant.Namespace, limit int) ([]domain.AuditLog, error)
}

// TenantSvcFacade resolves tenant identifiers and lazily provisions their
// namespaces.
type TenantSvcFacade interface {
	// ResolveAndProvision maps a raw tenant identifier to its namespace and
	// ensures the namespace's physical structures exist before first use.
	ResolveAndProvision(ctx context.Context, rawTenantID string) (tenant.Namespace, error)
	ListTenants(ctx context.Context) ([]tenant.Namespace, error)
}
