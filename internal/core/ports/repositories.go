package ports

import (
	"context"
	"time"

	"github.com/finledger/ledger-core/internal/core/domain"
	"github.com/finledger/ledger-core/internal/platform/tenant"
)

// AccountReader provides read access to accounts within a tenant namespace.
type AccountReader interface {
	FindAccountByID(ctx context.Context, ns tenant.Namespace, accountID string) (*domain.Account, error)
	FindAccountByCode(ctx context.Context, ns tenant.Namespace, code string) (*domain.Account, error)
	FindAccountsByIDs(ctx context.Context, ns tenant.Namespace, accountIDs []string) (map[string]domain.Account, error)
	ListAccounts(ctx context.Context, ns tenant.Namespace, limit, offset int) ([]domain.Account, error)
}

// AccountWriter persists account mutations. Only available transaction-bound,
// through a UnitOfWork.
type AccountWriter interface {
	SaveAccount(ctx context.Context, ns tenant.Namespace, account domain.Account) error
}

// EntryReader provides read access to journal entries (lines included).
type EntryReader interface {
	FindEntryByID(ctx context.Context, ns tenant.Namespace, entryID string) (*domain.JournalEntry, error)
}

// EntryWriter persists journal entry mutations. Only available
// transaction-bound, through a UnitOfWork.
type EntryWriter interface {
	SaveEntry(ctx context.Context, ns tenant.Namespace, entry domain.JournalEntry) error
	// FindEntryByIDForUpdate loads the aggregate with its lines under a row
	// lock, so concurrent post/reverse commands on the same entry serialize.
	FindEntryByIDForUpdate(ctx context.Context, ns tenant.Namespace, entryID string) (*domain.JournalEntry, error)
	// UpdateEntryStatus persists a status transition (and the reversal links)
	// produced by an aggregate method. Lines are immutable and never updated.
	UpdateEntryStatus(ctx context.Context, ns tenant.Namespace, entry domain.JournalEntry) error
}

// UnitOfWork exposes the transaction-bound repositories for one atomic
// command. Every mutation performed through it is audit-recorded
// structurally, and every recorded event becomes an outbox row in the same
// transaction — there is no mutation path that bypasses either.
type UnitOfWork interface {
	Accounts() AccountWriter
	Entries() EntryWriter
	// RecordEvent queues a domain event for outbox capture at commit.
	RecordEvent(event domain.Event)
}

// TxManager runs a function within one database transaction scoped to a
// tenant namespace and an acting user. The audit rows and outbox rows are
// flushed before commit; a failure in either rolls back the whole unit of
// work (audit-or-nothing).
type TxManager interface {
	WithinTx(ctx context.Context, ns tenant.Namespace, userID string, fn func(uow UnitOfWork) error) error
}

// ReportingRepository serves the read-only query surface.
type ReportingRepository interface {
	TrialBalance(ctx context.Context, ns tenant.Namespace, postedOnly bool) ([]domain.AccountBalance, error)
}

// AuditReader provides read access to the audit trail.
type AuditReader interface {
	ListAuditLogs(ctx context.Context, ns tenant.Namespace, limit int) ([]domain.AuditLog, error)
}

// OutboxRepository is the consumption contract of the transactional outbox,
// driven by the drain loop.
type OutboxRepository interface {
	// FetchUnprocessed returns up to limit undelivered messages, oldest
	// first. Messages that exhausted their delivery attempts are excluded.
	FetchUnprocessed(ctx context.Context, ns tenant.Namespace, limit int) ([]domain.OutboxMessage, error)
	MarkProcessed(ctx context.Context, ns tenant.Namespace, messageID string) error
	// MarkFailed records the delivery error and increments the attempt
	// counter, leaving the row for the next pass.
	MarkFailed(ctx context.Context, ns tenant.Namespace, messageID string, deliveryErr string) error
}

// TenantRepository manages tenant namespace provisioning and the registry of
// provisioned namespaces.
type TenantRepository interface {
	// EnsureSchema creates the namespace's physical structures if absent.
	// Idempotent and safe under concurrent first access from multiple
	// instances: "already exists" races are success, not error.
	EnsureSchema(ctx context.Context, ns tenant.Namespace) error
	RegisterTenant(ctx context.Context, ns tenant.Namespace) error
	ListTenants(ctx context.Context) ([]tenant.Namespace, error)
}

// Lease is a held distributed lock. Release is safe to call on every exit
// path; the lease also expires on its own if the holder crashes.
type Lease interface {
	Release(ctx context.Context) error
}

// Locker is the cross-instance mutual exclusion primitive. Acquire is a
// single non-blocking attempt: it returns (nil, nil) when the lock is held
// elsewhere — a busy signal for the caller, not an error — and a non-nil
// error only when the coordinator itself fails, in which case the protected
// operation must be rejected (fail closed).
type Locker interface {
	Acquire(ctx context.Context, key string, lease time.Duration) (Lease, error)
}

// EventPublisher delivers outbox messages to the external message
// infrastructure. Best effort; failures are recorded on the row and retried.
type EventPublisher interface {
	Publish(ctx context.Context, ns tenant.Namespace, msg domain.OutboxMessage) error
}
