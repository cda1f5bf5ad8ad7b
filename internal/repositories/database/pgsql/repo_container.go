package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finledger/ledger-core/internal/core/ports"
)

// RepositoryContainer bundles all PostgreSQL-backed repositories sharing one
// connection pool.
type RepositoryContainer struct {
	Accounts  *PgxAccountRepository
	Entries   *PgxEntryRepository
	Outbox    *PgxOutboxRepository
	Audit     *PgxAuditRepository
	Reporting *PgxReportingRepository
	Tenants   *PgxTenantRepository
	Locker    ports.Locker
	TxManager ports.TxManager
}

// NewRepositoryContainer creates all repositories on the given pool.
func NewRepositoryContainer(pool *pgxpool.Pool, outboxMaxAttempts int) *RepositoryContainer {
	return &RepositoryContainer{
		Accounts:  NewAccountRepository(pool),
		Entries:   NewEntryRepository(pool),
		Outbox:    NewOutboxRepository(pool, outboxMaxAttempts),
		Audit:     NewAuditRepository(pool),
		Reporting: NewReportingRepository(pool),
		Tenants:   NewTenantRepository(pool),
		Locker:    NewLockRepository(pool),
		TxManager: NewTxManager(pool),
	}
}
