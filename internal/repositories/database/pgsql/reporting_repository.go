package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finledger/ledger-core/internal/core/domain"
	"github.com/finledger/ledger-core/internal/core/ports"
	"github.com/finledger/ledger-core/internal/platform/tenant"
)

// PgxReportingRepository serves the read-only query surface.
type PgxReportingRepository struct {
	BaseRepository
	db DBTX
}

// NewReportingRepository creates a pool-backed reporting repository.
func NewReportingRepository(pool *pgxpool.Pool) *PgxReportingRepository {
	return &PgxReportingRepository{BaseRepository: BaseRepository{Pool: pool}, db: pool}
}

var _ ports.ReportingRepository = (*PgxReportingRepository)(nil)

// TrialBalance aggregates debit and credit totals per account, ordered by
// account code. With postedOnly, draft entries are excluded; reversed entries
// and their reversals both remain so the pairs visibly net to zero. Accounts
// with no matching lines appear with zero totals.
func (r *PgxReportingRepository) TrialBalance(ctx context.Context, ns tenant.Namespace, postedOnly bool) ([]domain.AccountBalance, error) {
	query := fmt.Sprintf(`
		SELECT a.code, a.name,
			COALESCE(SUM(l.debit) FILTER (WHERE NOT $1 OR e.status <> $2), 0) AS total_debit,
			COALESCE(SUM(l.credit) FILTER (WHERE NOT $1 OR e.status <> $2), 0) AS total_credit
		FROM %s a
		LEFT JOIN %s l ON l.account_id = a.account_id
		LEFT JOIN %s e ON e.entry_id = l.entry_id
		GROUP BY a.code, a.name
		ORDER BY a.code;
	`, tableRef(ns, "accounts"), tableRef(ns, "journal_entry_lines"), tableRef(ns, "journal_entries"))

	rows, err := r.db.Query(ctx, query, postedOnly, int(domain.Draft))
	if err != nil {
		return nil, fmt.Errorf("failed to query trial balance: %w", err)
	}
	defer rows.Close()

	var balances []domain.AccountBalance
	for rows.Next() {
		var b domain.AccountBalance
		if err := rows.Scan(&b.AccountCode, &b.AccountName, &b.TotalDebit, &b.TotalCredit); err != nil {
			return nil, fmt.Errorf("failed to scan trial balance row: %w", err)
		}
		b.Balance = b.TotalDebit.Sub(b.TotalCredit)
		balances = append(balances, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trial balance rows: %w", err)
	}

	return balances, nil
}
