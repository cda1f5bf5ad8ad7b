package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finledger/ledger-core/internal/core/domain"
	"github.com/finledger/ledger-core/internal/core/ports"
	"github.com/finledger/ledger-core/internal/models"
	"github.com/finledger/ledger-core/internal/platform/tenant"
	"github.com/finledger/ledger-core/internal/utils/mapping"
)

// PgxAuditRepository provides read access to the audit trail. Writes happen
// only inside units of work.
type PgxAuditRepository struct {
	BaseRepository
	db DBTX
}

// NewAuditRepository creates a pool-backed audit repository.
func NewAuditRepository(pool *pgxpool.Pool) *PgxAuditRepository {
	return &PgxAuditRepository{BaseRepository: BaseRepository{Pool: pool}, db: pool}
}

var _ ports.AuditReader = (*PgxAuditRepository)(nil)

// ListAuditLogs returns the most recent audit rows, newest first.
func (r *PgxAuditRepository) ListAuditLogs(ctx context.Context, ns tenant.Namespace, limit int) ([]domain.AuditLog, error) {
	query := fmt.Sprintf(`
		SELECT audit_id, user_id, action, entity_name, entity_id, changes, occurred_at
		FROM %s
		ORDER BY occurred_at DESC
		LIMIT $1;
	`, tableRef(ns, "audit_logs"))

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}
	defer rows.Close()

	var logs []domain.AuditLog
	for rows.Next() {
		var m models.AuditLog
		if err := rows.Scan(&m.AuditID, &m.UserID, &m.Action, &m.EntityName, &m.EntityID, &m.Changes, &m.OccurredAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit row: %w", err)
		}
		logs = append(logs, mapping.ToDomainAuditLog(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit rows: %w", err)
	}

	return logs, nil
}
