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

// PgxOutboxRepository implements outbox consumption against PostgreSQL.
// Rows are only ever inserted by the unit of work; this repository marks
// them processed or failed.
type PgxOutboxRepository struct {
	BaseRepository
	db          DBTX
	maxAttempts int
}

// NewOutboxRepository creates a pool-backed outbox repository. Messages whose
// attempt counter reaches maxAttempts are no longer fetched.
func NewOutboxRepository(pool *pgxpool.Pool, maxAttempts int) *PgxOutboxRepository {
	return &PgxOutboxRepository{
		BaseRepository: BaseRepository{Pool: pool},
		db:             pool,
		maxAttempts:    maxAttempts,
	}
}

var _ ports.OutboxRepository = (*PgxOutboxRepository)(nil)

// FetchUnprocessed returns up to limit undelivered messages, oldest first.
func (r *PgxOutboxRepository) FetchUnprocessed(ctx context.Context, ns tenant.Namespace, limit int) ([]domain.OutboxMessage, error) {
	query := fmt.Sprintf(`
		SELECT message_id, event_type, content, occurred_at, processed_at, attempts, last_error
		FROM %s
		WHERE processed_at IS NULL AND attempts < $1
		ORDER BY occurred_at
		LIMIT $2;
	`, tableRef(ns, "outbox_messages"))

	rows, err := r.db.Query(ctx, query, r.maxAttempts, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch unprocessed outbox messages: %w", err)
	}
	defer rows.Close()

	var messages []domain.OutboxMessage
	for rows.Next() {
		var m models.OutboxMessage
		if err := rows.Scan(&m.MessageID, &m.EventType, &m.Content, &m.OccurredAt, &m.ProcessedAt, &m.Attempts, &m.LastError); err != nil {
			return nil, fmt.Errorf("failed to scan outbox row: %w", err)
		}
		messages = append(messages, mapping.ToDomainOutboxMessage(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating outbox rows: %w", err)
	}

	return messages, nil
}

// MarkProcessed stamps the message as delivered. Already-processed messages
// are left untouched, so redelivery after a crash is harmless.
func (r *PgxOutboxRepository) MarkProcessed(ctx context.Context, ns tenant.Namespace, messageID string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET processed_at = now(), last_error = NULL
		WHERE message_id = $1 AND processed_at IS NULL;
	`, tableRef(ns, "outbox_messages"))

	// Zero rows affected means another instance already stamped it; that is
	// fine under at-least-once delivery.
	if _, err := r.db.Exec(ctx, query, messageID); err != nil {
		return fmt.Errorf("failed to mark outbox message %s processed: %w", messageID, err)
	}
	return nil
}

// MarkFailed records the delivery error and increments the attempt counter.
func (r *PgxOutboxRepository) MarkFailed(ctx context.Context, ns tenant.Namespace, messageID string, deliveryErr string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET attempts = attempts + 1, last_error = $2
		WHERE message_id = $1 AND processed_at IS NULL;
	`, tableRef(ns, "outbox_messages"))

	if _, err := r.db.Exec(ctx, query, messageID, deliveryErr); err != nil {
		return fmt.Errorf("failed to mark outbox message %s failed: %w", messageID, err)
	}
	return nil
}
