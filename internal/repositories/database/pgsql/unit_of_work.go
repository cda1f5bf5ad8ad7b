package pgsql

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finledger/ledger-core/internal/core/domain"
	"github.com/finledger/ledger-core/internal/core/ports"
	"github.com/finledger/ledger-core/internal/platform/tenant"
)

// changeRecord is one tracked entity mutation awaiting audit capture.
type changeRecord struct {
	action     domain.AuditAction
	entityName string
	entityID   string
	payload    string
}

// txStarter begins transactions. Satisfied by *pgxpool.Pool.
type txStarter interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PgxTxManager runs units of work on a pgx connection pool. Before commit it
// flushes one audit row per tracked mutation and one outbox row per recorded
// domain event into the same transaction: a failure in either rolls back the
// business change as well (audit-or-nothing keeps the trail trustworthy).
type PgxTxManager struct {
	BaseRepository
	starter txStarter
}

// NewTxManager creates the transaction manager for a pool.
func NewTxManager(pool *pgxpool.Pool) ports.TxManager {
	return &PgxTxManager{BaseRepository: BaseRepository{Pool: pool}, starter: pool}
}

var _ ports.TxManager = (*PgxTxManager)(nil)

// WithinTx implements ports.TxManager.
func (m *PgxTxManager) WithinTx(ctx context.Context, ns tenant.Namespace, userID string, fn func(uow ports.UnitOfWork) error) error {
	tx, err := m.starter.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	// Ignored if the transaction commits.
	defer m.Rollback(ctx, tx)

	uow := &unitOfWork{tx: tx, ns: ns, userID: userID}

	if err := fn(uow); err != nil {
		return err
	}
	if err := uow.flushAuditLogs(ctx); err != nil {
		return fmt.Errorf("failed to write audit trail: %w", err)
	}
	if err := uow.flushOutbox(ctx); err != nil {
		return fmt.Errorf("failed to write outbox messages: %w", err)
	}

	if err := m.Commit(ctx, tx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// unitOfWork is one atomic command against one tenant namespace. The
// transaction-bound writers it hands out report every mutation back through
// recordChange, so audit capture is a structural side effect of persistence
// rather than an opt-in call at each site. Audit and outbox rows themselves
// are written directly by the flush methods and are never tracked.
type unitOfWork struct {
	tx      pgx.Tx
	ns      tenant.Namespace
	userID  string
	changes []changeRecord
	events  []domain.Event
}

var _ ports.UnitOfWork = (*unitOfWork)(nil)

func (u *unitOfWork) Accounts() ports.AccountWriter {
	return &txAccountWriter{db: u.tx, uow: u}
}

func (u *unitOfWork) Entries() ports.EntryWriter {
	return &txEntryWriter{db: u.tx, uow: u}
}

// RecordEvent queues a domain event for outbox capture at commit.
func (u *unitOfWork) RecordEvent(event domain.Event) {
	u.events = append(u.events, event)
}

// recordChange tracks a mutated entity for audit capture. The snapshot is
// serialized immediately so later in-memory mutation cannot alter it.
func (u *unitOfWork) recordChange(action domain.AuditAction, entityName, entityID string, entity any) error {
	payload, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("failed to serialize %s %s for audit: %w", entityName, entityID, err)
	}
	u.changes = append(u.changes, changeRecord{
		action:     action,
		entityName: entityName,
		entityID:   entityID,
		payload:    string(payload),
	})
	return nil
}

func (u *unitOfWork) flushAuditLogs(ctx context.Context) error {
	if len(u.changes) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (audit_id, user_id, action, entity_name, entity_id, changes, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`, tableRef(u.ns, "audit_logs"))

	now := time.Now().UTC()
	batch := &pgx.Batch{}
	for _, c := range u.changes {
		log := domain.NewAuditLog(u.userID, c.action, c.entityName, c.entityID, c.payload, now)
		batch.Queue(query,
			log.AuditID,
			log.UserID,
			string(log.Action),
			log.EntityName,
			log.EntityID,
			log.Changes,
			log.OccurredAt,
		)
	}

	return u.tx.SendBatch(ctx, batch).Close()
}

func (u *unitOfWork) flushOutbox(ctx context.Context) error {
	if len(u.events) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (message_id, event_type, content, occurred_at, attempts)
		VALUES ($1, $2, $3, $4, 0);
	`, tableRef(u.ns, "outbox_messages"))

	batch := &pgx.Batch{}
	for _, event := range u.events {
		content, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("failed to serialize event %s: %w", event.EventType(), err)
		}
		batch.Queue(query,
			uuid.NewString(),
			event.EventType(),
			string(content),
			event.OccurredAt().UTC(),
		)
	}

	return u.tx.SendBatch(ctx, batch).Close()
}
