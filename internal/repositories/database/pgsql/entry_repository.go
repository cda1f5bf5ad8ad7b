package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finledger/ledger-core/internal/apperrors"
	"github.com/finledger/ledger-core/internal/core/domain"
	"github.com/finledger/ledger-core/internal/core/ports"
	"github.com/finledger/ledger-core/internal/models"
	"github.com/finledger/ledger-core/internal/platform/tenant"
	"github.com/finledger/ledger-core/internal/utils/mapping"
)

const entryColumns = `entry_id, transaction_date, description, status,
	reversal_of_id, reversed_by_id,
	created_at, created_by, last_updated_at, last_updated_by`

// PgxEntryRepository implements journal entry reads against PostgreSQL.
type PgxEntryRepository struct {
	BaseRepository
	db DBTX
}

// NewEntryRepository creates a pool-backed journal entry repository.
func NewEntryRepository(pool *pgxpool.Pool) *PgxEntryRepository {
	return &PgxEntryRepository{BaseRepository: BaseRepository{Pool: pool}, db: pool}
}

var _ ports.EntryReader = (*PgxEntryRepository)(nil)

func scanEntry(row pgx.Row) (models.JournalEntry, error) {
	var m models.JournalEntry
	err := row.Scan(
		&m.EntryID,
		&m.TransactionDate,
		&m.Description,
		&m.Status,
		&m.ReversalOfID,
		&m.ReversedByID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func fetchEntryLines(ctx context.Context, db DBTX, ns tenant.Namespace, entryID string) ([]models.EntryLine, error) {
	query := fmt.Sprintf(`
		SELECT line_id, entry_id, account_id, debit, credit, memo
		FROM %s
		WHERE entry_id = $1
		ORDER BY line_no;
	`, tableRef(ns, "journal_entry_lines"))

	rows, err := db.Query(ctx, query, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for entry %s: %w", entryID, err)
	}
	defer rows.Close()

	var lines []models.EntryLine
	for rows.Next() {
		var l models.EntryLine
		if err := rows.Scan(&l.LineID, &l.EntryID, &l.AccountID, &l.Debit, &l.Credit, &l.Memo); err != nil {
			return nil, fmt.Errorf("failed to scan line row: %w", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating line rows: %w", err)
	}

	return lines, nil
}

func findEntry(ctx context.Context, db DBTX, ns tenant.Namespace, entryID string, forUpdate bool) (*domain.JournalEntry, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE entry_id = $1`, entryColumns, tableRef(ns, "journal_entries"))
	if forUpdate {
		query += " FOR UPDATE"
	}
	query += ";"

	m, err := scanEntry(db.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: journal entry with ID %s not found", apperrors.ErrNotFound, entryID)
		}
		return nil, fmt.Errorf("failed to find journal entry %s: %w", entryID, err)
	}

	lines, err := fetchEntryLines(ctx, db, ns, entryID)
	if err != nil {
		return nil, err
	}

	entry := mapping.ToDomainEntry(m, lines)
	return &entry, nil
}

// FindEntryByID retrieves a journal entry with its lines.
func (r *PgxEntryRepository) FindEntryByID(ctx context.Context, ns tenant.Namespace, entryID string) (*domain.JournalEntry, error) {
	return findEntry(ctx, r.db, ns, entryID, false)
}

// txEntryWriter persists journal entry mutations inside a unit of work and
// reports each one for audit capture.
type txEntryWriter struct {
	db  DBTX
	uow *unitOfWork
}

var _ ports.EntryWriter = (*txEntryWriter)(nil)

// SaveEntry inserts the entry header and all of its lines. Lines keep their
// positional order via line_no.
func (w *txEntryWriter) SaveEntry(ctx context.Context, ns tenant.Namespace, entry domain.JournalEntry) error {
	m := mapping.ToModelEntry(entry)

	headerQuery := fmt.Sprintf(`
		INSERT INTO %s (entry_id, transaction_date, description, status,
			reversal_of_id, reversed_by_id,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`, tableRef(ns, "journal_entries"))

	_, err := w.db.Exec(ctx, headerQuery,
		m.EntryID,
		m.TransactionDate,
		m.Description,
		m.Status,
		m.ReversalOfID,
		m.ReversedByID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert journal entry %s: %w", entry.EntryID, err)
	}

	lineQuery := fmt.Sprintf(`
		INSERT INTO %s (line_id, entry_id, account_id, debit, credit, memo, line_no)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`, tableRef(ns, "journal_entry_lines"))

	batch := &pgx.Batch{}
	for i, l := range mapping.ToModelEntryLines(entry) {
		batch.Queue(lineQuery, l.LineID, l.EntryID, l.AccountID, l.Debit, l.Credit, l.Memo, i)
	}
	if err := w.db.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert lines for entry %s: %w", entry.EntryID, err)
	}

	return w.uow.recordChange(domain.AuditCreated, "JournalEntry", entry.EntryID, entry)
}

// FindEntryByIDForUpdate loads the aggregate under a row lock on the header.
func (w *txEntryWriter) FindEntryByIDForUpdate(ctx context.Context, ns tenant.Namespace, entryID string) (*domain.JournalEntry, error) {
	return findEntry(ctx, w.db, ns, entryID, true)
}

// UpdateEntryStatus persists a status transition and the reversal links.
// Lines are immutable and never touched.
func (w *txEntryWriter) UpdateEntryStatus(ctx context.Context, ns tenant.Namespace, entry domain.JournalEntry) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET status = $2, reversal_of_id = $3, reversed_by_id = $4,
			last_updated_at = $5, last_updated_by = $6
		WHERE entry_id = $1;
	`, tableRef(ns, "journal_entries"))

	tag, err := w.db.Exec(ctx, query,
		entry.EntryID,
		int(entry.Status),
		entry.ReversalOfID,
		entry.ReversedByID,
		entry.LastUpdatedAt,
		entry.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update journal entry %s: %w", entry.EntryID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: journal entry with ID %s not found", apperrors.ErrNotFound, entry.EntryID)
	}

	return w.uow.recordChange(domain.AuditModified, "JournalEntry", entry.EntryID, entry)
}
