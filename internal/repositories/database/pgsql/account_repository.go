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

const accountColumns = `account_id, code, name, account_type, is_active,
	created_at, created_by, last_updated_at, last_updated_by`

// PgxAccountRepository implements account reads against PostgreSQL.
type PgxAccountRepository struct {
	BaseRepository
	db DBTX
}

// NewAccountRepository creates a pool-backed account repository.
func NewAccountRepository(pool *pgxpool.Pool) *PgxAccountRepository {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}, db: pool}
}

var _ ports.AccountReader = (*PgxAccountRepository)(nil)

func scanAccount(row pgx.Row) (models.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.Code,
		&m.Name,
		&m.AccountType,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, ns tenant.Namespace, accountID string) (*domain.Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE account_id = $1;`, accountColumns, tableRef(ns, "accounts"))

	m, err := scanAccount(r.db.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: account with ID %s not found", apperrors.ErrNotFound, accountID)
		}
		return nil, fmt.Errorf("failed to find account by ID %s: %w", accountID, err)
	}

	account := mapping.ToDomainAccount(m)
	return &account, nil
}

// FindAccountByCode retrieves an account by its unique code.
func (r *PgxAccountRepository) FindAccountByCode(ctx context.Context, ns tenant.Namespace, code string) (*domain.Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE code = $1;`, accountColumns, tableRef(ns, "accounts"))

	m, err := scanAccount(r.db.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: account with code %s not found", apperrors.ErrNotFound, code)
		}
		return nil, fmt.Errorf("failed to find account by code %s: %w", code, err)
	}

	account := mapping.ToDomainAccount(m)
	return &account, nil
}

// FindAccountsByIDs retrieves multiple accounts keyed by ID. Missing IDs are
// simply absent from the result map.
func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, ns tenant.Namespace, accountIDs []string) (map[string]domain.Account, error) {
	result := make(map[string]domain.Account, len(accountIDs))
	if len(accountIDs) == 0 {
		return result, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE account_id = ANY($1);`, accountColumns, tableRef(ns, "accounts"))

	rows, err := r.db.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts by IDs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		result[m.AccountID] = mapping.ToDomainAccount(m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}

	return result, nil
}

// ListAccounts returns accounts ordered by code.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, ns tenant.Namespace, limit, offset int) ([]domain.Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY code LIMIT $1 OFFSET $2;`, accountColumns, tableRef(ns, "accounts"))

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, mapping.ToDomainAccount(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}

	return accounts, nil
}

// txAccountWriter persists account mutations inside a unit of work and
// reports each one for audit capture.
type txAccountWriter struct {
	db  DBTX
	uow *unitOfWork
}

var _ ports.AccountWriter = (*txAccountWriter)(nil)

// SaveAccount inserts a new account. A duplicate code surfaces as
// ErrDuplicate.
func (w *txAccountWriter) SaveAccount(ctx context.Context, ns tenant.Namespace, account domain.Account) error {
	m := mapping.ToModelAccount(account)

	query := fmt.Sprintf(`
		INSERT INTO %s (account_id, code, name, account_type, is_active,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`, tableRef(ns, "accounts"))

	_, err := w.db.Exec(ctx, query,
		m.AccountID,
		m.Code,
		m.Name,
		m.AccountType,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: account code %s already exists", apperrors.ErrDuplicate, account.Code)
		}
		return fmt.Errorf("failed to insert account %s: %w", account.AccountID, err)
	}

	return w.uow.recordChange(domain.AuditCreated, "Account", account.AccountID, account)
}
