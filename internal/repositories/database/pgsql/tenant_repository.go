package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finledger/ledger-core/internal/apperrors"
	"github.com/finledger/ledger-core/internal/core/ports"
	"github.com/finledger/ledger-core/internal/platform/tenant"
)

// PgxTenantRepository provisions tenant schemas and maintains the registry of
// known namespaces in the shared schema.
type PgxTenantRepository struct {
	BaseRepository
	db DBTX
}

// NewTenantRepository creates a pool-backed tenant repository.
func NewTenantRepository(pool *pgxpool.Pool) *PgxTenantRepository {
	return &PgxTenantRepository{BaseRepository: BaseRepository{Pool: pool}, db: pool}
}

var _ ports.TenantRepository = (*PgxTenantRepository)(nil)

// tenantDDL builds the per-namespace table set. Mirrors migrations/000001 for
// the shared schema; keep the two in sync when the model changes.
func tenantDDL(ns tenant.Namespace) []string {
	return []string{
		fmt.Sprintf(`CREATE SCHEMA IF NOT EXISTS %s;`, schemaRef(ns)),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			account_id uuid PRIMARY KEY,
			code varchar(20) NOT NULL,
			name varchar(200) NOT NULL,
			account_type varchar(20) NOT NULL,
			is_active boolean NOT NULL DEFAULT true,
			created_at timestamptz NOT NULL,
			created_by varchar(100) NOT NULL DEFAULT '',
			last_updated_at timestamptz NOT NULL,
			last_updated_by varchar(100) NOT NULL DEFAULT ''
		);`, tableRef(ns, "accounts")),
		fmt.Sprintf(`CREATE UNIQUE INDEX IF NOT EXISTS ux_accounts_code ON %s (code);`, tableRef(ns, "accounts")),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			entry_id uuid PRIMARY KEY,
			transaction_date timestamptz NOT NULL,
			description varchar(500) NOT NULL,
			status smallint NOT NULL,
			reversal_of_id uuid NULL,
			reversed_by_id uuid NULL,
			created_at timestamptz NOT NULL,
			created_by varchar(100) NOT NULL DEFAULT '',
			last_updated_at timestamptz NOT NULL,
			last_updated_by varchar(100) NOT NULL DEFAULT ''
		);`, tableRef(ns, "journal_entries")),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			line_id uuid PRIMARY KEY,
			entry_id uuid NOT NULL REFERENCES %s (entry_id),
			account_id uuid NOT NULL REFERENCES %s (account_id),
			debit numeric(18,2) NOT NULL DEFAULT 0,
			credit numeric(18,2) NOT NULL DEFAULT 0,
			memo varchar(500) NOT NULL DEFAULT '',
			line_no integer NOT NULL
		);`, tableRef(ns, "journal_entry_lines"), tableRef(ns, "journal_entries"), tableRef(ns, "accounts")),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS ix_journal_entry_lines_entry_id ON %s (entry_id);`, tableRef(ns, "journal_entry_lines")),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			audit_id uuid PRIMARY KEY,
			user_id varchar(100) NOT NULL DEFAULT '',
			action varchar(20) NOT NULL,
			entity_name varchar(100) NOT NULL,
			entity_id varchar(100) NOT NULL,
			changes jsonb NOT NULL,
			occurred_at timestamptz NOT NULL
		);`, tableRef(ns, "audit_logs")),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			message_id uuid PRIMARY KEY,
			event_type varchar(200) NOT NULL,
			content jsonb NOT NULL,
			occurred_at timestamptz NOT NULL,
			processed_at timestamptz NULL,
			attempts integer NOT NULL DEFAULT 0,
			last_error text NULL
		);`, tableRef(ns, "outbox_messages")),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS ix_outbox_messages_unprocessed ON %s (occurred_at) WHERE processed_at IS NULL;`, tableRef(ns, "outbox_messages")),
	}
}

// EnsureSchema creates the namespace's schema and tables if absent. It is
// idempotent, and concurrent first access from multiple instances is safe:
// duplicate-object races from another instance winning the same statement
// count as success.
func (r *PgxTenantRepository) EnsureSchema(ctx context.Context, ns tenant.Namespace) error {
	for _, stmt := range tenantDDL(ns) {
		if _, err := r.db.Exec(ctx, stmt); err != nil {
			if isDuplicateObject(err) {
				continue
			}
			return fmt.Errorf("%w: failed to provision namespace %s: %v", apperrors.ErrProvisioning, ns, err)
		}
	}
	return nil
}

// RegisterTenant records the namespace in the shared registry. Re-registering
// is a no-op.
func (r *PgxTenantRepository) RegisterTenant(ctx context.Context, ns tenant.Namespace) error {
	query := `
		INSERT INTO public.tenants (schema_name, provisioned_at)
		VALUES ($1, now())
		ON CONFLICT (schema_name) DO NOTHING;
	`
	if _, err := r.db.Exec(ctx, query, ns.Schema()); err != nil {
		return fmt.Errorf("failed to register tenant %s: %w", ns, err)
	}
	return nil
}

// ListTenants returns all registered namespaces.
func (r *PgxTenantRepository) ListTenants(ctx context.Context) ([]tenant.Namespace, error) {
	rows, err := r.db.Query(ctx, `SELECT schema_name FROM public.tenants ORDER BY schema_name;`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	defer rows.Close()

	var namespaces []tenant.Namespace
	for rows.Next() {
		var schema string
		if err := rows.Scan(&schema); err != nil {
			return nil, fmt.Errorf("failed to scan tenant row: %w", err)
		}
		namespaces = append(namespaces, tenant.Namespace(schema))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tenant rows: %w", err)
	}

	return namespaces, nil
}

// isDuplicateObject reports the "already exists" SQLSTATEs raised when two
// instances provision the same namespace at once: 42P06 (schema), 42P07
// (table), 42710 (object) and 23505 (catalog unique violation).
func isDuplicateObject(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case "42P06", "42P07", "42710", "23505":
		return true
	}
	return false
}
