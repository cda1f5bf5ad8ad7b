package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finledger/ledger-core/internal/core/ports"
)

// PgxLockRepository implements cross-instance mutual exclusion with a lease
// table in the shared schema. Acquire is one atomic upsert that succeeds only
// when the key is free or its previous lease has expired; expiry is judged by
// the database clock, so instances need no clock agreement. A crashed holder
// never wedges the key: the next Acquire after expiry steals it.
type PgxLockRepository struct {
	BaseRepository
	db DBTX
}

// NewLockRepository creates a pool-backed lock repository.
func NewLockRepository(pool *pgxpool.Pool) *PgxLockRepository {
	return &PgxLockRepository{BaseRepository: BaseRepository{Pool: pool}, db: pool}
}

var _ ports.Locker = (*PgxLockRepository)(nil)

// Acquire makes a single non-blocking attempt to take the lock. It returns
// (nil, nil) when the lock is held by someone else and a non-nil error only
// when the database itself fails.
func (r *PgxLockRepository) Acquire(ctx context.Context, key string, lease time.Duration) (ports.Lease, error) {
	holderID := uuid.NewString()

	query := `
		INSERT INTO public.resource_locks (lock_key, holder_id, expires_at)
		VALUES ($1, $2, now() + make_interval(secs => $3))
		ON CONFLICT (lock_key) DO UPDATE
		SET holder_id = EXCLUDED.holder_id, expires_at = EXCLUDED.expires_at
		WHERE resource_locks.expires_at <= now()
		RETURNING holder_id;
	`

	var got string
	err := r.db.QueryRow(ctx, query, key, holderID, lease.Seconds()).Scan(&got)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Held by a live lease.
			return nil, nil
		}
		return nil, fmt.Errorf("failed to acquire lock %s: %w", key, err)
	}

	return &pgxLease{db: r.db, key: key, holderID: got}, nil
}

// pgxLease is a held lock. Release deletes the row only if this holder still
// owns it, so releasing after expiry cannot free someone else's lease.
type pgxLease struct {
	db       DBTX
	key      string
	holderID string
}

var _ ports.Lease = (*pgxLease)(nil)

func (l *pgxLease) Release(ctx context.Context) error {
	query := `DELETE FROM public.resource_locks WHERE lock_key = $1 AND holder_id = $2;`
	if _, err := l.db.Exec(ctx, query, l.key, l.holderID); err != nil {
		return fmt.Errorf("failed to release lock %s: %w", l.key, err)
	}
	return nil
}
