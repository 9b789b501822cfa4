package pgsql

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/addisledger/gl_backend/internal/apperrors"
	"github.com/addisledger/gl_backend/internal/core/domain"
	portsrepo "github.com/addisledger/gl_backend/internal/core/ports/repositories"
	"github.com/addisledger/gl_backend/internal/models"
	"github.com/addisledger/gl_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const idempotencyColumns = `record_id, scope, key, request_hash, status, response_snapshot, created_at, updated_at`

// PgxIdempotencyRepository persists idempotency records. The (scope, key)
// unique constraint plus FOR UPDATE NOWAIT provide the at-most-once guarantee
// across concurrent processes.
type PgxIdempotencyRepository struct {
	BaseRepository
}

func newPgxIdempotencyRepository(pool *pgxpool.Pool) portsrepo.IdempotencyRepositoryWithTx {
	return &PgxIdempotencyRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.IdempotencyRepositoryWithTx = (*PgxIdempotencyRepository)(nil)

// FindForUpdate retrieves the record for (scope, key) under FOR UPDATE NOWAIT.
// A row held by another in-flight request surfaces as a PostingLockedError.
func (r *PgxIdempotencyRepository) FindForUpdate(ctx context.Context, tx pgx.Tx, scope, key string) (*domain.IdempotencyRecord, error) {
	query := `SELECT ` + idempotencyColumns + ` FROM idempotency_keys WHERE scope = $1 AND key = $2 FOR UPDATE NOWAIT;`

	var m models.IdempotencyKey
	err := tx.QueryRow(ctx, query, scope, key).Scan(
		&m.RecordID,
		&m.Scope,
		&m.Key,
		&m.RequestHash,
		&m.Status,
		&m.ResponseSnapshot,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		if isLockNotAvailable(err) {
			return nil, apperrors.NewPostingLocked("idempotency", scope+":"+key)
		}
		return nil, apperrors.NewAppError(500, "failed to lock idempotency record "+scope+":"+key, err)
	}

	record := mapping.ToDomainIdempotencyRecord(m)
	return &record, nil
}

// Insert creates a new IN_PROGRESS record within the given transaction. A
// concurrent insert of the same (scope, key) surfaces as a PostingLockedError
// so the caller reports a retryable failure instead of a duplicate execution.
func (r *PgxIdempotencyRepository) Insert(ctx context.Context, tx pgx.Tx, record domain.IdempotencyRecord) error {
	m := mapping.ToModelIdempotencyKey(record)
	query := `
		INSERT INTO idempotency_keys (` + idempotencyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`

	_, err := tx.Exec(ctx, query,
		m.RecordID,
		m.Scope,
		m.Key,
		m.RequestHash,
		m.Status,
		m.ResponseSnapshot,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewPostingLocked("idempotency", record.Scope+":"+record.Key)
		}
		return apperrors.NewAppError(500, "failed to insert idempotency record "+record.Scope+":"+record.Key, err)
	}

	return nil
}

// Finalize stamps the record's terminal status and snapshot within the given transaction.
func (r *PgxIdempotencyRepository) Finalize(ctx context.Context, tx pgx.Tx, scope, key string, status domain.IdempotencyStatus, snapshot json.RawMessage) error {
	query := `
		UPDATE idempotency_keys
		SET status = $3,
		    response_snapshot = $4,
		    updated_at = now()
		WHERE scope = $1 AND key = $2;
	`

	cmdTag, err := tx.Exec(ctx, query, scope, key, string(status), []byte(snapshot))
	if err != nil {
		return apperrors.NewAppError(500, "failed to finalize idempotency record "+scope+":"+key, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("idempotency record " + scope + ":" + key + " not found for finalize")
	}

	return nil
}

// FinalizeFailure records a FAILED outcome in its own short transaction. It
// runs after the guarded operation's transaction has rolled back, so it
// upserts: the IN_PROGRESS row inserted inside that transaction is gone.
func (r *PgxIdempotencyRepository) FinalizeFailure(ctx context.Context, scope, key, requestHash string, payload json.RawMessage) error {
	query := `
		INSERT INTO idempotency_keys (record_id, scope, key, request_hash, status, response_snapshot, created_at, updated_at)
		VALUES (gen_random_uuid()::text, $1, $2, $3, 'FAILED', $4, now(), now())
		ON CONFLICT (scope, key) DO UPDATE
		SET status = 'FAILED', request_hash = EXCLUDED.request_hash, response_snapshot = EXCLUDED.response_snapshot, updated_at = now();
	`

	_, err := r.Pool.Exec(ctx, query, scope, key, requestHash, []byte(payload))
	if err != nil {
		return apperrors.NewAppError(500, "failed to record idempotency failure "+scope+":"+key, err)
	}

	return nil
}
