package repositories

import (
	"context"
	"encoding/json"

	"github.com/addisledger/gl_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// IdempotencyRepository persists idempotency records keyed by (scope, key).
// All row-level locking needed for at-most-once semantics lives here.
type IdempotencyRepository interface {
	// FindForUpdate retrieves the record for (scope, key) under an exclusive
	// row lock (FOR UPDATE NOWAIT) within the given transaction. Returns
	// apperrors.ErrNotFound when no record exists and a PostingLockedError
	// when the row is held by another in-flight operation.
	FindForUpdate(ctx context.Context, tx pgx.Tx, scope, key string) (*domain.IdempotencyRecord, error)

	// Insert creates a new IN_PROGRESS record within the given transaction.
	Insert(ctx context.Context, tx pgx.Tx, record domain.IdempotencyRecord) error

	// Finalize stamps the record's terminal status and snapshot within the
	// given transaction.
	Finalize(ctx context.Context, tx pgx.Tx, scope, key string, status domain.IdempotencyStatus, snapshot json.RawMessage) error

	// FinalizeFailure records a FAILED outcome in its own short transaction.
	// Used after the guarded operation's transaction has been rolled back, so
	// the failure record survives the rollback. requestHash is persisted so a
	// retry with the same payload is recognized and re-executed.
	FinalizeFailure(ctx context.Context, scope, key, requestHash string, payload json.RawMessage) error
}

// IdempotencyRepositoryWithTx extends IdempotencyRepository with transaction capabilities
type IdempotencyRepositoryWithTx interface {
	IdempotencyRepository
	TransactionManager
}
