package services

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/addisledger/gl_backend/internal/apperrors"
	"github.com/addisledger/gl_backend/internal/core/domain"
	portsrepo "github.com/addisledger/gl_backend/internal/core/ports/repositories"
	portssvc "github.com/addisledger/gl_backend/internal/core/ports/services"
	"github.com/addisledger/gl_backend/internal/middleware"
	"github.com/addisledger/gl_backend/internal/platform/clock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// IdempotencyService coordinates at-most-once execution of guarded
// operations. The guard and the operation share one database transaction, so
// the operation's writes and the SUCCEEDED record become visible atomically.
// Failures are recorded through a separate short transaction after rollback.
type IdempotencyService struct {
	repo  portsrepo.IdempotencyRepositoryWithTx
	clock clock.Clock
}

// NewIdempotencyService creates an IdempotencyService.
func NewIdempotencyService(repo portsrepo.IdempotencyRepositoryWithTx, clk clock.Clock) *IdempotencyService {
	return &IdempotencyService{repo: repo, clock: clk}
}

var _ portssvc.IdempotencyRunnerSvc = (*IdempotencyService)(nil)

// Run executes op under the (scope, key) guard.
//
// Outcomes:
//   - no prior record: op runs, its result is stored as a SUCCEEDED snapshot.
//   - prior SUCCEEDED with the same request hash: the stored snapshot is
//     replayed without re-running op.
//   - prior record with a different request hash: IdempotencyConflictError.
//   - prior FAILED with the same hash: op runs again (the failure did not
//     commit any writes).
//   - row locked by a concurrent request: PostingLockedError.
func (s *IdempotencyService) Run(ctx context.Context, scope, key, requestHash string, op portssvc.GuardedOperation) (json.RawMessage, bool, error) {
	logger := middleware.GetLoggerFromCtx(ctx).With(
		slog.String("idempotency_scope", scope),
		slog.String("idempotency_key", key),
	)

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, false, err
	}
	defer func() { _ = s.repo.Rollback(ctx, tx) }()

	record, err := s.repo.FindForUpdate(ctx, tx, scope, key)
	switch {
	case err == nil:
		return s.handleExisting(ctx, tx, logger, record, requestHash, op)
	case errors.Is(err, apperrors.ErrNotFound):
		return s.runFresh(ctx, tx, logger, scope, key, requestHash, op)
	default:
		return nil, false, err
	}
}

// handleExisting resolves a retry against the stored record.
func (s *IdempotencyService) handleExisting(ctx context.Context, tx pgx.Tx, logger *slog.Logger, record *domain.IdempotencyRecord, requestHash string, op portssvc.GuardedOperation) (json.RawMessage, bool, error) {
	if record.RequestHash != requestHash {
		logger.Warn("Idempotency key reused with a different request hash",
			slog.String("status", string(record.Status)))
		return nil, false, &apperrors.IdempotencyConflictError{
			Scope:          record.Scope,
			Key:            record.Key,
			StoredResponse: record.ResponseSnapshot,
		}
	}

	switch record.Status {
	case domain.IdempotencySucceeded:
		logger.Info("Replaying stored idempotent response")
		return record.ResponseSnapshot, true, nil
	case domain.IdempotencyFailed:
		// The earlier attempt rolled back its writes; safe to run again.
		logger.Info("Re-executing previously failed idempotent operation")
		return s.execute(ctx, tx, logger, record.Scope, record.Key, requestHash, op)
	default:
		// A committed IN_PROGRESS row means an earlier process died between
		// rollback and failure finalization. Treat it as still in flight.
		return nil, false, apperrors.NewPostingLocked("idempotency", record.Scope+":"+record.Key)
	}
}

// runFresh inserts the IN_PROGRESS guard row, then executes.
func (s *IdempotencyService) runFresh(ctx context.Context, tx pgx.Tx, logger *slog.Logger, scope, key, requestHash string, op portssvc.GuardedOperation) (json.RawMessage, bool, error) {
	now := s.clock.Now()
	record := domain.IdempotencyRecord{
		RecordID:    uuid.NewString(),
		Scope:       scope,
		Key:         key,
		RequestHash: requestHash,
		Status:      domain.IdempotencyInProgress,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Insert(ctx, tx, record); err != nil {
		return nil, false, err
	}
	return s.execute(ctx, tx, logger, scope, key, requestHash, op)
}

// execute runs op inside tx and finalizes the guard row with the outcome.
func (s *IdempotencyService) execute(ctx context.Context, tx pgx.Tx, logger *slog.Logger, scope, key, requestHash string, op portssvc.GuardedOperation) (json.RawMessage, bool, error) {
	result, opErr := op(ctx, tx)
	if opErr != nil {
		if rbErr := s.repo.Rollback(ctx, tx); rbErr != nil {
			logger.Error("Failed to roll back guarded operation", slog.String("error", rbErr.Error()))
		}
		s.recordFailure(ctx, logger, scope, key, requestHash, opErr)
		return nil, false, opErr
	}

	snapshot, err := json.Marshal(result)
	if err != nil {
		return nil, false, apperrors.NewAppError(500, "failed to marshal idempotency snapshot", err)
	}

	if err := s.repo.Finalize(ctx, tx, scope, key, domain.IdempotencySucceeded, snapshot); err != nil {
		return nil, false, err
	}
	if err := s.repo.Commit(ctx, tx); err != nil {
		return nil, false, err
	}

	return snapshot, false, nil
}

// recordFailure persists the FAILED outcome outside the rolled-back
// transaction. Best effort: a retry with the same hash re-executes either way.
func (s *IdempotencyService) recordFailure(ctx context.Context, logger *slog.Logger, scope, key, requestHash string, opErr error) {
	payload, err := json.Marshal(map[string]string{"error": opErr.Error()})
	if err != nil {
		payload = json.RawMessage(`{"error":"unserializable failure"}`)
	}
	if err := s.repo.FinalizeFailure(ctx, scope, key, requestHash, payload); err != nil {
		logger.Error("Failed to record idempotency failure", slog.String("error", err.Error()))
	}
}
