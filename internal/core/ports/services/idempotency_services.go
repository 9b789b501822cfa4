package services

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
)

// GuardedOperation is the unit of work wrapped by the idempotency
// coordinator. It runs inside the coordinator's database transaction so that
// the operation's writes and the idempotency record commit or roll back
// together. The returned value is JSON-marshalled into the stored snapshot.
type GuardedOperation func(ctx context.Context, tx pgx.Tx) (any, error)

// IdempotencyRunnerSvc guarantees at-most-once execution per (scope, key).
// It is deliberately GL-agnostic; journal posting is just one caller.
type IdempotencyRunnerSvc interface {
	// Run executes op under the (scope, key) guard. The returned snapshot is
	// the stored response; replayed is true when a previous SUCCEEDED
	// execution was returned without re-running op.
	Run(ctx context.Context, scope, key, requestHash string, op GuardedOperation) (snapshot json.RawMessage, replayed bool, err error)
}
