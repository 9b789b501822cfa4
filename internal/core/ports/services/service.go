package services

import (
	"context"
	"time"
)

// Authorizer is the capability check consumed by the posting engine. RBAC
// itself lives in a different system; the engine only asks yes/no.
type Authorizer interface {
	// Authorize returns nil when the actor holds the capability, otherwise
	// an error wrapping apperrors.ErrForbidden.
	Authorize(ctx context.Context, actorUserID string, capability string) error

	// InvalidateActor drops any cached capability decisions for the actor so
	// the next check rebuilds them.
	InvalidateActor(ctx context.Context, actorUserID string) error
}

// AuditEvent describes a financially significant action for the audit trail.
type AuditEvent struct {
	Action     string    // e.g. "gl.journal.posted"
	EntityType string    // e.g. "journal"
	EntityID   string
	ActorID    string
	OccurredAt time.Time
	Detail     map[string]string
}

// AuditSink receives audit events fire-and-forget; implementations must not
// fail the calling operation.
type AuditSink interface {
	Record(ctx context.Context, event AuditEvent)
}

// ServiceContainer aggregates service facades for route wiring.
type ServiceContainer struct {
	Journal     JournalSvcFacade
	Account     AccountDirectorySvc
	Idempotency IdempotencyRunnerSvc
}
