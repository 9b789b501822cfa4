package services

import (
	"context"
	"log/slog"

	portssvc "github.com/addisledger/gl_backend/internal/core/ports/services"
	"github.com/addisledger/gl_backend/internal/middleware"
)

// LogAuditSink writes audit events to the structured log. The log stream is
// the system of record for the audit trail until a dedicated store exists.
type LogAuditSink struct{}

// NewLogAuditSink creates a LogAuditSink.
func NewLogAuditSink() *LogAuditSink {
	return &LogAuditSink{}
}

var _ portssvc.AuditSink = (*LogAuditSink)(nil)

// Record emits the event at INFO level. It never fails the caller.
func (s *LogAuditSink) Record(ctx context.Context, event portssvc.AuditEvent) {
	attrs := []any{
		slog.String("audit_action", event.Action),
		slog.String("entity_type", event.EntityType),
		slog.String("entity_id", event.EntityID),
		slog.String("actor_id", event.ActorID),
		slog.Time("occurred_at", event.OccurredAt),
	}
	for k, v := range event.Detail {
		attrs = append(attrs, slog.String("detail_"+k, v))
	}
	middleware.GetLoggerFromCtx(ctx).Info("Audit event", attrs...)
}
