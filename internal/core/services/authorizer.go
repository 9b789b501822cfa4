package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/addisledger/gl_backend/internal/apperrors"
	portssvc "github.com/addisledger/gl_backend/internal/core/ports/services"
)

// StaticAuthorizer grants every journal capability to any authenticated
// actor. RBAC lives in a separate system; this implementation keeps the
// capability checks in the call path so a real authorizer can be swapped in
// without touching the services. Denials, when configured, are cached per
// actor until invalidated.
type StaticAuthorizer struct {
	mu     sync.RWMutex
	denied map[string]map[string]struct{} // actorUserID -> capabilities denied
}

// NewStaticAuthorizer creates a StaticAuthorizer that allows everything.
func NewStaticAuthorizer() *StaticAuthorizer {
	return &StaticAuthorizer{denied: make(map[string]map[string]struct{})}
}

var _ portssvc.Authorizer = (*StaticAuthorizer)(nil)

// Authorize returns nil unless the capability has been explicitly denied for
// the actor. An empty actor is always rejected.
func (a *StaticAuthorizer) Authorize(_ context.Context, actorUserID string, capability string) error {
	if actorUserID == "" {
		return fmt.Errorf("missing acting user for capability %s: %w", capability, apperrors.ErrForbidden)
	}

	a.mu.RLock()
	defer a.mu.RUnlock()
	if caps, ok := a.denied[actorUserID]; ok {
		if _, deniedCap := caps[capability]; deniedCap {
			return fmt.Errorf("user %s lacks capability %s: %w", actorUserID, capability, apperrors.ErrForbidden)
		}
	}
	return nil
}

// Deny marks a capability as denied for an actor. Used by tests and by
// operational tooling to fence an actor out without a deploy.
func (a *StaticAuthorizer) Deny(actorUserID string, capability string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.denied[actorUserID] == nil {
		a.denied[actorUserID] = make(map[string]struct{})
	}
	a.denied[actorUserID][capability] = struct{}{}
}

// InvalidateActor drops all cached denials for the actor.
func (a *StaticAuthorizer) InvalidateActor(_ context.Context, actorUserID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.denied, actorUserID)
	return nil
}
