package services

import (
	"context"

	"github.com/addisledger/gl_backend/internal/core/domain"
)

// AccountDirectorySvc is the read-only account directory consumed by the
// posting engine. Chart-of-accounts CRUD lives in a different system.
type AccountDirectorySvc interface {
	// GetAccountByID retrieves a single account.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// GetAccountsByIDs retrieves multiple accounts keyed by ID.
	GetAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)
}
