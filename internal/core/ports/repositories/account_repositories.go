package repositories

import (
	"context"

	"github.com/addisledger/gl_backend/internal/core/domain"
)

// AccountReader defines read operations over the chart of accounts.
// The posting engine never writes accounts, so there is no writer interface.
type AccountReader interface {
	// FindAccountByID retrieves a single account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts keyed by account ID.
	// Missing IDs are simply absent from the map; callers decide whether
	// that is a validation problem.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)
}
