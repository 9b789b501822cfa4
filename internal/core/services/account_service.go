package services

import (
	"context"

	"github.com/addisledger/gl_backend/internal/core/domain"
	portsrepo "github.com/addisledger/gl_backend/internal/core/ports/repositories"
	portssvc "github.com/addisledger/gl_backend/internal/core/ports/services"
)

// AccountService exposes the read-only account directory.
type AccountService struct {
	accountRepo portsrepo.AccountReader
}

// NewAccountService creates an AccountService.
func NewAccountService(accountRepo portsrepo.AccountReader) *AccountService {
	return &AccountService{accountRepo: accountRepo}
}

var _ portssvc.AccountDirectorySvc = (*AccountService)(nil)

// GetAccountByID retrieves a single account.
func (s *AccountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	return s.accountRepo.FindAccountByID(ctx, accountID)
}

// GetAccountsByIDs retrieves multiple accounts keyed by ID.
func (s *AccountService) GetAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	return s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
}
