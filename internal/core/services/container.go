package services

import (
	portsrepo "github.com/addisledger/gl_backend/internal/core/ports/repositories"
	portssvc "github.com/addisledger/gl_backend/internal/core/ports/services"
	"github.com/addisledger/gl_backend/internal/platform/clock"
)

// NewServiceContainer wires all services over the repository provider.
func NewServiceContainer(repos portsrepo.RepositoryProvider, clk clock.Clock, defaultCurrency string) *portssvc.ServiceContainer {
	authorizer := NewStaticAuthorizer()
	audit := NewLogAuditSink()
	validator := NewJournalValidator()
	idempotency := NewIdempotencyService(repos.IdempotencyRepo, clk)
	journal := NewJournalService(
		repos.JournalRepo,
		repos.AccountRepo,
		validator,
		idempotency,
		authorizer,
		audit,
		clk,
		defaultCurrency,
	)
	account := NewAccountService(repos.AccountRepo)

	return &portssvc.ServiceContainer{
		Journal:     journal,
		Account:     account,
		Idempotency: idempotency,
	}
}
