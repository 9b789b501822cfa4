package mapping

import (
	"github.com/addisledger/gl_backend/internal/core/domain"
	"github.com/addisledger/gl_backend/internal/models"
)

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:       m.AccountID,
		Code:            m.Code,
		Name:            m.Name,
		AccountType:     domain.AccountType(m.AccountType),
		NormalBalance:   domain.NormalBalance(m.NormalBalance),
		ParentAccountID: m.ParentAccountID,
		Level:           m.Level,
		IsPostable:      m.IsPostable,
		Status:          domain.AccountStatus(m.Status),
		BranchID:        m.BranchID,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}
