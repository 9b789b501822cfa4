package dto

import (
	"github.com/addisledger/gl_backend/internal/core/domain"
)

// AccountResponse defines the data returned for a ledger account.
type AccountResponse struct {
	AccountID     string  `json:"accountID"`
	Code          string  `json:"code"`
	Name          string  `json:"name"`
	AccountType   string  `json:"accountType"`
	NormalBalance string  `json:"normalBalance"`
	Level         int     `json:"level"`
	IsPostable    bool    `json:"isPostable"`
	Status        string  `json:"status"`
	BranchID      *string `json:"branchID,omitempty"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:     a.AccountID,
		Code:          a.Code,
		Name:          a.Name,
		AccountType:   string(a.AccountType),
		NormalBalance: string(a.NormalBalance),
		Level:         a.Level,
		IsPostable:    a.IsPostable,
		Status:        string(a.Status),
		BranchID:      a.BranchID,
	}
}
