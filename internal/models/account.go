package models

// Account is the persistence model for the accounts table.
// The posting engine reads accounts only.
type Account struct {
	AccountID       string  `json:"accountID"`
	Code            string  `json:"code"`
	Name            string  `json:"name"`
	AccountType     string  `json:"accountType"`
	NormalBalance   string  `json:"normalBalance"`
	ParentAccountID *string `json:"parentAccountID"`
	Level           int     `json:"level"`
	IsPostable      bool    `json:"isPostable"`
	Status          string  `json:"status"`
	BranchID        *string `json:"branchID"`
	AuditFields
}
