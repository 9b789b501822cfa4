package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset           AccountType = "ASSET"
	Liability       AccountType = "LIABILITY"
	Equity          AccountType = "EQUITY"
	Revenue         AccountType = "REVENUE"
	Expense         AccountType = "EXPENSE"
	ContraAsset     AccountType = "CONTRA_ASSET"
	ContraLiability AccountType = "CONTRA_LIABILITY"
	ContraEquity    AccountType = "CONTRA_EQUITY"
	ContraRevenue   AccountType = "CONTRA_REVENUE"
	ContraExpense   AccountType = "CONTRA_EXPENSE"
)

// NormalBalance indicates which side of the ledger increases an account.
type NormalBalance string

const (
	DebitNormal  NormalBalance = "DEBIT"
	CreditNormal NormalBalance = "CREDIT"
)

// AccountStatus is the lifecycle state of an account.
type AccountStatus string

const (
	AccountActive   AccountStatus = "ACTIVE"
	AccountArchived AccountStatus = "ARCHIVED"
)

// Account represents a ledger account from the chart of accounts.
// The posting engine only reads accounts; it never mutates them.
type Account struct {
	AccountID       string        `json:"accountID"`       // Primary Key (e.g., UUID)
	Code            string        `json:"code"`            // Unique short human code (e.g., "1100")
	Name            string        `json:"name"`            // User-defined name
	AccountType     AccountType   `json:"accountType"`     // ASSET, LIABILITY, etc.
	NormalBalance   NormalBalance `json:"normalBalance"`   // DEBIT or CREDIT
	ParentAccountID *string       `json:"parentAccountID"` // Nullable FK -> accounts.account_id (self-referencing)
	Level           int           `json:"level"`           // Hierarchy level, root = 1
	IsPostable      bool          `json:"isPostable"`      // Only postable accounts may receive journal lines
	Status          AccountStatus `json:"status"`          // ACTIVE or ARCHIVED
	BranchID        *string       `json:"branchID"`        // Nullable; nil means organization-wide
	AuditFields
}

// IsActive reports whether the account may participate in new postings.
func (a Account) IsActive() bool {
	return a.Status == AccountActive
}

// AcceptsPostings reports whether new journal lines may reference the account.
func (a Account) AcceptsPostings() bool {
	return a.IsPostable && a.IsActive()
}
