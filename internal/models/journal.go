package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalStatus indicates the state of a journal row.
type JournalStatus string

const (
	Draft    JournalStatus = "DRAFT"
	Posted   JournalStatus = "POSTED"
	Voided   JournalStatus = "VOIDED"
	Reversed JournalStatus = "REVERSED"
)

// Journal is the persistence model for the journals table.
type Journal struct {
	JournalID    string          `json:"journalID"`
	JournalNo    string          `json:"journalNo"`
	JournalDate  time.Time       `json:"journalDate"`
	CurrencyCode string          `json:"currencyCode"`
	FxRate       decimal.Decimal `json:"fxRate"`
	Source       string          `json:"source"`
	Reference    string          `json:"reference"`
	Memo         string          `json:"memo"`
	BranchID     *string         `json:"branchID"`
	Status       JournalStatus   `json:"status"`
	PostedAt     *time.Time      `json:"postedAt"`
	PostedBy     *string         `json:"postedBy"`
	ExternalRef  *string         `json:"externalRef"`
	AuditFields
}

// JournalLine is the persistence model for the journal_lines table.
type JournalLine struct {
	LineID       string          `json:"lineID"`
	JournalID    string          `json:"journalID"`
	LineNo       int             `json:"lineNo"`
	AccountID    string          `json:"accountID"`
	BranchID     *string         `json:"branchID"`
	CostCenterID *string         `json:"costCenterID"`
	ProjectID    *string         `json:"projectID"`
	CustomerID   *string         `json:"customerID"`
	SupplierID   *string         `json:"supplierID"`
	ItemID       *string         `json:"itemID"`
	Memo         string          `json:"memo"`
	Debit        decimal.Decimal `json:"debit"`
	Credit       decimal.Decimal `json:"credit"`
	AuditFields
}
