package domain

import "github.com/shopspring/decimal"

// JournalLine is one side of a double-entry movement. Exactly one of Debit or
// Credit must be strictly positive; the other must be zero.
type JournalLine struct {
	LineID       string          `json:"lineID"`
	JournalID    string          `json:"journalID"`
	LineNo       int             `json:"lineNo"` // 1-based order within the journal
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

// HasSingleSide reports whether exactly one side carries a positive amount
// and the other is zero.
func (l JournalLine) HasSingleSide() bool {
	debitSet := l.Debit.IsPositive()
	creditSet := l.Credit.IsPositive()
	if debitSet == creditSet {
		return false
	}
	if debitSet {
		return l.Credit.IsZero()
	}
	return l.Debit.IsZero()
}

// Amount returns whichever side of the line is set.
func (l JournalLine) Amount() decimal.Decimal {
	if l.Debit.IsPositive() {
		return l.Debit
	}
	return l.Credit
}
