package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalStatus indicates the state of a journal entry.
type JournalStatus string

const (
	Draft    JournalStatus = "DRAFT"
	Posted   JournalStatus = "POSTED"
	Voided   JournalStatus = "VOIDED"
	Reversed JournalStatus = "REVERSED"
)

// JournalSource tags the origin of a journal.
type JournalSource string

const (
	SourceManual     JournalSource = "MANUAL"
	SourcePOS        JournalSource = "POS"
	SourceInventory  JournalSource = "INVENTORY"
	SourcePayroll    JournalSource = "PAYROLL"
	SourceBanking    JournalSource = "BANKING"
	SourceAdjustment JournalSource = "ADJUSTMENT"
	SourceOpening    JournalSource = "OPENING"
)

// Journal represents a single double-entry financial event composed of
// multiple lines. A journal starts life as a mutable DRAFT; once POSTED it is
// immutable history, referenced only by a later reversal.
type Journal struct {
	JournalID    string          `json:"journalID"`    // Primary Key (e.g., UUID)
	JournalNo    string          `json:"journalNo"`    // Unique human-readable number (date-seeded sequence)
	JournalDate  time.Time       `json:"journalDate"`  // Date the event occurred
	CurrencyCode string          `json:"currencyCode"` // ISO 4217
	FxRate       decimal.Decimal `json:"fxRate"`       // Defaults to 1.0
	Source       JournalSource   `json:"source"`
	Reference    string          `json:"reference"` // Free text
	Memo         string          `json:"memo"`
	BranchID     *string         `json:"branchID"`    // Nullable
	Status       JournalStatus   `json:"status"`
	PostedAt     *time.Time      `json:"postedAt"`    // Set on transition to POSTED
	PostedBy     *string         `json:"postedBy"`    // Acting actor at posting time
	ExternalRef  *string         `json:"externalRef"` // Cross-link between a journal and its reversal
	Lines        []JournalLine   `json:"lines,omitempty"`
	AuditFields
}

// IsDraft reports whether the journal is still mutable.
func (j Journal) IsDraft() bool {
	return j.Status == Draft
}

// IsPosted reports whether the journal is committed history.
func (j Journal) IsPosted() bool {
	return j.Status == Posted
}

// CanPost reports whether a DRAFT->POSTED transition is permitted.
func (j Journal) CanPost() bool {
	return j.Status == Draft
}

// CanVoid reports whether a DRAFT->VOIDED transition is permitted.
func (j Journal) CanVoid() bool {
	return j.Status == Draft
}

// CanReverse reports whether a POSTED->REVERSED transition is permitted.
func (j Journal) CanReverse() bool {
	return j.Status == Posted
}

// HasMinimumLines reports whether the journal carries at least two lines.
func (j Journal) HasMinimumLines() bool {
	return len(j.Lines) >= 2
}

// TotalDebits sums the debit side of all lines.
func (j Journal) TotalDebits() decimal.Decimal {
	sum := decimal.Zero
	for _, line := range j.Lines {
		sum = sum.Add(line.Debit)
	}
	return sum
}

// TotalCredits sums the credit side of all lines.
func (j Journal) TotalCredits() decimal.Decimal {
	sum := decimal.Zero
	for _, line := range j.Lines {
		sum = sum.Add(line.Credit)
	}
	return sum
}

// IsBalanced reports exact decimal equality of debit and credit totals.
func (j Journal) IsBalanced() bool {
	return j.TotalDebits().Equal(j.TotalCredits())
}
