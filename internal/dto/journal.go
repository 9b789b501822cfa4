package dto

import (
	"time"

	"github.com/addisledger/gl_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateJournalLineRequest defines a single line in a journal creation request.
// Exactly one of debit/credit must be strictly positive; the service reports
// violations as validation problems rather than binding errors so the caller
// receives the complete list.
type CreateJournalLineRequest struct {
	AccountID    string           `json:"accountID" binding:"required"`
	BranchID     *string          `json:"branchID,omitempty"`
	CostCenterID *string          `json:"costCenterID,omitempty"`
	ProjectID    *string          `json:"projectID,omitempty"`
	CustomerID   *string          `json:"customerID,omitempty"`
	SupplierID   *string          `json:"supplierID,omitempty"`
	ItemID       *string          `json:"itemID,omitempty"`
	Memo         string           `json:"memo,omitempty"`
	Debit        *decimal.Decimal `json:"debit,omitempty"`
	Credit       *decimal.Decimal `json:"credit,omitempty"`
}

// CreateJournalRequest defines the payload for creating a DRAFT journal.
type CreateJournalRequest struct {
	JournalNo    *string                    `json:"journalNo,omitempty"` // Explicit unique number; auto-generated when absent
	JournalDate  time.Time                  `json:"journalDate" binding:"required"`
	CurrencyCode string                     `json:"currencyCode,omitempty" binding:"omitempty,len=3"`
	FxRate       *decimal.Decimal           `json:"fxRate,omitempty" binding:"omitempty,positivedecimal"`
	Source       *domain.JournalSource      `json:"source,omitempty" binding:"omitempty,oneof=MANUAL POS INVENTORY PAYROLL BANKING ADJUSTMENT OPENING"`
	Reference    string                     `json:"reference,omitempty"`
	Memo         string                     `json:"memo,omitempty"`
	BranchID     *string                    `json:"branchID,omitempty"`
	Lines        []CreateJournalLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// PostJournalRequest carries the optional idempotency token for posting.
// The token may also arrive via the Idempotency-Key header.
type PostJournalRequest struct {
	IdempotencyKey string `json:"idempotency_key,omitempty"`
}

// ReverseJournalRequest carries the reason for reversing a posted journal.
type ReverseJournalRequest struct {
	Reason string `json:"reason" binding:"required,min=5,max=500"`
}

// VoidJournalRequest carries the reason for voiding a draft journal.
type VoidJournalRequest struct {
	Reason string `json:"reason" binding:"required,min=5,max=500"`
}

// ListJournalsParams holds parameters for listing journals.
type ListJournalsParams struct {
	Limit            int     `form:"limit"`
	NextToken        *string `form:"nextToken"`
	IncludeReversals bool    `form:"includeReversals"`
	IncludeLines     bool    `form:"includeLines"`
}

// JournalLineResponse defines the data returned for a journal line.
type JournalLineResponse struct {
	LineID       string          `json:"lineID"`
	LineNo       int             `json:"lineNo"`
	AccountID    string          `json:"accountID"`
	BranchID     *string         `json:"branchID,omitempty"`
	CostCenterID *string         `json:"costCenterID,omitempty"`
	ProjectID    *string         `json:"projectID,omitempty"`
	CustomerID   *string         `json:"customerID,omitempty"`
	SupplierID   *string         `json:"supplierID,omitempty"`
	ItemID       *string         `json:"itemID,omitempty"`
	Memo         string          `json:"memo,omitempty"`
	Debit        decimal.Decimal `json:"debit"`
	Credit       decimal.Decimal `json:"credit"`
}

// JournalResponse defines the data returned for a journal entry.
type JournalResponse struct {
	JournalID    string                `json:"journalID"`
	JournalNo    string                `json:"journalNo"`
	JournalDate  time.Time             `json:"journalDate"`
	CurrencyCode string                `json:"currencyCode"`
	FxRate       decimal.Decimal       `json:"fxRate"`
	Source       string                `json:"source"`
	Reference    string                `json:"reference,omitempty"`
	Memo         string                `json:"memo,omitempty"`
	BranchID     *string               `json:"branchID,omitempty"`
	Status       string                `json:"status"`
	PostedAt     *time.Time            `json:"postedAt,omitempty"`
	PostedBy     *string               `json:"postedBy,omitempty"`
	ExternalRef  *string               `json:"externalRef,omitempty"`
	Lines        []JournalLineResponse `json:"lines,omitempty"`
	CreatedAt    time.Time             `json:"createdAt"`
	CreatedBy    string                `json:"createdBy"`
}

// ListJournalsResponse is the paginated listing payload.
type ListJournalsResponse struct {
	Journals  []JournalResponse `json:"journals"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ValidateDraftResponse carries the validator's full problem list.
type ValidateDraftResponse struct {
	JournalID string   `json:"journalID"`
	Valid     bool     `json:"valid"`
	Problems  []string `json:"problems"`
}

// ToJournalLineResponse converts a domain.JournalLine to its DTO.
func ToJournalLineResponse(l *domain.JournalLine) JournalLineResponse {
	return JournalLineResponse{
		LineID:       l.LineID,
		LineNo:       l.LineNo,
		AccountID:    l.AccountID,
		BranchID:     l.BranchID,
		CostCenterID: l.CostCenterID,
		ProjectID:    l.ProjectID,
		CustomerID:   l.CustomerID,
		SupplierID:   l.SupplierID,
		ItemID:       l.ItemID,
		Memo:         l.Memo,
		Debit:        l.Debit,
		Credit:       l.Credit,
	}
}

// ToJournalResponse converts a domain.Journal to JournalResponse DTO.
func ToJournalResponse(j *domain.Journal) JournalResponse {
	resp := JournalResponse{
		JournalID:    j.JournalID,
		JournalNo:    j.JournalNo,
		JournalDate:  j.JournalDate,
		CurrencyCode: j.CurrencyCode,
		FxRate:       j.FxRate,
		Source:       string(j.Source),
		Reference:    j.Reference,
		Memo:         j.Memo,
		BranchID:     j.BranchID,
		Status:       string(j.Status),
		PostedAt:     j.PostedAt,
		PostedBy:     j.PostedBy,
		ExternalRef:  j.ExternalRef,
		CreatedAt:    j.CreatedAt,
		CreatedBy:    j.CreatedBy,
	}
	if len(j.Lines) > 0 {
		resp.Lines = make([]JournalLineResponse, len(j.Lines))
		for i := range j.Lines {
			resp.Lines[i] = ToJournalLineResponse(&j.Lines[i])
		}
	}
	return resp
}
