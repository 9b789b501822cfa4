package services

import (
	"fmt"
	"time"

	"github.com/addisledger/gl_backend/internal/core/domain"
	"github.com/google/uuid"
)

// BuildReversal derives the reversing journal for a posted original: every
// line's debit and credit are swapped, dimensional tags and line memos are
// carried over, and the new journal points back at the original through
// ExternalRef. The result is a DRAFT; the caller posts it and marks the
// original REVERSED within the same transaction.
func BuildReversal(original domain.Journal, reason string, actorUserID string, now time.Time) domain.Journal {
	reversal := domain.Journal{
		JournalID:    uuid.NewString(),
		JournalNo:    original.JournalNo + "-REV",
		JournalDate:  now,
		CurrencyCode: original.CurrencyCode,
		FxRate:       original.FxRate,
		Source:       domain.SourceAdjustment,
		Reference:    fmt.Sprintf("REVERSAL: %s", original.JournalNo),
		Memo:         fmt.Sprintf("Reversal of %s: %s", original.JournalNo, reason),
		BranchID:     original.BranchID,
		Status:       domain.Draft,
		ExternalRef:  &original.JournalID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorUserID,
		},
	}

	reversal.Lines = make([]domain.JournalLine, len(original.Lines))
	for i, line := range original.Lines {
		reversal.Lines[i] = domain.JournalLine{
			LineID:       uuid.NewString(),
			JournalID:    reversal.JournalID,
			LineNo:       line.LineNo,
			AccountID:    line.AccountID,
			BranchID:     line.BranchID,
			CostCenterID: line.CostCenterID,
			ProjectID:    line.ProjectID,
			CustomerID:   line.CustomerID,
			SupplierID:   line.SupplierID,
			ItemID:       line.ItemID,
			Memo:         line.Memo,
			Debit:        line.Credit,
			Credit:       line.Debit,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     actorUserID,
				LastUpdatedAt: now,
				LastUpdatedBy: actorUserID,
			},
		}
	}

	return reversal
}
