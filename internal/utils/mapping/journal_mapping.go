package mapping

import (
	"github.com/addisledger/gl_backend/internal/core/domain"
	"github.com/addisledger/gl_backend/internal/models"
)

// ToModelJournal converts a domain Journal to a model Journal
func ToModelJournal(d domain.Journal) models.Journal {
	return models.Journal{
		JournalID:    d.JournalID,
		JournalNo:    d.JournalNo,
		JournalDate:  d.JournalDate,
		CurrencyCode: d.CurrencyCode,
		FxRate:       d.FxRate,
		Source:       string(d.Source),
		Reference:    d.Reference,
		Memo:         d.Memo,
		BranchID:     d.BranchID,
		Status:       models.JournalStatus(d.Status),
		PostedAt:     d.PostedAt,
		PostedBy:     d.PostedBy,
		ExternalRef:  d.ExternalRef,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournal converts a model Journal to a domain Journal
func ToDomainJournal(m models.Journal) domain.Journal {
	return domain.Journal{
		JournalID:    m.JournalID,
		JournalNo:    m.JournalNo,
		JournalDate:  m.JournalDate,
		CurrencyCode: m.CurrencyCode,
		FxRate:       m.FxRate,
		Source:       domain.JournalSource(m.Source),
		Reference:    m.Reference,
		Memo:         m.Memo,
		BranchID:     m.BranchID,
		Status:       domain.JournalStatus(m.Status),
		PostedAt:     m.PostedAt,
		PostedBy:     m.PostedBy,
		ExternalRef:  m.ExternalRef,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelJournalLine converts a domain JournalLine to a model JournalLine
func ToModelJournalLine(d domain.JournalLine) models.JournalLine {
	return models.JournalLine{
		LineID:       d.LineID,
		JournalID:    d.JournalID,
		LineNo:       d.LineNo,
		AccountID:    d.AccountID,
		BranchID:     d.BranchID,
		CostCenterID: d.CostCenterID,
		ProjectID:    d.ProjectID,
		CustomerID:   d.CustomerID,
		SupplierID:   d.SupplierID,
		ItemID:       d.ItemID,
		Memo:         d.Memo,
		Debit:        d.Debit,
		Credit:       d.Credit,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournalLine converts a model JournalLine to a domain JournalLine
func ToDomainJournalLine(m models.JournalLine) domain.JournalLine {
	return domain.JournalLine{
		LineID:       m.LineID,
		JournalID:    m.JournalID,
		LineNo:       m.LineNo,
		AccountID:    m.AccountID,
		BranchID:     m.BranchID,
		CostCenterID: m.CostCenterID,
		ProjectID:    m.ProjectID,
		CustomerID:   m.CustomerID,
		SupplierID:   m.SupplierID,
		ItemID:       m.ItemID,
		Memo:         m.Memo,
		Debit:        m.Debit,
		Credit:       m.Credit,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainJournalLineSlice converts a slice of model JournalLines to domain JournalLines
func ToDomainJournalLineSlice(ms []models.JournalLine) []domain.JournalLine {
	ds := make([]domain.JournalLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainJournalLine(m)
	}
	return ds
}
