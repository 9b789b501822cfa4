package services_test

import (
	"testing"
	"time"

	"github.com/addisledger/gl_backend/internal/core/domain"
	"github.com/addisledger/gl_backend/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildReversal_SwapsSidesAndLinksBack(t *testing.T) {
	now := time.Date(2025, 7, 1, 9, 30, 0, 0, time.UTC)
	postedAt := now.AddDate(0, 0, -3)
	costCenter := "cc-9"
	original := domain.Journal{
		JournalID:    "j-orig",
		JournalNo:    "20250628001",
		JournalDate:  postedAt,
		CurrencyCode: "ETB",
		FxRate:       decimal.NewFromInt(1),
		Source:       domain.SourcePOS,
		Status:       domain.Posted,
		PostedAt:     &postedAt,
		Lines: []domain.JournalLine{
			{LineID: "l-1", JournalID: "j-orig", LineNo: 1, AccountID: "acc-1", Memo: "cash in", Debit: decimal.NewFromInt(250), Credit: decimal.Zero},
			{LineID: "l-2", JournalID: "j-orig", LineNo: 2, AccountID: "acc-2", CostCenterID: &costCenter, Debit: decimal.Zero, Credit: decimal.NewFromInt(250)},
		},
	}

	reversal := services.BuildReversal(original, "duplicate capture", "user-7", now)

	assert.NotEqual(t, original.JournalID, reversal.JournalID)
	assert.Equal(t, "20250628001-REV", reversal.JournalNo)
	assert.Equal(t, now, reversal.JournalDate)
	assert.Equal(t, domain.Draft, reversal.Status)
	assert.Equal(t, domain.SourceAdjustment, reversal.Source)
	assert.Equal(t, "ETB", reversal.CurrencyCode)
	assert.Equal(t, "REVERSAL: 20250628001", reversal.Reference)
	assert.Equal(t, "Reversal of 20250628001: duplicate capture", reversal.Memo)
	require.NotNil(t, reversal.ExternalRef)
	assert.Equal(t, "j-orig", *reversal.ExternalRef)

	require.Len(t, reversal.Lines, 2)
	first, second := reversal.Lines[0], reversal.Lines[1]

	// Sides swapped, everything else carried over.
	assert.True(t, first.Debit.IsZero())
	assert.True(t, first.Credit.Equal(decimal.NewFromInt(250)))
	assert.Equal(t, "acc-1", first.AccountID)
	assert.Equal(t, "cash in", first.Memo)

	assert.True(t, second.Credit.IsZero())
	assert.True(t, second.Debit.Equal(decimal.NewFromInt(250)))
	assert.Equal(t, "acc-2", second.AccountID)
	require.NotNil(t, second.CostCenterID)
	assert.Equal(t, "cc-9", *second.CostCenterID)

	// Lines belong to the new journal with fresh IDs.
	assert.Equal(t, reversal.JournalID, first.JournalID)
	assert.NotEqual(t, "l-1", first.LineID)
	assert.Equal(t, 1, first.LineNo)
	assert.Equal(t, 2, second.LineNo)
}

func TestBuildReversal_ReversalIsBalancedWhenOriginalIs(t *testing.T) {
	now := time.Now().UTC()
	original := domain.Journal{
		JournalID: "j-1",
		JournalNo: "20250101001",
		Status:    domain.Posted,
		FxRate:    decimal.NewFromInt(1),
		Lines: []domain.JournalLine{
			{LineNo: 1, AccountID: "a", Debit: decimal.NewFromFloat(99.99)},
			{LineNo: 2, AccountID: "b", Credit: decimal.NewFromFloat(66.66)},
			{LineNo: 3, AccountID: "c", Credit: decimal.NewFromFloat(33.33)},
		},
	}

	reversal := services.BuildReversal(original, "entered twice", "user-1", now)

	assert.True(t, reversal.IsBalanced())
	assert.True(t, reversal.TotalCredits().Equal(decimal.NewFromFloat(99.99)))
}
