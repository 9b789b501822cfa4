package services_test

import (
	"strings"
	"testing"
	"time"

	"github.com/addisledger/gl_backend/internal/core/domain"
	"github.com/addisledger/gl_backend/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func activeAccount(id, code string) domain.Account {
	return domain.Account{
		AccountID:     id,
		Code:          code,
		Name:          "Account " + code,
		AccountType:   domain.Asset,
		NormalBalance: domain.DebitNormal,
		Level:         2,
		IsPostable:    true,
		Status:        domain.AccountActive,
	}
}

func balancedJournal(accountA, accountB string) domain.Journal {
	return domain.Journal{
		JournalID:   "j-1",
		JournalDate: testNow.AddDate(0, 0, -1),
		FxRate:      decimal.NewFromInt(1),
		Status:      domain.Draft,
		Lines: []domain.JournalLine{
			{LineNo: 1, AccountID: accountA, Debit: decimal.NewFromInt(100), Credit: decimal.Zero},
			{LineNo: 2, AccountID: accountB, Debit: decimal.Zero, Credit: decimal.NewFromInt(100)},
		},
	}
}

func TestValidateForPosting_CleanJournal(t *testing.T) {
	v := services.NewJournalValidator()
	journal := balancedJournal("acc-1", "acc-2")
	accounts := map[string]domain.Account{
		"acc-1": activeAccount("acc-1", "1100"),
		"acc-2": activeAccount("acc-2", "2100"),
	}

	problems := v.ValidateForPosting(journal, accounts, testNow)
	assert.Empty(t, problems)
}

func TestValidateForPosting_UnbalancedReportsBothTotals(t *testing.T) {
	v := services.NewJournalValidator()
	journal := balancedJournal("acc-1", "acc-2")
	journal.Lines[1].Credit = decimal.NewFromInt(60)
	accounts := map[string]domain.Account{
		"acc-1": activeAccount("acc-1", "1100"),
		"acc-2": activeAccount("acc-2", "2100"),
	}

	problems := v.ValidateForPosting(journal, accounts, testNow)
	assert.Len(t, problems, 1)
	assert.Contains(t, problems[0], "100")
	assert.Contains(t, problems[0], "60")
	assert.Contains(t, problems[0], "not balanced")
}

func TestValidateForPosting_CollectsAllProblems(t *testing.T) {
	v := services.NewJournalValidator()

	archived := activeAccount("acc-3", "3100")
	archived.Status = domain.AccountArchived
	summary := activeAccount("acc-4", "4000")
	summary.IsPostable = false

	journal := domain.Journal{
		JournalID:   "j-2",
		JournalDate: testNow.AddDate(0, 0, 2), // future
		FxRate:      decimal.NewFromInt(1),
		Status:      domain.Draft,
		Lines: []domain.JournalLine{
			// Both sides set.
			{LineNo: 1, AccountID: "acc-1", Debit: decimal.NewFromInt(10), Credit: decimal.NewFromInt(10)},
			// Unknown account.
			{LineNo: 2, AccountID: "acc-missing", Credit: decimal.NewFromInt(10)},
			// Archived account.
			{LineNo: 3, AccountID: "acc-3", Debit: decimal.NewFromInt(5)},
			// Non-postable summary account.
			{LineNo: 4, AccountID: "acc-4", Credit: decimal.NewFromInt(5)},
		},
	}
	accounts := map[string]domain.Account{
		"acc-1": activeAccount("acc-1", "1100"),
		"acc-3": archived,
		"acc-4": summary,
	}

	problems := v.ValidateForPosting(journal, accounts, testNow)

	// One problem per broken rule, all reported together.
	assert.Len(t, problems, 6)
	assertAnyContains(t, problems, "in the future")
	assertAnyContains(t, problems, "line 1: exactly one of debit or credit")
	assertAnyContains(t, problems, "line 2: account acc-missing does not exist")
	assertAnyContains(t, problems, "line 3: account 3100")
	assertAnyContains(t, problems, "line 4: account 4000")
	assertAnyContains(t, problems, "not balanced")
}

func TestValidateHeader_RejectsTooFewLines(t *testing.T) {
	v := services.NewJournalValidator()
	journal := domain.Journal{
		JournalDate: testNow,
		FxRate:      decimal.NewFromInt(1),
		Lines:       []domain.JournalLine{{LineNo: 1, AccountID: "acc-1", Debit: decimal.NewFromInt(10)}},
	}

	problems := v.ValidateHeader(journal, testNow)
	assert.Len(t, problems, 1)
	assert.Contains(t, problems[0], "at least 2 lines")
}

func TestValidateHeader_RejectsNonPositiveFxRate(t *testing.T) {
	v := services.NewJournalValidator()
	journal := balancedJournal("acc-1", "acc-2")
	journal.FxRate = decimal.Zero

	problems := v.ValidateHeader(journal, testNow)
	assert.Len(t, problems, 1)
	assert.Contains(t, problems[0], "fx rate")
}

func TestValidateLine_ZeroAmountLine(t *testing.T) {
	v := services.NewJournalValidator()
	acc := activeAccount("acc-1", "1100")
	line := domain.JournalLine{LineNo: 1, AccountID: "acc-1", Debit: decimal.Zero, Credit: decimal.Zero}

	problems := v.ValidateLine(line, &acc)
	assert.Len(t, problems, 1)
	assert.Contains(t, problems[0], "exactly one of debit or credit")
}

func assertAnyContains(t *testing.T, problems []string, substr string) {
	t.Helper()
	for _, p := range problems {
		if strings.Contains(p, substr) {
			return
		}
	}
	t.Errorf("no problem contains %q in %v", substr, problems)
}
