package services

import (
	"fmt"
	"time"

	"github.com/addisledger/gl_backend/internal/core/domain"
)

// JournalValidator checks journals against the double-entry rules. It is
// pure: callers load the journal and its accounts, the validator only looks.
// Every method returns the complete list of problems rather than stopping at
// the first, so a caller can fix an entire journal in one round trip.
type JournalValidator struct{}

// NewJournalValidator creates a JournalValidator.
func NewJournalValidator() *JournalValidator {
	return &JournalValidator{}
}

// ValidateLine checks a single line against its account. account is nil when
// the referenced account does not exist.
func (v *JournalValidator) ValidateLine(line domain.JournalLine, account *domain.Account) []string {
	var problems []string

	if !line.HasSingleSide() {
		problems = append(problems, fmt.Sprintf(
			"line %d: exactly one of debit or credit must be positive (debit=%s, credit=%s)",
			line.LineNo, line.Debit.String(), line.Credit.String()))
	}
	if line.Debit.IsNegative() || line.Credit.IsNegative() {
		problems = append(problems, fmt.Sprintf("line %d: amounts must not be negative", line.LineNo))
	}

	switch {
	case account == nil:
		problems = append(problems, fmt.Sprintf("line %d: account %s does not exist", line.LineNo, line.AccountID))
	case !account.IsPostable:
		problems = append(problems, fmt.Sprintf(
			"line %d: account %s (%s) is a summary account and does not accept postings",
			line.LineNo, account.Code, account.Name))
	case !account.IsActive():
		problems = append(problems, fmt.Sprintf(
			"line %d: account %s (%s) is archived", line.LineNo, account.Code, account.Name))
	}

	return problems
}

// ValidateHeader checks journal-level rules that apply from creation onward.
func (v *JournalValidator) ValidateHeader(journal domain.Journal, now time.Time) []string {
	var problems []string

	if !journal.HasMinimumLines() {
		problems = append(problems, fmt.Sprintf(
			"journal must have at least 2 lines, got %d", len(journal.Lines)))
	}
	if journal.JournalDate.After(now) {
		problems = append(problems, fmt.Sprintf(
			"journal date %s is in the future", journal.JournalDate.Format("2006-01-02")))
	}
	if journal.FxRate.IsNegative() || journal.FxRate.IsZero() {
		problems = append(problems, "fx rate must be positive")
	}

	return problems
}

// ValidateForPosting runs the full rule set required before a DRAFT may become
// POSTED: header rules, every line rule, and exact balance of debits against
// credits. accounts is keyed by account ID; missing entries mean the account
// does not exist.
func (v *JournalValidator) ValidateForPosting(journal domain.Journal, accounts map[string]domain.Account, now time.Time) []string {
	problems := v.ValidateHeader(journal, now)

	for _, line := range journal.Lines {
		var account *domain.Account
		if acc, ok := accounts[line.AccountID]; ok {
			account = &acc
		}
		problems = append(problems, v.ValidateLine(line, account)...)
	}

	if !journal.IsBalanced() {
		problems = append(problems, fmt.Sprintf(
			"journal is not balanced: total debits %s do not equal total credits %s",
			journal.TotalDebits().String(), journal.TotalCredits().String()))
	}

	return problems
}
