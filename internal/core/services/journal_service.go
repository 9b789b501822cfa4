package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/addisledger/gl_backend/internal/apperrors"
	"github.com/addisledger/gl_backend/internal/core/domain"
	portsrepo "github.com/addisledger/gl_backend/internal/core/ports/repositories"
	portssvc "github.com/addisledger/gl_backend/internal/core/ports/services"
	"github.com/addisledger/gl_backend/internal/dto"
	"github.com/addisledger/gl_backend/internal/middleware"
	"github.com/addisledger/gl_backend/internal/platform/clock"
	"github.com/addisledger/gl_backend/internal/utils/fingerprint"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// Capabilities checked before each posting-engine operation.
const (
	CapJournalRead    = "gl.journal.read"
	CapJournalCreate  = "gl.journal.create"
	CapJournalPost    = "gl.journal.post"
	CapJournalReverse = "gl.journal.reverse"
	CapJournalVoid    = "gl.journal.void"
)

// postScope is the idempotency scope for journal posting.
const postScope = "gl.post"

// JournalService implements the posting engine's journal operations. Every
// state transition runs in a single database transaction under an exclusive
// row lock on the journal, so concurrent transitions on the same journal
// serialize at the database.
type JournalService struct {
	journalRepo     portsrepo.JournalRepositoryWithTx
	accountRepo     portsrepo.AccountReader
	validator       *JournalValidator
	idempotency     portssvc.IdempotencyRunnerSvc
	authorizer      portssvc.Authorizer
	audit           portssvc.AuditSink
	clock           clock.Clock
	defaultCurrency string
}

// NewJournalService creates a JournalService.
func NewJournalService(
	journalRepo portsrepo.JournalRepositoryWithTx,
	accountRepo portsrepo.AccountReader,
	validator *JournalValidator,
	idempotency portssvc.IdempotencyRunnerSvc,
	authorizer portssvc.Authorizer,
	audit portssvc.AuditSink,
	clk clock.Clock,
	defaultCurrency string,
) *JournalService {
	return &JournalService{
		journalRepo:     journalRepo,
		accountRepo:     accountRepo,
		validator:       validator,
		idempotency:     idempotency,
		authorizer:      authorizer,
		audit:           audit,
		clock:           clk,
		defaultCurrency: defaultCurrency,
	}
}

var _ portssvc.JournalSvcFacade = (*JournalService)(nil)

// CreateJournal persists a new DRAFT journal. Line-level rules and header
// rules are enforced here; balance is deliberately not checked, an unbalanced
// draft is legal until posting is attempted.
func (s *JournalService) CreateJournal(ctx context.Context, req dto.CreateJournalRequest, creatorUserID string) (*domain.Journal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.authorizer.Authorize(ctx, creatorUserID, CapJournalCreate); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	journal := s.buildJournal(req, creatorUserID, now)

	accounts, err := s.loadLineAccounts(ctx, journal.Lines)
	if err != nil {
		return nil, err
	}

	problems := s.validator.ValidateHeader(journal, now)
	for _, line := range journal.Lines {
		var account *domain.Account
		if acc, ok := accounts[line.AccountID]; ok {
			account = &acc
		}
		problems = append(problems, s.validator.ValidateLine(line, account)...)
	}
	if len(problems) > 0 {
		return nil, apperrors.NewValidationFailed(problems)
	}

	tx, err := s.journalRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = s.journalRepo.Rollback(ctx, tx) }()

	if journal.JournalNo == "" {
		journalNo, err := s.journalRepo.NextJournalNo(ctx, tx, journal.JournalDate)
		if err != nil {
			return nil, err
		}
		journal.JournalNo = journalNo
	}

	if err := s.journalRepo.SaveJournal(ctx, tx, journal, journal.Lines); err != nil {
		return nil, err
	}
	if err := s.journalRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	logger.Info("Journal created",
		slog.String("journal_id", journal.JournalID),
		slog.String("journal_no", journal.JournalNo))
	s.audit.Record(ctx, portssvc.AuditEvent{
		Action:     "gl.journal.created",
		EntityType: "journal",
		EntityID:   journal.JournalID,
		ActorID:    creatorUserID,
		OccurredAt: now,
		Detail:     map[string]string{"journal_no": journal.JournalNo},
	})

	return &journal, nil
}

// buildJournal materializes the domain journal from the request, applying
// defaults for currency, fx rate and source.
func (s *JournalService) buildJournal(req dto.CreateJournalRequest, creatorUserID string, now time.Time) domain.Journal {
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     creatorUserID,
		LastUpdatedAt: now,
		LastUpdatedBy: creatorUserID,
	}

	journal := domain.Journal{
		JournalID:    uuid.NewString(),
		JournalDate:  req.JournalDate,
		CurrencyCode: req.CurrencyCode,
		FxRate:       decimal.NewFromInt(1),
		Source:       domain.SourceManual,
		Reference:    req.Reference,
		Memo:         req.Memo,
		BranchID:     req.BranchID,
		Status:       domain.Draft,
		AuditFields:  audit,
	}
	if req.JournalNo != nil {
		journal.JournalNo = *req.JournalNo
	}
	if journal.CurrencyCode == "" {
		journal.CurrencyCode = s.defaultCurrency
	}
	if req.FxRate != nil {
		journal.FxRate = *req.FxRate
	}
	if req.Source != nil {
		journal.Source = *req.Source
	}

	journal.Lines = make([]domain.JournalLine, len(req.Lines))
	for i, lineReq := range req.Lines {
		line := domain.JournalLine{
			LineID:       uuid.NewString(),
			JournalID:    journal.JournalID,
			LineNo:       i + 1,
			AccountID:    lineReq.AccountID,
			BranchID:     lineReq.BranchID,
			CostCenterID: lineReq.CostCenterID,
			ProjectID:    lineReq.ProjectID,
			CustomerID:   lineReq.CustomerID,
			SupplierID:   lineReq.SupplierID,
			ItemID:       lineReq.ItemID,
			Memo:         lineReq.Memo,
			Debit:        decimal.Zero,
			Credit:       decimal.Zero,
			AuditFields:  audit,
		}
		if lineReq.Debit != nil {
			line.Debit = *lineReq.Debit
		}
		if lineReq.Credit != nil {
			line.Credit = *lineReq.Credit
		}
		journal.Lines[i] = line
	}

	return journal
}

// PostJournal transitions a DRAFT journal to POSTED. With an idempotency
// token the transition runs under the (scope, key) guard; retries with the
// same token replay the stored outcome instead of posting twice.
func (s *JournalService) PostJournal(ctx context.Context, journalID string, idempotencyToken string, actorUserID string) (*domain.Journal, error) {
	logger := middleware.GetLoggerFromCtx(ctx).With(slog.String("journal_id", journalID))

	if err := s.authorizer.Authorize(ctx, actorUserID, CapJournalPost); err != nil {
		return nil, err
	}

	if idempotencyToken == "" {
		return s.postDirect(ctx, logger, journalID, actorUserID)
	}
	return s.postGuarded(ctx, logger, journalID, idempotencyToken, actorUserID)
}

// postDirect posts without an idempotency guard, in its own transaction.
func (s *JournalService) postDirect(ctx context.Context, logger *slog.Logger, journalID, actorUserID string) (*domain.Journal, error) {
	tx, err := s.journalRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = s.journalRepo.Rollback(ctx, tx) }()

	journal, err := s.postInTx(ctx, tx, journalID, actorUserID)
	if err != nil {
		return nil, err
	}
	if err := s.journalRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	s.afterPost(ctx, logger, journal, actorUserID)
	return journal, nil
}

// postGuarded posts under the idempotency coordinator. The guard transaction
// carries both the posting writes and the idempotency record.
func (s *JournalService) postGuarded(ctx context.Context, logger *slog.Logger, journalID, idempotencyToken, actorUserID string) (*domain.Journal, error) {
	scope, key := splitIdempotencyToken(idempotencyToken)
	requestHash, err := fingerprint.Hash(map[string]string{
		"operation":  postScope,
		"journal_id": journalID,
	})
	if err != nil {
		return nil, err
	}

	var posted *domain.Journal
	snapshot, replayed, err := s.idempotency.Run(ctx, scope, key, requestHash,
		func(opCtx context.Context, tx pgx.Tx) (any, error) {
			journal, err := s.postInTx(opCtx, tx, journalID, actorUserID)
			if err != nil {
				return nil, err
			}
			posted = journal
			return dto.ToJournalResponse(journal), nil
		})
	if err != nil {
		return nil, err
	}

	if replayed {
		logger.Info("Post replayed from idempotency snapshot", slog.String("idempotency_key", key))
		return s.journalFromSnapshot(ctx, snapshot, journalID)
	}

	s.afterPost(ctx, logger, posted, actorUserID)
	return posted, nil
}

// journalFromSnapshot resolves the journal referenced by a replayed snapshot.
// The live row is authoritative; the snapshot only identifies it.
func (s *JournalService) journalFromSnapshot(ctx context.Context, snapshot json.RawMessage, fallbackID string) (*domain.Journal, error) {
	var stored dto.JournalResponse
	journalID := fallbackID
	if err := json.Unmarshal(snapshot, &stored); err == nil && stored.JournalID != "" {
		journalID = stored.JournalID
	}
	return s.GetJournalByID(ctx, journalID)
}

// postInTx performs the DRAFT -> POSTED transition inside tx: lock, gate on
// status, validate fully, stamp.
func (s *JournalService) postInTx(ctx context.Context, tx pgx.Tx, journalID, actorUserID string) (*domain.Journal, error) {
	journal, err := s.journalRepo.FindJournalByIDForUpdate(ctx, tx, journalID)
	if err != nil {
		return nil, err
	}

	if !journal.CanPost() {
		return nil, apperrors.NewIllegalTransition("post", string(journal.Status), "journal is not in DRAFT status")
	}

	accounts, err := s.loadLineAccounts(ctx, journal.Lines)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if problems := s.validator.ValidateForPosting(*journal, accounts, now); len(problems) > 0 {
		return nil, apperrors.NewValidationFailed(problems)
	}

	if err := s.journalRepo.UpdateJournalStatus(ctx, tx, journalID, domain.Posted, &now, &actorUserID, actorUserID, now); err != nil {
		return nil, err
	}

	journal.Status = domain.Posted
	journal.PostedAt = &now
	journal.PostedBy = &actorUserID
	journal.LastUpdatedAt = now
	journal.LastUpdatedBy = actorUserID
	return journal, nil
}

func (s *JournalService) afterPost(ctx context.Context, logger *slog.Logger, journal *domain.Journal, actorUserID string) {
	logger.Info("Journal posted", slog.String("journal_no", journal.JournalNo))
	s.audit.Record(ctx, portssvc.AuditEvent{
		Action:     "gl.journal.posted",
		EntityType: "journal",
		EntityID:   journal.JournalID,
		ActorID:    actorUserID,
		OccurredAt: s.clock.Now(),
		Detail:     map[string]string{"journal_no": journal.JournalNo},
	})
}

// ReverseJournal creates the reversing journal for a POSTED original, posts
// it, and marks the original REVERSED. One transaction covers all three
// writes so the ledger never shows a half-reversed state.
func (s *JournalService) ReverseJournal(ctx context.Context, journalID string, reason string, actorUserID string) (*domain.Journal, error) {
	logger := middleware.GetLoggerFromCtx(ctx).With(slog.String("journal_id", journalID))

	if err := s.authorizer.Authorize(ctx, actorUserID, CapJournalReverse); err != nil {
		return nil, err
	}

	tx, err := s.journalRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = s.journalRepo.Rollback(ctx, tx) }()

	original, err := s.journalRepo.FindJournalByIDForUpdate(ctx, tx, journalID)
	if err != nil {
		return nil, err
	}
	if !original.CanReverse() {
		return nil, apperrors.NewIllegalTransition("reverse", string(original.Status), "only posted journals can be reversed")
	}

	now := s.clock.Now()
	reversal := BuildReversal(*original, reason, actorUserID, now)
	reversal.Status = domain.Posted
	reversal.PostedAt = &now
	reversal.PostedBy = &actorUserID

	if err := s.journalRepo.SaveJournal(ctx, tx, reversal, reversal.Lines); err != nil {
		return nil, err
	}
	if err := s.journalRepo.UpdateJournalStatus(ctx, tx, original.JournalID, domain.Reversed, nil, nil, actorUserID, now); err != nil {
		return nil, err
	}
	if err := s.journalRepo.UpdateJournalExternalRef(ctx, tx, original.JournalID, reversal.JournalID, actorUserID, now); err != nil {
		return nil, err
	}
	if err := s.journalRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	logger.Info("Journal reversed",
		slog.String("journal_no", original.JournalNo),
		slog.String("reversal_journal_id", reversal.JournalID))
	s.audit.Record(ctx, portssvc.AuditEvent{
		Action:     "gl.journal.reversed",
		EntityType: "journal",
		EntityID:   original.JournalID,
		ActorID:    actorUserID,
		OccurredAt: now,
		Detail: map[string]string{
			"journal_no":          original.JournalNo,
			"reversal_journal_id": reversal.JournalID,
			"reason":              reason,
		},
	})

	return &reversal, nil
}

// VoidJournal transitions a DRAFT journal to VOIDED, keeping the row for the
// audit trail with the reason appended to the memo.
func (s *JournalService) VoidJournal(ctx context.Context, journalID string, reason string, actorUserID string) (*domain.Journal, error) {
	logger := middleware.GetLoggerFromCtx(ctx).With(slog.String("journal_id", journalID))

	if err := s.authorizer.Authorize(ctx, actorUserID, CapJournalVoid); err != nil {
		return nil, err
	}

	tx, err := s.journalRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = s.journalRepo.Rollback(ctx, tx) }()

	journal, err := s.journalRepo.FindJournalByIDForUpdate(ctx, tx, journalID)
	if err != nil {
		return nil, err
	}
	if !journal.CanVoid() {
		return nil, apperrors.NewIllegalTransition("void", string(journal.Status), "only draft journals can be voided")
	}

	now := s.clock.Now()
	memo := journal.Memo
	if memo != "" {
		memo += " | "
	}
	memo += "VOIDED: " + reason

	if err := s.journalRepo.UpdateJournalMemo(ctx, tx, journalID, memo, actorUserID, now); err != nil {
		return nil, err
	}
	if err := s.journalRepo.UpdateJournalStatus(ctx, tx, journalID, domain.Voided, nil, nil, actorUserID, now); err != nil {
		return nil, err
	}
	if err := s.journalRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	journal.Status = domain.Voided
	journal.Memo = memo
	journal.LastUpdatedAt = now
	journal.LastUpdatedBy = actorUserID

	logger.Info("Journal voided", slog.String("journal_no", journal.JournalNo))
	s.audit.Record(ctx, portssvc.AuditEvent{
		Action:     "gl.journal.voided",
		EntityType: "journal",
		EntityID:   journal.JournalID,
		ActorID:    actorUserID,
		OccurredAt: now,
		Detail:     map[string]string{"journal_no": journal.JournalNo, "reason": reason},
	})

	return journal, nil
}

// GetJournalByID retrieves a journal with its lines.
func (s *JournalService) GetJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	journal, err := s.journalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		return nil, err
	}
	lines, err := s.journalRepo.FindLinesByJournalID(ctx, journalID)
	if err != nil {
		return nil, err
	}
	journal.Lines = lines
	return journal, nil
}

// ListJournals retrieves a paginated journal listing.
func (s *JournalService) ListJournals(ctx context.Context, params dto.ListJournalsParams) (*dto.ListJournalsResponse, error) {
	journals, nextToken, err := s.journalRepo.ListJournals(ctx, params.Limit, params.NextToken, params.IncludeReversals)
	if err != nil {
		return nil, err
	}

	resp := &dto.ListJournalsResponse{
		Journals:  make([]dto.JournalResponse, len(journals)),
		NextToken: nextToken,
	}
	for i := range journals {
		if params.IncludeLines {
			lines, err := s.journalRepo.FindLinesByJournalID(ctx, journals[i].JournalID)
			if err != nil {
				return nil, err
			}
			journals[i].Lines = lines
		}
		resp.Journals[i] = dto.ToJournalResponse(&journals[i])
	}
	return resp, nil
}

// ValidateDraft runs posting validation over a draft journal without mutating
// anything, returning the full problem list.
func (s *JournalService) ValidateDraft(ctx context.Context, journalID string) ([]string, error) {
	journal, err := s.GetJournalByID(ctx, journalID)
	if err != nil {
		return nil, err
	}
	if !journal.IsDraft() {
		return nil, apperrors.NewIllegalTransition("validate", string(journal.Status), "only draft journals can be validated")
	}

	accounts, err := s.loadLineAccounts(ctx, journal.Lines)
	if err != nil {
		return nil, err
	}
	return s.validator.ValidateForPosting(*journal, accounts, s.clock.Now()), nil
}

// loadLineAccounts loads every distinct account referenced by the lines.
func (s *JournalService) loadLineAccounts(ctx context.Context, lines []domain.JournalLine) (map[string]domain.Account, error) {
	seen := make(map[string]struct{}, len(lines))
	ids := make([]string, 0, len(lines))
	for _, line := range lines {
		if _, ok := seen[line.AccountID]; ok {
			continue
		}
		seen[line.AccountID] = struct{}{}
		ids = append(ids, line.AccountID)
	}
	return s.accountRepo.FindAccountsByIDs(ctx, ids)
}

// splitIdempotencyToken splits a "scope:key" token; a bare key falls into the
// posting scope.
func splitIdempotencyToken(token string) (scope, key string) {
	if i := strings.IndexByte(token, ':'); i > 0 {
		return token[:i], token[i+1:]
	}
	return postScope, token
}
