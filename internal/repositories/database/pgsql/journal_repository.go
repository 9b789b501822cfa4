package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/addisledger/gl_backend/internal/apperrors"
	"github.com/addisledger/gl_backend/internal/core/domain"
	portsrepo "github.com/addisledger/gl_backend/internal/core/ports/repositories"
	"github.com/addisledger/gl_backend/internal/models"
	"github.com/addisledger/gl_backend/internal/utils/mapping"
	"github.com/addisledger/gl_backend/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const journalColumns = `journal_id, journal_no, journal_date, currency_code, fx_rate, source, reference, memo, branch_id, status, posted_at, posted_by, external_ref, created_at, created_by, last_updated_at, last_updated_by`

const lineColumns = `line_id, journal_id, line_no, account_id, branch_id, cost_center_id, project_id, customer_id, supplier_id, item_id, memo, debit, credit, created_at, created_by, last_updated_at, last_updated_by`

// PgxJournalRepository persists journals and their lines. Every state
// transition relies on the exclusive row lock taken by
// FindJournalByIDForUpdate; the repository itself holds no process-level locks.
type PgxJournalRepository struct {
	BaseRepository
}

func newPgxJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepositoryWithTx {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.JournalRepositoryWithTx = (*PgxJournalRepository)(nil)

// SaveJournal inserts a journal header and its lines within the given transaction.
func (r *PgxJournalRepository) SaveJournal(ctx context.Context, tx pgx.Tx, journal domain.Journal, lines []domain.JournalLine) error {
	modelJournal := mapping.ToModelJournal(journal)
	journalQuery := `
		INSERT INTO journals (` + journalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err := tx.Exec(ctx, journalQuery,
		modelJournal.JournalID,
		modelJournal.JournalNo,
		modelJournal.JournalDate,
		modelJournal.CurrencyCode,
		modelJournal.FxRate,
		modelJournal.Source,
		modelJournal.Reference,
		modelJournal.Memo,
		modelJournal.BranchID,
		modelJournal.Status,
		modelJournal.PostedAt,
		modelJournal.PostedBy,
		modelJournal.ExternalRef,
		modelJournal.CreatedAt,
		modelJournal.CreatedBy,
		modelJournal.LastUpdatedAt,
		modelJournal.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: journal number %s already exists", apperrors.ErrConflict, modelJournal.JournalNo)
		}
		return apperrors.NewAppError(500, "failed to insert journal "+modelJournal.JournalID, err)
	}

	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO journal_lines (` + lineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	for _, line := range lines {
		modelLine := mapping.ToModelJournalLine(line)
		batch.Queue(lineQuery,
			modelLine.LineID,
			modelLine.JournalID,
			modelLine.LineNo,
			modelLine.AccountID,
			modelLine.BranchID,
			modelLine.CostCenterID,
			modelLine.ProjectID,
			modelLine.CustomerID,
			modelLine.SupplierID,
			modelLine.ItemID,
			modelLine.Memo,
			modelLine.Debit,
			modelLine.Credit,
			modelLine.CreatedAt,
			modelLine.CreatedBy,
			modelLine.LastUpdatedAt,
			modelLine.LastUpdatedBy,
		)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to execute line batch for journal "+modelJournal.JournalID, err)
	}

	return nil
}

// FindJournalByID retrieves a journal header by its ID.
func (r *PgxJournalRepository) FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	query := `SELECT ` + journalColumns + ` FROM journals WHERE journal_id = $1;`

	modelJournal, err := scanJournal(r.Pool.QueryRow(ctx, query, journalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find journal by ID "+journalID, err)
	}

	domainJournal := mapping.ToDomainJournal(modelJournal)
	return &domainJournal, nil
}

// FindJournalByIDForUpdate retrieves a journal header under FOR UPDATE NOWAIT
// within the given transaction and loads its lines. A concurrently held lock
// surfaces as a PostingLockedError so callers can report a retryable failure.
func (r *PgxJournalRepository) FindJournalByIDForUpdate(ctx context.Context, tx pgx.Tx, journalID string) (*domain.Journal, error) {
	query := `SELECT ` + journalColumns + ` FROM journals WHERE journal_id = $1 FOR UPDATE NOWAIT;`

	modelJournal, err := scanJournal(tx.QueryRow(ctx, query, journalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		if isLockNotAvailable(err) {
			return nil, apperrors.NewPostingLocked("journal", journalID)
		}
		return nil, apperrors.NewAppError(500, "failed to lock journal "+journalID, err)
	}

	lines, err := r.findLinesByJournalID(ctx, tx, journalID)
	if err != nil {
		return nil, err
	}

	domainJournal := mapping.ToDomainJournal(modelJournal)
	domainJournal.Lines = lines
	return &domainJournal, nil
}

// FindLinesByJournalID retrieves all lines of a journal ordered by line_no.
func (r *PgxJournalRepository) FindLinesByJournalID(ctx context.Context, journalID string) ([]domain.JournalLine, error) {
	return r.findLinesByJournalID(ctx, r.Pool, journalID)
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (r *PgxJournalRepository) findLinesByJournalID(ctx context.Context, q querier, journalID string) ([]domain.JournalLine, error) {
	query := `SELECT ` + lineColumns + ` FROM journal_lines WHERE journal_id = $1 ORDER BY line_no;`

	rows, err := q.Query(ctx, query, journalID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query lines for journal "+journalID, err)
	}
	defer rows.Close()

	lines := []models.JournalLine{}
	for rows.Next() {
		var l models.JournalLine
		err := rows.Scan(
			&l.LineID,
			&l.JournalID,
			&l.LineNo,
			&l.AccountID,
			&l.BranchID,
			&l.CostCenterID,
			&l.ProjectID,
			&l.CustomerID,
			&l.SupplierID,
			&l.ItemID,
			&l.Memo,
			&l.Debit,
			&l.Credit,
			&l.CreatedAt,
			&l.CreatedBy,
			&l.LastUpdatedAt,
			&l.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan line row for journal "+journalID, err)
		}
		lines = append(lines, l)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating line rows for journal "+journalID, err)
	}

	return mapping.ToDomainJournalLineSlice(lines), nil
}

// ListJournals retrieves a paginated list of journals using token-based pagination.
// It returns the journals, a token for the next page (if any), and an error.
func (r *PgxJournalRepository) ListJournals(ctx context.Context, limit int, nextToken *string, includeReversals bool) ([]domain.Journal, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra row to determine whether a next page exists.
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + journalColumns + ` FROM journals`

	filterClause := `WHERE 1=1`
	if !includeReversals {
		filterClause += ` AND status != 'REVERSED' AND external_ref IS NULL`
	}

	// Ordering must be stable; created_at breaks journal_date ties.
	orderByClause := `ORDER BY journal_date DESC, created_at DESC`

	var rows pgx.Rows
	var err error
	args := []interface{}{}

	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}

		cursorClause := `AND (journal_date, created_at) < ($1, $2)`
		args = append(args, lastDate, lastCreatedAt)

		query := baseQuery + " " + filterClause + " " + cursorClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	} else {
		query := baseQuery + " " + filterClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	}

	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query journals", err)
	}
	defer rows.Close()

	modelJournals := make([]models.Journal, 0, fetchLimit)
	for rows.Next() {
		m, scanErr := scanJournal(rows)
		if scanErr != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan journal row", scanErr)
		}
		modelJournals = append(modelJournals, m)
	}

	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating journal rows", err)
	}

	var nextTokenVal *string
	results := modelJournals
	if len(modelJournals) > limit {
		lastJournal := modelJournals[limit-1]
		newToken := pagination.EncodeToken(lastJournal.JournalDate, lastJournal.CreatedAt)
		nextTokenVal = &newToken
		results = modelJournals[:limit]
	}

	domainJournals := make([]domain.Journal, len(results))
	for i, m := range results {
		domainJournals[i] = mapping.ToDomainJournal(m)
	}

	return domainJournals, nextTokenVal, nil
}

// UpdateJournalStatus transitions a journal's status within the given
// transaction. posted_at/posted_by are only written when provided so a
// reversal transition does not clear the original posting stamp.
func (r *PgxJournalRepository) UpdateJournalStatus(ctx context.Context, tx pgx.Tx, journalID string, status domain.JournalStatus, postedAt *time.Time, postedBy *string, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE journals
		SET status = $2,
		    posted_at = COALESCE($3, posted_at),
		    posted_by = COALESCE($4, posted_by),
		    last_updated_at = $5,
		    last_updated_by = $6
		WHERE journal_id = $1;
	`

	cmdTag, err := tx.Exec(ctx, query, journalID, status, postedAt, postedBy, updatedAt, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update journal status for "+journalID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("journal " + journalID + " not found for status update")
	}

	return nil
}

// UpdateJournalExternalRef sets the reversal cross-link on a journal.
func (r *PgxJournalRepository) UpdateJournalExternalRef(ctx context.Context, tx pgx.Tx, journalID string, externalRef string, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE journals
		SET external_ref = $2,
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE journal_id = $1;
	`

	cmdTag, err := tx.Exec(ctx, query, journalID, externalRef, updatedAt, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update external ref for "+journalID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("journal " + journalID + " not found for external ref update")
	}

	return nil
}

// UpdateJournalMemo replaces a journal's memo within the given transaction.
func (r *PgxJournalRepository) UpdateJournalMemo(ctx context.Context, tx pgx.Tx, journalID string, memo string, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE journals
		SET memo = $2,
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE journal_id = $1;
	`

	cmdTag, err := tx.Exec(ctx, query, journalID, memo, updatedAt, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update memo for "+journalID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("journal " + journalID + " not found for memo update")
	}

	return nil
}

// NextJournalNo allocates the next date-seeded journal number
// (YYYYMMDD + 3-digit counter). The upsert on journal_sequences serializes
// concurrent allocations for the same day through the row lock it takes.
func (r *PgxJournalRepository) NextJournalNo(ctx context.Context, tx pgx.Tx, journalDate time.Time) (string, error) {
	query := `
		INSERT INTO journal_sequences (seq_date, counter)
		VALUES ($1, 1)
		ON CONFLICT (seq_date) DO UPDATE SET counter = journal_sequences.counter + 1
		RETURNING counter;
	`

	var counter int
	if err := tx.QueryRow(ctx, query, journalDate.Format("2006-01-02")).Scan(&counter); err != nil {
		return "", apperrors.NewAppError(500, "failed to allocate journal number", err)
	}

	return fmt.Sprintf("%s%03d", journalDate.Format("20060102"), counter), nil
}

func scanJournal(row pgx.Row) (models.Journal, error) {
	var m models.Journal
	err := row.Scan(
		&m.JournalID,
		&m.JournalNo,
		&m.JournalDate,
		&m.CurrencyCode,
		&m.FxRate,
		&m.Source,
		&m.Reference,
		&m.Memo,
		&m.BranchID,
		&m.Status,
		&m.PostedAt,
		&m.PostedBy,
		&m.ExternalRef,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}
