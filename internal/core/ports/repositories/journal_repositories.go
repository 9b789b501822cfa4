package repositories

import (
	"context"
	"time"

	"github.com/addisledger/gl_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// JournalReader defines read operations for journal data
type JournalReader interface {
	// FindJournalByID retrieves a specific journal by its unique identifier.
	FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error)

	// FindJournalByIDForUpdate retrieves a journal under an exclusive row
	// lock (FOR UPDATE NOWAIT) within the given transaction. Returns a
	// PostingLockedError if another operation holds the lock.
	FindJournalByIDForUpdate(ctx context.Context, tx pgx.Tx, journalID string) (*domain.Journal, error)

	// FindLinesByJournalID retrieves all lines of a journal ordered by line_no.
	FindLinesByJournalID(ctx context.Context, journalID string) ([]domain.JournalLine, error)

	// ListJournals retrieves a paginated list of journals using token-based
	// pagination. It returns the journals, a token for the next page, and an error.
	ListJournals(ctx context.Context, limit int, nextToken *string, includeReversals bool) ([]domain.Journal, *string, error)
}

// JournalWriter defines write operations for journal data
type JournalWriter interface {
	// SaveJournal persists a journal header and its lines within the given transaction.
	SaveJournal(ctx context.Context, tx pgx.Tx, journal domain.Journal, lines []domain.JournalLine) error

	// UpdateJournalStatus transitions a journal's status within the given
	// transaction, stamping posted_at/posted_by when provided.
	UpdateJournalStatus(ctx context.Context, tx pgx.Tx, journalID string, status domain.JournalStatus, postedAt *time.Time, postedBy *string, updatedBy string, updatedAt time.Time) error

	// UpdateJournalExternalRef sets the reversal cross-link on a journal.
	UpdateJournalExternalRef(ctx context.Context, tx pgx.Tx, journalID string, externalRef string, updatedBy string, updatedAt time.Time) error

	// UpdateJournalMemo replaces a journal's memo (used by void to append the reason).
	UpdateJournalMemo(ctx context.Context, tx pgx.Tx, journalID string, memo string, updatedBy string, updatedAt time.Time) error

	// NextJournalNo allocates the next date-seeded journal number
	// (YYYYMMDD + 3-digit counter, unique per day) within the given transaction.
	NextJournalNo(ctx context.Context, tx pgx.Tx, journalDate time.Time) (string, error)
}

// JournalRepositoryFacade combines all journal-related repository interfaces
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
}

// JournalRepositoryWithTx extends JournalRepositoryFacade with transaction capabilities
type JournalRepositoryWithTx interface {
	JournalRepositoryFacade
	TransactionManager
}
