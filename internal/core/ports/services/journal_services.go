package services

import (
	"context"

	"github.com/addisledger/gl_backend/internal/core/domain"
	"github.com/addisledger/gl_backend/internal/dto"
)

// JournalReaderSvc defines read operations for journal data
type JournalReaderSvc interface {
	// GetJournalByID retrieves a specific journal with its lines.
	GetJournalByID(ctx context.Context, journalID string) (*domain.Journal, error)

	// ListJournals retrieves a paginated list of journals.
	ListJournals(ctx context.Context, params dto.ListJournalsParams) (*dto.ListJournalsResponse, error)

	// ValidateDraft runs full posting validation over a draft journal and
	// returns every problem found without mutating anything.
	ValidateDraft(ctx context.Context, journalID string) ([]string, error)
}

// JournalWriterSvc defines the state transitions of the posting engine.
type JournalWriterSvc interface {
	// CreateJournal persists a new DRAFT journal with its lines.
	CreateJournal(ctx context.Context, req dto.CreateJournalRequest, creatorUserID string) (*domain.Journal, error)

	// PostJournal transitions a DRAFT journal to POSTED. When
	// idempotencyToken is non-empty ("scope:key") the whole operation runs
	// under the idempotency coordinator.
	PostJournal(ctx context.Context, journalID string, idempotencyToken string, actorUserID string) (*domain.Journal, error)

	// ReverseJournal creates and posts a reversing journal for a POSTED
	// journal and marks the original REVERSED, all in one transaction.
	ReverseJournal(ctx context.Context, journalID string, reason string, actorUserID string) (*domain.Journal, error)

	// VoidJournal transitions a DRAFT journal to VOIDED, appending the
	// reason to the memo. The row is retained for the audit trail.
	VoidJournal(ctx context.Context, journalID string, reason string, actorUserID string) (*domain.Journal, error)
}

// JournalSvcFacade combines all journal-related service interfaces
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
}
