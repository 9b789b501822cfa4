package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/addisledger/gl_backend/internal/apperrors"
	"github.com/addisledger/gl_backend/internal/core/domain"
	"github.com/addisledger/gl_backend/internal/core/services"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// fixedClock pins time for deterministic assertions.
type fixedClock struct {
	t time.Time
}

func (c fixedClock) Now() time.Time { return c.t }

// --- Mock IdempotencyRepository ---
type MockIdempotencyRepository struct {
	mock.Mock
}

func (m *MockIdempotencyRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockIdempotencyRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockIdempotencyRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockIdempotencyRepository) FindForUpdate(ctx context.Context, tx pgx.Tx, scope, key string) (*domain.IdempotencyRecord, error) {
	args := m.Called(ctx, tx, scope, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IdempotencyRecord), args.Error(1)
}

func (m *MockIdempotencyRepository) Insert(ctx context.Context, tx pgx.Tx, record domain.IdempotencyRecord) error {
	args := m.Called(ctx, tx, record)
	return args.Error(0)
}

func (m *MockIdempotencyRepository) Finalize(ctx context.Context, tx pgx.Tx, scope, key string, status domain.IdempotencyStatus, snapshot json.RawMessage) error {
	args := m.Called(ctx, tx, scope, key, status, snapshot)
	return args.Error(0)
}

func (m *MockIdempotencyRepository) FinalizeFailure(ctx context.Context, scope, key, requestHash string, payload json.RawMessage) error {
	args := m.Called(ctx, scope, key, requestHash, payload)
	return args.Error(0)
}

// --- Suite ---
type IdempotencyServiceTestSuite struct {
	suite.Suite
	mockRepo *MockIdempotencyRepository
	service  *services.IdempotencyService
	ctx      context.Context
}

func (s *IdempotencyServiceTestSuite) SetupTest() {
	s.mockRepo = new(MockIdempotencyRepository)
	s.service = services.NewIdempotencyService(s.mockRepo, fixedClock{t: testNow})
	s.ctx = context.Background()
}

func (s *IdempotencyServiceTestSuite) TestRun_FreshExecution() {
	s.mockRepo.On("Begin", s.ctx).Return(nil, nil).Once()
	s.mockRepo.On("FindForUpdate", s.ctx, mock.Anything, "gl.post", "key-1").Return(nil, apperrors.ErrNotFound).Once()
	s.mockRepo.On("Insert", s.ctx, mock.Anything, mock.MatchedBy(func(r domain.IdempotencyRecord) bool {
		return r.Scope == "gl.post" && r.Key == "key-1" && r.RequestHash == "hash-a" && r.Status == domain.IdempotencyInProgress
	})).Return(nil).Once()
	s.mockRepo.On("Finalize", s.ctx, mock.Anything, "gl.post", "key-1", domain.IdempotencySucceeded, mock.Anything).Return(nil).Once()
	s.mockRepo.On("Commit", s.ctx, mock.Anything).Return(nil).Once()
	s.mockRepo.On("Rollback", s.ctx, mock.Anything).Return(nil).Maybe()

	executed := false
	snapshot, replayed, err := s.service.Run(s.ctx, "gl.post", "key-1", "hash-a",
		func(ctx context.Context, tx pgx.Tx) (any, error) {
			executed = true
			return map[string]string{"journalID": "j-1"}, nil
		})

	s.NoError(err)
	s.True(executed)
	s.False(replayed)
	s.JSONEq(`{"journalID":"j-1"}`, string(snapshot))
	s.mockRepo.AssertExpectations(s.T())
}

func (s *IdempotencyServiceTestSuite) TestRun_ReplaysStoredSuccess() {
	stored := json.RawMessage(`{"journalID":"j-1","status":"POSTED"}`)
	record := &domain.IdempotencyRecord{
		Scope:            "gl.post",
		Key:              "key-1",
		RequestHash:      "hash-a",
		Status:           domain.IdempotencySucceeded,
		ResponseSnapshot: stored,
	}

	s.mockRepo.On("Begin", s.ctx).Return(nil, nil).Once()
	s.mockRepo.On("FindForUpdate", s.ctx, mock.Anything, "gl.post", "key-1").Return(record, nil).Once()
	s.mockRepo.On("Rollback", s.ctx, mock.Anything).Return(nil).Maybe()

	executed := false
	snapshot, replayed, err := s.service.Run(s.ctx, "gl.post", "key-1", "hash-a",
		func(ctx context.Context, tx pgx.Tx) (any, error) {
			executed = true
			return nil, nil
		})

	s.NoError(err)
	s.False(executed, "operation must not run again on replay")
	s.True(replayed)
	s.Equal(stored, snapshot)
	s.mockRepo.AssertNotCalled(s.T(), "Insert", mock.Anything, mock.Anything, mock.Anything)
	s.mockRepo.AssertNotCalled(s.T(), "Commit", mock.Anything, mock.Anything)
}

func (s *IdempotencyServiceTestSuite) TestRun_HashMismatchIsConflict() {
	stored := json.RawMessage(`{"journalID":"j-1"}`)
	record := &domain.IdempotencyRecord{
		Scope:            "gl.post",
		Key:              "key-1",
		RequestHash:      "hash-a",
		Status:           domain.IdempotencySucceeded,
		ResponseSnapshot: stored,
	}

	s.mockRepo.On("Begin", s.ctx).Return(nil, nil).Once()
	s.mockRepo.On("FindForUpdate", s.ctx, mock.Anything, "gl.post", "key-1").Return(record, nil).Once()
	s.mockRepo.On("Rollback", s.ctx, mock.Anything).Return(nil).Maybe()

	_, _, err := s.service.Run(s.ctx, "gl.post", "key-1", "hash-DIFFERENT",
		func(ctx context.Context, tx pgx.Tx) (any, error) {
			s.Fail("operation must not run on conflict")
			return nil, nil
		})

	var conflictErr *apperrors.IdempotencyConflictError
	s.ErrorAs(err, &conflictErr)
	s.Equal("key-1", conflictErr.Key)
	s.Equal(stored, conflictErr.StoredResponse)
}

func (s *IdempotencyServiceTestSuite) TestRun_LockedKeyPropagates() {
	lockedErr := apperrors.NewPostingLocked("idempotency", "gl.post:key-1")

	s.mockRepo.On("Begin", s.ctx).Return(nil, nil).Once()
	s.mockRepo.On("FindForUpdate", s.ctx, mock.Anything, "gl.post", "key-1").Return(nil, lockedErr).Once()
	s.mockRepo.On("Rollback", s.ctx, mock.Anything).Return(nil).Maybe()

	_, _, err := s.service.Run(s.ctx, "gl.post", "key-1", "hash-a",
		func(ctx context.Context, tx pgx.Tx) (any, error) {
			s.Fail("operation must not run while the key is locked")
			return nil, nil
		})

	var gotLocked *apperrors.PostingLockedError
	s.ErrorAs(err, &gotLocked)
}

func (s *IdempotencyServiceTestSuite) TestRun_OperationFailureRecordsFailure() {
	opErr := errors.New("insufficient validation")

	s.mockRepo.On("Begin", s.ctx).Return(nil, nil).Once()
	s.mockRepo.On("FindForUpdate", s.ctx, mock.Anything, "gl.post", "key-1").Return(nil, apperrors.ErrNotFound).Once()
	s.mockRepo.On("Insert", s.ctx, mock.Anything, mock.Anything).Return(nil).Once()
	s.mockRepo.On("Rollback", s.ctx, mock.Anything).Return(nil)
	s.mockRepo.On("FinalizeFailure", s.ctx, "gl.post", "key-1", "hash-a", mock.MatchedBy(func(p json.RawMessage) bool {
		var body map[string]string
		return json.Unmarshal(p, &body) == nil && body["error"] == "insufficient validation"
	})).Return(nil).Once()

	_, _, err := s.service.Run(s.ctx, "gl.post", "key-1", "hash-a",
		func(ctx context.Context, tx pgx.Tx) (any, error) {
			return nil, opErr
		})

	s.ErrorIs(err, opErr)
	s.mockRepo.AssertNotCalled(s.T(), "Commit", mock.Anything, mock.Anything)
	s.mockRepo.AssertExpectations(s.T())
}

func (s *IdempotencyServiceTestSuite) TestRun_FailedRecordWithSameHashReExecutes() {
	record := &domain.IdempotencyRecord{
		Scope:       "gl.post",
		Key:         "key-1",
		RequestHash: "hash-a",
		Status:      domain.IdempotencyFailed,
	}

	s.mockRepo.On("Begin", s.ctx).Return(nil, nil).Once()
	s.mockRepo.On("FindForUpdate", s.ctx, mock.Anything, "gl.post", "key-1").Return(record, nil).Once()
	s.mockRepo.On("Finalize", s.ctx, mock.Anything, "gl.post", "key-1", domain.IdempotencySucceeded, mock.Anything).Return(nil).Once()
	s.mockRepo.On("Commit", s.ctx, mock.Anything).Return(nil).Once()
	s.mockRepo.On("Rollback", s.ctx, mock.Anything).Return(nil).Maybe()

	executed := false
	snapshot, replayed, err := s.service.Run(s.ctx, "gl.post", "key-1", "hash-a",
		func(ctx context.Context, tx pgx.Tx) (any, error) {
			executed = true
			return map[string]string{"journalID": "j-1"}, nil
		})

	s.NoError(err)
	s.True(executed, "a failed attempt with the same hash must re-execute")
	s.False(replayed)
	s.JSONEq(`{"journalID":"j-1"}`, string(snapshot))
	s.mockRepo.AssertNotCalled(s.T(), "Insert", mock.Anything, mock.Anything, mock.Anything)
}

func TestIdempotencyService(t *testing.T) {
	suite.Run(t, new(IdempotencyServiceTestSuite))
}
