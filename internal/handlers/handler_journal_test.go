package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/addisledger/gl_backend/internal/apperrors"
	"github.com/addisledger/gl_backend/internal/core/domain"
	portssvc "github.com/addisledger/gl_backend/internal/core/ports/services"
	"github.com/addisledger/gl_backend/internal/dto"
	"github.com/addisledger/gl_backend/internal/handlers"
	"github.com/addisledger/gl_backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock JournalService ---
type MockJournalService struct {
	mock.Mock
}

func (m *MockJournalService) GetJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	args := m.Called(ctx, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

func (m *MockJournalService) ListJournals(ctx context.Context, params dto.ListJournalsParams) (*dto.ListJournalsResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListJournalsResponse), args.Error(1)
}

func (m *MockJournalService) ValidateDraft(ctx context.Context, journalID string) ([]string, error) {
	args := m.Called(ctx, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockJournalService) CreateJournal(ctx context.Context, req dto.CreateJournalRequest, creatorUserID string) (*domain.Journal, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

func (m *MockJournalService) PostJournal(ctx context.Context, journalID string, idempotencyToken string, actorUserID string) (*domain.Journal, error) {
	args := m.Called(ctx, journalID, idempotencyToken, actorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

func (m *MockJournalService) ReverseJournal(ctx context.Context, journalID string, reason string, actorUserID string) (*domain.Journal, error) {
	args := m.Called(ctx, journalID, reason, actorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

func (m *MockJournalService) VoidJournal(ctx context.Context, journalID string, reason string, actorUserID string) (*domain.Journal, error) {
	args := m.Called(ctx, journalID, reason, actorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.JournalSvcFacade = (*MockJournalService)(nil)

// --- Test Suite ---
type JournalHandlerTestSuite struct {
	suite.Suite
	router             *gin.Engine
	mockJournalService *MockJournalService
	jwtSecret          string
	userID             string
}

func (suite *JournalHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.userID = uuid.NewString()

	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.mockJournalService = new(MockJournalService)

	v1 := suite.router.Group("/api/v1")
	handlers.RegisterJournalRoutes(v1, suite.mockJournalService)
}

// generateTestToken creates a dummy JWT for testing.
func (suite *JournalHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "gl-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *JournalHandlerTestSuite) doRequest(method, url string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, url, &buf)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(suite.userID))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *JournalHandlerTestSuite) postedJournal() *domain.Journal {
	now := time.Now().UTC()
	return &domain.Journal{
		JournalID:    "j-1",
		JournalNo:    "20250614001",
		JournalDate:  now,
		CurrencyCode: "ETB",
		FxRate:       decimal.NewFromInt(1),
		Source:       domain.SourceManual,
		Status:       domain.Posted,
		PostedAt:     &now,
	}
}

func (suite *JournalHandlerTestSuite) TestPostJournal_HeaderTokenWins() {
	suite.mockJournalService.On("PostJournal", mock.Anything, "j-1", "header-key", suite.userID).
		Return(suite.postedJournal(), nil).Once()

	req, _ := http.NewRequest(http.MethodPost, "/api/v1/journals/j-1/post", nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(suite.userID))
	req.Header.Set("Idempotency-Key", "header-key")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.JournalResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("POSTED", resp.Status)
	suite.mockJournalService.AssertExpectations(suite.T())
}

func (suite *JournalHandlerTestSuite) TestPostJournal_ValidationProblemsReturn400() {
	problems := []string{
		"journal is not balanced: total debits 100 do not equal total credits 60",
	}
	suite.mockJournalService.On("PostJournal", mock.Anything, "j-1", "", suite.userID).
		Return(nil, apperrors.NewValidationFailed(problems)).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/journals/j-1/post", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	var body struct {
		Error    string   `json:"error"`
		Problems []string `json:"problems"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal(problems, body.Problems)
}

func (suite *JournalHandlerTestSuite) TestPostJournal_LockedReturns423WithRetryAfter() {
	suite.mockJournalService.On("PostJournal", mock.Anything, "j-1", "", suite.userID).
		Return(nil, apperrors.NewPostingLocked("journal", "j-1")).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/journals/j-1/post", nil)

	suite.Equal(http.StatusLocked, w.Code)
	suite.Equal("1", w.Header().Get("Retry-After"))
}

func (suite *JournalHandlerTestSuite) TestPostJournal_IdempotencyConflictReturns409() {
	conflict := &apperrors.IdempotencyConflictError{
		Scope:          "gl.post",
		Key:            "key-1",
		StoredResponse: json.RawMessage(`{"journalID":"j-other"}`),
	}
	suite.mockJournalService.On("PostJournal", mock.Anything, "j-1", "", suite.userID).
		Return(nil, conflict).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/journals/j-1/post", nil)

	suite.Equal(http.StatusConflict, w.Code)
	suite.Contains(w.Body.String(), "storedResponse")
}

func (suite *JournalHandlerTestSuite) TestPostJournal_IllegalTransitionReturns409() {
	suite.mockJournalService.On("PostJournal", mock.Anything, "j-1", "", suite.userID).
		Return(nil, apperrors.NewIllegalTransition("post", "VOIDED", "journal is not in DRAFT status")).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/journals/j-1/post", nil)

	suite.Equal(http.StatusConflict, w.Code)
	suite.Contains(w.Body.String(), "journal is not in DRAFT status")
	suite.Contains(w.Body.String(), "VOIDED")
}

func (suite *JournalHandlerTestSuite) TestGetJournal_NotFoundReturns404() {
	suite.mockJournalService.On("GetJournalByID", mock.Anything, "missing").
		Return(nil, apperrors.ErrNotFound).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/journals/missing", nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *JournalHandlerTestSuite) TestCreateJournal_Returns201() {
	draft := suite.postedJournal()
	draft.Status = domain.Draft
	draft.PostedAt = nil

	suite.mockJournalService.On("CreateJournal", mock.Anything, mock.Anything, suite.userID).
		Return(draft, nil).Once()

	debit := decimal.NewFromInt(100)
	credit := decimal.NewFromInt(100)
	body := dto.CreateJournalRequest{
		JournalDate: time.Now().UTC(),
		Lines: []dto.CreateJournalLineRequest{
			{AccountID: "acc-1", Debit: &debit},
			{AccountID: "acc-2", Credit: &credit},
		},
	}

	w := suite.doRequest(http.MethodPost, "/api/v1/journals", body)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.JournalResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("DRAFT", resp.Status)
}

func (suite *JournalHandlerTestSuite) TestCreateJournal_RejectsSingleLineAtBinding() {
	debit := decimal.NewFromInt(100)
	body := dto.CreateJournalRequest{
		JournalDate: time.Now().UTC(),
		Lines: []dto.CreateJournalLineRequest{
			{AccountID: "acc-1", Debit: &debit},
		},
	}

	w := suite.doRequest(http.MethodPost, "/api/v1/journals", body)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockJournalService.AssertNotCalled(suite.T(), "CreateJournal", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalHandlerTestSuite) TestReverseJournal_RequiresReason() {
	w := suite.doRequest(http.MethodPost, "/api/v1/journals/j-1/reverse", map[string]string{})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockJournalService.AssertNotCalled(suite.T(), "ReverseJournal", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalHandlerTestSuite) TestValidateJournal_ReturnsProblemList() {
	problems := []string{"journal must have at least 2 lines, got 1"}
	suite.mockJournalService.On("ValidateDraft", mock.Anything, "j-1").Return(problems, nil).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/journals/j-1/validate", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ValidateDraftResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.False(resp.Valid)
	suite.Equal(problems, resp.Problems)
}

func (suite *JournalHandlerTestSuite) TestUnauthenticatedRequestIsRejected() {
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/journals/j-1", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
}

func TestJournalHandler(t *testing.T) {
	suite.Run(t, new(JournalHandlerTestSuite))
}
