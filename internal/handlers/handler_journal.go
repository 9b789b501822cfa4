package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/addisledger/gl_backend/internal/core/ports/services"
	"github.com/addisledger/gl_backend/internal/dto"
	"github.com/addisledger/gl_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// journalHandler handles HTTP requests related to journals.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

// newJournalHandler creates a new journalHandler.
func newJournalHandler(journalService portssvc.JournalSvcFacade) *journalHandler {
	return &journalHandler{journalService: journalService}
}

// RegisterJournalRoutes wires the journal endpoints onto the given group.
func RegisterJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	h := newJournalHandler(journalService)
	journals := rg.Group("/journals")
	{
		journals.POST("", h.createJournal)
		journals.GET("", h.listJournals)
		journals.GET("/:journalID", h.getJournal)
		journals.GET("/:journalID/validate", h.validateJournal)
		journals.POST("/:journalID/post", h.postJournal)
		journals.POST("/:journalID/reverse", h.reverseJournal)
		journals.POST("/:journalID/void", h.voidJournal)
	}
}

// createJournal godoc
// @Summary Create a draft journal
// @Description Creates a new journal in DRAFT status with its lines. Drafts may be unbalanced; balance is enforced at posting.
// @Tags journals
// @Accept json
// @Produce json
// @Param journal body dto.CreateJournalRequest true "Journal and lines"
// @Success 201 {object} dto.JournalResponse
// @Failure 400 {object} map[string]interface{} "Invalid request or validation problems"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /journals [post]
func (h *journalHandler) createJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createJournal", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	journal, err := h.journalService.CreateJournal(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondError(c, logger, err, "Failed to create journal")
		return
	}

	c.JSON(http.StatusCreated, dto.ToJournalResponse(journal))
}

// getJournal godoc
// @Summary Get a journal with its lines
// @Tags journals
// @Produce json
// @Param journalID path string true "Journal ID"
// @Success 200 {object} dto.JournalResponse
// @Failure 404 {object} map[string]string "Journal not found"
// @Router /journals/{journalID} [get]
func (h *journalHandler) getJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	journalID := c.Param("journalID")

	journal, err := h.journalService.GetJournalByID(c.Request.Context(), journalID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve journal")
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalResponse(journal))
}

// listJournals godoc
// @Summary List journals
// @Description Paginated journal listing. Reversal pairs are hidden unless includeReversals is set.
// @Tags journals
// @Produce json
// @Param limit query int false "Page size (default 20)"
// @Param nextToken query string false "Pagination token from the previous page"
// @Param includeReversals query bool false "Include reversed journals and their reversals"
// @Param includeLines query bool false "Include lines on each journal"
// @Success 200 {object} dto.ListJournalsResponse
// @Router /journals [get]
func (h *journalHandler) listJournals(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListJournalsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.journalService.ListJournals(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list journals")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// validateJournal godoc
// @Summary Validate a draft journal
// @Description Runs the full posting validation over a draft and returns every problem found, without changing anything.
// @Tags journals
// @Produce json
// @Param journalID path string true "Journal ID"
// @Success 200 {object} dto.ValidateDraftResponse
// @Failure 404 {object} map[string]string "Journal not found"
// @Failure 409 {object} map[string]string "Journal is not a draft"
// @Router /journals/{journalID}/validate [get]
func (h *journalHandler) validateJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	journalID := c.Param("journalID")

	problems, err := h.journalService.ValidateDraft(c.Request.Context(), journalID)
	if err != nil {
		respondError(c, logger, err, "Failed to validate journal")
		return
	}

	if problems == nil {
		problems = []string{}
	}
	c.JSON(http.StatusOK, dto.ValidateDraftResponse{
		JournalID: journalID,
		Valid:     len(problems) == 0,
		Problems:  problems,
	})
}

// postJournal godoc
// @Summary Post a draft journal
// @Description Transitions a DRAFT journal to POSTED after full validation. Supply an idempotency key via the Idempotency-Key header or the request body to make retries safe.
// @Tags journals
// @Accept json
// @Produce json
// @Param journalID path string true "Journal ID"
// @Param Idempotency-Key header string false "Idempotency key"
// @Param request body dto.PostJournalRequest false "Optional idempotency key"
// @Success 200 {object} dto.JournalResponse
// @Failure 400 {object} map[string]interface{} "Validation problems"
// @Failure 409 {object} map[string]string "Illegal transition or idempotency conflict"
// @Failure 423 {object} map[string]string "Journal locked by another operation"
// @Router /journals/{journalID}/post [post]
func (h *journalHandler) postJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	journalID := c.Param("journalID")

	actorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	// Header wins over body; both are optional.
	idempotencyToken := c.GetHeader("Idempotency-Key")
	if idempotencyToken == "" && c.Request.ContentLength > 0 {
		var req dto.PostJournalRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
			return
		}
		idempotencyToken = req.IdempotencyKey
	}

	journal, err := h.journalService.PostJournal(c.Request.Context(), journalID, idempotencyToken, actorUserID)
	if err != nil {
		respondError(c, logger, err, "Failed to post journal")
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalResponse(journal))
}

// reverseJournal godoc
// @Summary Reverse a posted journal
// @Description Creates and posts a reversing journal with debits and credits swapped, and marks the original REVERSED. The two journals cross-link via externalRef.
// @Tags journals
// @Accept json
// @Produce json
// @Param journalID path string true "Journal ID"
// @Param request body dto.ReverseJournalRequest true "Reversal reason"
// @Success 201 {object} dto.JournalResponse "The reversing journal"
// @Failure 409 {object} map[string]string "Only posted journals can be reversed"
// @Failure 423 {object} map[string]string "Journal locked by another operation"
// @Router /journals/{journalID}/reverse [post]
func (h *journalHandler) reverseJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	journalID := c.Param("journalID")

	var req dto.ReverseJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	reversal, err := h.journalService.ReverseJournal(c.Request.Context(), journalID, req.Reason, actorUserID)
	if err != nil {
		respondError(c, logger, err, "Failed to reverse journal")
		return
	}

	c.JSON(http.StatusCreated, dto.ToJournalResponse(reversal))
}

// voidJournal godoc
// @Summary Void a draft journal
// @Description Transitions a DRAFT journal to VOIDED, retaining the row with the reason appended to the memo.
// @Tags journals
// @Accept json
// @Produce json
// @Param journalID path string true "Journal ID"
// @Param request body dto.VoidJournalRequest true "Void reason"
// @Success 200 {object} dto.JournalResponse
// @Failure 409 {object} map[string]string "Only draft journals can be voided"
// @Router /journals/{journalID}/void [post]
func (h *journalHandler) voidJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	journalID := c.Param("journalID")

	var req dto.VoidJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	journal, err := h.journalService.VoidJournal(c.Request.Context(), journalID, req.Reason, actorUserID)
	if err != nil {
		respondError(c, logger, err, "Failed to void journal")
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalResponse(journal))
}
