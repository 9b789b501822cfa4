package handlers

import (
	"net/http"

	portssvc "github.com/addisledger/gl_backend/internal/core/ports/services"
	"github.com/addisledger/gl_backend/internal/dto"
	"github.com/addisledger/gl_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accountHandler handles HTTP requests for the read-only account directory.
type accountHandler struct {
	accountService portssvc.AccountDirectorySvc
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(accountService portssvc.AccountDirectorySvc) *accountHandler {
	return &accountHandler{accountService: accountService}
}

// RegisterAccountRoutes wires the account endpoints onto the given group.
func RegisterAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountDirectorySvc) {
	h := newAccountHandler(accountService)
	accounts := rg.Group("/accounts")
	{
		accounts.GET("/:accountID", h.getAccount)
	}
}

// getAccount godoc
// @Summary Get a ledger account
// @Description Retrieves a single account from the chart of accounts. The posting engine never writes accounts.
// @Tags accounts
// @Produce json
// @Param accountID path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Router /accounts/{accountID} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	account, err := h.accountService.GetAccountByID(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve account")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}
