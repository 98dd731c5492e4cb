package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/secure_banking_app/internal/core/domain"
	portssvc "github.com/SscSPs/secure_banking_app/internal/core/ports/services"
	"github.com/SscSPs/secure_banking_app/internal/dto"
	"github.com/SscSPs/secure_banking_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accountHandler handles balance queries and deposits.
type accountHandler struct {
	ledgerService  portssvc.LedgerSvc
	historyService portssvc.HistorySvc
}

// RegisterAccountRoutes registers routes related to the caller's own account.
func RegisterAccountRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvc, historyService portssvc.HistorySvc) {
	registerValidators()
	h := &accountHandler{ledgerService: ledgerService, historyService: historyService}

	rg.GET("/balance", balanceHandler(historyService))
	rg.POST("/deposit", h.deposit)
}

// balanceHandler godoc
// @Summary Get balance
// @Tags account
// @Produce json
// @Success 200 {object} dto.BalanceResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /balance [get]
func balanceHandler(historyService portssvc.HistorySvc) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		accountID, ok := middleware.GetAccountIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
			return
		}

		account, err := historyService.GetBalance(c.Request.Context(), accountID)
		if err != nil {
			respondServiceError(c, logger, err, "Error fetching balance")
			return
		}
		c.JSON(http.StatusOK, dto.BalanceResponse{Balance: account.Balance})
	}
}

// deposit godoc
// @Summary Deposit money
// @Description Credits the caller's own account.
// @Tags account
// @Accept json
// @Produce json
// @Param deposit body dto.DepositRequest true "Deposit details"
// @Success 200 {object} dto.DepositResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /deposit [post]
func (h *accountHandler) deposit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID, ok := middleware.GetAccountIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Deposit", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	result, err := h.ledgerService.Deposit(c.Request.Context(), domain.DepositRequest{
		AccountID:   accountID,
		Amount:      req.Amount,
		Description: req.Description,
	})
	if err != nil {
		respondServiceError(c, logger, err, "Error processing deposit")
		return
	}

	c.JSON(http.StatusOK, dto.DepositResponse{
		Message:    "Deposit successful",
		NewBalance: result.NewBalance,
		Entry:      dto.ToTransactionEntryResponse(result.Entry),
	})
}
