package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/secure_banking_app/internal/apperrors"
	"github.com/SscSPs/secure_banking_app/internal/core/domain"
	portssvc "github.com/SscSPs/secure_banking_app/internal/core/ports/services"
	"github.com/SscSPs/secure_banking_app/internal/dto"
	"github.com/SscSPs/secure_banking_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// transactionHandler handles transfers and the transaction history.
type transactionHandler struct {
	txService      portssvc.TransactionSvc
	historyService portssvc.HistorySvc
}

// RegisterTransactionRoutes registers routes related to transfers and history.
func RegisterTransactionRoutes(rg *gin.RouterGroup, txService portssvc.TransactionSvc, historyService portssvc.HistorySvc) {
	registerValidators()
	h := &transactionHandler{txService: txService, historyService: historyService}

	txns := rg.Group("/transactions")
	{
		txns.POST("/validate", h.validateTransfer)
		txns.POST("", h.submitTransfer)
		txns.GET("", h.listTransactions)
		txns.GET("/balance", h.getBalance)
		txns.GET("/recent", h.recentTransactions)
		txns.GET("/history", h.transactionHistory)
	}
}

// validateTransfer godoc
// @Summary Validate a transfer
// @Description Runs the transfer rules and the risk scorer without moving money.
// @Tags transactions
// @Accept json
// @Produce json
// @Param transfer body dto.TransferRequest true "Transfer details"
// @Success 200 {object} dto.ValidationResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Sender account not found"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /transactions/validate [post]
func (h *transactionHandler) validateTransfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID, ok := middleware.GetAccountIDFromContext(c)
	if !ok {
		logger.Error("Account ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ValidateTransfer", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	verdict, err := h.txService.Validate(c.Request.Context(), req.ToDomain(accountID))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to validate transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToValidationResponse(verdict))
}

// submitTransfer godoc
// @Summary Send money
// @Description Validates and commits a transfer to another account. Returns the sender's debit entry.
// @Tags transactions
// @Accept json
// @Produce json
// @Param transfer body dto.TransferRequest true "Transfer details"
// @Success 201 {object} dto.TransactionEntryResponse
// @Failure 400 {object} dto.TransferRejectedResponse "Rejected by validation, or insufficient funds"
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Sender account not found"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /transactions [post]
func (h *transactionHandler) submitTransfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID, ok := middleware.GetAccountIDFromContext(c)
	if !ok {
		logger.Error("Account ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SubmitTransfer", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	result, verdict, err := h.txService.Submit(c.Request.Context(), req.ToDomain(accountID))
	if err != nil {
		if verdict != nil && !verdict.Approved && errors.Is(err, apperrors.ErrValidation) {
			resp := dto.ToValidationResponse(verdict)
			logger.Info("Transfer rejected", slog.Any("reasons", resp.ValidationErrors))
			c.JSON(http.StatusBadRequest, dto.TransferRejectedResponse{Error: resp.Message, ValidationResponse: resp})
			return
		}
		respondServiceError(c, logger, err, "Error processing transaction")
		return
	}

	logger.Info("Transfer completed", slog.String("transfer_id", result.TransferID))
	c.JSON(http.StatusCreated, dto.ToTransactionEntryResponse(result.Debit))
}

// listTransactions godoc
// @Summary List transactions
// @Description Pages through all of the caller's ledger entries, newest first.
// @Tags transactions
// @Produce json
// @Param limit query int false "Page size (max 100)"
// @Param nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /transactions [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID, ok := middleware.GetAccountIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	entries, nextToken, err := h.historyService.ListEntries(c.Request.Context(), accountID, params.Limit, params.NextToken)
	if err != nil {
		respondServiceError(c, logger, err, "Error fetching transactions")
		return
	}

	resp := dto.ListTransactionsResponse{Transactions: dto.ToTransactionEntryResponses(entries)}
	if nextToken != "" {
		resp.NextToken = &nextToken
	}
	c.JSON(http.StatusOK, resp)
}

// getBalance godoc
// @Summary Get balance
// @Tags transactions
// @Produce json
// @Success 200 {object} dto.BalanceResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /transactions/balance [get]
func (h *transactionHandler) getBalance(c *gin.Context) {
	balanceHandler(h.historyService)(c)
}

// recentTransactions godoc
// @Summary Recent transactions
// @Tags transactions
// @Produce json
// @Param limit query int false "Number of entries (default 5, max 50)"
// @Success 200 {array} dto.TransactionEntryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /transactions/recent [get]
func (h *transactionHandler) recentTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID, ok := middleware.GetAccountIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var params dto.RecentParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	entries, err := h.historyService.Recent(c.Request.Context(), accountID, params.Limit)
	if err != nil {
		respondServiceError(c, logger, err, "Error fetching transactions")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionEntryResponses(entries))
}

// transactionHistory godoc
// @Summary Transaction history by period
// @Tags transactions
// @Produce json
// @Param period query string false "all, today, week or month" Enums(all, today, week, month)
// @Success 200 {array} dto.TransactionEntryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /transactions/history [get]
func (h *transactionHandler) transactionHistory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID, ok := middleware.GetAccountIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var params dto.HistoryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid period: " + err.Error()})
		return
	}

	entries, err := h.historyService.History(c.Request.Context(), accountID, domain.Period(params.Period))
	if err != nil {
		respondServiceError(c, logger, err, "Error fetching transaction history")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionEntryResponses(entries))
}
