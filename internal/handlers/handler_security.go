package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/secure_banking_app/internal/core/ports/services"
	"github.com/SscSPs/secure_banking_app/internal/dto"
	"github.com/SscSPs/secure_banking_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

type securityHandler struct {
	securityService portssvc.SecuritySvc
}

// RegisterSecurityRoutes registers the caller's security log routes.
func RegisterSecurityRoutes(rg *gin.RouterGroup, securityService portssvc.SecuritySvc) {
	h := &securityHandler{securityService: securityService}

	sec := rg.Group("/security")
	{
		sec.GET("/logs", h.listLogs)
		sec.GET("/summary", h.summary)
	}
}

// listLogs godoc
// @Summary Security logs
// @Description Lists the caller's security events, newest first.
// @Tags security
// @Produce json
// @Success 200 {array} dto.SecurityLogResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /security/logs [get]
func (h *securityHandler) listLogs(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID, ok := middleware.GetAccountIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	logs, err := h.securityService.ListLogs(c.Request.Context(), accountID)
	if err != nil {
		respondServiceError(c, logger, err, "Error fetching security logs")
		return
	}
	c.JSON(http.StatusOK, dto.ToSecurityLogResponses(logs))
}

// summary godoc
// @Summary Security summary
// @Tags security
// @Produce json
// @Success 200 {object} dto.SecuritySummaryResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /security/summary [get]
func (h *securityHandler) summary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID, ok := middleware.GetAccountIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	summary, err := h.securityService.Summary(c.Request.Context(), accountID)
	if err != nil {
		respondServiceError(c, logger, err, "Error fetching security summary")
		return
	}
	c.JSON(http.StatusOK, dto.ToSecuritySummaryResponse(summary))
}
