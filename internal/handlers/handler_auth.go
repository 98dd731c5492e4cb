package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/secure_banking_app/internal/apperrors"
	portssvc "github.com/SscSPs/secure_banking_app/internal/core/ports/services"
	"github.com/SscSPs/secure_banking_app/internal/dto"
	"github.com/SscSPs/secure_banking_app/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
)

// authHandler handles registration and login.
type authHandler struct {
	authService portssvc.AuthSvcFacade
}

// RegisterAuthRoutes registers the public authentication routes, rate limited per client IP
// when authLimiter is non-nil.
func RegisterAuthRoutes(rg *gin.RouterGroup, authService portssvc.AuthSvcFacade, authLimiter *limiter.Limiter) {
	registerValidators()
	h := &authHandler{authService: authService}

	if authLimiter != nil {
		rg.Use(middleware.RateLimit(authLimiter))
	}
	rg.POST("/register", h.register)
	rg.POST("/login", h.login)
}

// register godoc
// @Summary Register a new account
// @Description Opens an account with an optional initial deposit (defaults to the configured opening balance).
// @Tags auth
// @Accept json
// @Produce json
// @Param register body dto.RegisterRequest true "Registration details"
// @Success 201 {object} dto.RegisterResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Username or email already in use"
// @Failure 429 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/register [post]
func (h *authHandler) register(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Register", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	in := portssvc.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	}
	if req.InitialDeposit != nil {
		in.InitialDeposit = *req.InitialDeposit
	}

	account, err := h.authService.Register(c.Request.Context(), in)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to register account")
		return
	}

	logger.Info("Account registered", slog.String("account_id", account.AccountID))
	c.JSON(http.StatusCreated, dto.RegisterResponse{
		Message: "User registered successfully",
		Account: dto.ToAccountResponse(account),
	})
}

// login godoc
// @Summary Log in
// @Description Checks credentials and returns a bearer token.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/login [post]
func (h *authHandler) login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnauthorized) {
			logger.Info("Login failed", slog.String("username", req.Username))
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid username or password"})
			return
		}
		respondServiceError(c, logger, err, "Failed to log in")
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		Token:   result.Token,
		Account: dto.ToAccountResponse(result.Account),
	})
}
