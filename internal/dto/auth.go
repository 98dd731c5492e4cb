package dto

import (
	"github.com/shopspring/decimal"
)

// RegisterRequest defines the data needed to open an account.
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	// InitialDeposit is optional; omitted selects the configured default opening balance.
	InitialDeposit *decimal.Decimal `json:"initialDeposit" binding:"omitempty,money"`
}

// LoginRequest carries login credentials.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse is returned on successful login.
type LoginResponse struct {
	Token   string          `json:"token"`
	Account AccountResponse `json:"account"`
}

// RegisterResponse is returned after a successful registration.
type RegisterResponse struct {
	Message string          `json:"message"`
	Account AccountResponse `json:"account"`
}
