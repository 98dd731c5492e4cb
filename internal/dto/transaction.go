package dto

import (
	"time"

	"github.com/SscSPs/secure_banking_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Validation statuses shown to clients.
const (
	StatusSafe    = "safe"
	StatusWarning = "warning"
	StatusDanger  = "danger"
)

// TransferRequest is the body of both the validate and the submit endpoints.
type TransferRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"money"`
	Recipient   string          `json:"recipient" binding:"required,max=64"`
	Description string          `json:"description" binding:"max=255"`
}

// ToDomain attaches the authenticated sender.
func (r TransferRequest) ToDomain(senderID string) domain.TransferRequest {
	return domain.TransferRequest{
		SenderID:      senderID,
		Amount:        r.Amount,
		RecipientName: r.Recipient,
		Description:   r.Description,
	}
}

// ValidationResponse is the client view of a verdict.
type ValidationResponse struct {
	Score            float64  `json:"score"`
	Status           string   `json:"status"`
	Message          string   `json:"message"`
	IsValid          bool     `json:"isValid"`
	ValidationErrors []string `json:"validationErrors"`
	FraudScore       int      `json:"fraudScore"`
}

// ToValidationResponse maps a verdict onto the safe/warning/danger scale.
func ToValidationResponse(v *domain.ValidationVerdict) ValidationResponse {
	resp := ValidationResponse{
		Score:            v.RiskScore,
		IsValid:          v.Approved,
		ValidationErrors: make([]string, 0, len(v.FailureReasons)),
	}
	for _, r := range v.FailureReasons {
		resp.ValidationErrors = append(resp.ValidationErrors, string(r))
	}
	if v.HasReason(domain.ReasonFraudDetected) {
		resp.FraudScore = 100
	}

	switch {
	case !v.Approved:
		resp.Status = StatusDanger
		resp.Message = "Transaction rejected"
		if len(v.FailureReasons) > 0 {
			resp.Message = v.FailureReasons[0].Message()
		}
	case v.Degraded:
		resp.Status = StatusWarning
		resp.Message = "Risk check unavailable, transaction allowed"
	case v.RiskScore > 0.8:
		resp.Status = StatusSafe
		resp.Message = "Transaction appears safe"
	case v.RiskScore > 0.5:
		resp.Status = StatusWarning
		resp.Message = "Transaction shows some risk factors"
	default:
		resp.Status = StatusDanger
		resp.Message = "Transaction shows high risk factors"
	}
	return resp
}

// TransferRejectedResponse is the 400 body of a submit that failed validation.
type TransferRejectedResponse struct {
	Error string `json:"error"`
	ValidationResponse
}

// TransactionEntryResponse defines the data returned for a ledger entry.
type TransactionEntryResponse struct {
	EntryID      string             `json:"id"`
	TransferID   string             `json:"transferId"`
	Type         domain.Direction   `json:"type"`
	Amount       decimal.Decimal    `json:"amount"`
	Recipient    string             `json:"recipient"`
	Description  string             `json:"description,omitempty"`
	Status       domain.EntryStatus `json:"status"`
	BalanceAfter decimal.Decimal    `json:"balanceAfter"`
	Timestamp    time.Time          `json:"timestamp"`
}

// ToTransactionEntryResponse converts a domain.LedgerEntry.
func ToTransactionEntryResponse(e domain.LedgerEntry) TransactionEntryResponse {
	return TransactionEntryResponse{
		EntryID:      e.EntryID,
		TransferID:   e.TransferID,
		Type:         e.Direction,
		Amount:       e.Amount,
		Recipient:    e.CounterpartyName,
		Description:  e.Description,
		Status:       e.Status,
		BalanceAfter: e.BalanceAfter,
		Timestamp:    e.CreatedAt,
	}
}

// ToTransactionEntryResponses converts a slice, never returning nil.
func ToTransactionEntryResponses(entries []domain.LedgerEntry) []TransactionEntryResponse {
	res := make([]TransactionEntryResponse, len(entries))
	for i, e := range entries {
		res[i] = ToTransactionEntryResponse(e)
	}
	return res
}

// ListTransactionsParams defines query parameters for the paged listing.
type ListTransactionsParams struct {
	Limit     int    `form:"limit" binding:"omitempty,min=1,max=100"`
	NextToken string `form:"nextToken"`
}

// ListTransactionsResponse wraps a page of entries.
type ListTransactionsResponse struct {
	Transactions []TransactionEntryResponse `json:"transactions"`
	NextToken    *string                    `json:"nextToken,omitempty"`
}

// RecentParams defines query parameters for the recent listing.
type RecentParams struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=50"`
}

// HistoryParams defines query parameters for the period listing.
type HistoryParams struct {
	Period string `form:"period" binding:"omitempty,oneof=all today week month"`
}
