package domain

// ReasonCode identifies a single failed validation rule.
type ReasonCode string

const (
	ReasonRecipientNotFound      ReasonCode = "recipient_not_found"
	ReasonInvalidRecipientFormat ReasonCode = "invalid_recipient_format"
	ReasonExcessiveVolume        ReasonCode = "excessive_transaction_volume"
	ReasonFraudDetected          ReasonCode = "fraud_detected"
	ReasonSelfTransfer           ReasonCode = "self_transfer"
)

// Message returns the human readable text shown to API clients.
func (r ReasonCode) Message() string {
	switch r {
	case ReasonRecipientNotFound:
		return "Recipient not found"
	case ReasonInvalidRecipientFormat:
		return "Recipient name may only contain letters and digits"
	case ReasonExcessiveVolume:
		return "Too many high-value transactions in a short period"
	case ReasonFraudDetected:
		return "Transaction flagged as potentially fraudulent"
	case ReasonSelfTransfer:
		return "Cannot transfer money to your own account"
	default:
		return string(r)
	}
}

// ValidationVerdict is the validator's decision for one transfer attempt.
// Degraded is set when the verdict was approved without a risk score.
type ValidationVerdict struct {
	Approved       bool
	RiskScore      float64
	FailureReasons []ReasonCode
	Degraded       bool
}

// Rejected builds a verdict that carries the given reasons and a zero score.
func Rejected(reasons ...ReasonCode) *ValidationVerdict {
	return &ValidationVerdict{Approved: false, RiskScore: 0, FailureReasons: reasons}
}

// HasReason reports whether the verdict lists code.
func (v *ValidationVerdict) HasReason(code ReasonCode) bool {
	for _, r := range v.FailureReasons {
		if r == code {
			return true
		}
	}
	return false
}

// RiskFeatures are the bounded inputs handed to a risk scorer.
type RiskFeatures struct {
	Amount            float64 `json:"amount"`
	RecipientLength   float64 `json:"recipientLength"`
	DescriptionLength float64 `json:"descriptionLength"`
}

// Vector returns the features in model order.
func (f RiskFeatures) Vector() []float64 {
	return []float64{f.Amount, f.RecipientLength, f.DescriptionLength}
}
