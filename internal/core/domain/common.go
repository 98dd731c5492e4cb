package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

// MoneyScale is the number of fractional digits a monetary amount may carry.
const MoneyScale = 2

// IsValidAmount reports whether d is strictly positive and has at most MoneyScale decimals.
func IsValidAmount(d decimal.Decimal) bool {
	if !d.IsPositive() {
		return false
	}
	return d.Equal(d.Truncate(MoneyScale))
}
