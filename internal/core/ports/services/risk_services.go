package services

import (
	"context"

	"github.com/SscSPs/secure_banking_app/internal/core/domain"
)

// RiskScorer estimates fraud likelihood for bounded transaction features.
// Implementations return a score in [0,1] or an error; they never coerce bad output.
type RiskScorer interface {
	Score(ctx context.Context, features domain.RiskFeatures) (float64, error)
}
