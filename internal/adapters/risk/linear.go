// Package risk provides RiskScorer implementations: an in-process logistic
// model, a client for a remote model service and a Redis-backed cache that
// decorates either of them.
package risk

import (
	"context"
	"fmt"
	"math"

	"github.com/SscSPs/secure_banking_app/internal/core/domain"
	portssvc "github.com/SscSPs/secure_banking_app/internal/core/ports/services"
)

var _ portssvc.RiskScorer = (*LinearScorer)(nil)

// Feature scales map each clamped feature onto [0,1] before weighting.
var defaultScales = []float64{10000, 20, 100}

// LinearScorer is a logistic regression over the normalized feature vector.
// Higher scores mean lower risk.
type LinearScorer struct {
	weights []float64
	bias    float64
	scales  []float64
}

// NewLinearScorer validates the model shape. weights must match the feature vector length.
func NewLinearScorer(weights []float64, bias float64) (*LinearScorer, error) {
	if len(weights) != len(defaultScales) {
		return nil, fmt.Errorf("linear scorer needs %d weights, got %d", len(defaultScales), len(weights))
	}
	for i, w := range weights {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, fmt.Errorf("weight %d is not finite", i)
		}
	}
	if math.IsNaN(bias) || math.IsInf(bias, 0) {
		return nil, fmt.Errorf("bias is not finite")
	}
	return &LinearScorer{
		weights: append([]float64(nil), weights...),
		bias:    bias,
		scales:  defaultScales,
	}, nil
}

// Score returns sigmoid(bias + Σ wᵢ·xᵢ/scaleᵢ).
func (s *LinearScorer) Score(ctx context.Context, features domain.RiskFeatures) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	z := s.bias
	for i, x := range features.Vector() {
		z += s.weights[i] * x / s.scales[i]
	}
	return 1 / (1 + math.Exp(-z)), nil
}
