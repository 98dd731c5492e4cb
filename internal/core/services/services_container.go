package services

import (
	"fmt"

	portsrepo "github.com/SscSPs/secure_banking_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/secure_banking_app/internal/core/ports/services"
	"github.com/SscSPs/secure_banking_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// publisher may be nil, in which case no ledger events are emitted.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, scorer portssvc.RiskScorer, publisher portssvc.EventPublisher) (*portssvc.ServiceContainer, error) {
	policy, err := ParseFailPolicy(cfg.RiskFailPolicy)
	if err != nil {
		return nil, err
	}
	if scorer == nil {
		return nil, fmt.Errorf("risk scorer is required")
	}

	container := &portssvc.ServiceContainer{}

	// Security first since auth and the transaction pipeline record into it
	container.Security = NewSecurityService(repos.SecurityLogRepo)
	container.Auth = NewAuthService(cfg, repos.AccountRepo, container.Security)
	container.History = NewHistoryService(repos.AccountRepo, repos.LedgerRepo)

	ledgerOpts := []LedgerOption{}
	if publisher != nil {
		ledgerOpts = append(ledgerOpts, WithEventPublisher(publisher))
	}
	container.Ledger = NewLedgerService(repos.LedgerRepo, ledgerOpts...)

	validatorCfg := ValidatorConfigFrom(cfg)
	validator := NewValidatorService(repos.AccountRepo, repos.LedgerRepo, scorer, WithValidatorConfig(validatorCfg))

	container.Transaction = NewTransactionService(validator, container.Ledger,
		WithFailPolicy(policy, validatorCfg.LowRiskAmount),
		WithSecurityService(container.Security),
	)

	return container, nil
}

// ValidatorConfigFrom overlays the configured velocity and timeout settings on the defaults.
func ValidatorConfigFrom(cfg *config.Config) ValidatorConfig {
	vc := DefaultValidatorConfig()
	if cfg.VelocityWindow > 0 {
		vc.Velocity.Window = cfg.VelocityWindow
	}
	if cfg.VelocityVolumeLimit.IsPositive() {
		vc.Velocity.VolumeLimit = cfg.VelocityVolumeLimit
	}
	if cfg.RiskScorerTimeout > 0 {
		vc.ScorerTimeout = cfg.RiskScorerTimeout
	}
	return vc
}
