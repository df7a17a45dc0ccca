package core

import (
	"fmt"

	"github.com/agenthands/causalgraph/internal/config"
	"github.com/agenthands/causalgraph/internal/core/evidence"
)

// NewValidatorFromConfig builds a validator from application configuration,
// loading an evidence policy override when one is configured.
func NewValidatorFromConfig(cfg *config.Config) (*Validator, error) {
	ev := evidence.Default()
	if cfg.Evidence.PolicyPath != "" {
		p, err := evidence.LoadPolicy(cfg.Evidence.PolicyPath)
		if err != nil {
			return nil, err
		}
		if ev, err = evidence.NewEngine(p); err != nil {
			return nil, fmt.Errorf("failed to build evidence engine: %w", err)
		}
	}

	return NewValidator(Config{
		MaxCycleDepth:    cfg.Validator.MaxCycleDepth,
		AllowSameDate:    cfg.Validator.AllowSameDate,
		StrictEvidence:   cfg.Validator.StrictEvidence,
		DenyUnknownKinds: cfg.Checkpoint.DenyUnknownKinds,
	}, ev), nil
}
