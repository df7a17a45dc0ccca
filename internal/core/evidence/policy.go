package evidence

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/agenthands/causalgraph/internal/core/model"
	"github.com/pelletier/go-toml/v2"
)

//go:embed policy.toml
var defaultPolicyTOML []byte

type TierPolicy struct {
	MinSources         int  `toml:"min_sources"`
	RequiresCheckpoint bool `toml:"requires_checkpoint"`
}

type Policy struct {
	// Confidence above this with fewer than SuspiciousMinSources sources is flagged.
	SuspiciousConfidence float64               `toml:"suspicious_confidence"`
	SuspiciousMinSources int                   `toml:"suspicious_min_sources"`
	Tiers                map[string]TierPolicy `toml:"tiers"`
}

var knownTiers = []model.ClaimStrength{model.ClaimWeak, model.ClaimMedium, model.ClaimStrong}

// tierFloors is the least a policy file may ask of the gated tiers. Overrides
// can tighten these but never relax them.
var tierFloors = map[model.ClaimStrength]TierPolicy{
	model.ClaimMedium: {MinSources: 1, RequiresCheckpoint: true},
	model.ClaimStrong: {MinSources: 2, RequiresCheckpoint: true},
}

// ParsePolicy decodes and validates a TOML policy table.
func ParsePolicy(data []byte) (Policy, error) {
	var p Policy
	if err := toml.Unmarshal(data, &p); err != nil {
		return Policy{}, fmt.Errorf("failed to parse evidence policy: %w", err)
	}
	if err := p.Validate(); err != nil {
		return Policy{}, err
	}
	return p, nil
}

// LoadPolicy reads a policy table from disk.
func LoadPolicy(path string) (Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("failed to read evidence policy '%s': %w", path, err)
	}
	return ParsePolicy(data)
}

// DefaultPolicy returns the embedded policy table. It panics if the embedded
// file is malformed, which only a broken build can cause.
func DefaultPolicy() Policy {
	p, err := ParsePolicy(defaultPolicyTOML)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Policy) Validate() error {
	if p.SuspiciousConfidence < 0 || p.SuspiciousConfidence > 1 {
		return fmt.Errorf("evidence policy: suspicious_confidence %v outside [0, 1]", p.SuspiciousConfidence)
	}
	if p.SuspiciousMinSources < 0 {
		return fmt.Errorf("evidence policy: suspicious_min_sources must not be negative")
	}
	for _, tier := range knownTiers {
		tp, ok := p.Tiers[string(tier)]
		if !ok {
			return fmt.Errorf("evidence policy: missing tier %q", tier)
		}
		if tp.MinSources < 0 {
			return fmt.Errorf("evidence policy: tier %q has negative min_sources", tier)
		}
		floor, gated := tierFloors[tier]
		if !gated {
			continue
		}
		if tp.MinSources < floor.MinSources {
			return fmt.Errorf("evidence policy: tier %q min_sources %d is below %d", tier, tp.MinSources, floor.MinSources)
		}
		if floor.RequiresCheckpoint && !tp.RequiresCheckpoint {
			return fmt.Errorf("evidence policy: tier %q must require a checkpoint", tier)
		}
	}
	return nil
}

func (p Policy) tier(s model.ClaimStrength) TierPolicy {
	return p.Tiers[string(s)]
}
