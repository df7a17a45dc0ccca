package core

import (
	"fmt"
	"strings"

	"github.com/agenthands/causalgraph/internal/core/checkpoint"
	"github.com/agenthands/causalgraph/internal/core/chronology"
	"github.com/agenthands/causalgraph/internal/core/cycle"
	"github.com/agenthands/causalgraph/internal/core/evidence"
	"github.com/agenthands/causalgraph/internal/core/model"
	"github.com/agenthands/causalgraph/internal/core/temporal"
)

const truncatedPrefix = "cycle search stopped at depth"

// CycleSearchTruncated reports whether the verdict carries the depth-cap warning.
func CycleSearchTruncated(v model.Verdict) bool {
	for _, w := range v.Warnings {
		if strings.HasPrefix(w, truncatedPrefix) {
			return true
		}
	}
	return false
}

type Config struct {
	MaxCycleDepth int
	AllowSameDate bool
	// StrictEvidence is reserved; it is carried through configuration but no
	// rule reads it yet.
	StrictEvidence   bool
	DenyUnknownKinds bool
}

func DefaultConfig() Config {
	return Config{
		MaxCycleDepth: cycle.DefaultMaxDepth,
		AllowSameDate: true,
	}
}

// Validator composes the graph-shape checks and the governance policies into a
// single verdict per proposed edge or entity. It holds no mutable state and is
// safe for concurrent use.
type Validator struct {
	cfg         Config
	evidence    *evidence.Engine
	checkpoints checkpoint.Resolver
}

func NewValidator(cfg Config, ev *evidence.Engine) *Validator {
	if cfg.MaxCycleDepth <= 0 {
		cfg.MaxCycleDepth = cycle.DefaultMaxDepth
	}
	if ev == nil {
		ev = evidence.Default()
	}
	return &Validator{
		cfg:         cfg,
		evidence:    ev,
		checkpoints: checkpoint.Resolver{DenyUnknown: cfg.DenyUnknownKinds},
	}
}

func (v *Validator) Config() Config { return v.cfg }

// ValidateNewLink checks a candidate trigger -> result edge against the existing
// snapshot. Graph-shape problems are hard errors; a missing approval token only
// marks the verdict as pending.
func (v *Validator) ValidateNewLink(trigger, result model.NodeRef, existing []model.Link, approvalToken string) model.Verdict {
	if trigger.ID == result.ID {
		return model.Reject(nil, model.ValidationError{
			Code:    model.CodeSelfLoop,
			Message: fmt.Sprintf("node %q cannot cause itself", trigger.ID),
			Field:   "result_id",
			Details: map[string]any{"node_id": trigger.ID},
		})
	}

	var warnings []string

	cr := cycle.Detect(trigger.ID, result.ID, existing, v.cfg.MaxCycleDepth)
	if cr.Found {
		return model.Reject(nil, model.ValidationError{
			Code:    model.CodeCausalCycle,
			Message: fmt.Sprintf("linking %q to %q would create a causal cycle", trigger.ID, result.ID),
			Field:   "result_id",
			Details: map[string]any{"cycle_path": cr.Path},
		})
	}
	if cr.Truncated {
		warnings = append(warnings, fmt.Sprintf(
			"%s %d; acyclicity was not fully verified", truncatedPrefix, v.cfg.MaxCycleDepth))
	}

	chrono := chronology.Check(trigger.Date, result.Date, v.cfg.AllowSameDate)
	warnings = append(warnings, chrono.Warnings...)
	if !chrono.OK() {
		return model.Reject(warnings, *chrono.Violation)
	}

	decision := v.checkpoints.Resolve(checkpoint.CausalLink{TriggerID: trigger.ID, ResultID: result.ID})
	return gate(decision, approvalToken, warnings)
}

// ValidateBioEvolution applies the evidence policy, then the checkpoint policy.
func (v *Validator) ValidateBioEvolution(rec model.BioEvolutionRecord, approvalToken string) model.Verdict {
	ev := v.evidence.Check(rec.Evidence)
	if !ev.OK() {
		return model.Reject(ev.Warnings, ev.Errors...)
	}
	decision := v.checkpoints.Resolve(checkpoint.BioEvolution{ClaimStrength: string(ev.Tier)})
	return gate(withTier(decision, ev), approvalToken, ev.Warnings)
}

// ValidateHumanLegacy applies the evidence policy, then the checkpoint policy.
func (v *Validator) ValidateHumanLegacy(rec model.HumanLegacyRecord, approvalToken string) model.Verdict {
	ev := v.evidence.Check(rec.Evidence)
	if !ev.OK() {
		return model.Reject(ev.Warnings, ev.Errors...)
	}
	decision := v.checkpoints.Resolve(checkpoint.HumanLegacy{WorldMysteryLink: rec.WorldMysteryLink})
	return gate(withTier(decision, ev), approvalToken, ev.Warnings)
}

// RequiresCheckpoint resolves the string-keyed entity form using this
// validator's handling of unknown kinds.
func (v *Validator) RequiresCheckpoint(kind string, fields map[string]any) (bool, string) {
	d := v.checkpoints.Resolve(checkpoint.FromFields(kind, fields))
	return d.Required, d.Reason
}

func (v *Validator) ParseDateToInt(text string) (int, bool) {
	return temporal.ParseDateToInt(text)
}

// DetectCausalCycle runs the cycle detector with the configured depth cap.
func (v *Validator) DetectCausalCycle(triggerID, resultID string, existing []model.Link) (bool, []string) {
	return cycle.DetectCausalCycle(triggerID, resultID, existing, v.cfg.MaxCycleDepth)
}

// withTier folds the evidence tier requirement into the kind's decision:
// medium and strong claims are always gated.
func withTier(d checkpoint.Decision, ev evidence.Result) checkpoint.Decision {
	if d.Required || !ev.RequiresCheckpoint {
		return d
	}
	return checkpoint.Decision{
		Required: true,
		Reason:   fmt.Sprintf("%s claims require human review", ev.Tier),
	}
}

func gate(d checkpoint.Decision, approvalToken string, warnings []string) model.Verdict {
	if !d.Required || approvalToken != "" {
		return model.Accept(warnings...)
	}
	verdict := model.Accept(append(warnings, "human approval required before commit: "+d.Reason)...)
	verdict.RequiresCheckpoint = true
	return verdict
}
