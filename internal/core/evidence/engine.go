// Package evidence classifies claims by strength tier and enforces the
// source-count and confidence rules attached to each tier.
package evidence

import (
	"fmt"
	"math"
	"strings"

	"github.com/agenthands/causalgraph/internal/core/model"
)

type Engine struct {
	policy Policy
}

// NewEngine validates the policy table before use.
func NewEngine(p Policy) (*Engine, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Engine{policy: p}, nil
}

// Default returns an engine over the embedded policy table.
func Default() *Engine {
	return &Engine{policy: DefaultPolicy()}
}

type Result struct {
	Tier               model.ClaimStrength
	RequiresCheckpoint bool
	Errors             []model.ValidationError
	Warnings           []string
}

func (r Result) OK() bool { return len(r.Errors) == 0 }

// ResolveTier maps a declared label to a tier. Unrecognised labels fall back to
// the most permissive tier with a warning; an empty label is plain weak.
func ResolveTier(label string) (model.ClaimStrength, []string) {
	switch s := model.ClaimStrength(strings.ToLower(strings.TrimSpace(label))); s {
	case model.ClaimWeak, model.ClaimMedium, model.ClaimStrong:
		return s, nil
	case "":
		return model.ClaimWeak, nil
	default:
		return model.ClaimWeak, []string{fmt.Sprintf("unrecognized claim strength %q; treating as %q", label, model.ClaimWeak)}
	}
}

// Check applies the policy table to a piece of evidence.
func (e *Engine) Check(ev model.Evidence) Result {
	tier, warnings := ResolveTier(ev.ClaimStrength)
	tp := e.policy.tier(tier)

	res := Result{
		Tier:               tier,
		RequiresCheckpoint: tp.RequiresCheckpoint,
		Warnings:           warnings,
	}
	provided := len(ev.Sources)

	if ev.Confidence != nil {
		c := *ev.Confidence
		switch {
		case math.IsNaN(c) || c < 0 || c > 1:
			res.Errors = append(res.Errors, model.ValidationError{
				Code:    model.CodeInvalidConfidence,
				Message: fmt.Sprintf("confidence %v must be between 0 and 1", c),
				Field:   "confidence",
				Details: map[string]any{"confidence": c},
			})
		case c > e.policy.SuspiciousConfidence && provided < e.policy.SuspiciousMinSources:
			res.Warnings = append(res.Warnings, fmt.Sprintf(
				"suspicious confidence: %.2f backed by only %d source(s)", c, provided))
		}
	}

	if provided < tp.MinSources {
		res.Errors = append(res.Errors, model.ValidationError{
			Code:    model.CodeInsufficientSources,
			Message: fmt.Sprintf("%s claims require at least %d source(s), got %d", tier, tp.MinSources, provided),
			Field:   "sources",
			Details: map[string]any{
				"claim_strength": string(tier),
				"required":       tp.MinSources,
				"provided":       provided,
			},
		})
	}

	return res
}
