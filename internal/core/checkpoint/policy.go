// Package checkpoint decides whether writing an entity needs human approval.
//
// Entity kinds form a closed set: every kind is a type implementing Entity,
// and Entity cannot be satisfied without a policy method, so a new kind
// cannot be introduced without an explicit approval decision.
package checkpoint

import (
	"fmt"
	"strings"

	"github.com/agenthands/causalgraph/internal/core/model"
)

type Kind string

const (
	KindBioEvolution Kind = "bio_evolution"
	KindHumanLegacy  Kind = "human_legacy"
	KindCausalLink   Kind = "causal_link"
	KindOriginNode   Kind = "origin_node"
)

type Decision struct {
	Required bool   `json:"requires_checkpoint" yaml:"requires_checkpoint"`
	Reason   string `json:"reason" yaml:"reason"`
}

type Entity interface {
	Kind() Kind
	policy() Decision
}

type BioEvolution struct {
	ClaimStrength string
}

func (BioEvolution) Kind() Kind { return KindBioEvolution }

func (e BioEvolution) policy() Decision {
	switch s := model.ClaimStrength(strings.ToLower(strings.TrimSpace(e.ClaimStrength))); s {
	case model.ClaimMedium, model.ClaimStrong:
		return Decision{Required: true, Reason: fmt.Sprintf("%s claims about biological evolution require human review", s)}
	default:
		return Decision{Reason: "weak claims are recorded without review"}
	}
}

type HumanLegacy struct {
	WorldMysteryLink string
}

func (HumanLegacy) Kind() Kind { return KindHumanLegacy }

func (e HumanLegacy) policy() Decision {
	if strings.TrimSpace(e.WorldMysteryLink) != "" {
		return Decision{Required: true, Reason: fmt.Sprintf("links to world mystery %q require human review", e.WorldMysteryLink)}
	}
	return Decision{Reason: "no world mystery link"}
}

type CausalLink struct {
	TriggerID string
	ResultID  string
}

func (CausalLink) Kind() Kind { return KindCausalLink }

func (CausalLink) policy() Decision {
	return Decision{Required: true, Reason: "causal links are never auto-approved"}
}

type OriginNode struct {
	Validated bool
}

func (OriginNode) Kind() Kind { return KindOriginNode }

func (e OriginNode) policy() Decision {
	if e.Validated {
		return Decision{Required: true, Reason: "re-validating an already validated origin node requires human review"}
	}
	return Decision{Reason: "origin node has not been validated yet"}
}

// Unclassified is any kind without a dedicated policy. It is permitted by
// default; Resolver.DenyUnknown turns that into a required checkpoint.
type Unclassified struct {
	Name string
}

func (e Unclassified) Kind() Kind { return Kind(e.Name) }

func (e Unclassified) policy() Decision {
	return Decision{Reason: fmt.Sprintf("no checkpoint policy for entity kind %q", e.Name)}
}
