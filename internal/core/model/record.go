package model

// BioEvolutionRecord is a claim about a biological-evolution fact.
type BioEvolutionRecord struct {
	Name   string `json:"name"`
	Period string `json:"period,omitempty"`
	Evidence
}

// HumanLegacyRecord is a claim about a human-made legacy, optionally tied to
// an unresolved world mystery.
type HumanLegacyRecord struct {
	Name             string `json:"name"`
	Era              string `json:"era,omitempty"`
	WorldMysteryLink string `json:"world_mystery_link,omitempty"`
	Evidence
}
