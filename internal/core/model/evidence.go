package model

type ClaimStrength string

const (
	ClaimWeak   ClaimStrength = "weak"
	ClaimMedium ClaimStrength = "medium"
	ClaimStrong ClaimStrength = "strong"
)

type Source struct {
	Title    string `json:"title,omitempty"`
	URL      string `json:"url,omitempty"`
	Citation string `json:"citation,omitempty"`
}

type Evidence struct {
	Sources       []Source `json:"sources"`
	Confidence    *float64 `json:"confidence,omitempty"`
	ClaimStrength string   `json:"claim_strength"`
}
