package model

// DateInfo carries whatever is known about when a fact happened.
// A pre-parsed Year takes precedence over Text.
type DateInfo struct {
	Text string `json:"text,omitempty"`
	Year *int   `json:"year,omitempty"`
}

type NodeRef struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	Date DateInfo `json:"date"`
}

// YearOf is a small helper for building a DateInfo with a known year.
func YearOf(year int) DateInfo {
	return DateInfo{Year: &year}
}
