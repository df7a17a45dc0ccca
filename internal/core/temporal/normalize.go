// Package temporal turns free-form, uncertain date text into a comparable signed year.
package temporal

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/agenthands/causalgraph/internal/core/model"
)

const maxYearDigits = 4

var (
	// An era marker is a standalone token: "500 bce", "44 b.c.", "500 bce (approx)".
	// Letters on either side ("abc", "bcd") disqualify it.
	eraMarker = regexp.MustCompile(`(?:^|[^a-z])(b\.?c\.?(?:e\.?)?)(?:[^a-z]|$)`)

	uncertaintyPrefixes = []string{"approximately", "approx.", "approx", "circa", "about", "around", "ca.", "c.", "~"}

	// A range keeps its first bound: "1939-1945", "1939 – 1945", "1939 to 1945".
	firstBound = regexp.MustCompile(`^(\D*\d+)\s*(?:-|–|—|/|to|until)\s*\d`)
)

// ParseDateToInt returns the signed year described by text, or false when no year
// can be recovered. Malformed input degrades to "unknown"; it never errors.
func ParseDateToInt(text string) (int, bool) {
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" {
		return 0, false
	}

	negative := false
	if rest, ok := trimEra(s); ok {
		negative = true
		s = rest
	}

	s = trimUncertainty(s)

	if strings.HasPrefix(s, "-") {
		negative = true
		s = strings.TrimSpace(strings.TrimPrefix(s, "-"))
	}

	if m := firstBound.FindStringSubmatch(s); m != nil {
		s = m[1]
	}

	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
	if digits == "" {
		return 0, false
	}
	if len(digits) > maxYearDigits {
		digits = digits[:maxYearDigits]
	}

	year, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	if negative {
		year = -year
	}
	return year, true
}

// Resolve prefers a pre-parsed year and falls back to parsing the raw text.
func Resolve(d model.DateInfo) (int, bool) {
	if d.Year != nil {
		return *d.Year, true
	}
	return ParseDateToInt(d.Text)
}

// FormatYear renders a year the way ParseDateToInt reads it back.
func FormatYear(year int) string {
	if year < 0 {
		return strconv.Itoa(-year) + " BCE"
	}
	return strconv.Itoa(year)
}

func trimEra(s string) (string, bool) {
	loc := eraMarker.FindStringSubmatchIndex(s)
	if loc == nil {
		return s, false
	}
	return strings.TrimSpace(s[:loc[2]] + " " + s[loc[3]:]), true
}

func trimUncertainty(s string) string {
	for {
		stripped := false
		for _, prefix := range uncertaintyPrefixes {
			if strings.HasPrefix(s, prefix) {
				s = strings.TrimSpace(strings.TrimPrefix(s, prefix))
				stripped = true
				break
			}
		}
		if !stripped {
			return s
		}
	}
}
