package checkpoint

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

type Resolver struct {
	// DenyUnknown requires a checkpoint for kinds without a dedicated policy.
	DenyUnknown bool
}

func (r Resolver) Resolve(e Entity) Decision {
	if u, ok := e.(Unclassified); ok && r.DenyUnknown {
		return Decision{Required: true, Reason: fmt.Sprintf("entity kind %q is not classified; review required", u.Name)}
	}
	return e.policy()
}

// RequiresCheckpoint resolves the string-keyed form with the default resolver.
func RequiresCheckpoint(kind string, fields map[string]any) (bool, string) {
	d := Resolver{}.Resolve(FromFields(kind, fields))
	return d.Required, d.Reason
}

// FromFields decodes a loosely typed entity description into its kind.
func FromFields(kind string, fields map[string]any) Entity {
	switch ParseKind(kind) {
	case KindBioEvolution:
		return BioEvolution{ClaimStrength: stringField(fields, "claim_strength")}
	case KindHumanLegacy:
		return HumanLegacy{WorldMysteryLink: stringField(fields, "world_mystery_link")}
	case KindCausalLink:
		return CausalLink{TriggerID: stringField(fields, "trigger_id"), ResultID: stringField(fields, "result_id")}
	case KindOriginNode:
		return OriginNode{Validated: boolField(fields, "is_validated")}
	default:
		return Unclassified{Name: kind}
	}
}

// ParseKind normalizes a kind spelling to snake_case, so "causal-link",
// "Causal Link" and "CausalLink" all resolve to KindCausalLink.
func ParseKind(kind string) Kind {
	var b strings.Builder
	prev := rune(0)
	for _, r := range strings.TrimSpace(kind) {
		switch {
		case r == '-' || r == ' ' || r == '.':
			r = '_'
		case unicode.IsUpper(r) && (unicode.IsLower(prev) || unicode.IsDigit(prev)):
			b.WriteRune('_')
		}
		b.WriteRune(unicode.ToLower(r))
		prev = r
	}
	return Kind(b.String())
}

func stringField(fields map[string]any, key string) string {
	switch v := fields[key].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func boolField(fields map[string]any, key string) bool {
	switch v := fields[key].(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(strings.TrimSpace(v))
		return b
	default:
		return false
	}
}
