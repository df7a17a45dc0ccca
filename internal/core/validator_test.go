package core

import (
	"fmt"
	"sync"
	"testing"

	"github.com/agenthands/causalgraph/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func node(id, date string) model.NodeRef {
	return model.NodeRef{ID: id, Name: id, Date: model.DateInfo{Text: date}}
}

func conf(v float64) *float64 { return &v }

func TestValidateNewLink_Anachronism(t *testing.T) {
	v := NewValidator(DefaultConfig(), nil)

	verdict := v.ValidateNewLink(node("steam-engine", "1800"), node("railway", "1700"), nil, "")

	assert.False(t, verdict.IsValid)
	require.Len(t, verdict.Errors, 1)
	assert.Equal(t, model.CodeAnachronism, verdict.Errors[0].Code)
	assert.Equal(t, -100, verdict.Errors[0].Details["gap_years"])
}

func TestValidateNewLink_PendingApproval(t *testing.T) {
	v := NewValidator(DefaultConfig(), nil)

	verdict := v.ValidateNewLink(node("steam-engine", "1800"), node("railway", "1900"), nil, "")

	assert.True(t, verdict.IsValid)
	assert.True(t, verdict.RequiresCheckpoint)
	assert.Empty(t, verdict.Errors)
	require.NotEmpty(t, verdict.Warnings)
	assert.Contains(t, verdict.Warnings[len(verdict.Warnings)-1], "approval")
}

func TestValidateNewLink_Approved(t *testing.T) {
	v := NewValidator(DefaultConfig(), nil)

	verdict := v.ValidateNewLink(node("steam-engine", "1800"), node("railway", "1900"), nil, "approval-123")

	assert.True(t, verdict.IsValid)
	assert.False(t, verdict.RequiresCheckpoint)
	assert.Empty(t, verdict.Warnings)
}

func TestValidateNewLink_SelfLoop(t *testing.T) {
	v := NewValidator(DefaultConfig(), nil)

	verdict := v.ValidateNewLink(node("a", "1800"), node("a", "1900"), nil, "token")

	assert.False(t, verdict.IsValid)
	assert.True(t, verdict.HasCode(model.CodeSelfLoop))
	assert.False(t, verdict.RequiresCheckpoint)
}

func TestValidateNewLink_Cycle(t *testing.T) {
	v := NewValidator(DefaultConfig(), nil)
	existing := []model.Link{
		{TriggerID: "printing-press", ResultID: "reformation"},
		{TriggerID: "reformation", ResultID: "movable-type"},
	}

	verdict := v.ValidateNewLink(node("movable-type", "1040"), node("printing-press", "1440"), existing, "token")

	assert.False(t, verdict.IsValid)
	require.Len(t, verdict.Errors, 1)
	assert.Equal(t, model.CodeCausalCycle, verdict.Errors[0].Code)
	assert.Equal(t,
		[]string{"movable-type", "printing-press", "reformation", "movable-type"},
		verdict.Errors[0].Details["cycle_path"])
}

func TestValidateNewLink_CycleBeatsChronology(t *testing.T) {
	v := NewValidator(DefaultConfig(), nil)
	existing := []model.Link{{TriggerID: "b", ResultID: "a"}}

	// Dates are also out of order, but the cycle is reported first.
	verdict := v.ValidateNewLink(node("a", "1900"), node("b", "1800"), existing, "")
	require.Len(t, verdict.Errors, 1)
	assert.Equal(t, model.CodeCausalCycle, verdict.Errors[0].Code)
}

func TestValidateNewLink_UnknownDatesStillGated(t *testing.T) {
	v := NewValidator(DefaultConfig(), nil)

	verdict := v.ValidateNewLink(node("a", "unknown"), node("b", ""), nil, "")

	assert.True(t, verdict.IsValid)
	assert.True(t, verdict.RequiresCheckpoint)
	assert.Len(t, verdict.Warnings, 3)
}

func TestValidateNewLink_StrictDates(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AllowSameDate = false
	v := NewValidator(cfg, nil)

	verdict := v.ValidateNewLink(node("a", "1914"), node("b", "1914"), nil, "token")
	assert.False(t, verdict.IsValid)
	assert.True(t, verdict.HasCode(model.CodeAnachronismStrict))
}

func TestValidateNewLink_TruncatedSearchWarns(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxCycleDepth = 2
	v := NewValidator(cfg, nil)

	var existing []model.Link
	for i := 0; i < 5; i++ {
		existing = append(existing, model.Link{TriggerID: fmt.Sprintf("n%d", i), ResultID: fmt.Sprintf("n%d", i+1)})
	}

	verdict := v.ValidateNewLink(node("x", ""), node("n0", ""), existing, "token")
	assert.True(t, verdict.IsValid)
	assert.Contains(t, verdict.Warnings[0], "depth 2")
	assert.True(t, CycleSearchTruncated(verdict))
	assert.False(t, CycleSearchTruncated(v.ValidateNewLink(node("x", ""), node("y", ""), nil, "token")))
}

func TestValidateBioEvolution(t *testing.T) {
	v := NewValidator(DefaultConfig(), nil)

	t.Run("insufficient sources", func(t *testing.T) {
		verdict := v.ValidateBioEvolution(model.BioEvolutionRecord{
			Name:     "feathered dinosaurs",
			Evidence: model.Evidence{ClaimStrength: "strong", Sources: []model.Source{{Title: "Nature"}}, Confidence: conf(0.9)},
		}, "")
		assert.False(t, verdict.IsValid)
		assert.True(t, verdict.HasCode(model.CodeInsufficientSources))
		assert.False(t, verdict.RequiresCheckpoint)
	})

	t.Run("weak claim passes", func(t *testing.T) {
		verdict := v.ValidateBioEvolution(model.BioEvolutionRecord{
			Name:     "tiktaalik",
			Evidence: model.Evidence{ClaimStrength: "weak"},
		}, "")
		assert.True(t, verdict.IsValid)
		assert.False(t, verdict.RequiresCheckpoint)
		assert.Empty(t, verdict.Warnings)
	})

	t.Run("medium claim needs approval", func(t *testing.T) {
		verdict := v.ValidateBioEvolution(model.BioEvolutionRecord{
			Name:     "endosymbiosis",
			Evidence: model.Evidence{ClaimStrength: "medium", Sources: []model.Source{{Title: "Margulis 1967"}}},
		}, "")
		assert.True(t, verdict.Pending())
	})

	t.Run("medium claim with token", func(t *testing.T) {
		verdict := v.ValidateBioEvolution(model.BioEvolutionRecord{
			Name:     "endosymbiosis",
			Evidence: model.Evidence{ClaimStrength: "medium", Sources: []model.Source{{Title: "Margulis 1967"}}},
		}, "approved")
		assert.True(t, verdict.IsValid)
		assert.False(t, verdict.RequiresCheckpoint)
	})

	t.Run("invalid confidence", func(t *testing.T) {
		verdict := v.ValidateBioEvolution(model.BioEvolutionRecord{
			Evidence: model.Evidence{ClaimStrength: "weak", Confidence: conf(1.5)},
		}, "approved")
		assert.False(t, verdict.IsValid)
		assert.True(t, verdict.HasCode(model.CodeInvalidConfidence))
	})
}

func TestValidateHumanLegacy(t *testing.T) {
	v := NewValidator(DefaultConfig(), nil)

	t.Run("mystery link gates weak claim", func(t *testing.T) {
		verdict := v.ValidateHumanLegacy(model.HumanLegacyRecord{
			Name:             "Baghdad battery",
			WorldMysteryLink: "ancient electricity",
			Evidence:         model.Evidence{ClaimStrength: "weak"},
		}, "")
		assert.True(t, verdict.Pending())
		assert.Contains(t, verdict.Warnings[0], "ancient electricity")
	})

	t.Run("strong claim gated without mystery link", func(t *testing.T) {
		verdict := v.ValidateHumanLegacy(model.HumanLegacyRecord{
			Name: "Great Library",
			Evidence: model.Evidence{
				ClaimStrength: "strong",
				Sources:       []model.Source{{Title: "Strabo"}, {Title: "Plutarch"}},
			},
		}, "")
		assert.True(t, verdict.Pending())
	})

	t.Run("plain weak record", func(t *testing.T) {
		verdict := v.ValidateHumanLegacy(model.HumanLegacyRecord{Name: "aqueduct"}, "")
		assert.True(t, verdict.IsValid)
		assert.False(t, verdict.RequiresCheckpoint)
	})

	t.Run("unknown tier warns", func(t *testing.T) {
		verdict := v.ValidateHumanLegacy(model.HumanLegacyRecord{
			Name:     "aqueduct",
			Evidence: model.Evidence{ClaimStrength: "certain"},
		}, "")
		assert.True(t, verdict.IsValid)
		assert.Len(t, verdict.Warnings, 1)
	})
}

func TestValidator_RequiresCheckpoint(t *testing.T) {
	required, reason := NewValidator(DefaultConfig(), nil).RequiresCheckpoint("causal_link", nil)
	assert.True(t, required)
	assert.NotEmpty(t, reason)

	cfg := DefaultConfig()
	cfg.DenyUnknownKinds = true
	required, _ = NewValidator(cfg, nil).RequiresCheckpoint("artifact", nil)
	assert.True(t, required)
}

func TestValidator_ReExports(t *testing.T) {
	v := NewValidator(DefaultConfig(), nil)

	year, ok := v.ParseDateToInt("500 BCE")
	assert.True(t, ok)
	assert.Equal(t, -500, year)

	found, path := v.DetectCausalCycle("c", "a", []model.Link{{TriggerID: "a", ResultID: "c"}})
	assert.True(t, found)
	assert.Equal(t, []string{"c", "a", "c"}, path)
}

func TestValidator_ConcurrentUse(t *testing.T) {
	v := NewValidator(DefaultConfig(), nil)
	existing := []model.Link{{TriggerID: "b", ResultID: "c"}, {TriggerID: "c", ResultID: "a"}}

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			verdict := v.ValidateNewLink(node("a", "1800"), node("b", "1900"), existing, "")
			assert.True(t, verdict.HasCode(model.CodeCausalCycle))
		}()
	}
	wg.Wait()
}
