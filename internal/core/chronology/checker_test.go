package chronology

import (
	"testing"

	"github.com/agenthands/causalgraph/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck_Anachronism(t *testing.T) {
	r := Check(model.YearOf(1450), model.YearOf(1200), true)

	require.False(t, r.OK())
	assert.Equal(t, model.CodeAnachronism, r.Violation.Code)
	assert.Equal(t, 1450, r.Violation.Details["trigger_year"])
	assert.Equal(t, 1200, r.Violation.Details["result_year"])
	assert.Equal(t, -250, r.Violation.Details["gap_years"])
}

func TestCheck_SameYear(t *testing.T) {
	allowed := Check(model.DateInfo{Text: "1066"}, model.DateInfo{Text: "c. 1066"}, true)
	assert.True(t, allowed.OK())
	assert.Empty(t, allowed.Warnings)

	strict := Check(model.DateInfo{Text: "1066"}, model.DateInfo{Text: "c. 1066"}, false)
	require.False(t, strict.OK())
	assert.Equal(t, model.CodeAnachronismStrict, strict.Violation.Code)
	assert.Equal(t, 0, strict.Violation.Details["gap_years"])
}

func TestCheck_StrictStillRejectsEarlierResult(t *testing.T) {
	r := Check(model.YearOf(1800), model.YearOf(1700), false)
	require.False(t, r.OK())
	assert.Equal(t, model.CodeAnachronismStrict, r.Violation.Code)
}

func TestCheck_Ordered(t *testing.T) {
	r := Check(model.DateInfo{Text: "500 BCE"}, model.DateInfo{Text: "100 BCE"}, false)
	assert.True(t, r.OK())
}

func TestCheck_UnknownDatesWarn(t *testing.T) {
	r := Check(model.DateInfo{}, model.DateInfo{Text: "sometime later"}, true)
	assert.True(t, r.OK())
	require.Len(t, r.Warnings, 2)
	assert.Contains(t, r.Warnings[0], "trigger date is missing")
	assert.Contains(t, r.Warnings[1], `"sometime later"`)
}
