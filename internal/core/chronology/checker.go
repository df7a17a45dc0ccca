// Package chronology enforces that a cause is not dated after its effect.
package chronology

import (
	"fmt"

	"github.com/agenthands/causalgraph/internal/core/model"
	"github.com/agenthands/causalgraph/internal/core/temporal"
)

// Result is a verdict fragment. Violation is nil when the check passes.
type Result struct {
	Violation *model.ValidationError
	Warnings  []string
}

func (r Result) OK() bool { return r.Violation == nil }

// Check compares the trigger and result dates. Unknown dates pass with a warning:
// chronology is advisory when information is incomplete.
func Check(trigger, result model.DateInfo, allowSameDate bool) Result {
	triggerYear, triggerOK := temporal.Resolve(trigger)
	resultYear, resultOK := temporal.Resolve(result)

	var warnings []string
	if !triggerOK {
		warnings = append(warnings, unknownWarning("trigger", trigger))
	}
	if !resultOK {
		warnings = append(warnings, unknownWarning("result", result))
	}
	if len(warnings) > 0 {
		return Result{Warnings: warnings}
	}

	details := map[string]any{
		"trigger_year": triggerYear,
		"result_year":  resultYear,
		"gap_years":    resultYear - triggerYear,
	}

	if allowSameDate {
		if resultYear < triggerYear {
			return Result{Violation: &model.ValidationError{
				Code:    model.CodeAnachronism,
				Message: fmt.Sprintf("result (%d) is dated before its trigger (%d)", resultYear, triggerYear),
				Field:   "result_date",
				Details: details,
			}}
		}
		return Result{}
	}

	if resultYear <= triggerYear {
		return Result{Violation: &model.ValidationError{
			Code:    model.CodeAnachronismStrict,
			Message: fmt.Sprintf("result (%d) must be dated strictly after its trigger (%d)", resultYear, triggerYear),
			Field:   "result_date",
			Details: details,
		}}
	}
	return Result{}
}

func unknownWarning(side string, d model.DateInfo) string {
	if d.Text == "" {
		return fmt.Sprintf("cannot verify chronology: %s date is missing", side)
	}
	return fmt.Sprintf("cannot verify chronology: %s date %q could not be parsed", side, d.Text)
}
