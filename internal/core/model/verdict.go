package model

import "fmt"

type ErrorCode string

const (
	CodeSelfLoop            ErrorCode = "SELF_LOOP"
	CodeCausalCycle         ErrorCode = "CAUSAL_CYCLE"
	CodeAnachronism         ErrorCode = "ANACHRONISM"
	CodeAnachronismStrict   ErrorCode = "ANACHRONISM_STRICT"
	CodeInvalidConfidence   ErrorCode = "INVALID_CONFIDENCE"
	CodeInsufficientSources ErrorCode = "INSUFFICIENT_SOURCES"
)

// ValidationError is a hard failure reported as data.
type ValidationError struct {
	Code    ErrorCode      `json:"code" yaml:"code"`
	Message string         `json:"message" yaml:"message"`
	Field   string         `json:"field,omitempty" yaml:"field,omitempty"`
	Details map[string]any `json:"details,omitempty" yaml:"details,omitempty"`
}

func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s (%s): %s", e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type Verdict struct {
	IsValid            bool              `json:"is_valid" yaml:"is_valid"`
	RequiresCheckpoint bool              `json:"requires_checkpoint" yaml:"requires_checkpoint"`
	Errors             []ValidationError `json:"errors" yaml:"errors"`
	Warnings           []string          `json:"warnings" yaml:"warnings"`
}

// Accept returns a valid verdict carrying the given warnings.
func Accept(warnings ...string) Verdict {
	return Verdict{
		IsValid:  true,
		Errors:   []ValidationError{},
		Warnings: append([]string{}, warnings...),
	}
}

// Reject returns an invalid verdict. Warnings gathered before the failure are kept.
func Reject(warnings []string, errs ...ValidationError) Verdict {
	return Verdict{
		IsValid:  false,
		Errors:   append([]ValidationError{}, errs...),
		Warnings: append([]string{}, warnings...),
	}
}

// HasCode reports whether the verdict carries an error with the given code.
func (v Verdict) HasCode(code ErrorCode) bool {
	for _, e := range v.Errors {
		if e.Code == code {
			return true
		}
	}
	return false
}

// Pending reports a verdict that is well-formed but still awaits human approval.
func (v Verdict) Pending() bool {
	return v.IsValid && v.RequiresCheckpoint
}
