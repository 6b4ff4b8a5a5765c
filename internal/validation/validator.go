// =============================================================================
// Financial Mapper - Validation Engine
// =============================================================================
//
// Post-mapping checks run once over the complete mapping set of a run, before
// it is handed to downstream consumers.
//
// CHECKS (independent, none short-circuits another):
//   1. Duplicate canonical targets - first occurrence wins; each later one is
//      an error or a warning depending on ErrorOnDuplicate
//   2. Required fields - each configured field absent from the set is an
//      error; an empty list disables the check
//   3. Value sanity - null or non-numeric values are warnings, NaN/Inf is
//      always an error, magnitudes above MaxAbsoluteValue are warnings
//
// ERROR HANDLING:
//   - Findings are collected, not returned as Go errors
//   - Each Issue records the rule, the canonical field and the raw label
//
// =============================================================================

package validation

import (
	"fmt"
	"math"
	"strings"

	"github.com/ginjaninja78/financial-mapper/internal/logging"
)

// Severity levels.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Rule names recorded on each Issue.
const (
	RuleDuplicate = "duplicate"
	RuleRequired  = "required"
	RuleNullValue = "null_value"
	RuleNonNumber = "non_numeric"
	RuleNonFinite = "non_finite"
	RuleMagnitude = "magnitude"
)

// =============================================================================
// ISSUES AND REPORT
// =============================================================================

// Issue is a single validation finding.
type Issue struct {
	// Severity is SeverityError or SeverityWarning.
	Severity string

	// Rule is the check that produced the finding.
	Rule string

	// Field is the canonical field concerned.
	Field string

	// RawLabel is the source label, empty for required-field findings.
	RawLabel string

	Message string
}

// Error implements the error interface.
func (i *Issue) Error() string {
	return fmt.Sprintf("[%s] %s: %s", strings.ToUpper(i.Severity), i.Rule, i.Message)
}

// Report accumulates the errors and warnings of one validation pass.
type Report struct {
	Errors   []*Issue
	Warnings []*Issue
}

// IsValid is true when the report holds no errors.
func (r *Report) IsValid() bool {
	return len(r.Errors) == 0
}

// ErrorMessages returns the message of every error, in order.
func (r *Report) ErrorMessages() []string {
	return messages(r.Errors)
}

// WarningMessages returns the message of every warning, in order.
func (r *Report) WarningMessages() []string {
	return messages(r.Warnings)
}

func messages(issues []*Issue) []string {
	out := make([]string, len(issues))
	for i, is := range issues {
		out[i] = is.Message
	}
	return out
}

// =============================================================================
// VALIDATOR
// =============================================================================

// Target is the view of a mapping the validator needs.
type Target struct {
	Canonical string
	RawLabel  string
	Value     *float64
	RawValue  any
}

// Targeter is implemented by anything that can be validated.
type Targeter interface {
	ValidationTarget() Target
}

// Options controls the validator. Zero values are replaced by defaults in
// NewValidator.
type Options struct {
	// RequiredFields lists canonical names that must be mapped.
	RequiredFields []string

	// MaxAbsoluteValue flags values whose magnitude suggests a unit error.
	// Default: 1e15
	MaxAbsoluteValue float64

	// ErrorOnDuplicate makes duplicate canonical targets errors rather than
	// warnings.
	ErrorOnDuplicate bool
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{
		RequiredFields:   nil,
		MaxAbsoluteValue: 1e15,
		ErrorOnDuplicate: true,
	}
}

// Validator checks completed mapping sets.
type Validator struct {
	options Options
	logger  logging.Logger
}

// NewValidator creates a Validator. A nil logger discards output.
func NewValidator(options Options, logger logging.Logger) *Validator {
	if options.MaxAbsoluteValue <= 0 {
		options.MaxAbsoluteValue = DefaultOptions().MaxAbsoluteValue
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Validator{options: options, logger: logger}
}

// Validate runs every check over the full set and returns the findings.
func Validate[T Targeter](v *Validator, mappings []T) *Report {
	targets := make([]Target, len(mappings))
	for i, m := range mappings {
		targets[i] = m.ValidationTarget()
	}
	return v.ValidateTargets(targets)
}

// ValidateTargets runs every check over the given targets.
func (v *Validator) ValidateTargets(targets []Target) *Report {
	report := &Report{}
	v.checkDuplicates(targets, report)
	v.checkRequired(targets, report)
	v.checkValues(targets, report)
	return report
}

func (v *Validator) checkDuplicates(targets []Target, report *Report) {
	seen := make(map[string]string, len(targets))
	for _, t := range targets {
		first, ok := seen[t.Canonical]
		if !ok {
			seen[t.Canonical] = t.RawLabel
			continue
		}

		msg := fmt.Sprintf("Duplicate canonical mapping '%s': first from '%s', again from '%s'",
			t.Canonical, first, t.RawLabel)
		severity := SeverityWarning
		if v.options.ErrorOnDuplicate {
			severity = SeverityError
		}
		v.add(report, &Issue{Severity: severity, Rule: RuleDuplicate, Field: t.Canonical, RawLabel: t.RawLabel, Message: msg})
	}
}

func (v *Validator) checkRequired(targets []Target, report *Report) {
	if len(v.options.RequiredFields) == 0 {
		return
	}

	mapped := make(map[string]bool, len(targets))
	for _, t := range targets {
		mapped[t.Canonical] = true
	}

	for _, req := range v.options.RequiredFields {
		if mapped[req] {
			continue
		}
		v.add(report, &Issue{
			Severity: SeverityError,
			Rule:     RuleRequired,
			Field:    req,
			Message:  fmt.Sprintf("Required field missing: '%s'", req),
		})
	}
}

func (v *Validator) checkValues(targets []Target, report *Report) {
	for _, t := range targets {
		issue := &Issue{Field: t.Canonical, RawLabel: t.RawLabel}

		switch {
		case t.Value == nil && isNonNumeric(t.RawValue):
			issue.Severity = SeverityWarning
			issue.Rule = RuleNonNumber
			issue.Message = fmt.Sprintf("'%s' (from '%s') has non-numeric value: %v", t.Canonical, t.RawLabel, t.RawValue)
		case t.Value == nil:
			issue.Severity = SeverityWarning
			issue.Rule = RuleNullValue
			issue.Message = fmt.Sprintf("'%s' (from '%s') has null value", t.Canonical, t.RawLabel)
		case math.IsNaN(*t.Value) || math.IsInf(*t.Value, 0):
			issue.Severity = SeverityError
			issue.Rule = RuleNonFinite
			issue.Message = fmt.Sprintf("'%s' has non-finite value: %v", t.Canonical, *t.Value)
		case math.Abs(*t.Value) > v.options.MaxAbsoluteValue:
			issue.Severity = SeverityWarning
			issue.Rule = RuleMagnitude
			issue.Message = fmt.Sprintf("'%s' value %g exceeds max_absolute_value (%g). Possible unit error?",
				t.Canonical, *t.Value, v.options.MaxAbsoluteValue)
		default:
			continue
		}

		v.add(report, issue)
	}
}

// isNonNumeric is true for raw values that were present but could not be read
// as a number. Absent and blank values count as null instead.
func isNonNumeric(raw any) bool {
	switch r := raw.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(r) != ""
	default:
		return true
	}
}

func (v *Validator) add(report *Report, issue *Issue) {
	if issue.Severity == SeverityError {
		report.Errors = append(report.Errors, issue)
		v.logger.Error("validation error: %s", issue.Message)
		return
	}
	report.Warnings = append(report.Warnings, issue)
	v.logger.Warn("validation warning: %s", issue.Message)
}

// =============================================================================
// ERROR OUTPUT
// =============================================================================

// FormatIssues formats findings for display or logging.
//
// PARAMETERS:
//   - issues: The findings to format.
//
// RETURNS:
//   - A numbered, multi-line listing.
func FormatIssues(issues []*Issue) string {
	if len(issues) == 0 {
		return "No validation issues."
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Validation completed with %d issue(s):\n\n", len(issues)))
	for i, issue := range issues {
		builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, issue.Error()))
	}
	return builder.String()
}
