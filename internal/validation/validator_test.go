package validation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func target(canonical, raw string, v *float64) Target {
	var rv any
	if v != nil {
		rv = *v
	}
	return Target{Canonical: canonical, RawLabel: raw, Value: v, RawValue: rv}
}

func rules(issues []*Issue) []string {
	out := make([]string, len(issues))
	for i, is := range issues {
		out[i] = is.Rule
	}
	return out
}

func TestValidateCleanSet(t *testing.T) {
	v := NewValidator(DefaultOptions(), nil)
	report := v.ValidateTargets([]Target{
		target("Net Profit", "PAT", ptr(500000)),
		target("Net Sales", "Sales", ptr(1e6)),
	})
	assert.True(t, report.IsValid())
	assert.Empty(t, report.Warnings)
}

func TestValidateDuplicates(t *testing.T) {
	targets := []Target{
		target("Net Profit", "PAT", ptr(1)),
		target("Net Profit", "Net Income", ptr(2)),
		target("Net Profit", "Profit", ptr(3)),
	}

	t.Run("error policy", func(t *testing.T) {
		report := NewValidator(DefaultOptions(), nil).ValidateTargets(targets)
		require.Len(t, report.Errors, 2)
		assert.Contains(t, report.Errors[0].Message, "first from 'PAT', again from 'Net Income'")
		assert.Equal(t, "Profit", report.Errors[1].RawLabel)
	})

	t.Run("warning policy", func(t *testing.T) {
		opts := DefaultOptions()
		opts.ErrorOnDuplicate = false
		report := NewValidator(opts, nil).ValidateTargets(targets)
		assert.Empty(t, report.Errors)
		assert.Equal(t, []string{RuleDuplicate, RuleDuplicate}, rules(report.Warnings))
	})
}

func TestValidateRequired(t *testing.T) {
	opts := DefaultOptions()
	opts.RequiredFields = []string{"Net Profit", "Total Assets"}
	report := NewValidator(opts, nil).ValidateTargets([]Target{target("Net Profit", "PAT", ptr(1))})

	require.Len(t, report.Errors, 1)
	assert.Equal(t, "Required field missing: 'Total Assets'", report.Errors[0].Message)
	assert.Equal(t, "Total Assets", report.Errors[0].Field)
}

func TestValidateRequiredEmptyListDisablesCheck(t *testing.T) {
	report := NewValidator(DefaultOptions(), nil).ValidateTargets(nil)
	assert.True(t, report.IsValid())
}

func TestValidateValues(t *testing.T) {
	report := NewValidator(DefaultOptions(), nil).ValidateTargets([]Target{
		{Canonical: "Net Profit", RawLabel: "PAT", Value: nil, RawValue: nil},
		{Canonical: "Net Sales", RawLabel: "Sales", Value: nil, RawValue: "n/a"},
		target("Total Assets", "TA", ptr(math.NaN())),
		target("Total Debt", "Debt", ptr(math.Inf(-1))),
		target("Revenue", "Rev", ptr(2e15)),
	})

	assert.Equal(t, []string{RuleNonFinite, RuleNonFinite}, rules(report.Errors))
	assert.Equal(t, []string{RuleNullValue, RuleNonNumber, RuleMagnitude}, rules(report.Warnings))
	assert.Contains(t, report.Warnings[2].Message, "Possible unit error?")
}

func TestNonFiniteIsErrorRegardlessOfPolicy(t *testing.T) {
	opts := Options{ErrorOnDuplicate: false, MaxAbsoluteValue: math.MaxFloat64}
	report := NewValidator(opts, nil).ValidateTargets([]Target{target("EBITDA", "ebitda", ptr(math.Inf(1)))})
	require.Len(t, report.Errors, 1)
	assert.Equal(t, RuleNonFinite, report.Errors[0].Rule)
}

func TestChecksDoNotSuppressEachOther(t *testing.T) {
	opts := DefaultOptions()
	opts.RequiredFields = []string{"Equity"}
	report := NewValidator(opts, nil).ValidateTargets([]Target{
		target("Tax", "tax", ptr(math.NaN())),
		target("Tax", "income tax", ptr(1)),
	})
	assert.ElementsMatch(t, []string{RuleDuplicate, RuleRequired, RuleNonFinite}, rules(report.Errors))
}

type fakeMapping struct{ t Target }

func (f fakeMapping) ValidationTarget() Target { return f.t }

func TestValidateGeneric(t *testing.T) {
	v := NewValidator(DefaultOptions(), nil)
	report := Validate(v, []fakeMapping{{t: target("Tax", "tax", nil)}})
	assert.Len(t, report.Warnings, 1)
}

func TestFormatIssues(t *testing.T) {
	issues := []*Issue{
		{Severity: SeverityError, Rule: RuleRequired, Field: "Tax", Message: "Required field missing: 'Tax'"},
		{Severity: SeverityWarning, Rule: RuleNullValue, Field: "Net Profit", Message: "Value is null"},
	}
	out := FormatIssues(issues)
	assert.Contains(t, out, "Validation completed with 2 issue(s):")
	assert.Contains(t, out, "1. [ERROR] required: Required field missing: 'Tax'")
	assert.Contains(t, out, "2. [WARNING] null_value: Value is null")
}

func TestFormatIssuesEmpty(t *testing.T) {
	assert.Equal(t, "No validation issues.", FormatIssues(nil))
}
