// =============================================================================
// Financial Mapper - Shared Types
// =============================================================================
//
// Types shared by the mapping pipeline, the layout detector and the report
// writers. They live in their own package so that every component can depend
// on them without depending on each other.
//
// =============================================================================

package schema

import (
	"time"

	"github.com/ginjaninja78/financial-mapper/internal/validation"
)

// MatchMethod identifies which matcher resolved a label.
type MatchMethod string

const (
	MethodExact    MatchMethod = "exact"
	MethodFuzzy    MatchMethod = "fuzzy"
	MethodSemantic MatchMethod = "semantic"
)

// RawPair is one (label, value) pair before mapping. Value keeps whatever the
// source produced: float64 for numeric cells, string for text, nil for blanks.
type RawPair struct {
	Label string
	Value any
}

// YearPairs holds the pairs extracted for one fiscal year.
type YearPairs struct {
	Year  string
	Pairs []RawPair
}

// =============================================================================
// MAPPING RESULTS
// =============================================================================

// MappingResult is one resolved raw label -> canonical field association.
// It is created once by the pipeline and not modified afterwards.
type MappingResult struct {
	CanonicalName CanonicalField
	RawLabel      string

	// Value is the parsed number, nil when the raw value could not be parsed.
	Value *float64

	// RawValue is the value as it arrived from the source.
	RawValue any

	// Confidence is 0-100.
	Confidence float64
	Method     MatchMethod
	Warnings   []string
}

// IsConfident reports whether the mapping carries no warnings.
func (m *MappingResult) IsConfident() bool {
	return len(m.Warnings) == 0
}

// ValidationTarget exposes the mapping to the validator.
func (m *MappingResult) ValidationTarget() validation.Target {
	return validation.Target{
		Canonical: string(m.CanonicalName),
		RawLabel:  m.RawLabel,
		Value:     m.Value,
		RawValue:  m.RawValue,
	}
}

// UnmappedEntry is a raw pair that no matcher could resolve.
type UnmappedEntry struct {
	RawLabel string
	RawValue any
}

// =============================================================================
// PIPELINE OUTPUT
// =============================================================================

// PipelineOutput aggregates everything produced by one run.
type PipelineOutput struct {
	RunID string

	// Year is the fiscal-year identifier when the run came from a multi-year
	// extraction. Empty for single-document runs.
	Year string

	Mappings []*MappingResult
	Unmapped []UnmappedEntry
	Report   *validation.Report

	StartedAt time.Time
	Duration  time.Duration
}

// Success is true iff the validation report holds no errors.
func (o *PipelineOutput) Success() bool {
	return o.Report == nil || len(o.Report.Errors) == 0
}

// Errors returns the validation errors of the run.
func (o *PipelineOutput) Errors() []*validation.Issue {
	if o.Report == nil {
		return nil
	}
	return o.Report.Errors
}

// Warnings returns the validation warnings of the run. Per-mapping warnings
// stay on their MappingResult.
func (o *PipelineOutput) Warnings() []*validation.Issue {
	if o.Report == nil {
		return nil
	}
	return o.Report.Warnings
}

// MappedValues returns canonical name -> value for every mapping, first
// mapping winning when a field was mapped more than once. Nil values are kept
// as nil so that consumers can tell "mapped but unparseable" from "absent".
func (o *PipelineOutput) MappedValues() map[CanonicalField]*float64 {
	out := make(map[CanonicalField]*float64, len(o.Mappings))
	for _, m := range o.Mappings {
		if _, seen := out[m.CanonicalName]; seen {
			continue
		}
		out[m.CanonicalName] = m.Value
	}
	return out
}
