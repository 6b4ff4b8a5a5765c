// =============================================================================
// Financial Mapper - Report Writers
// =============================================================================
//
// This module serialises pipeline outputs for downstream consumers.
//
// FORMATS:
//   json - one document per output (or an array for several years)
//   csv  - one row per mapping, all years in one table
//   xml  - one <statement> element per output under a common root
//
// Non-finite numbers (NaN, +Inf, -Inf) are written as JSON null, and as
// their text form in CSV and XML, so that a failed validation never breaks
// serialisation.
//
// =============================================================================

package report

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/ginjaninja78/financial-mapper/internal/schema"
	"github.com/ginjaninja78/financial-mapper/internal/validation"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatXML  = "xml"
)

// Extension returns the file extension for a format.
func Extension(format string) string {
	switch format {
	case FormatCSV:
		return ".csv"
	case FormatXML:
		return ".xml"
	default:
		return ".json"
	}
}

// Write serialises outs in the given format.
func Write(w io.Writer, format string, outs ...*schema.PipelineOutput) error {
	switch format {
	case FormatJSON, "":
		if len(outs) == 1 {
			return WriteJSON(w, outs[0])
		}
		return WriteJSONList(w, outs)
	case FormatCSV:
		return WriteCSV(w, outs)
	case FormatXML:
		return WriteXML(w, outs, DefaultXMLOptions())
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

// =============================================================================
// DOCUMENT SHAPE
// =============================================================================

// Mapping is the serialised form of a MappingResult.
type Mapping struct {
	CanonicalName string   `json:"canonical_name"`
	RawLabel      string   `json:"raw_label"`
	Value         *float64 `json:"value"`
	Confidence    float64  `json:"confidence"`
	MatchMethod   string   `json:"match_method"`
	Warnings      []string `json:"warnings"`
}

// Unmapped is the serialised form of an UnmappedEntry.
type Unmapped struct {
	RawLabel string `json:"raw_label"`
	RawValue any    `json:"raw_value"`
}

// Document is the serialised form of a PipelineOutput.
type Document struct {
	RunID              string     `json:"run_id"`
	Year               string     `json:"year,omitempty"`
	Success            bool       `json:"success"`
	Mappings           []Mapping  `json:"mappings"`
	Unmapped           []Unmapped `json:"unmapped"`
	ValidationErrors   []string   `json:"validation_errors"`
	ValidationWarnings []string   `json:"validation_warnings"`
	StartedAt          time.Time  `json:"started_at"`
	DurationMS         float64    `json:"duration_ms"`
}

// FromOutput builds the serialisable document of out.
func FromOutput(out *schema.PipelineOutput) Document {
	doc := Document{
		RunID:              out.RunID,
		Year:               out.Year,
		Success:            out.Success(),
		Mappings:           make([]Mapping, 0, len(out.Mappings)),
		Unmapped:           make([]Unmapped, 0, len(out.Unmapped)),
		ValidationErrors:   messages(out.Errors()),
		ValidationWarnings: messages(out.Warnings()),
		StartedAt:          out.StartedAt,
		DurationMS:         float64(out.Duration.Microseconds()) / 1000,
	}

	for _, m := range out.Mappings {
		warnings := m.Warnings
		if warnings == nil {
			warnings = []string{}
		}
		doc.Mappings = append(doc.Mappings, Mapping{
			CanonicalName: string(m.CanonicalName),
			RawLabel:      m.RawLabel,
			Value:         finite(m.Value),
			Confidence:    math.Round(m.Confidence*100) / 100,
			MatchMethod:   string(m.Method),
			Warnings:      warnings,
		})
	}
	for _, u := range out.Unmapped {
		doc.Unmapped = append(doc.Unmapped, Unmapped{RawLabel: u.RawLabel, RawValue: safeRaw(u.RawValue)})
	}
	return doc
}

func messages(issues []*validation.Issue) []string {
	out := make([]string, 0, len(issues))
	for _, is := range issues {
		out = append(out, is.Message)
	}
	return out
}

// finite returns v, or nil when v is nil or not finite.
func finite(v *float64) *float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return nil
	}
	return v
}

// safeRaw replaces non-finite floats with their text form.
func safeRaw(v any) any {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return formatFloat(x)
		}
	case float32:
		if math.IsNaN(float64(x)) || math.IsInf(float64(x), 0) {
			return formatFloat(float64(x))
		}
	}
	return v
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatValue(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

func formatRaw(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return formatFloat(x)
	default:
		return fmt.Sprint(x)
	}
}
