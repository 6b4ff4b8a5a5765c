package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"encoding/xml"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/financial-mapper/internal/schema"
	"github.com/ginjaninja78/financial-mapper/internal/validation"
)

func ptr(f float64) *float64 { return &f }

func sampleOutput() *schema.PipelineOutput {
	return &schema.PipelineOutput{
		RunID: "run-1",
		Year:  "2024",
		Mappings: []*schema.MappingResult{
			{CanonicalName: schema.NetProfit, RawLabel: "PAT", Value: ptr(500000), RawValue: 500000.0, Confidence: 100, Method: schema.MethodExact},
			{CanonicalName: schema.Revenue, RawLabel: "Net Sales & Services", Value: ptr(math.Inf(1)), RawValue: math.Inf(1), Confidence: 91.6666, Method: schema.MethodFuzzy,
				Warnings: []string{"Ambiguous fuzzy match"}},
		},
		Unmapped: []schema.UnmappedEntry{{RawLabel: "Misc", RawValue: 12.0}},
		Report: &validation.Report{
			Errors: []*validation.Issue{{Severity: validation.SeverityError, Rule: validation.RuleNonFinite, Field: "Revenue", Message: "Non-finite value for 'Revenue'"}},
		},
		StartedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Duration:  1500 * time.Microsecond,
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, sampleOutput()))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, "run-1", doc["run_id"])
	assert.Equal(t, false, doc["success"])
	assert.Equal(t, 1.5, doc["duration_ms"])

	mappings := doc["mappings"].([]any)
	require.Len(t, mappings, 2)
	first := mappings[0].(map[string]any)
	assert.Equal(t, "Net Profit", first["canonical_name"])
	assert.Equal(t, 500000.0, first["value"])
	assert.Equal(t, []any{}, first["warnings"])

	second := mappings[1].(map[string]any)
	assert.Nil(t, second["value"], "non-finite values are written as null")
	assert.Equal(t, 91.67, second["confidence"])

	unmapped := doc["unmapped"].([]any)
	assert.Equal(t, "Misc", unmapped[0].(map[string]any)["raw_label"])
	assert.Equal(t, []any{"Non-finite value for 'Revenue'"}, doc["validation_errors"])
	assert.Equal(t, []any{}, doc["validation_warnings"])
}

func TestWriteJSONList(t *testing.T) {
	other := sampleOutput()
	other.Year = "2023"

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, sampleOutput(), other))

	var docs []Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &docs))
	require.Len(t, docs, 2)
	assert.Equal(t, "2023", docs[1].Year)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatCSV, sampleOutput()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, CSVHeader, records[0])
	assert.Equal(t, []string{"2024", "Net Profit", "PAT", "500000", "500000", "100.00", "exact", ""}, records[1])
	assert.Equal(t, "+Inf", records[2][3])
	assert.Equal(t, "Ambiguous fuzzy match", records[2][7])
}

func TestWriteXML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatXML, sampleOutput()))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "<?xml"))
	assert.Contains(t, out, `<statement n="1" runId="run-1" year="2024" success="false">`)
	assert.Contains(t, out, "<rawLabel>Net Sales &amp; Services</rawLabel>")
	assert.Contains(t, out, "<confidence>91.67</confidence>")
	assert.Contains(t, out, `<error rule="non_finite" field="Revenue">`)
	assert.Contains(t, out, "<warning>Ambiguous fuzzy match</warning>")

	var parsed struct {
		Statements []struct {
			Year     string `xml:"year,attr"`
			Mappings []struct {
				CanonicalName string `xml:"canonicalName"`
			} `xml:"mapping"`
		} `xml:"statement"`
	}
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &parsed))
	require.Len(t, parsed.Statements, 1)
	assert.Equal(t, "Net Profit", parsed.Statements[0].Mappings[0].CanonicalName)
}

func TestWriteUnknownFormat(t *testing.T) {
	assert.Error(t, Write(&bytes.Buffer{}, "pdf", sampleOutput()))
}

func TestExtension(t *testing.T) {
	assert.Equal(t, ".json", Extension(FormatJSON))
	assert.Equal(t, ".csv", Extension(FormatCSV))
	assert.Equal(t, ".xml", Extension(FormatXML))
}

