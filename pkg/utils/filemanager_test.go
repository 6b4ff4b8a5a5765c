package utils

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/financial-mapper/internal/schema"
	"github.com/ginjaninja78/financial-mapper/internal/validation"
)

func TestGenerateOutputFileName(t *testing.T) {
	name := GenerateOutputFileName("{original}_{year}", map[string]string{"original": "acme", "year": "2024-03-31"}, ".json")
	assert.Equal(t, "acme_2024-03-31.json", name)

	name = GenerateOutputFileName("{original}_{year}", map[string]string{"original": "acme", "year": "Year 1"}, ".csv")
	assert.Equal(t, "acme_Year_1.csv", name)

	name = GenerateOutputFileName("{original}_{year}", map[string]string{"original": "acme", "year": ""}, ".xml")
	assert.Equal(t, "acme_single.xml", name)

	name = GenerateOutputFileName("{uuid}", nil, ".json")
	assert.Len(t, strings.TrimSuffix(name, ".json"), 36)

	assert.Equal(t, "done.json", GenerateOutputFileName("done.json", nil, ".json"))
}

func TestDiscoverInputFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.xlsx", "a.csv", "notes.txt", "~$b.xlsx"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.csv"), 0755))

	files, err := DiscoverInputFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.csv"), filepath.Join(dir, "b.xlsx")}, files)

	single, err := DiscoverInputFiles(filepath.Join(dir, "notes.txt"))
	require.NoError(t, err)
	assert.Len(t, single, 1)

	_, err = DiscoverInputFiles(t.TempDir())
	assert.Error(t, err)
}

func sampleOutput() *schema.PipelineOutput {
	v := 1.0
	return &schema.PipelineOutput{
		RunID: "run-1",
		Year:  "2024",
		Mappings: []*schema.MappingResult{
			{CanonicalName: schema.NetProfit, RawLabel: "PAT", Value: &v, Warnings: []string{"Percent symbol stripped"}},
		},
		Unmapped: []schema.UnmappedEntry{{RawLabel: "Misc", RawValue: 3}},
		Report: &validation.Report{
			Errors:   []*validation.Issue{{Severity: validation.SeverityError, Rule: validation.RuleRequired, Field: "Revenue", Message: "Required field missing: 'Revenue'"}},
			Warnings: []*validation.Issue{{Severity: validation.SeverityWarning, Rule: validation.RuleNullValue, Message: "null"}},
		},
	}
}

func TestAuditLog(t *testing.T) {
	entries := AuditEntries("acme.xlsx", sampleOutput())
	require.Len(t, entries, 4)
	assert.Equal(t, "error", entries[0].Kind)
	assert.Equal(t, "warning", entries[1].Kind)
	assert.Equal(t, "mapping-warning", entries[2].Kind)
	assert.Equal(t, "unmapped", entries[3].Kind)
	assert.Equal(t, "No canonical match for 'Misc' (value 3)", entries[3].Message)

	dir := t.TempDir()
	path, err := WriteAuditLog(entries, dir)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Total Entries: 4")
	assert.Contains(t, string(data), "Required field missing: 'Revenue'")

	path, err = WriteAuditLog(nil, dir)
	require.NoError(t, err)
	assert.Empty(t, path)
}

func TestSummaryLog(t *testing.T) {
	var s ProcessingSummary
	s.Add(ProcessedFileInfo{InputFile: "acme.xlsx", Layouts: []string{"statutory_multi_year"}}, []*schema.PipelineOutput{sampleOutput(), sampleOutput()})
	s.Fail("broken.csv", errors.New("CSV file is empty"))

	assert.Equal(t, 2, s.TotalFiles)
	assert.Equal(t, 1, s.FailedFiles)
	assert.Equal(t, 2, s.TotalYears)
	assert.Equal(t, 2, s.TotalMappings)
	assert.Equal(t, 2, s.ValidationErrors)

	path, err := WriteSummaryLog(s, t.TempDir())
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Layouts:      statutory_multi_year")
	assert.Contains(t, string(data), "Error: CSV file is empty")
}

func TestFileManagerOutputPath(t *testing.T) {
	fm := NewFileManager(filepath.Join(t.TempDir(), "out"), "{original}_{year}")
	require.NoError(t, fm.EnsureDirectories())
	assert.True(t, FileExists(fm.OutputDir))
	assert.Equal(t, filepath.Join(fm.OutputDir, "acme_FY2024.xml"), fm.OutputPath("/data/acme.xlsx", "FY2024", ".xml"))
}
