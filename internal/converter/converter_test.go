package converter

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/financial-mapper/internal/config"
	"github.com/ginjaninja78/financial-mapper/internal/layout"
	"github.com/ginjaninja78/financial-mapper/internal/pipeline"
	"github.com/ginjaninja78/financial-mapper/internal/schema"
)

const statutoryCSV = `Balance Sheet as at 31 March 2024,,,
Particulars,Note No.,31-03-2024,31-03-2023
Revenue from operations,1,"1,20,000",95000
Net Profit,,5000,4000
Total Assets,,200000,180000
`

func writeInput(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Output.Dir = filepath.Join(t.TempDir(), "out")
	cfg.Output.FileNameFormat = "{original}_{year}"
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestRunCSVWritesOnePerYear(t *testing.T) {
	cfg := testConfig(t)
	path := writeInput(t, "acme.csv", statutoryCSV)

	res := New(path, cfg, Options{}, nil).Run()
	require.NoError(t, res.Error)
	assert.True(t, res.Success)

	require.Len(t, res.Layouts, 1)
	assert.Equal(t, layout.StatutoryMultiYear, res.Layouts[0].Layout.Archetype)
	assert.Equal(t, []string{"acme.csv: statutory_multi_year"}, res.LayoutNames())

	require.Len(t, res.Outputs, 2)
	assert.Equal(t, "2024-03-31", res.Outputs[0].Year)
	assert.Equal(t, "2023-03-31", res.Outputs[1].Year)
	assert.Equal(t, 6, res.Stats.PairsExtracted)
	assert.Equal(t, 6, res.Stats.Mappings)

	values := res.Outputs[0].MappedValues()
	require.NotNil(t, values[schema.NetSales])
	assert.Equal(t, 120000.0, *values[schema.NetSales])

	assert.Equal(t, []string{
		filepath.Join(cfg.Output.Dir, "acme_2024-03-31.json"),
		filepath.Join(cfg.Output.Dir, "acme_2023-03-31.json"),
	}, res.OutputFiles)

	data, err := os.ReadFile(res.OutputFiles[1])
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "2023-03-31", doc["year"])
}

func TestRunJSONRecordsToStream(t *testing.T) {
	cfg := testConfig(t)
	path := writeInput(t, "acme.json", `{"PAT": 500, "Mystery Line": 3}`)

	var buf bytes.Buffer
	res := New(path, cfg, Options{Stdout: &buf}, nil).Run()
	require.NoError(t, res.Error)
	assert.Nil(t, res.Layouts)
	assert.Empty(t, res.OutputFiles)
	assert.Contains(t, buf.String(), `"Net Profit"`)

	entries := res.AuditEntries()
	require.Len(t, entries, 1)
	assert.Equal(t, "unmapped", entries[0].Kind)
	assert.Equal(t, "acme.json", entries[0].FileName)
}

func TestRunDryRun(t *testing.T) {
	cfg := testConfig(t)
	path := writeInput(t, "acme.csv", statutoryCSV)

	res := New(path, cfg, Options{DryRun: true}, nil).Run()
	require.NoError(t, res.Error)
	assert.Empty(t, res.OutputFiles)
	_, err := os.Stat(cfg.Output.Dir)
	assert.True(t, os.IsNotExist(err))
}

func TestRunStrictMode(t *testing.T) {
	cfg := testConfig(t)
	cfg.Matching.StrictMode = true
	cfg.Validation.RequiredFields = []string{"Revenue"}
	path := writeInput(t, "acme.json", `{"PAT": 500}`)

	res := New(path, cfg, Options{DryRun: true}, nil).Run()
	assert.False(t, res.Success)
	var strict *pipeline.StrictModeError
	assert.ErrorAs(t, res.Error, &strict)
}

func TestRunUnsupportedInput(t *testing.T) {
	cfg := testConfig(t)
	path := writeInput(t, "acme.pdf", "%PDF")

	res := New(path, cfg, Options{}, nil).Run()
	assert.False(t, res.Success)
	assert.ErrorIs(t, res.Error, ErrUnsupportedInput)
}

func TestExtractHTML(t *testing.T) {
	cfg := testConfig(t)
	path := writeInput(t, "acme.html", `<table>
<tr><th>Particulars</th><th>2024</th><th>2023</th></tr>
<tr><td>Net Profit</td><td>10</td><td>9</td></tr>
<tr><td>Total Assets</td><td>100</td><td>90</td></tr>
<tr><td>Share Capital</td><td>50</td><td>50</td></tr>
</table>`)

	years, layouts, err := New(path, cfg, Options{}, nil).Extract()
	require.NoError(t, err)
	require.Len(t, layouts, 1)
	require.Len(t, years, 2)
	assert.Equal(t, "2024", years[0].Year)
	assert.Len(t, years[0].Pairs, 3)
}
