package pipeline

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/financial-mapper/internal/config"
	"github.com/ginjaninja78/financial-mapper/internal/schema"
	"github.com/ginjaninja78/financial-mapper/internal/validation"
)

func pairs(kv ...any) []schema.RawPair {
	out := make([]schema.RawPair, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		out = append(out, schema.RawPair{Label: kv[i].(string), Value: kv[i+1]})
	}
	return out
}

func TestExactSynonymMapping(t *testing.T) {
	p := New(DefaultOptions(), nil)
	out, err := p.MapRecord(map[string]any{"Profit After Tax": 500000})
	require.NoError(t, err)

	require.Len(t, out.Mappings, 1)
	m := out.Mappings[0]
	assert.Equal(t, schema.NetProfit, m.CanonicalName)
	require.NotNil(t, m.Value)
	assert.Equal(t, 500000.0, *m.Value)
	assert.Equal(t, 100.0, m.Confidence)
	assert.Equal(t, schema.MethodExact, m.Method)
	assert.Empty(t, m.Warnings)
	assert.True(t, m.IsConfident())
	assert.True(t, out.Success())
	assert.NotEmpty(t, out.RunID)
}

func TestFuzzyMapping(t *testing.T) {
	opts := DefaultOptions()
	opts.Fuzzy.Threshold = 75
	p := New(opts, nil)

	out, err := p.MapRecord(map[string]any{"Nett Proffit": 100000})
	require.NoError(t, err)
	require.Len(t, out.Mappings, 1)
	assert.Equal(t, schema.NetProfit, out.Mappings[0].CanonicalName)
	assert.Equal(t, schema.MethodFuzzy, out.Mappings[0].Method)
	assert.GreaterOrEqual(t, out.Mappings[0].Confidence, 75.0)
}

func TestUnmapped(t *testing.T) {
	p := New(DefaultOptions(), nil)
	out, err := p.MapRecord(map[string]any{"Totally Unknown Field": 1})
	require.NoError(t, err)
	assert.Empty(t, out.Mappings)
	require.Len(t, out.Unmapped, 1)
	assert.Equal(t, "Totally Unknown Field", out.Unmapped[0].RawLabel)
	assert.Equal(t, 1, out.Unmapped[0].RawValue)
}

func TestAmbiguousFuzzyKeepsMatchWithWarning(t *testing.T) {
	p := New(DefaultOptions(), nil)
	out, err := p.MapPairs(pairs("Profit", 10))
	require.NoError(t, err)
	require.Len(t, out.Mappings, 1)
	m := out.Mappings[0]
	assert.Equal(t, schema.MethodFuzzy, m.Method)
	require.Len(t, m.Warnings, 1)
	assert.Contains(t, m.Warnings[0], "Ambiguous fuzzy match for 'Profit'")
	assert.False(t, m.IsConfident())
}

func TestValueWarningsCarried(t *testing.T) {
	p := New(DefaultOptions(), nil)
	out, err := p.MapPairs(pairs("Net Sales", "12.5%", "PAT", "n/a"))
	require.NoError(t, err)
	require.Len(t, out.Mappings, 2)

	assert.Equal(t, 12.5, *out.Mappings[0].Value)
	assert.Len(t, out.Mappings[0].Warnings, 1)

	assert.Nil(t, out.Mappings[1].Value)
	require.Len(t, out.Report.Warnings, 1)
	assert.Equal(t, validation.RuleNonNumber, out.Report.Warnings[0].Rule)
}

func TestDuplicateConflict(t *testing.T) {
	p := New(DefaultOptions(), nil)
	out, err := p.MapPairs(pairs("PAT", 1, "Net Income", 2))
	require.NoError(t, err)

	require.Len(t, out.Mappings, 2, "later duplicate is not rejected")
	assert.Empty(t, out.Mappings[0].Warnings)
	require.Len(t, out.Mappings[1].Warnings, 1)
	assert.Contains(t, out.Mappings[1].Warnings[0], "previously mapped from 'PAT', now also from 'Net Income'")

	assert.False(t, out.Success())
	require.Len(t, out.Errors(), 1)
	assert.Equal(t, validation.RuleDuplicate, out.Errors()[0].Rule)

	assert.Equal(t, 1.0, *out.MappedValues()[schema.NetProfit])
}

func TestDuplicateTrackingIsPerRun(t *testing.T) {
	p := New(DefaultOptions(), nil)
	_, err := p.MapPairs(pairs("PAT", 1))
	require.NoError(t, err)

	out, err := p.MapPairs(pairs("Net Income", 2))
	require.NoError(t, err)
	assert.Empty(t, out.Mappings[0].Warnings)
	assert.True(t, out.Success())
}

func TestStrictMode(t *testing.T) {
	opts := DefaultOptions()
	opts.StrictMode = true
	opts.Validation.RequiredFields = []string{"Total Assets"}
	p := New(opts, nil)

	out, err := p.MapPairs(pairs("PAT", 1))
	assert.Nil(t, out)
	require.Error(t, err)

	var strict *StrictModeError
	require.True(t, errors.As(err, &strict))
	require.Len(t, strict.Errors, 1)
	assert.Contains(t, err.Error(), "Strict mode: pipeline produced 1 validation error(s)")
}

func TestNonStrictReturnsFailedOutput(t *testing.T) {
	opts := DefaultOptions()
	opts.Validation.RequiredFields = []string{"Total Assets"}
	p := New(opts, nil)

	out, err := p.MapPairs(pairs("PAT", math.Inf(1)))
	require.NoError(t, err)
	assert.False(t, out.Success())
	assert.Len(t, out.Errors(), 2)
}

func TestSemanticHook(t *testing.T) {
	hook := SemanticFunc(func(normalized string) (string, float64, bool) {
		switch normalized {
		case "munafa":
			return "net profit", 0.9, true
		case "kharcha":
			return "Operating Expenses", 0.5, true
		case "bogus":
			return "Not A Field", 0.99, true
		}
		return "", 0, false
	})

	opts := DefaultOptions()
	opts.EnableSemantic = true
	opts.Semantic = hook
	p := New(opts, nil)

	out, err := p.MapPairs(pairs("Munafa", 5, "Kharcha", 6, "Bogus", 7))
	require.NoError(t, err)

	require.Len(t, out.Mappings, 1)
	assert.Equal(t, schema.NetProfit, out.Mappings[0].CanonicalName)
	assert.Equal(t, schema.MethodSemantic, out.Mappings[0].Method)
	assert.InDelta(t, 90, out.Mappings[0].Confidence, 1e-9)
	assert.Len(t, out.Unmapped, 2)
}

func TestSemanticDisabledSkipsHook(t *testing.T) {
	called := false
	opts := DefaultOptions()
	opts.Semantic = SemanticFunc(func(string) (string, float64, bool) {
		called = true
		return "Net Profit", 1, true
	})
	p := New(opts, nil)

	_, err := p.MapPairs(pairs("Munafa", 5))
	require.NoError(t, err)
	assert.False(t, called)
}

func TestMapYears(t *testing.T) {
	p := New(DefaultOptions(), nil)
	outs, err := p.MapYears([]schema.YearPairs{
		{Year: "2024", Pairs: pairs("PAT", 1)},
		{Year: "2023", Pairs: pairs("PAT", 2, "Foo", 3)},
	})
	require.NoError(t, err)
	require.Len(t, outs, 2)
	assert.Equal(t, "2024", outs[0].Year)
	assert.Equal(t, "2023", outs[1].Year)
	assert.True(t, outs[0].Success())
	assert.Len(t, outs[1].Unmapped, 1)
}

func TestMapYearsStrictAborts(t *testing.T) {
	opts := DefaultOptions()
	opts.StrictMode = true
	p := New(opts, nil)

	outs, err := p.MapYears([]schema.YearPairs{
		{Year: "2024", Pairs: pairs("PAT", 1)},
		{Year: "2023", Pairs: pairs("PAT", 1, "Net Income", 2)},
	})
	assert.Nil(t, outs)
	var strict *StrictModeError
	require.ErrorAs(t, err, &strict)
	assert.Equal(t, "2023", strict.Year)
}

func TestAddSynonyms(t *testing.T) {
	p := New(DefaultOptions(), nil)
	before := p.SynonymCount()
	require.NoError(t, p.AddSynonyms(map[string]string{"Munafa": "Net Profit"}))
	assert.Equal(t, before+1, p.SynonymCount())

	out, err := p.MapPairs(pairs("MUNAFA", 1))
	require.NoError(t, err)
	assert.Equal(t, schema.MethodExact, out.Mappings[0].Method)
}

func TestFromConfig(t *testing.T) {
	dir := t.TempDir()
	overlay := filepath.Join(dir, "overlay.yaml")
	require.NoError(t, os.WriteFile(overlay, []byte("kharcha: Operating Expenses\n"), 0644))

	cfg := config.Default()
	cfg.SynonymOverlays = []string{overlay}
	cfg.ExtraSynonyms = map[string]string{"munafa": "Net Profit"}
	cfg.ExtraFuzzyTargets = map[string]string{"aamdani": "Revenue"}
	require.NoError(t, cfg.Validate())

	p, err := FromConfig(cfg, nil, nil)
	require.NoError(t, err)

	out, err := p.MapPairs(pairs("Kharcha", 1, "Munafa", 2, "aamdanii", 3))
	require.NoError(t, err)
	require.Len(t, out.Mappings, 3)
	assert.Equal(t, schema.OperatingExpenses, out.Mappings[0].CanonicalName)
	assert.Equal(t, schema.NetProfit, out.Mappings[1].CanonicalName)
	assert.Equal(t, schema.Revenue, out.Mappings[2].CanonicalName)
	assert.Equal(t, schema.MethodFuzzy, out.Mappings[2].Method)
}

func TestFromConfigBadOverlay(t *testing.T) {
	cfg := config.Default()
	cfg.SynonymOverlays = []string{filepath.Join(t.TempDir(), "missing.json")}
	_, err := FromConfig(cfg, nil, nil)
	assert.Error(t, err)
}
