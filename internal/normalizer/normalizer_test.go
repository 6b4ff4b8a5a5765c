package normalizer

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeLabel(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"trim and lower", "  Net Profit  ", "net profit"},
		{"ampersand kept", "Reserves & Surplus", "reserves & surplus"},
		{"en dash", "Long–term Borrowings", "long-term borrowings"},
		{"em dash", "Long—term Borrowings", "long-term borrowings"},
		{"punctuation stripped", "Profit (after tax):", "profit after tax"},
		{"collapse whitespace", "Net \t  Sales\n", "net sales"},
		{"accents folded", "Réserves", "reserves"},
		{"empty", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeLabel(tt.in))
		})
	}
}

func TestNormalizeLabelIdempotent(t *testing.T) {
	inputs := []string{
		"Profit After Tax (PAT)",
		"  Long–term   Borrowings: ",
		"I. Reserves & Surplus",
		"Cash & Cash-Equivalents!!",
		"Réserves — libres",
	}
	for _, in := range inputs {
		once := NormalizeLabel(in)
		assert.Equal(t, once, NormalizeLabel(once), "input %q", in)
	}
}

func TestNormalizeValue(t *testing.T) {
	tests := []struct {
		name         string
		in           any
		want         float64
		wantWarnings int
	}{
		{"float passes through", 1234.5, 1234.5, 0},
		{"int passes through", 42, 42, 0},
		{"paren negative", "(5,000)", -5000, 0},
		{"rupee symbol", "₹12,000", 12000, 0},
		{"dollar symbol", "$ 1,000.50", 1000.5, 0},
		{"indian grouping", "1,23,456", 123456, 0},
		{"percent kept raw", "12.5%", 12.5, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, warnings := NormalizeValue(tt.in)
			require.NotNil(t, v)
			assert.InDelta(t, tt.want, *v, 1e-9)
			assert.Len(t, warnings, tt.wantWarnings)
		})
	}
}

func TestNormalizeValuePercentWarning(t *testing.T) {
	_, warnings := NormalizeValue("12.5%")
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "Percent")
}

func TestNormalizeValueFailures(t *testing.T) {
	tests := []struct {
		name   string
		in     any
		prefix string
	}{
		{"nil", nil, WarnNilValue},
		{"empty string", "   ", WarnEmptyValue},
		{"garbage", "n/a", WarnCannotParse},
		{"unexpected type", time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), WarnUnexpectedTy},
		{"bool", true, WarnUnexpectedTy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, warnings := NormalizeValue(tt.in)
			assert.Nil(t, v)
			require.Len(t, warnings, 1)
			assert.Contains(t, warnings[0], tt.prefix)
		})
	}
}

func TestNormalizeValueNonFiniteParses(t *testing.T) {
	v, warnings := NormalizeValue("NaN")
	require.NotNil(t, v)
	assert.True(t, math.IsNaN(*v))
	assert.Empty(t, warnings)
}

func TestLooksNumeric(t *testing.T) {
	assert.True(t, LooksNumeric("1,000"))
	assert.True(t, LooksNumeric("(250)"))
	assert.False(t, LooksNumeric("Particulars"))
	assert.False(t, LooksNumeric(""))
}

func TestNormalizerPair(t *testing.T) {
	n := New(nil)
	label, v, warnings := n.Pair("  Net Sales ", "1,000")
	assert.Equal(t, "net sales", label)
	require.NotNil(t, v)
	assert.Equal(t, 1000.0, *v)
	assert.Empty(t, warnings)
}
