package layout

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ginjaninja78/financial-mapper/internal/grid"
)

func TestCleanLabel(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"I. Revenue from operations", "Revenue from operations"},
		{"IV. Expenses", "Expenses"},
		{"1. Sales", "Sales"},
		{"2) Purchases", "Purchases"},
		{"(iii) Other current assets", "Other current assets"},
		{"a) Cash:", "Cash"},
		{"(b) Reserves and Surplus", "Reserves and Surplus"},
		{"To Wages", "Wages"},
		{"By Sales", "Sales"},
		{"Total Assets:", "Total Assets"},
		{"  Cash  ", "Cash"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanLabel(tt.raw))
		})
	}
}

func TestClassifierDataLabel(t *testing.T) {
	c := newClassifier(DefaultRules, []string{"Memo"})

	tests := []struct {
		raw  string
		want string
		rule string
	}{
		{"Note No.", "", "note-column"},
		{"Notes", "", "note-column"},
		{"Grand Total", "", "bare-total"},
		{"Sub-Total", "", "bare-total"},
		{"FY", "", "period-label"},
		{"Balance Sheet as at 31 March 2024", "", "statement-title"},
		{"Particulars", "", "statement-title"},
		{"Dr.", "", "statement-title"},
		{"II. ASSETS", "", "section-word"},
		{"Memo", "", "configured-skip"},
		{"   ", "", "blank"},
		{"Total Assets", "Total Assets", ""},
		{"Creditors", "Creditors", ""},
		{"(a) Share Capital", "Share Capital", ""},
		{"I. Revenue from operations", "Revenue from operations", ""},
		{"(1) Shareholders' Funds", "Shareholders' Funds", ""},
		{"ii) Trade Payables", "Trade Payables", ""},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, rule, ok := c.dataLabel(tt.raw)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.rule, rule)
			assert.Equal(t, tt.rule == "", ok)
		})
	}
}

func TestIsSkipLabel(t *testing.T) {
	c := newClassifier(DefaultRules, nil)
	assert.True(t, c.isSkipLabel("Note No."))
	assert.True(t, c.isSkipLabel("Total"))
	assert.False(t, c.isSkipLabel("Particulars"))
	assert.False(t, c.isSkipLabel("2024"))
}

func TestExtractYear(t *testing.T) {
	tests := []struct {
		name string
		cell grid.Cell
		want string
		ok   bool
	}{
		{"date", grid.DateCell(time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)), "2024-03-31", true},
		{"integer year", grid.NumberCell(2024), "2024", true},
		{"fractional", grid.NumberCell(2024.5), "", false},
		{"out of range", grid.NumberCell(1999), "", false},
		{"day first dash", grid.TextCell("31-03-2024"), "2024-03-31", true},
		{"day first slash", grid.TextCell("31/03/2024"), "2024-03-31", true},
		{"day first dot", grid.TextCell("31.03.2024"), "2024-03-31", true},
		{"year first slash", grid.TextCell("2024/03/31"), "2024-03-31", true},
		{"year first dash", grid.TextCell("As at 2023-03-31"), "2023-03-31", true},
		{"fiscal", grid.TextCell("FY 2025"), "FY2025", true},
		{"fiscal dash", grid.TextCell("fy-2025"), "FY2025", true},
		{"embedded year", grid.TextCell("Year ended March 2023"), "2023", true},
		{"text out of range", grid.TextCell("1999"), "", false},
		{"no year", grid.TextCell("Notes"), "", false},
		{"blank", grid.Cell{}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractYear(tt.cell)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsYearHeaderCell(t *testing.T) {
	assert.True(t, isYearHeaderCell(grid.NumberCell(2023)))
	assert.True(t, isYearHeaderCell(grid.TextCell("As at 31-03-2024")))
	assert.True(t, isYearHeaderCell(grid.TextCell("2023-24")))
	assert.True(t, isYearHeaderCell(grid.TextCell("FY 2024")))
	assert.False(t, isYearHeaderCell(grid.TextCell("Balance Sheet as at 31-03-2024")))
	assert.False(t, isYearHeaderCell(grid.NumberCell(150000)))
}

func TestResolveYears(t *testing.T) {
	g := grid.FromValues([][]any{
		{nil, "2024", nil},
		{"Particulars", "Current Year", "Previous Year"},
		{"Sales", 10.0, 9.0},
	})

	years := resolveYears(g, 1, []int{1, 2})
	assert.Equal(t, YearColumnMap{1: "2024", 2: "Year 2"}, years, "unresolved columns are labelled by position")
	assert.Equal(t, []int{1, 2}, years.Columns())
}
