package xlsxparser

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/financial-mapper/internal/grid"
)

func buildWorkbook(t *testing.T) *excelize.File {
	t.Helper()

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", "Balance Sheet"))

	require.NoError(t, f.SetSheetRow("Balance Sheet", "A1", &[]interface{}{"Particulars", "Note No."}))
	require.NoError(t, f.SetCellValue("Balance Sheet", "C1", time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, f.SetSheetRow("Balance Sheet", "A2", &[]interface{}{"Share Capital", "2", 500000}))
	require.NoError(t, f.SetSheetRow("Balance Sheet", "A3", &[]interface{}{"Reserves", nil, 125000.5}))

	_, err := f.NewSheet("_scratch")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("_scratch", "A1", "ignored"))

	_, err = f.NewSheet("Hidden")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Hidden", "A1", "secret"))
	require.NoError(t, f.SetSheetVisible("Hidden", false))

	return f
}

func TestParse(t *testing.T) {
	f := buildWorkbook(t)
	path := filepath.Join(t.TempDir(), "statement.xlsx")
	require.NoError(t, f.SaveAs(path))

	sheets, err := Parse(path, Options{})
	require.NoError(t, err)
	require.Len(t, sheets, 1)
	assert.Equal(t, "Balance Sheet", sheets[0].Name)

	g := sheets[0].Grid
	assert.Equal(t, grid.Text, g.At(0, 0).Kind)
	assert.Equal(t, "Particulars", g.At(0, 0).Text)

	date := g.At(0, 2)
	require.Equal(t, grid.Date, date.Kind)
	assert.Equal(t, "2024-03-31", date.Time.Format("2006-01-02"))

	assert.Equal(t, grid.Text, g.At(1, 1).Kind, "numeric text stays text")
	assert.Equal(t, grid.Number, g.At(1, 2).Kind)
	assert.Equal(t, 500000.0, g.At(1, 2).Number)
	assert.Equal(t, 125000.5, g.At(2, 2).Number)
	assert.True(t, g.At(2, 1).IsBlank())
}

func TestParseReaderIncludeHidden(t *testing.T) {
	f := buildWorkbook(t)
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	sheets, err := ParseReader(buf, Options{IncludeHidden: true})
	require.NoError(t, err)
	require.Len(t, sheets, 2)
	assert.Equal(t, "Hidden", sheets[1].Name)
}

func TestParseSheetSelection(t *testing.T) {
	f := buildWorkbook(t)
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	_, err = ParseReader(buf, Options{Sheets: []string{"Missing"}})
	assert.ErrorIs(t, err, ErrNoSheets)
}

func TestFillMerged(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "Balance Sheet"))
	require.NoError(t, f.MergeCell("Sheet1", "A1", "C1"))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"Cash", 10}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	sheets, err := ParseReader(buf, Options{FillMerged: true})
	require.NoError(t, err)
	g := sheets[0].Grid
	assert.Equal(t, "Balance Sheet", g.At(0, 2).Text)

	buf, err = f.WriteToBuffer()
	require.NoError(t, err)
	sheets, err = ParseReader(buf, Options{})
	require.NoError(t, err)
	assert.True(t, sheets[0].Grid.At(0, 2).IsBlank())
}

func TestIsDateFormat(t *testing.T) {
	assert.True(t, isDateFormat("dd-mm-yyyy"))
	assert.True(t, isDateFormat("[$-409]d-mmm-yy;@"))
	assert.False(t, isDateFormat("#,##0.00"))
	assert.False(t, isDateFormat(`0.00 "days"`))
}
