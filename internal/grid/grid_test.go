package grid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewPadsRaggedRows(t *testing.T) {
	g := New([][]Cell{
		{TextCell("a")},
		{TextCell("b"), NumberCell(1), NumberCell(2)},
	})
	assert.Equal(t, 2, g.Rows())
	assert.Equal(t, 3, g.Cols())
	assert.True(t, g.At(0, 2).IsBlank())
	assert.True(t, g.At(5, 5).IsBlank())
}

func TestCellFromAny(t *testing.T) {
	d := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, Blank, CellFromAny(nil).Kind)
	assert.Equal(t, Blank, CellFromAny("   ").Kind)
	assert.Equal(t, Text, CellFromAny("Sales").Kind)
	assert.Equal(t, Number, CellFromAny(12).Kind)
	assert.Equal(t, Date, CellFromAny(d).Kind)
	assert.Equal(t, Text, CellFromAny(true).Kind)
}

func TestCellString(t *testing.T) {
	assert.Equal(t, "2024", NumberCell(2024).String())
	assert.Equal(t, "12.5", NumberCell(12.5).String())
	assert.Equal(t, "2025-03-31", DateCell(time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)).String())
	assert.Equal(t, "", Cell{}.String())
}

func TestCellValue(t *testing.T) {
	assert.Nil(t, Cell{}.Value())
	assert.Equal(t, "x", TextCell("x").Value())
	assert.Equal(t, 3.0, NumberCell(3).Value())
}

func TestRowText(t *testing.T) {
	g := FromValues([][]any{{"Particulars", nil, "Amount"}})
	assert.Equal(t, "particulars amount", g.RowText(0))
	assert.Equal(t, "", g.RowText(3))
}

func TestIsEmpty(t *testing.T) {
	assert.True(t, FromStrings([][]string{{"", " "}}).IsEmpty())
	assert.False(t, FromStrings([][]string{{"", "x"}}).IsEmpty())
	assert.True(t, Grid(nil).IsEmpty())
}
