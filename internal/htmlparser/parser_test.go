package htmlparser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/financial-mapper/internal/grid"
)

const filing = `<html><body>
<table>
  <caption>Balance Sheet</caption>
  <tr><th>Particulars</th><th>2024</th><th>2023</th></tr>
  <tr><td rowspan="2">Assets</td><td colspan="2">&nbsp;</td></tr>
  <tr><td>1,200</td><td>1,100</td></tr>
  <tr><td>Total&nbsp;Equity</td><td>(500)</td><td>450</td></tr>
</table>
<table><tr><td>  </td></tr></table>
<table>
  <tr><td>Sales</td><td>100
    <table><tr><td>inner</td></tr></table>
  </td></tr>
</table>
</body></html>`

func TestParseReader(t *testing.T) {
	sheets, err := ParseReader(strings.NewReader(filing))
	require.NoError(t, err)
	require.Len(t, sheets, 3)

	bs := sheets[0]
	assert.Equal(t, "Balance Sheet", bs.Name)
	g := bs.Grid
	assert.Equal(t, 4, g.Rows())
	assert.Equal(t, 3, g.Cols())
	assert.Equal(t, "Particulars", g.At(0, 0).Text)
	assert.Equal(t, "Assets", g.At(1, 0).Text)
	assert.True(t, g.At(2, 0).IsBlank(), "rowspan slot stays blank")
	assert.Equal(t, "1,200", g.At(2, 1).Text, "cells shift past the rowspan")
	assert.Equal(t, "Total Equity", g.At(3, 0).Text)
	assert.Equal(t, "(500)", g.At(3, 1).Text)

	assert.Equal(t, "Table 3", sheets[1].Name)
	assert.Equal(t, 1, sheets[1].Grid.Rows(), "nested rows belong to the nested table")
	assert.Equal(t, "Sales", sheets[1].Grid.At(0, 0).Text)

	assert.Equal(t, "inner", sheets[2].Grid.At(0, 0).Text)
}

func TestParseReaderNoTables(t *testing.T) {
	_, err := ParseReader(strings.NewReader("<p>nothing</p>"))
	assert.ErrorIs(t, err, grid.ErrEmptyGrid)
}

func TestNestedTableTextExcluded(t *testing.T) {
	sheets, err := ParseReader(strings.NewReader(filing))
	require.NoError(t, err)
	assert.Equal(t, "100", sheets[1].Grid.At(0, 1).Text)
}
