package csvparser

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/ginjaninja78/financial-mapper/internal/config"
	"github.com/ginjaninja78/financial-mapper/internal/grid"
)

func TestParseReader(t *testing.T) {
	input := "Particulars,2024,2023\n" +
		"Revenue from Operations,\"1,20,000\",95000\n" +
		"Other Income,500\n"

	g, err := ParseReader(strings.NewReader(input), config.Default().CSV)
	require.NoError(t, err)

	assert.Equal(t, 3, g.Rows())
	assert.Equal(t, 3, g.Cols(), "ragged rows are padded")
	assert.Equal(t, "1,20,000", g.At(1, 1).Text)
	assert.Equal(t, grid.Text, g.At(0, 1).Kind)
	assert.True(t, g.At(2, 2).IsBlank())
}

func TestParseDelimiterAndComment(t *testing.T) {
	settings := config.Default().CSV
	settings.Delimiter = "tab"
	settings.Comment = "#"

	g, err := ParseReader(strings.NewReader("# exported\nSales\t100\nTax\t5\n"), settings)
	require.NoError(t, err)
	assert.Equal(t, 2, g.Rows())
	assert.Equal(t, "Tax", g.At(1, 0).Text)
	assert.Equal(t, "5", g.At(1, 1).Text)
}

func TestParseStripsBOM(t *testing.T) {
	g, err := ParseReader(bytes.NewReader([]byte("\xef\xbb\xbfSales,1\n")), config.Default().CSV)
	require.NoError(t, err)
	assert.Equal(t, "Sales", g.At(0, 0).Text)
}

func TestParseWindows1252(t *testing.T) {
	encoded, err := charmap.Windows1252.NewEncoder().String("Réserves,10\n")
	require.NoError(t, err)

	settings := config.Default().CSV
	settings.Encoding = "windows-1252"
	g, err := ParseReader(strings.NewReader(encoded), settings)
	require.NoError(t, err)
	assert.Equal(t, "Réserves", g.At(0, 0).Text)
}

func TestParseErrors(t *testing.T) {
	settings := config.Default().CSV

	_, err := ParseReader(strings.NewReader(""), settings)
	assert.ErrorIs(t, err, grid.ErrEmptyGrid)

	settings.Encoding = "klingon"
	_, err = ParseReader(strings.NewReader("a,b\n"), settings)
	assert.Error(t, err)

	_, err = Parse(filepath.Join(t.TempDir(), "missing.csv"), config.Default().CSV)
	assert.Error(t, err)
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pl.csv")
	require.NoError(t, os.WriteFile(path, []byte("Sales|100\n"), 0644))

	settings := config.Default().CSV
	settings.Delimiter = "|"
	g, err := Parse(path, settings)
	require.NoError(t, err)
	assert.Equal(t, "100", g.At(0, 1).Text)
}
