// =============================================================================
// Financial Mapper - CSV Reader
// =============================================================================
//
// This module reads CSV exports of financial statements into a cell grid for
// the layout detector. No header row is assumed: the detector decides which
// rows are headers.
//
// FEATURES:
//   - Configurable delimiter (comma, pipe, tab, semicolon, ...)
//   - Comment lines
//   - Input encodings by IANA name through golang.org/x/text (UTF-8 with or
//     without BOM, UTF-16, windows-1252, ISO-8859-1, ...)
//   - Ragged rows (rows are padded to the widest row)
//
// All cells are read as text. Numeric-looking text is recognised by the
// layout detector and parsed by the normalizer, so "1,20,000" or "(500)"
// survive unchanged until then.
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/ginjaninja78/financial-mapper/internal/config"
	"github.com/ginjaninja78/financial-mapper/internal/grid"
)

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a CSV file into a grid.
//
// PARAMETERS:
//   - filePath: The path to the CSV file.
//   - settings: The CSV settings from the configuration.
//
// RETURNS:
//   - The grid of text cells.
//   - An error if the file cannot be read, decoded or parsed.
func Parse(filePath string, settings config.CSVSettings) (grid.Grid, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return ParseReader(file, settings)
}

// ParseReader reads CSV content from r into a grid.
func ParseReader(r io.Reader, settings config.CSVSettings) (grid.Grid, error) {
	decoded, err := decode(r, settings.Encoding)
	if err != nil {
		return nil, err
	}

	csvReader := csv.NewReader(bufio.NewReader(decoded))
	if err := configureReader(csvReader, settings); err != nil {
		return nil, err
	}

	rows, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("CSV file is empty: %w", grid.ErrEmptyGrid)
	}

	return grid.FromStrings(rows), nil
}

// decode wraps r with a decoder for the named encoding. A leading UTF-8 or
// UTF-16 byte order mark overrides the name.
func decode(r io.Reader, name string) (io.Reader, error) {
	if name == "" {
		name = "UTF-8"
	}

	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}

	return transform.NewReader(r, unicode.BOMOverride(enc.NewDecoder())), nil
}

// configureReader applies the settings to the csv reader.
func configureReader(reader *csv.Reader, settings config.CSVSettings) error {
	comma, err := settings.DelimiterRune()
	if err != nil {
		return err
	}
	reader.Comma = comma

	if settings.Comment != "" {
		reader.Comment = []rune(settings.Comment)[0]
	}

	// Statement exports rarely have a fixed column count.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = settings.TrimLeadingSpace
	return nil
}
