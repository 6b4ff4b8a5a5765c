// =============================================================================
// Financial Mapper - Cell Grid
// =============================================================================
//
// The grid is the format-agnostic boundary between source adapters (xlsx,
// CSV, HTML tables) and the layout detector. Adapters read a whole sheet in
// one synchronous pass and hand over a rectangular array of typed cells.
//
// CELL KINDS:
//   - Blank  : empty or whitespace-only
//   - Text   : any string that is not blank
//   - Number : a numeric value as stored by the source
//   - Date   : a calendar date (xlsx date-formatted cells)
//
// Text cells are NOT re-typed here: "1,200" read from a CSV stays Text. The
// detector decides whether text looks numeric.
//
// =============================================================================

package grid

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ErrEmptyGrid is returned by adapters when a source holds no cells at all.
var ErrEmptyGrid = errors.New("grid is empty")

// Kind is the type of a cell.
type Kind int

const (
	Blank Kind = iota
	Text
	Number
	Date
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Text:
		return "text"
	case Number:
		return "number"
	case Date:
		return "date"
	default:
		return "blank"
	}
}

// Cell is one typed grid cell.
type Cell struct {
	Kind   Kind
	Text   string
	Number float64
	Time   time.Time
}

// TextCell returns a Text cell, or a Blank cell for whitespace-only input.
func TextCell(s string) Cell {
	if strings.TrimSpace(s) == "" {
		return Cell{}
	}
	return Cell{Kind: Text, Text: s}
}

// NumberCell returns a Number cell.
func NumberCell(f float64) Cell {
	return Cell{Kind: Number, Number: f}
}

// DateCell returns a Date cell.
func DateCell(t time.Time) Cell {
	return Cell{Kind: Date, Time: t}
}

// CellFromAny converts a decoded value (JSON, YAML, driver output) to a cell.
func CellFromAny(v any) Cell {
	switch x := v.(type) {
	case nil:
		return Cell{}
	case Cell:
		return x
	case string:
		return TextCell(x)
	case float64:
		return NumberCell(x)
	case float32:
		return NumberCell(float64(x))
	case int:
		return NumberCell(float64(x))
	case int64:
		return NumberCell(float64(x))
	case int32:
		return NumberCell(float64(x))
	case time.Time:
		return DateCell(x)
	case fmt.Stringer:
		return TextCell(x.String())
	default:
		return TextCell(fmt.Sprint(x))
	}
}

// IsBlank reports whether the cell holds nothing.
func (c Cell) IsBlank() bool { return c.Kind == Blank }

// Value returns the cell as a plain Go value: nil, string, float64 or
// time.Time.
func (c Cell) Value() any {
	switch c.Kind {
	case Text:
		return c.Text
	case Number:
		return c.Number
	case Date:
		return c.Time
	default:
		return nil
	}
}

// String renders the cell for display and text matching.
func (c Cell) String() string {
	switch c.Kind {
	case Text:
		return c.Text
	case Number:
		if c.Number == math.Trunc(c.Number) && math.Abs(c.Number) < 1e15 {
			return strconv.FormatInt(int64(c.Number), 10)
		}
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case Date:
		return c.Time.Format("2006-01-02")
	default:
		return ""
	}
}

// =============================================================================
// GRID
// =============================================================================

// Grid is a rectangular, row-major array of cells.
type Grid [][]Cell

// New pads ragged rows with blanks so that every row has the same width.
func New(rows [][]Cell) Grid {
	width := 0
	for _, r := range rows {
		width = max(width, len(r))
	}

	g := make(Grid, len(rows))
	for i, r := range rows {
		row := make([]Cell, width)
		copy(row, r)
		g[i] = row
	}
	return g
}

// FromValues builds a grid from decoded values.
func FromValues(rows [][]any) Grid {
	cells := make([][]Cell, len(rows))
	for i, r := range rows {
		cells[i] = make([]Cell, len(r))
		for j, v := range r {
			cells[i][j] = CellFromAny(v)
		}
	}
	return New(cells)
}

// FromStrings builds a grid of text cells.
func FromStrings(rows [][]string) Grid {
	cells := make([][]Cell, len(rows))
	for i, r := range rows {
		cells[i] = make([]Cell, len(r))
		for j, v := range r {
			cells[i][j] = TextCell(v)
		}
	}
	return New(cells)
}

// Rows returns the number of rows.
func (g Grid) Rows() int { return len(g) }

// Cols returns the number of columns.
func (g Grid) Cols() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// At returns the cell at (row, col), or a blank cell when out of range.
func (g Grid) At(row, col int) Cell {
	if row < 0 || row >= len(g) || col < 0 || col >= len(g[row]) {
		return Cell{}
	}
	return g[row][col]
}

// IsEmpty reports whether every cell is blank.
func (g Grid) IsEmpty() bool {
	for _, r := range g {
		for _, c := range r {
			if !c.IsBlank() {
				return false
			}
		}
	}
	return true
}

// RowText joins the non-blank cells of a row, lowercased, for keyword
// matching.
func (g Grid) RowText(row int) string {
	if row < 0 || row >= len(g) {
		return ""
	}
	parts := make([]string, 0, len(g[row]))
	for _, c := range g[row] {
		if !c.IsBlank() {
			parts = append(parts, strings.ToLower(strings.TrimSpace(c.String())))
		}
	}
	return strings.Join(parts, " ")
}

// Sheet is a named grid.
type Sheet struct {
	Name string
	Grid Grid
}
