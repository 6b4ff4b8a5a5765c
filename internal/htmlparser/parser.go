// =============================================================================
// Financial Mapper - HTML Table Reader
// =============================================================================
//
// This module reads the <table> elements of an HTML document (saved filings,
// exported reports) into cell grids for the layout detector. Each table
// becomes one grid.Sheet named after its <caption>, or "Table N".
//
// RULES:
//   - colspan/rowspan are laid out on a virtual grid; only the top-left slot
//     of a spanned cell carries its text, the other slots stay blank.
//   - Nested tables are read as tables of their own, not as cells of their
//     parent.
//   - Cell text has its whitespace collapsed (including &nbsp;).
//   - Tables without a single non-blank cell are dropped.
//
// =============================================================================

package htmlparser

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ginjaninja78/financial-mapper/internal/grid"
)

// Parse reads every table of the HTML file at path.
func Parse(path string) ([]grid.Sheet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	return ParseReader(f)
}

// ParseReader reads every table of the HTML document in r.
func ParseReader(r io.Reader) ([]grid.Sheet, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var sheets []grid.Sheet
	doc.Find("table").Each(func(i int, table *goquery.Selection) {
		g := tableGrid(table)
		if g.IsEmpty() {
			return
		}

		name := cleanText(table.ChildrenFiltered("caption").First().Text())
		if name == "" {
			name = fmt.Sprintf("Table %d", i+1)
		}
		sheets = append(sheets, grid.Sheet{Name: name, Grid: g})
	})

	if len(sheets) == 0 {
		return nil, fmt.Errorf("no tables with content: %w", grid.ErrEmptyGrid)
	}
	return sheets, nil
}

// ownRows returns the rows that belong to table itself.
func ownRows(table *goquery.Selection) *goquery.Selection {
	return table.Find("tr").FilterFunction(func(_ int, tr *goquery.Selection) bool {
		return tr.Closest("table").IsSelection(table)
	})
}

func span(cell *goquery.Selection, attr string) int {
	n, err := strconv.Atoi(strings.TrimSpace(cell.AttrOr(attr, "1")))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

func tableGrid(table *goquery.Selection) grid.Grid {
	rows := ownRows(table)
	rowCount := rows.Length()

	var cells [][]grid.Cell
	var taken [][]bool
	ensure := func(r, c int) {
		for len(cells) <= r {
			cells = append(cells, nil)
			taken = append(taken, nil)
		}
		for len(cells[r]) <= c {
			cells[r] = append(cells[r], grid.Cell{})
			taken[r] = append(taken[r], false)
		}
	}

	rows.Each(func(r int, tr *goquery.Selection) {
		ensure(r, 0)
		col := 0
		tr.ChildrenFiltered("td, th").Each(func(_ int, cell *goquery.Selection) {
			for col < len(taken[r]) && taken[r][col] {
				col++
			}
			colspan, rowspan := span(cell, "colspan"), span(cell, "rowspan")

			for dr := 0; dr < rowspan && r+dr < rowCount; dr++ {
				for dc := 0; dc < colspan; dc++ {
					ensure(r+dr, col+dc)
					taken[r+dr][col+dc] = true
				}
			}
			cells[r][col] = grid.TextCell(cleanText(ownText(cell)))
			col += colspan
		})
	})

	return grid.New(cells)
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ownText returns the text of a cell without the text of nested tables.
func ownText(cell *goquery.Selection) string {
	if cell.Find("table").Length() == 0 {
		return cell.Text()
	}
	c := cell.Clone()
	c.Find("table").Remove()
	return c.Text()
}
