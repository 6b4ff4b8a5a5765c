package layout

import (
	"fmt"
	"strings"

	"github.com/ginjaninja78/financial-mapper/internal/grid"
	"github.com/ginjaninja78/financial-mapper/internal/normalizer"
	"github.com/ginjaninja78/financial-mapper/internal/schema"
)

// neighbourOffsets is the order in which neighbouring columns are tried when the
// primary value cell of a data row is not numeric.
var neighbourOffsets = []int{1, -1, 2, -2}

// SheetLayout is the detection outcome for one sheet.
type SheetLayout struct {
	Sheet  string
	Layout *Descriptor

	// Pairs counts the pairs extracted from this sheet before deduplication.
	Pairs int
}

// Result is the per-year pair map of one or more sheets.
type Result struct {
	Sheets []SheetLayout

	// Years is in first-appearance order. Years without pairs are kept.
	Years []schema.YearPairs
}

// PairCount returns the number of pairs across all years.
func (r *Result) PairCount() int {
	n := 0
	for _, y := range r.Years {
		n += len(y.Pairs)
	}
	return n
}

// Year returns the pairs of one year.
func (r *Result) Year(id string) ([]schema.RawPair, bool) {
	for _, y := range r.Years {
		if y.Year == id {
			return y.Pairs, true
		}
	}
	return nil, false
}

// Extract detects the layout of g and returns its deduplicated pairs per year.
func (d *Detector) Extract(g grid.Grid) (*Result, error) {
	return d.ExtractSheets([]grid.Sheet{{Grid: g}})
}

// ExtractSheets runs detection on every sheet in order and merges the pairs
// by year before deduplicating. Empty sheets are skipped; an error is
// returned only when every sheet is empty.
func (d *Detector) ExtractSheets(sheets []grid.Sheet) (*Result, error) {
	res := &Result{}
	col := newCollector()

	for _, sheet := range sheets {
		desc, err := d.Detect(sheet.Grid)
		if err != nil {
			d.logger.Debug("skipping sheet %q: %v", sheet.Name, err)
			continue
		}

		before := col.count
		switch desc.Archetype {
		case DualLedger:
			d.extractLedger(sheet.Grid, desc, col)
		case StatutoryMultiYear:
			d.extractColumnar(sheet.Grid, desc, col, desc.HeaderRow+1, true)
		default:
			d.extractColumnar(sheet.Grid, desc, col, 0, false)
		}

		res.Sheets = append(res.Sheets, SheetLayout{Sheet: sheet.Name, Layout: desc, Pairs: col.count - before})
		d.logger.Info("sheet %q: %s, %d pairs", sheet.Name, desc.Archetype, col.count-before)
	}

	if len(res.Sheets) == 0 {
		return nil, fmt.Errorf("failed to extract pairs from %d sheet(s): %w", len(sheets), grid.ErrEmptyGrid)
	}

	res.Years = col.dedup()
	return res, nil
}

// =============================================================================
// COLLECTOR
// =============================================================================

type collector struct {
	order []string
	pairs map[string][]schema.RawPair
	count int
}

func newCollector() *collector {
	return &collector{pairs: make(map[string][]schema.RawPair)}
}

func (c *collector) ensure(year string) {
	if _, ok := c.pairs[year]; ok {
		return
	}
	c.order = append(c.order, year)
	c.pairs[year] = []schema.RawPair{}
}

func (c *collector) add(year, label string, value any) {
	c.ensure(year)
	c.pairs[year] = append(c.pairs[year], schema.RawPair{Label: label, Value: value})
	c.count++
}

// dedup keeps the first pair per normalized label within each year.
func (c *collector) dedup() []schema.YearPairs {
	out := make([]schema.YearPairs, 0, len(c.order))
	for _, year := range c.order {
		seen := make(map[string]bool)
		kept := make([]schema.RawPair, 0, len(c.pairs[year]))
		for _, p := range c.pairs[year] {
			key := normalizer.NormalizeLabel(p.Label)
			if seen[key] {
				continue
			}
			seen[key] = true
			kept = append(kept, p)
		}
		out = append(out, schema.YearPairs{Year: year, Pairs: kept})
	}
	return out
}

// =============================================================================
// VALUE LOOKUP
// =============================================================================

// rawValue returns what the pair should carry for a numeric cell: the number
// itself for numeric cells, the original text otherwise.
func rawValue(c grid.Cell) any {
	if c.Kind == grid.Number {
		return c.Number
	}
	return c.Text
}

// valueAt returns the numeric cell at (row, col), falling back to neighbours that are
// not excluded when it is not numeric.
func valueAt(g grid.Grid, row, col int, excluded map[int]bool) (grid.Cell, int, bool) {
	if cell := g.At(row, col); isNumericCell(cell) {
		return cell, col, true
	}
	for _, off := range neighbourOffsets {
		c := col + off
		if c < 0 || c >= g.Cols() || excluded[c] {
			continue
		}
		if cell := g.At(row, c); isNumericCell(cell) {
			return cell, c, true
		}
	}
	return grid.Cell{}, -1, false
}

func isZero(c grid.Cell) bool {
	v, _ := normalizer.NormalizeValue(rawValue(c))
	return v != nil && *v == 0
}

// =============================================================================
// DUAL LEDGER
// =============================================================================

func (d *Detector) extractLedger(g grid.Grid, desc *Descriptor, col *collector) {
	year := desc.LedgerYear
	col.ensure(year)

	mainEnd := g.Rows()
	if desc.Section != nil {
		mainEnd = desc.Section.TitleRow
	}

	d.extractGroups(g, desc.Groups, desc.HeaderRow+1, mainEnd, year, col)
	if desc.Section != nil {
		d.extractGroups(g, desc.Section.Groups, desc.Section.DataStart, g.Rows(), year, col)
	}
}

func (d *Detector) extractGroups(g grid.Grid, groups []ColumnGroup, from, to int, year string, col *collector) {
	excluded := make(map[int]bool, 2*len(groups))
	for _, grp := range groups {
		excluded[grp.LabelCol] = true
		excluded[grp.ValueCol] = true
	}

	for r := from; r < to; r++ {
		for _, grp := range groups {
			cell := g.At(r, grp.LabelCol)
			if !isLabelCell(cell) {
				continue
			}
			label, rule, ok := d.cls.dataLabel(cell.Text)
			if !ok {
				d.logger.Debug("row %d col %d: %q rejected by %s", r, grp.LabelCol, cell.Text, rule)
				continue
			}
			value, _, found := valueAt(g, r, grp.ValueCol, excluded)
			if !found || isZero(value) {
				continue
			}
			col.add(year, label, rawValue(value))
		}
	}
}

// =============================================================================
// STATUTORY AND GENERIC
// =============================================================================

var sectionTitleKeywords = []string{"balance sheet", "equity and liabilities", "profit and loss", "profit & loss"}

func (d *Detector) isSectionTitle(g grid.Grid, row int) bool {
	text := g.RowText(row)
	for _, kw := range sectionTitleKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	for c := 0; c < g.Cols(); c++ {
		cell := g.At(row, c)
		if cell.Kind != grid.Text {
			continue
		}
		switch strings.ToLower(CleanLabel(cell.Text)) {
		case "assets", "liabilities":
			return true
		}
	}
	return false
}

// findYearHeader looks for a year-header row in [from, from+lookahead).
func (d *Detector) findYearHeader(g grid.Grid, from int) (int, []int, bool) {
	for r := from; r < min(from+d.options.YearLookaheadRows, g.Rows()); r++ {
		if cols, ok := d.yearHeaderColumns(g, r); ok {
			return r, cols, true
		}
	}
	return -1, nil, false
}

// reassign builds the year map for a mid-sheet header. Columns whose header
// yields no identifier inherit the previous identifier at the same position.
func reassign(g grid.Grid, headerRow int, cols []int, previous YearColumnMap) YearColumnMap {
	years := make(YearColumnMap, len(cols))
	prev := previous.Columns()

	for i, c := range cols {
		y, ok := ExtractYear(g.At(headerRow, c))
		if !ok {
			for _, off := range []int{-1, 1} {
				if y, ok = ExtractYear(g.At(headerRow+off, c)); ok {
					break
				}
			}
		}
		switch {
		case ok:
			years[c] = y
		case i < len(prev):
			years[c] = previous[prev[i]]
		default:
			years[c] = fmt.Sprintf("Year %d", i+1)
		}
	}
	return years
}

func (d *Detector) extractColumnar(g grid.Grid, desc *Descriptor, col *collector, start int, followSections bool) {
	active := desc.Years
	for _, c := range active.Columns() {
		col.ensure(active[c])
	}

	noteCols := make(map[int]bool, len(desc.NoteCols))
	for _, c := range desc.NoteCols {
		noteCols[c] = true
	}

	skipThrough := -1
	for r := max(start, 0); r < g.Rows(); r++ {
		if r <= skipThrough {
			continue
		}

		if followSections && d.isSectionTitle(g, r) {
			if hdr, cols, ok := d.findYearHeader(g, r); ok && hdr > desc.HeaderRow {
				active = reassign(g, hdr, cols, active)
				desc.Reassignments = append(desc.Reassignments, Reassignment{Row: r, HeaderRow: hdr, Years: active})
				for _, c := range active.Columns() {
					col.ensure(active[c])
				}
				d.logger.Info("row %d: section title, value columns reassigned from header row %d: %v", r, hdr, active)
				skipThrough = hdr
				continue
			}
		}

		cell := g.At(r, desc.LabelCol)
		if !isLabelCell(cell) {
			continue
		}
		label, rule, ok := d.cls.dataLabel(cell.Text)
		if !ok {
			d.logger.Debug("row %d: %q rejected by %s", r, cell.Text, rule)
			continue
		}

		excluded := map[int]bool{desc.LabelCol: true}
		for c := range active {
			excluded[c] = true
		}
		for c := range noteCols {
			excluded[c] = true
		}

		for _, c := range active.Columns() {
			value, _, found := valueAt(g, r, c, excluded)
			if !found {
				continue
			}
			col.add(active[c], label, rawValue(value))
		}
	}
}
