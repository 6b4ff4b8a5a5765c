// =============================================================================
// Financial Mapper - Tabular Layout Detector
// =============================================================================
//
// The detector turns an arbitrary cell grid into (label, value) pairs per
// fiscal year without prior knowledge of column positions.
//
// ARCHETYPES (tried in priority order):
//   1. Dual ledger (T-account): debit and credit marker tokens ("Dr."/"Cr.")
//      in the top rows. Label/value column groups are inferred from cell
//      densities below the "Particulars ... Amount" header. An embedded
//      "Balance Sheet" sub-table gets its own column groups.
//   2. Statutory multi-year: a header row with date or year cells next to a
//      text label column (preferably "Particulars"). Each year cell heads a
//      value column.
//   3. Generic: the densest label column plus every column with enough
//      numbers; falls back to the column right of the labels.
//
// Row classification is table driven: see DefaultRules in rules.go.
//
// =============================================================================

package layout

import (
	"strings"
	"unicode"

	"github.com/ginjaninja78/financial-mapper/internal/grid"
	"github.com/ginjaninja78/financial-mapper/internal/logging"
	"github.com/ginjaninja78/financial-mapper/internal/normalizer"
)

// Archetype is a recognised sheet structure.
type Archetype string

const (
	DualLedger         Archetype = "dual_ledger"
	StatutoryMultiYear Archetype = "statutory_multi_year"
	GenericTwoColumn   Archetype = "generic"
)

// ColumnGroup is one (label column, value column) side of a ledger.
type ColumnGroup struct {
	LabelCol int
	ValueCol int
}

// Section is a balance-sheet sub-table embedded in a ledger sheet.
type Section struct {
	TitleRow  int
	DataStart int
	Groups    []ColumnGroup
}

// Reassignment records a mid-sheet header that replaced the active value
// columns from Row onwards.
type Reassignment struct {
	Row       int
	HeaderRow int
	Years     YearColumnMap
}

// Descriptor is the detected structure of one sheet.
type Descriptor struct {
	Archetype Archetype
	LabelCol  int
	ValueCols []int

	// HeaderRow is the row holding column headers, -1 when none was found.
	HeaderRow int

	// Groups and Section are set for ledger sheets.
	Groups  []ColumnGroup
	Section *Section

	// Years maps value columns to year identifiers (statutory and generic).
	Years YearColumnMap

	// LedgerYear keys every pair of a ledger sheet.
	LedgerYear string

	// NoteCols are columns headed "Note" and similar; never used as values.
	NoteCols []int

	// Reassignments is filled during extraction.
	Reassignments []Reassignment
}

// Options holds the detector thresholds.
type Options struct {
	// HeaderScanRows bounds the search for ledger markers and headers.
	HeaderScanRows int

	// YearHeaderRows bounds the search for a statutory year header.
	YearHeaderRows int

	LedgerMinCells    int
	SectionMinCells   int
	GenericMinNumeric int
	YearLookaheadRows int

	// SkipLabels are never treated as data.
	SkipLabels []string

	// Rules replaces DefaultRules when set.
	Rules []Rule
}

// DefaultOptions returns the detector defaults.
func DefaultOptions() Options {
	return Options{
		HeaderScanRows:    10,
		YearHeaderRows:    5,
		LedgerMinCells:    3,
		SectionMinCells:   2,
		GenericMinNumeric: 3,
		YearLookaheadRows: 5,
	}
}

// Detector classifies grids and extracts pairs from them.
type Detector struct {
	options Options
	cls     *classifier
	logger  logging.Logger
}

// NewDetector creates a Detector. Zero thresholds take their defaults. A nil
// logger discards output.
func NewDetector(options Options, logger logging.Logger) *Detector {
	def := DefaultOptions()
	if options.HeaderScanRows <= 0 {
		options.HeaderScanRows = def.HeaderScanRows
	}
	if options.YearHeaderRows <= 0 {
		options.YearHeaderRows = def.YearHeaderRows
	}
	if options.LedgerMinCells <= 0 {
		options.LedgerMinCells = def.LedgerMinCells
	}
	if options.SectionMinCells <= 0 {
		options.SectionMinCells = def.SectionMinCells
	}
	if options.GenericMinNumeric <= 0 {
		options.GenericMinNumeric = def.GenericMinNumeric
	}
	if options.YearLookaheadRows <= 0 {
		options.YearLookaheadRows = def.YearLookaheadRows
	}

	rules := options.Rules
	if rules == nil {
		rules = DefaultRules
	}
	if logger == nil {
		logger = logging.Nop()
	}

	return &Detector{
		options: options,
		cls:     newClassifier(rules, options.SkipLabels),
		logger:  logger,
	}
}

// Detect classifies g.
func (d *Detector) Detect(g grid.Grid) (*Descriptor, error) {
	if g.Rows() == 0 || g.IsEmpty() {
		return nil, grid.ErrEmptyGrid
	}

	if desc, ok := d.detectLedger(g); ok {
		return desc, nil
	}
	if desc, ok := d.detectStatutory(g); ok {
		return desc, nil
	}
	return d.detectGeneric(g), nil
}

// =============================================================================
// CELL PREDICATES
// =============================================================================

func isLabelCell(c grid.Cell) bool {
	return c.Kind == grid.Text && !normalizer.LooksNumeric(c.Text)
}

func isNumericCell(c grid.Cell) bool {
	return c.Kind == grid.Number || (c.Kind == grid.Text && normalizer.LooksNumeric(c.Text))
}

func columnCounts(g grid.Grid, from, to int) (labels, numbers []int) {
	labels = make([]int, g.Cols())
	numbers = make([]int, g.Cols())
	for r := max(from, 0); r < min(to, g.Rows()); r++ {
		for c := 0; c < g.Cols(); c++ {
			cell := g.At(r, c)
			switch {
			case isLabelCell(cell):
				labels[c]++
			case isNumericCell(cell):
				numbers[c]++
			}
		}
	}
	return labels, numbers
}

// pairGroups walks columns left to right, pairing each label-dense column
// with a number-dense column at most two places to its right.
func pairGroups(labels, numbers []int, minCells int) []ColumnGroup {
	var groups []ColumnGroup
	cols := len(labels)
	for j := 0; j < cols-1; {
		if labels[j] < minCells {
			j++
			continue
		}
		paired := false
		for k := j + 1; k < min(j+3, cols); k++ {
			if numbers[k] >= minCells {
				groups = append(groups, ColumnGroup{LabelCol: j, ValueCol: k})
				j = k + 1
				paired = true
				break
			}
		}
		if !paired {
			j++
		}
	}
	return groups
}

// =============================================================================
// DUAL LEDGER
// =============================================================================

func rowTokens(text string) map[string]bool {
	tokens := make(map[string]bool)
	for _, t := range strings.FieldsFunc(text, func(r rune) bool { return !unicode.IsLetter(r) }) {
		tokens[strings.ToLower(t)] = true
	}
	return tokens
}

func hasLedgerMarkers(text string) bool {
	tokens := rowTokens(text)
	debit := tokens["dr"] || tokens["debit"]
	credit := tokens["cr"] || tokens["credit"]
	return debit && credit
}

func (d *Detector) detectLedger(g grid.Grid) (*Descriptor, bool) {
	scan := min(d.options.HeaderScanRows, g.Rows())

	markerRow := -1
	for r := 0; r < scan; r++ {
		if hasLedgerMarkers(g.RowText(r)) {
			markerRow = r
			break
		}
	}
	if markerRow < 0 {
		return nil, false
	}

	headerRow := markerRow
	for r := 0; r < scan; r++ {
		text := g.RowText(r)
		if strings.Contains(text, "particulars") && strings.Contains(text, "amount") {
			headerRow = r
			break
		}
	}

	desc := &Descriptor{Archetype: DualLedger, HeaderRow: headerRow}

	mainEnd := g.Rows()
	for r := headerRow + 1; r < g.Rows(); r++ {
		if strings.Contains(g.RowText(r), "balance sheet") {
			desc.Section = d.detectSection(g, r)
			mainEnd = r
			break
		}
	}

	labels, numbers := columnCounts(g, headerRow+1, mainEnd)
	desc.Groups = pairGroups(labels, numbers, d.options.LedgerMinCells)

	if len(desc.Groups) == 0 && (desc.Section == nil || len(desc.Section.Groups) == 0) {
		d.logger.Warn("ledger markers found at row %d but no column groups; falling back", markerRow)
		return nil, false
	}

	for _, grp := range desc.Groups {
		desc.ValueCols = append(desc.ValueCols, grp.ValueCol)
	}
	if len(desc.Groups) > 0 {
		desc.LabelCol = desc.Groups[0].LabelCol
	} else {
		desc.LabelCol = desc.Section.Groups[0].LabelCol
	}
	desc.LedgerYear = d.ledgerYear(g, max(headerRow, markerRow))

	d.logger.Info("layout: dual ledger, header row %d, %d main groups, section=%t, year %q",
		headerRow, len(desc.Groups), desc.Section != nil, desc.LedgerYear)
	return desc, true
}

func (d *Detector) detectSection(g grid.Grid, titleRow int) *Section {
	labels, numbers := columnCounts(g, titleRow, g.Rows())
	s := &Section{
		TitleRow:  titleRow,
		DataStart: titleRow + 2,
		Groups:    pairGroups(labels, numbers, d.options.SectionMinCells),
	}
	for r := titleRow + 1; r < min(titleRow+5, g.Rows()); r++ {
		text := g.RowText(r)
		if strings.Contains(text, "amount") || strings.Contains(text, "liabilities") {
			s.DataStart = r + 1
			break
		}
	}
	return s
}

// ledgerYear takes the first year identifier found in text or date cells at
// or above the header row.
func (d *Detector) ledgerYear(g grid.Grid, lastRow int) string {
	for r := 0; r <= min(lastRow, g.Rows()-1); r++ {
		for c := 0; c < g.Cols(); c++ {
			cell := g.At(r, c)
			if cell.Kind != grid.Text && cell.Kind != grid.Date {
				continue
			}
			if y, ok := ExtractYear(cell); ok {
				return y
			}
		}
	}
	return "Year 1"
}

// =============================================================================
// STATUTORY MULTI-YEAR
// =============================================================================

// yearHeaderColumns returns the year-header columns of row r when the row
// qualifies as a year header: at least one year cell, no other numbers, and,
// when the only year cells are bare numbers, no data label either.
func (d *Detector) yearHeaderColumns(g grid.Grid, r int) ([]int, bool) {
	var cols []int
	numericOnly := true

	for c := 0; c < g.Cols(); c++ {
		cell := g.At(r, c)
		if isYearHeaderCell(cell) {
			cols = append(cols, c)
			if cell.Kind != grid.Number {
				numericOnly = false
			}
			continue
		}
		if isNumericCell(cell) {
			return nil, false
		}
	}
	if len(cols) == 0 {
		return nil, false
	}
	if numericOnly && d.rowHasDataLabel(g, r) {
		return nil, false
	}
	return cols, true
}

func (d *Detector) rowHasDataLabel(g grid.Grid, r int) bool {
	for c := 0; c < g.Cols(); c++ {
		cell := g.At(r, c)
		if !isLabelCell(cell) {
			continue
		}
		if _, _, ok := d.cls.dataLabel(cell.Text); ok {
			return true
		}
	}
	return false
}

func (d *Detector) detectStatutory(g grid.Grid) (*Descriptor, bool) {
	scan := min(d.options.YearHeaderRows, g.Rows())

	for r := 0; r < scan; r++ {
		cols, ok := d.yearHeaderColumns(g, r)
		if !ok {
			continue
		}

		desc := &Descriptor{
			Archetype: StatutoryMultiYear,
			HeaderRow: r,
			ValueCols: cols,
			LabelCol:  d.statutoryLabelCol(g, r, cols),
		}
		desc.NoteCols = d.noteColumns(g, r)
		desc.Years = resolveYears(g, r, cols)

		d.logger.Info("layout: statutory multi-year, header row %d, label col %d, years %v",
			r, desc.LabelCol, desc.Years)
		return desc, true
	}
	return nil, false
}

func (d *Detector) statutoryLabelCol(g grid.Grid, headerRow int, valueCols []int) int {
	for c := 0; c < g.Cols(); c++ {
		cell := g.At(headerRow, c)
		if isLabelCell(cell) && strings.Contains(strings.ToLower(cell.Text), "particulars") {
			return c
		}
	}

	isValue := make(map[int]bool, len(valueCols))
	for _, c := range valueCols {
		isValue[c] = true
	}

	labels, _ := columnCounts(g, headerRow+1, g.Rows())
	best, bestCount := 0, -1
	for c, n := range labels {
		if !isValue[c] && n > bestCount {
			best, bestCount = c, n
		}
	}
	return best
}

func (d *Detector) noteColumns(g grid.Grid, headerRow int) []int {
	var cols []int
	for c := 0; c < g.Cols(); c++ {
		cell := g.At(headerRow, c)
		if cell.Kind == grid.Text && d.cls.isSkipLabel(cell.Text) {
			cols = append(cols, c)
		}
	}
	return cols
}

// =============================================================================
// GENERIC
// =============================================================================

func (d *Detector) detectGeneric(g grid.Grid) *Descriptor {
	labels, numbers := columnCounts(g, 0, g.Rows())

	labelCol, bestCount := 0, -1
	for c, n := range labels {
		if n > bestCount {
			labelCol, bestCount = c, n
		}
	}

	desc := &Descriptor{Archetype: GenericTwoColumn, LabelCol: labelCol, HeaderRow: -1}
	for c, n := range numbers {
		if c != labelCol && n >= d.options.GenericMinNumeric {
			desc.ValueCols = append(desc.ValueCols, c)
		}
	}
	if len(desc.ValueCols) == 0 && labelCol+1 < g.Cols() {
		desc.ValueCols = []int{labelCol + 1}
	}

	scan := min(d.options.YearHeaderRows, g.Rows())
	for r := 0; r < scan && desc.HeaderRow < 0; r++ {
		// An amount such as 2050 on a data row is not a year header.
		if d.rowHasDataLabel(g, r) {
			continue
		}
		for _, c := range desc.ValueCols {
			if isYearHeaderCell(g.At(r, c)) {
				desc.HeaderRow = r
				break
			}
		}
	}

	yearRow := desc.HeaderRow
	if yearRow < 0 {
		yearRow = 0
	}
	desc.Years = resolveYears(g, yearRow, desc.ValueCols)
	desc.NoteCols = d.noteColumns(g, yearRow)

	d.logger.Info("layout: generic, label col %d, value cols %v, years %v", labelCol, desc.ValueCols, desc.Years)
	return desc
}
