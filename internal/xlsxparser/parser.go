// =============================================================================
// Financial Mapper - XLSX Workbook Reader
// =============================================================================
//
// This module reads XLSX workbooks into typed cell grids for the layout
// detector. Every visible sheet becomes one grid.Sheet, in workbook order.
//
// CELL TYPES:
//   - Shared/inline strings, booleans, errors -> Text
//   - Numeric cells                             -> Number
//   - Numeric cells with a date number format   -> Date
//   - ISO date cells (t="d")                    -> Date
//   - Empty cells                               -> Blank
//
// Date detection looks at the cell style: built-in formats 14-22 and 45-47,
// or a custom format containing day or year tokens. Workbooks using the 1904
// date system are honoured.
//
// CUSTOMIZATION:
//   - Sheets whose name starts with "_" are skipped.
//   - Hidden sheets are skipped unless Options.IncludeHidden is set.
//   - Options.FillMerged copies the value of a merged range to all its cells.
//
// =============================================================================

package xlsxparser

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/financial-mapper/internal/grid"
	"github.com/ginjaninja78/financial-mapper/internal/logging"
)

// ErrNoSheets is returned when a workbook has no readable sheet.
var ErrNoSheets = errors.New("workbook has no readable sheets")

// Options controls which sheets are read and how.
type Options struct {
	// Sheets restricts reading to the named sheets. Empty means all.
	Sheets []string

	// IncludeHidden reads hidden sheets too.
	IncludeHidden bool

	// FillMerged copies the top-left value of each merged range into every
	// cell of the range.
	FillMerged bool

	Logger logging.Logger
}

// =============================================================================
// ENTRY POINTS
// =============================================================================

// Parse reads the workbook at path.
//
// PARAMETERS:
//   - path: The path to the XLSX file.
//   - opts: Sheet selection and merge handling.
//
// RETURNS:
//   - One grid.Sheet per selected sheet, in workbook order.
//   - An error if the file cannot be opened or no sheet could be read.
func Parse(path string, opts Options) ([]grid.Sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return readWorkbook(f, opts)
}

// ParseReader reads a workbook from r.
func ParseReader(r io.Reader, opts Options) ([]grid.Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return readWorkbook(f, opts)
}

func readWorkbook(f *excelize.File, opts Options) ([]grid.Sheet, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	wanted := make(map[string]bool, len(opts.Sheets))
	for _, s := range opts.Sheets {
		wanted[s] = true
	}

	date1904 := false
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}

	r := &reader{f: f, date1904: date1904, dateStyles: make(map[int]bool), fillMerged: opts.FillMerged}

	var sheets []grid.Sheet
	for _, name := range f.GetSheetList() {
		if len(wanted) > 0 && !wanted[name] {
			continue
		}
		if strings.HasPrefix(name, "_") {
			logger.Debug("skipping sheet %q", name)
			continue
		}
		if !opts.IncludeHidden {
			if visible, err := f.GetSheetVisible(name); err == nil && !visible {
				logger.Debug("skipping hidden sheet %q", name)
				continue
			}
		}

		g, err := r.readSheet(name)
		if err != nil {
			return nil, fmt.Errorf("error reading sheet '%s': %w", name, err)
		}
		logger.Debug("read sheet %q: %d rows x %d cols", name, g.Rows(), g.Cols())
		sheets = append(sheets, grid.Sheet{Name: name, Grid: g})
	}

	if len(sheets) == 0 {
		return nil, ErrNoSheets
	}
	return sheets, nil
}

// =============================================================================
// SHEET READER
// =============================================================================

type reader struct {
	f          *excelize.File
	date1904   bool
	dateStyles map[int]bool
	fillMerged bool
}

func (r *reader) readSheet(name string) (grid.Grid, error) {
	rows, err := r.f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	cells := make([][]grid.Cell, len(rows))
	for i, row := range rows {
		cells[i] = make([]grid.Cell, len(row))
		for j, raw := range row {
			if strings.TrimSpace(raw) == "" {
				continue
			}
			axis, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return nil, err
			}
			cells[i][j] = r.cell(name, axis, raw)
		}
	}

	if r.fillMerged {
		if cells, err = r.fillMergedRanges(name, cells); err != nil {
			return nil, err
		}
	}

	return grid.New(cells), nil
}

func (r *reader) cell(sheet, axis, raw string) grid.Cell {
	typ, err := r.f.GetCellType(sheet, axis)
	if err != nil {
		return grid.TextCell(raw)
	}

	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString,
		excelize.CellTypeBool, excelize.CellTypeError:
		return grid.TextCell(raw)
	case excelize.CellTypeDate:
		for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, strings.TrimSpace(raw)); err == nil {
				return grid.DateCell(t)
			}
		}
	}

	n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return grid.TextCell(raw)
	}
	if r.isDateStyled(sheet, axis) {
		if t, err := excelize.ExcelDateToTime(n, r.date1904); err == nil {
			return grid.DateCell(t)
		}
	}
	return grid.NumberCell(n)
}

var (
	quotedRe  = regexp.MustCompile(`"[^"]*"|\[[^\]]*\]`)
	dateTokRe = regexp.MustCompile(`(?i)[dy]`)
)

// isDateFormat reports whether a custom number format renders a date.
func isDateFormat(format string) bool {
	return dateTokRe.MatchString(quotedRe.ReplaceAllString(format, ""))
}

func (r *reader) isDateStyled(sheet, axis string) bool {
	idx, err := r.f.GetCellStyle(sheet, axis)
	if err != nil || idx == 0 {
		return false
	}
	if v, ok := r.dateStyles[idx]; ok {
		return v
	}

	date := false
	if style, err := r.f.GetStyle(idx); err == nil && style != nil {
		switch {
		case style.NumFmt >= 14 && style.NumFmt <= 22, style.NumFmt >= 45 && style.NumFmt <= 47:
			date = true
		case style.CustomNumFmt != nil:
			date = isDateFormat(*style.CustomNumFmt)
		}
	}
	r.dateStyles[idx] = date
	return date
}

func (r *reader) fillMergedRanges(sheet string, cells [][]grid.Cell) ([][]grid.Cell, error) {
	merges, err := r.f.GetMergeCells(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read merged cells: %w", err)
	}

	for _, mg := range merges {
		sc, sr, err := excelize.CellNameToCoordinates(mg.GetStartAxis())
		if err != nil {
			continue
		}
		ec, er, err := excelize.CellNameToCoordinates(mg.GetEndAxis())
		if err != nil {
			continue
		}
		if sr-1 >= len(cells) || sc-1 >= len(cells[sr-1]) {
			continue
		}
		top := cells[sr-1][sc-1]
		if top.IsBlank() {
			continue
		}

		for row := sr - 1; row < er; row++ {
			for len(cells) <= row {
				cells = append(cells, nil)
			}
			for len(cells[row]) < ec {
				cells[row] = append(cells[row], grid.Cell{})
			}
			for col := sc - 1; col < ec; col++ {
				cells[row][col] = top
			}
		}
	}
	return cells, nil
}
