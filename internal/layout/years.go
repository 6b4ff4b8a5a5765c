package layout

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/ginjaninja78/financial-mapper/internal/grid"
)

const (
	minYear = 2000
	maxYear = 2100
)

var (
	dayFirstRe  = regexp.MustCompile(`\b(\d{2})[-/.](\d{2})[-/.](\d{4})\b`)
	yearFirstRe = regexp.MustCompile(`\b(\d{4})[-/](\d{2})[-/](\d{2})\b`)
	fiscalRe    = regexp.MustCompile(`(?i)\bFY\s*-?\s*(\d{4})`)
	bareYearRe  = regexp.MustCompile(`\b(\d{4})\b`)

	// yearHeaderTextRe accepts a whole text cell that is nothing but a period
	// identifier, optionally introduced by "as at", "year ended" and the like.
	yearHeaderTextRe = regexp.MustCompile(`(?i)^((as at|as on|year ended|period ended|for the year ended)\s+)?` +
		`(\d{2}[-/.]\d{2}[-/.]\d{4}|\d{4}[-/]\d{2}[-/]\d{2}|fy\s*-?\s*\d{4}(\s*-\s*\d{2,4})?|\d{4}(\s*-\s*\d{2,4})?)$`)
)

// YearColumnMap maps a value-column index to its fiscal-year identifier.
type YearColumnMap map[int]string

// ExtractYear derives a fiscal-year identifier from a header cell.
//
// RULES (first hit wins):
//   - Date cell             -> "YYYY-MM-DD"
//   - Integer 2000-2100     -> "YYYY"
//   - Text "DD-MM-YYYY", "DD/MM/YYYY" or "DD.MM.YYYY" -> "YYYY-MM-DD"
//   - Text "YYYY-MM-DD" or "YYYY/MM/DD"               -> "YYYY-MM-DD"
//   - Text "FY" + 4 digits  -> "FY<year>"
//   - Text with an embedded 4-digit year in 2000-2100 -> that year
func ExtractYear(c grid.Cell) (string, bool) {
	switch c.Kind {
	case grid.Date:
		return c.Time.Format("2006-01-02"), true
	case grid.Number:
		if y, ok := integerYear(c.Number); ok {
			return strconv.Itoa(y), true
		}
		return "", false
	case grid.Text:
		return yearFromText(c.Text)
	default:
		return "", false
	}
}

func integerYear(f float64) (int, bool) {
	if f != math.Trunc(f) || f < minYear || f > maxYear {
		return 0, false
	}
	return int(f), true
}

func yearFromText(text string) (string, bool) {
	text = strings.TrimSpace(text)

	if m := dayFirstRe.FindStringSubmatch(text); m != nil {
		return fmt.Sprintf("%s-%s-%s", m[3], m[2], m[1]), true
	}
	if m := yearFirstRe.FindStringSubmatch(text); m != nil {
		return strings.ReplaceAll(m[0], "/", "-"), true
	}
	if m := fiscalRe.FindStringSubmatch(text); m != nil {
		return "FY" + m[1], true
	}
	for _, m := range bareYearRe.FindAllStringSubmatch(text, -1) {
		if y, err := strconv.Atoi(m[1]); err == nil && y >= minYear && y <= maxYear {
			return m[1], true
		}
	}
	return "", false
}

// isYearHeaderCell reports whether a cell can head a value column: a date, an
// integer year, or a text cell holding only a period identifier.
func isYearHeaderCell(c grid.Cell) bool {
	switch c.Kind {
	case grid.Date:
		return true
	case grid.Number:
		_, ok := integerYear(c.Number)
		return ok
	case grid.Text:
		if !yearHeaderTextRe.MatchString(strings.TrimSpace(c.Text)) {
			return false
		}
		_, ok := yearFromText(c.Text)
		return ok
	default:
		return false
	}
}

// resolveYears reads year identifiers for cols from the header row and the
// rows directly above and below it. Columns that yield nothing are labelled
// "Year k" by their left-to-right position.
func resolveYears(g grid.Grid, headerRow int, cols []int) YearColumnMap {
	years := make(YearColumnMap, len(cols))

	for _, offset := range []int{0, -1, 1} {
		row := headerRow + offset
		if row < 0 || row >= g.Rows() {
			continue
		}
		for _, col := range cols {
			if _, done := years[col]; done {
				continue
			}
			if y, ok := ExtractYear(g.At(row, col)); ok {
				years[col] = y
			}
		}
	}

	for i, col := range cols {
		if _, ok := years[col]; !ok {
			years[col] = fmt.Sprintf("Year %d", i+1)
		}
	}
	return years
}

// Columns returns the mapped columns in ascending order.
func (m YearColumnMap) Columns() []int {
	cols := make([]int, 0, len(m))
	for c := range m {
		cols = append(cols, c)
	}
	sort.Ints(cols)
	return cols
}
