// =============================================================================
// Financial Mapper - Detect Command
// =============================================================================
//
// This file defines the 'detect' command. It shows how a statement would be
// read: the layout detected on every sheet and the pairs extracted for every
// fiscal year, without mapping anything.
//
// COMMAND USAGE:
//   finmap detect <file> [--sheet NAME] [--pairs]
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/financial-mapper/internal/converter"
	"github.com/ginjaninja78/financial-mapper/internal/layout"
	"github.com/ginjaninja78/financial-mapper/internal/schema"
)

// showPairs prints every extracted pair, not only the counts.
var showPairs bool

// detectCmd represents the 'detect' command.
var detectCmd = &cobra.Command{
	Use:   "detect <file>",
	Short: "Show the detected layout and extracted pairs of a statement",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, closer, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		defer closer.Close()

		conv := converter.New(args[0], cfg, converter.Options{
			Sheets:        sheetNames,
			IncludeHidden: includeHidden,
			FillMerged:    fillMerged,
		}, logger)

		years, layouts, err := conv.Extract()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if layouts == nil {
			fmt.Fprintln(out, "Input holds label/value records; no layout detection needed.")
		}
		for _, l := range layouts {
			printLayout(out, l)
		}
		printYears(out, years, showPairs)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(detectCmd)

	detectCmd.Flags().StringSliceVar(&sheetNames, "sheet", nil, "Workbook sheet to read (repeatable; default all visible sheets)")
	detectCmd.Flags().BoolVar(&includeHidden, "include-hidden", false, "Read hidden workbook sheets too")
	detectCmd.Flags().BoolVar(&fillMerged, "fill-merged", true, "Spread merged workbook cells over their whole range")
	detectCmd.Flags().BoolVar(&showPairs, "pairs", false, "Print every extracted pair")
}

// =============================================================================
// PRINTING
// =============================================================================

func printLayout(w io.Writer, l layout.SheetLayout) {
	d := l.Layout
	name := l.Sheet
	if name == "" {
		name = "(grid)"
	}

	fmt.Fprintf(w, "Sheet %s\n", name)
	fmt.Fprintf(w, "  Layout:      %s\n", d.Archetype)
	if d.HeaderRow >= 0 {
		fmt.Fprintf(w, "  Header row:  %d\n", d.HeaderRow+1)
	}

	switch d.Archetype {
	case layout.DualLedger:
		for _, g := range d.Groups {
			fmt.Fprintf(w, "  Group:       label %s, amount %s\n", columnName(g.LabelCol), columnName(g.ValueCol))
		}
		fmt.Fprintf(w, "  Year:        %s\n", d.LedgerYear)
		if d.Section != nil {
			fmt.Fprintf(w, "  Balance sheet section from row %d\n", d.Section.TitleRow+1)
		}
	default:
		fmt.Fprintf(w, "  Label col:   %s\n", columnName(d.LabelCol))
		for _, c := range d.Years.Columns() {
			fmt.Fprintf(w, "  Value col:   %s -> %s\n", columnName(c), d.Years[c])
		}
		for _, c := range d.NoteCols {
			fmt.Fprintf(w, "  Note col:    %s\n", columnName(c))
		}
	}

	for _, r := range d.Reassignments {
		years := make([]string, 0, len(r.Years))
		for _, c := range r.Years.Columns() {
			years = append(years, r.Years[c])
		}
		fmt.Fprintf(w, "  Row %d: years reassigned to %s\n", r.Row+1, strings.Join(years, ", "))
	}
	fmt.Fprintf(w, "  Pairs:       %d\n\n", l.Pairs)
}

func printYears(w io.Writer, years []schema.YearPairs, pairs bool) {
	for _, y := range years {
		id := y.Year
		if id == "" {
			id = "(single)"
		}
		fmt.Fprintf(w, "Year %s: %d pair(s)\n", id, len(y.Pairs))
		if !pairs {
			continue
		}
		for _, p := range y.Pairs {
			fmt.Fprintf(w, "  %-50s %v\n", p.Label, p.Value)
		}
	}
}

// columnName renders a zero-based column index as a spreadsheet letter.
func columnName(col int) string {
	name, err := excelize.ColumnNumberToName(col + 1)
	if err != nil {
		return fmt.Sprintf("#%d", col+1)
	}
	return name
}
