package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ginjaninja78/financial-mapper/internal/schema"
)

// CSVHeader is the header row written by WriteCSV.
var CSVHeader = []string{"year", "canonical_name", "raw_label", "value", "raw_value", "confidence", "match_method", "warnings"}

// WriteCSV writes the mappings of every output, one row each. Unmapped
// labels and validation findings are not part of the CSV; see the audit log.
func WriteCSV(w io.Writer, outs []*schema.PipelineOutput) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, out := range outs {
		for _, m := range out.Mappings {
			record := []string{
				out.Year,
				string(m.CanonicalName),
				m.RawLabel,
				formatValue(m.Value),
				formatRaw(m.RawValue),
				strconv.FormatFloat(m.Confidence, 'f', 2, 64),
				string(m.Method),
				strings.Join(m.Warnings, "; "),
			}
			if err := cw.Write(record); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
	}

	cw.Flush()
	return cw.Error()
}
