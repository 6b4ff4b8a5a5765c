// =============================================================================
// Financial Mapper - Converter Module
// =============================================================================
//
// This module orchestrates the mapping of a single input file. It reads the
// file, extracts per-year label/value pairs, runs the mapping pipeline and
// writes one output per fiscal year.
//
// PROCESSING FLOW:
//   1. Read the input by extension
//      .xlsx .xlsm  -> workbook sheets     (xlsxparser)
//      .csv         -> one grid            (csvparser)
//      .html .htm   -> one grid per table  (htmlparser)
//      .json .hjson -> records or a grid   (jsonparser)
//   2. Detect the layout of every grid and extract pairs per year (layout)
//   3. Map every year through the pipeline
//   4. Write the outputs (report) and collect audit entries
//
// Records read from JSON skip step 2: they already carry labels.
//
// =============================================================================

package converter

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ginjaninja78/financial-mapper/internal/config"
	"github.com/ginjaninja78/financial-mapper/internal/csvparser"
	"github.com/ginjaninja78/financial-mapper/internal/grid"
	"github.com/ginjaninja78/financial-mapper/internal/htmlparser"
	"github.com/ginjaninja78/financial-mapper/internal/jsonparser"
	"github.com/ginjaninja78/financial-mapper/internal/layout"
	"github.com/ginjaninja78/financial-mapper/internal/logging"
	"github.com/ginjaninja78/financial-mapper/internal/pipeline"
	"github.com/ginjaninja78/financial-mapper/internal/report"
	"github.com/ginjaninja78/financial-mapper/internal/schema"
	"github.com/ginjaninja78/financial-mapper/internal/xlsxparser"
	"github.com/ginjaninja78/financial-mapper/pkg/utils"
)

// ErrUnsupportedInput is returned for file types the converter cannot read.
var ErrUnsupportedInput = errors.New("unsupported input file type")

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of processing a single file.
type Result struct {
	// FilePath is the path to the input file that was processed.
	FilePath string

	// OutputFiles are the written outputs, one per year. Empty on failure,
	// in dry-run mode and when writing to a stream.
	OutputFiles []string

	// Outputs are the pipeline outputs in year order.
	Outputs []*schema.PipelineOutput

	// Layouts describes every sheet that produced pairs. Nil for records.
	Layouts []layout.SheetLayout

	// Success indicates whether the processing was successful.
	Success bool

	// Error contains the error if processing failed.
	Error error

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about the processing.
type ProcessingStats struct {
	Sheets           int
	Years            int
	PairsExtracted   int
	Mappings         int
	Unmapped         int
	ValidationErrors int
	ProcessingTime   time.Duration
}

// AuditEntries lists every finding of the result for the audit log.
func (r *Result) AuditEntries() []utils.AuditEntry {
	var entries []utils.AuditEntry
	name := filepath.Base(r.FilePath)
	for _, out := range r.Outputs {
		entries = append(entries, utils.AuditEntries(name, out)...)
	}
	return entries
}

// LayoutNames returns "sheet: archetype" for every detected sheet.
func (r *Result) LayoutNames() []string {
	names := make([]string, len(r.Layouts))
	for i, l := range r.Layouts {
		if l.Sheet == "" {
			names[i] = string(l.Layout.Archetype)
			continue
		}
		names[i] = fmt.Sprintf("%s: %s", l.Sheet, l.Layout.Archetype)
	}
	return names
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Options controls reading and writing of one file.
type Options struct {
	// Sheets restricts workbook reading to the named sheets.
	Sheets []string

	// IncludeHidden reads hidden workbook sheets too.
	IncludeHidden bool

	// FillMerged spreads merged workbook cells over their range.
	FillMerged bool

	// DryRun maps without writing anything.
	DryRun bool

	// Stdout, when set, receives all outputs of the file instead of files in
	// the output directory.
	Stdout io.Writer

	// Semantic is passed to the pipeline; may be nil.
	Semantic pipeline.SemanticHook
}

// Converter handles the mapping of a single input file.
type Converter struct {
	path    string
	cfg     *config.Config
	options Options
	files   *utils.FileManager
	logger  logging.Logger
}

// =============================================================================
// CONSTRUCTOR
// =============================================================================

// New creates a new Converter instance.
//
// PARAMETERS:
//   - path: The path to the input file.
//   - cfg: The loaded configuration.
//   - options: Reading and writing options.
//   - logger: Destination for progress messages; nil discards them.
//
// RETURNS:
//   - A new Converter instance.
func New(path string, cfg *config.Config, options Options, logger logging.Logger) *Converter {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Converter{
		path:    path,
		cfg:     cfg,
		options: options,
		files:   utils.NewFileManager(cfg.Output.Dir, cfg.Output.FileNameFormat),
		logger:  logging.With(logger, "converter"),
	}
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the mapping for the file.
//
// RETURNS:
//   - A Result struct containing the outcome of the processing.
func (c *Converter) Run() Result {
	startTime := time.Now()
	result := Result{FilePath: c.path}

	c.logger.Info("Processing file: %s", c.path)

	// =========================================================================
	// STEP 1-2: READ AND EXTRACT
	// =========================================================================

	years, layouts, err := c.Extract()
	if err != nil {
		result.Error = err
		return result
	}
	result.Layouts = layouts
	result.Stats.Sheets = len(layouts)
	for _, y := range years {
		result.Stats.PairsExtracted += len(y.Pairs)
	}

	// =========================================================================
	// STEP 3: MAP
	// =========================================================================
	// A pipeline per file keeps the synonym dictionary unshared between
	// concurrent conversions.

	p, err := pipeline.FromConfig(c.cfg, c.options.Semantic, c.logger)
	if err != nil {
		result.Error = fmt.Errorf("failed to build pipeline: %w", err)
		return result
	}

	outputs, err := p.MapYears(years)
	if err != nil {
		result.Error = err
		return result
	}
	result.Outputs = outputs
	result.Stats.Years = len(outputs)
	for _, out := range outputs {
		result.Stats.Mappings += len(out.Mappings)
		result.Stats.Unmapped += len(out.Unmapped)
		result.Stats.ValidationErrors += len(out.Errors())
	}

	// =========================================================================
	// STEP 4: WRITE
	// =========================================================================

	if !c.options.DryRun {
		files, err := c.writeOutputs(outputs)
		if err != nil {
			result.Error = fmt.Errorf("failed to write output: %w", err)
			return result
		}
		result.OutputFiles = files
	}

	result.Success = true
	result.Stats.ProcessingTime = time.Since(startTime)
	c.logger.Info("Finished %s: %d year(s), %d mapping(s), %d unmapped in %s",
		filepath.Base(c.path), result.Stats.Years, result.Stats.Mappings, result.Stats.Unmapped, result.Stats.ProcessingTime)
	return result
}

// Extract reads the input and returns its pairs per year, plus the detected
// layouts when the input was tabular.
func (c *Converter) Extract() ([]schema.YearPairs, []layout.SheetLayout, error) {
	ext := strings.ToLower(filepath.Ext(c.path))

	var sheets []grid.Sheet
	switch ext {
	case ".xlsx", ".xlsm":
		s, err := xlsxparser.Parse(c.path, xlsxparser.Options{
			Sheets:        c.options.Sheets,
			IncludeHidden: c.options.IncludeHidden,
			FillMerged:    c.options.FillMerged,
			Logger:        logging.With(c.logger, "xlsx"),
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to parse workbook: %w", err)
		}
		sheets = s

	case ".csv":
		g, err := csvparser.Parse(c.path, c.cfg.CSV)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to parse CSV: %w", err)
		}
		sheets = []grid.Sheet{{Name: filepath.Base(c.path), Grid: g}}

	case ".html", ".htm":
		s, err := htmlparser.Parse(c.path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to parse HTML: %w", err)
		}
		sheets = s

	case ".json", ".hjson":
		doc, err := jsonparser.Parse(c.path, logging.With(c.logger, "json"))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
		if doc.Repaired {
			c.logger.Warn("%s was malformed and has been repaired before mapping", filepath.Base(c.path))
		}
		if !doc.IsGrid() {
			return doc.Years, nil, nil
		}
		sheets = []grid.Sheet{{Name: filepath.Base(c.path), Grid: doc.Grid}}

	default:
		return nil, nil, fmt.Errorf("%w: %s", ErrUnsupportedInput, ext)
	}

	detector := layout.NewDetector(c.cfg.LayoutOptions(), logging.With(c.logger, "layout"))
	res, err := detector.ExtractSheets(sheets)
	if err != nil {
		return nil, nil, err
	}
	return res.Years, res.Sheets, nil
}

// writeOutputs writes one file per output, or all outputs to the stream.
func (c *Converter) writeOutputs(outputs []*schema.PipelineOutput) ([]string, error) {
	format := c.cfg.Output.Format

	if c.options.Stdout != nil {
		return nil, report.Write(c.options.Stdout, format, outputs...)
	}

	if err := c.files.EnsureDirectories(); err != nil {
		return nil, err
	}

	var written []string
	for _, out := range outputs {
		path := c.files.OutputPath(c.path, out.Year, report.Extension(format))
		if err := writeFile(path, format, out); err != nil {
			return written, err
		}
		c.logger.Debug("wrote %s", path)
		written = append(written, path)
	}
	return written, nil
}

func writeFile(path, format string, out *schema.PipelineOutput) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := report.Write(file, format, out); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
