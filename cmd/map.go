// =============================================================================
// Financial Mapper - Map Command
// =============================================================================
//
// This file defines the 'map' command, the main command of the mapper. It
// maps every label/value pair of one or more statements onto the canonical
// vocabulary and writes one output per input file and fiscal year.
//
// COMMAND USAGE:
//   finmap map <file or directory>... [flags]
//
// FLAGS:
//   --output-dir     : Directory for outputs and logs (overrides output.dir)
//   --format         : json, csv or xml (overrides output.format)
//   --stdout         : Write outputs to standard output instead of files
//   --sheet          : Workbook sheet to read; repeatable
//   --include-hidden : Read hidden workbook sheets too
//   --fill-merged    : Spread merged workbook cells over their range
//   --strict         : Fail a file when validation reports an error
//   --dry-run        : Map without writing anything
//
// PROCESSING PIPELINE:
//   1. Load configuration
//   2. Discover input files
//   3. Map each file concurrently (see internal/converter)
//   4. Write the audit log and the processing summary
//
// =============================================================================

package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/financial-mapper/internal/converter"
	"github.com/ginjaninja78/financial-mapper/internal/pipeline"
	"github.com/ginjaninja78/financial-mapper/internal/validation"
	"github.com/ginjaninja78/financial-mapper/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	outputDir     string
	outputFormat  string
	toStdout      bool
	sheetNames    []string
	includeHidden bool
	fillMerged    bool
	strictMode    bool
	dryRun        bool
)

// =============================================================================
// MAP COMMAND DEFINITION
// =============================================================================

// mapCmd represents the 'map' command.
var mapCmd = &cobra.Command{
	Use:   "map <file or directory>...",
	Short: "Map financial statements onto the canonical vocabulary",
	Long: `The map command reads each input statement, detects its layout, extracts
the label/value pairs of every fiscal year and maps them onto the canonical
vocabulary. Directories are scanned for supported files (xlsx, xlsm, csv,
html, htm, json, hjson).

Files are processed concurrently. Each file is processed independently, and
errors in one file do not affect the processing of others.

On success:
  - One output per file and fiscal year is placed in the output directory
  - Every warning, validation finding and unmapped label goes to the audit log
  - A processing summary is written next to the outputs

On error:
  - The file is listed as failed in the summary
  - Processing continues for other files`,

	Args: cobra.MinimumNArgs(1),

	RunE: func(cmd *cobra.Command, args []string) error {
		return runMap(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(mapCmd)

	mapCmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Directory for outputs and logs (overrides output.dir)")
	mapCmd.Flags().StringVarP(&outputFormat, "format", "f", "", "Output format: json, csv or xml (overrides output.format)")
	mapCmd.Flags().BoolVar(&toStdout, "stdout", false, "Write outputs to standard output instead of files")
	mapCmd.Flags().StringSliceVar(&sheetNames, "sheet", nil, "Workbook sheet to read (repeatable; default all visible sheets)")
	mapCmd.Flags().BoolVar(&includeHidden, "include-hidden", false, "Read hidden workbook sheets too")
	mapCmd.Flags().BoolVar(&fillMerged, "fill-merged", true, "Spread merged workbook cells over their whole range")
	mapCmd.Flags().BoolVar(&strictMode, "strict", false, "Fail a file when validation reports any error")
	mapCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Map without writing any output or log")
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// runMap orchestrates the mapping of every input.
func runMap(cmd *cobra.Command, args []string) error {
	startTime := time.Now()

	// =========================================================================
	// STEP 1: LOAD CONFIGURATION
	// =========================================================================

	cfg, logger, closer, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer closer.Close()

	if outputDir != "" {
		cfg.Output.Dir = outputDir
	}
	if outputFormat != "" {
		cfg.Output.Format = outputFormat
	}
	if cmd.Flags().Changed("strict") {
		cfg.Matching.StrictMode = strictMode
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// =========================================================================
	// STEP 2: DISCOVER INPUT FILES
	// =========================================================================

	var inputFiles []string
	for _, arg := range args {
		files, err := utils.DiscoverInputFiles(arg)
		if err != nil {
			return fmt.Errorf("failed to discover input files: %w", err)
		}
		inputFiles = append(inputFiles, files...)
	}
	logger.Info("found %d file(s) to process", len(inputFiles))

	// =========================================================================
	// STEP 3: PROCESS FILES CONCURRENTLY
	// =========================================================================
	// Results are stored by input position so that output order does not
	// depend on scheduling.

	results := make([]converter.Result, len(inputFiles))
	streams := make([]*bytes.Buffer, len(inputFiles))

	var wg sync.WaitGroup
	for i, file := range inputFiles {
		options := converter.Options{
			Sheets:        sheetNames,
			IncludeHidden: includeHidden,
			FillMerged:    fillMerged,
			DryRun:        dryRun,
		}
		if toStdout {
			streams[i] = &bytes.Buffer{}
			options.Stdout = streams[i]
		}

		wg.Add(1)
		go func(i int, path string, options converter.Options) {
			defer wg.Done()
			results[i] = converter.New(path, cfg, options, logger).Run()
		}(i, file, options)
	}
	wg.Wait()

	// =========================================================================
	// STEP 4: COLLECT RESULTS, WRITE LOGS
	// =========================================================================

	out := cmd.OutOrStdout()
	status := cmd.ErrOrStderr()

	summary := utils.ProcessingSummary{StartTime: startTime}
	var audit []utils.AuditEntry

	for i, result := range results {
		name := filepath.Base(result.FilePath)
		if !result.Success {
			summary.Fail(result.FilePath, result.Error)
			var strict *pipeline.StrictModeError
			if errors.As(result.Error, &strict) {
				fmt.Fprintf(status, "  ✗ %s: strict mode rejected year %q\n%s", name, strict.Year, validation.FormatIssues(strict.Errors))
				continue
			}
			fmt.Fprintf(status, "  ✗ %s: %v\n", name, result.Error)
			continue
		}

		if streams[i] != nil {
			out.Write(streams[i].Bytes())
		}

		summary.Add(utils.ProcessedFileInfo{
			InputFile:   result.FilePath,
			OutputFiles: result.OutputFiles,
			Layouts:     result.LayoutNames(),
			ProcessTime: result.Stats.ProcessingTime,
		}, result.Outputs)
		audit = append(audit, result.AuditEntries()...)

		fmt.Fprintf(status, "  ✓ %s: %d year(s), %d mapped, %d unmapped, %d validation error(s)\n",
			name, result.Stats.Years, result.Stats.Mappings, result.Stats.Unmapped, result.Stats.ValidationErrors)
	}
	summary.EndTime = time.Now()

	if !dryRun && !toStdout {
		if cfg.Output.AuditLog {
			path, err := utils.WriteAuditLog(audit, cfg.Output.Dir)
			if err != nil {
				logger.Error("failed to write audit log: %v", err)
			} else if path != "" {
				fmt.Fprintf(status, "Audit log: %s\n", path)
			}
		}
		if summary.SuccessfulFiles > 0 {
			if path, err := utils.WriteSummaryLog(summary, cfg.Output.Dir); err != nil {
				logger.Error("failed to write summary: %v", err)
			} else {
				fmt.Fprintf(status, "Summary:   %s\n", path)
			}
		}
	}

	fmt.Fprintf(status, "\n=== Mapping Complete ===\n"+
		"Total files:     %d\n"+
		"Successful:      %d\n"+
		"Errors:          %d\n"+
		"Time elapsed:    %s\n",
		summary.TotalFiles, summary.SuccessfulFiles, summary.FailedFiles, summary.EndTime.Sub(startTime))

	if summary.FailedFiles > 0 {
		return fmt.Errorf("%d of %d file(s) failed", summary.FailedFiles, summary.TotalFiles)
	}
	return nil
}
