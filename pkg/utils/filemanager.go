// =============================================================================
// Financial Mapper - File Manager Utility
// =============================================================================
//
// This module provides the file handling around a mapping run:
//   - Input discovery (single file or a directory of statements)
//   - Output file naming
//   - Audit log generation (every warning, error and unmapped label)
//   - Processing summary
//
// OUTPUT LAYOUT:
//   One output file per input file and fiscal year, named by the configured
//   file_name_format, plus one audit log and one summary per run, all in the
//   output directory.
//
// =============================================================================

package utils

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ginjaninja78/financial-mapper/internal/schema"
)

// SupportedExtensions are the input file types the mapper can read.
var SupportedExtensions = []string{".xlsx", ".xlsm", ".csv", ".json", ".hjson", ".html", ".htm"}

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles file operations for a run.
type FileManager struct {
	// OutputDir is the directory where outputs and logs are placed.
	OutputDir string

	// FileNameFormat is the output name template, without extension.
	FileNameFormat string
}

// NewFileManager creates a FileManager.
func NewFileManager(outputDir, fileNameFormat string) *FileManager {
	return &FileManager{OutputDir: outputDir, FileNameFormat: fileNameFormat}
}

// EnsureDirectories creates the output directory if it doesn't exist.
func (fm *FileManager) EnsureDirectories() error {
	if err := os.MkdirAll(fm.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", fm.OutputDir, err)
	}
	return nil
}

// OutputPath returns the full output path for one input file and year.
func (fm *FileManager) OutputPath(inputFile, year, extension string) string {
	name := GenerateOutputFileName(fm.FileNameFormat, map[string]string{
		"original": strings.TrimSuffix(filepath.Base(inputFile), filepath.Ext(inputFile)),
		"year":     year,
	}, extension)
	return filepath.Join(fm.OutputDir, name)
}

// =============================================================================
// FILE DISCOVERY
// =============================================================================

// DiscoverInputFiles returns path itself when it is a file, or the supported
// files directly inside it when it is a directory, sorted by name.
//
// RETURNS:
//   - A slice of file paths.
//   - An error if path cannot be read or holds no supported file.
func DiscoverInputFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat input: %w", err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to scan input directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), "~$") {
			continue
		}
		if IsSupported(e.Name()) {
			files = append(files, filepath.Join(path, e.Name()))
		}
	}
	sort.Strings(files)

	if len(files) == 0 {
		return nil, fmt.Errorf("no supported input files in %s", path)
	}
	return files, nil
}

// IsSupported reports whether the file extension is readable.
func IsSupported(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, s := range SupportedExtensions {
		if ext == s {
			return true
		}
	}
	return false
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

var unsafeNameRe = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// GenerateOutputFileName generates a unique output file name.
//
// PARAMETERS:
//   - format: The format string for the file name.
//     Placeholders:
//     {uuid}      - A random UUID
//     {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
//     {date}      - Current date (YYYYMMDD)
//     {original}  - Input file name without extension
//     {year}      - Fiscal year identifier ("single" when empty)
//   - params: Placeholder values.
//   - extension: Appended when the name does not already end with it.
//
// EXAMPLE:
//
//	format: "{original}_{year}_{uuid}"
//	params: {"original": "acme", "year": "2024-03-31"}
//	output: "acme_2024-03-31_a1b2c3d4-e5f6-7890-abcd-ef1234567890.json"
func GenerateOutputFileName(format string, params map[string]string, extension string) string {
	now := time.Now()

	replacements := map[string]string{
		"{uuid}":      uuid.New().String(),
		"{timestamp}": now.Format("20060102_150405"),
		"{date}":      now.Format("20060102"),
		"{year}":      "single",
	}
	for key, value := range params {
		if key == "year" && value == "" {
			continue
		}
		replacements["{"+key+"}"] = value
	}

	result := format
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}
	result = strings.Trim(unsafeNameRe.ReplaceAllString(result, "_"), "_")
	if result == "" {
		result = uuid.New().String()
	}

	if extension != "" && !strings.HasSuffix(strings.ToLower(result), strings.ToLower(extension)) {
		result += extension
	}
	return result
}

// =============================================================================
// AUDIT LOG
// =============================================================================

// AuditEntry is one line of the audit log.
type AuditEntry struct {
	FileName string
	Year     string
	RunID    string

	// Kind is "error", "warning", "mapping-warning" or "unmapped".
	Kind     string
	Rule     string
	Field    string
	RawLabel string
	Message  string
}

// AuditEntries lists every finding of one pipeline output.
func AuditEntries(fileName string, out *schema.PipelineOutput) []AuditEntry {
	var entries []AuditEntry
	base := AuditEntry{FileName: fileName, Year: out.Year, RunID: out.RunID}

	for _, is := range out.Errors() {
		e := base
		e.Kind, e.Rule, e.Field, e.RawLabel, e.Message = "error", is.Rule, is.Field, is.RawLabel, is.Message
		entries = append(entries, e)
	}
	for _, is := range out.Warnings() {
		e := base
		e.Kind, e.Rule, e.Field, e.RawLabel, e.Message = "warning", is.Rule, is.Field, is.RawLabel, is.Message
		entries = append(entries, e)
	}
	for _, m := range out.Mappings {
		for _, w := range m.Warnings {
			e := base
			e.Kind, e.Field, e.RawLabel, e.Message = "mapping-warning", string(m.CanonicalName), m.RawLabel, w
			entries = append(entries, e)
		}
	}
	for _, u := range out.Unmapped {
		e := base
		e.Kind, e.RawLabel = "unmapped", u.RawLabel
		e.Message = fmt.Sprintf("No canonical match for '%s' (value %v)", u.RawLabel, u.RawValue)
		entries = append(entries, e)
	}
	return entries
}

// WriteAuditLog writes the entries to audit_log_<timestamp>.txt.
//
// RETURNS:
//   - The path to the audit log, empty when there was nothing to write.
//   - An error if writing fails.
func WriteAuditLog(entries []AuditEntry, outputDir string) (string, error) {
	if len(entries) == 0 {
		return "", nil
	}

	now := time.Now()
	logPath := filepath.Join(outputDir, fmt.Sprintf("audit_log_%s.txt", now.Format("20060102_150405")))

	file, err := os.Create(logPath)
	if err != nil {
		return "", fmt.Errorf("failed to create audit log: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)

	fmt.Fprintf(writer, "Financial Mapper - Audit Log\n"+
		"Generated: %s\n"+
		"Total Entries: %d\n"+
		"================================================================================\n\n",
		now.Format("2006-01-02 15:04:05"), len(entries))

	for i, entry := range entries {
		fmt.Fprintf(writer, "Entry #%d\n"+
			"  File:      %s\n"+
			"  Run:       %s\n"+
			"  Kind:      %s\n"+
			"  Message:   %s\n",
			i+1, entry.FileName, entry.RunID, entry.Kind, entry.Message)

		if entry.Year != "" {
			fmt.Fprintf(writer, "  Year:      %s\n", entry.Year)
		}
		if entry.Rule != "" {
			fmt.Fprintf(writer, "  Rule:      %s\n", entry.Rule)
		}
		if entry.Field != "" {
			fmt.Fprintf(writer, "  Field:     %s\n", entry.Field)
		}
		if entry.RawLabel != "" {
			fmt.Fprintf(writer, "  Raw Label: %s\n", entry.RawLabel)
		}
		writer.WriteString("\n")
	}

	writer.WriteString("================================================================================\n" +
		"End of Audit Log\n")

	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush audit log: %w", err)
	}
	return logPath, nil
}

// =============================================================================
// PROCESSING SUMMARY
// =============================================================================

// ProcessingSummary contains summary information about a run.
type ProcessingSummary struct {
	StartTime        time.Time
	EndTime          time.Time
	TotalFiles       int
	SuccessfulFiles  int
	FailedFiles      int
	TotalYears       int
	TotalMappings    int
	TotalUnmapped    int
	ValidationErrors int
	ProcessedFiles   []ProcessedFileInfo
	FailedFilesList  []FailedFileInfo
}

// ProcessedFileInfo describes one successfully processed input.
type ProcessedFileInfo struct {
	InputFile   string
	OutputFiles []string
	Layouts     []string
	Years       int
	Mappings    int
	Unmapped    int
	ProcessTime time.Duration
}

// FailedFileInfo describes one failed input.
type FailedFileInfo struct {
	InputFile    string
	ErrorMessage string
}

// Add records the outputs of one input file.
func (s *ProcessingSummary) Add(info ProcessedFileInfo, outs []*schema.PipelineOutput) {
	for _, out := range outs {
		info.Mappings += len(out.Mappings)
		info.Unmapped += len(out.Unmapped)
		s.ValidationErrors += len(out.Errors())
	}
	info.Years = len(outs)

	s.TotalFiles++
	s.SuccessfulFiles++
	s.TotalYears += info.Years
	s.TotalMappings += info.Mappings
	s.TotalUnmapped += info.Unmapped
	s.ProcessedFiles = append(s.ProcessedFiles, info)
}

// Fail records a failed input file.
func (s *ProcessingSummary) Fail(inputFile string, err error) {
	s.TotalFiles++
	s.FailedFiles++
	s.FailedFilesList = append(s.FailedFilesList, FailedFileInfo{InputFile: inputFile, ErrorMessage: err.Error()})
}

// WriteSummaryLog writes the summary to processing_summary_<timestamp>.txt.
func WriteSummaryLog(summary ProcessingSummary, outputDir string) (string, error) {
	summaryPath := filepath.Join(outputDir, fmt.Sprintf("processing_summary_%s.txt", time.Now().Format("20060102_150405")))

	file, err := os.Create(summaryPath)
	if err != nil {
		return "", fmt.Errorf("failed to create summary file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)

	fmt.Fprintf(writer, "Financial Mapper - Processing Summary\n"+
		"================================================================================\n\n"+
		"Run Information:\n"+
		"  Start Time:        %s\n"+
		"  End Time:          %s\n"+
		"  Duration:          %s\n\n"+
		"Statistics:\n"+
		"  Total Files:       %d\n"+
		"  Successful:        %d\n"+
		"  Failed:            %d\n"+
		"  Fiscal Years:      %d\n"+
		"  Mappings:          %d\n"+
		"  Unmapped Labels:   %d\n"+
		"  Validation Errors: %d\n\n",
		summary.StartTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Sub(summary.StartTime).String(),
		summary.TotalFiles,
		summary.SuccessfulFiles,
		summary.FailedFiles,
		summary.TotalYears,
		summary.TotalMappings,
		summary.TotalUnmapped,
		summary.ValidationErrors)

	if len(summary.ProcessedFiles) > 0 {
		writer.WriteString("Successful Files:\n")
		writer.WriteString("--------------------------------------------------------------------------------\n")
		for _, pf := range summary.ProcessedFiles {
			fmt.Fprintf(writer, "  Input:        %s\n", pf.InputFile)
			for _, out := range pf.OutputFiles {
				fmt.Fprintf(writer, "  Output:       %s\n", out)
			}
			if len(pf.Layouts) > 0 {
				fmt.Fprintf(writer, "  Layouts:      %s\n", strings.Join(pf.Layouts, ", "))
			}
			fmt.Fprintf(writer, "  Years:        %d\n", pf.Years)
			fmt.Fprintf(writer, "  Mappings:     %d\n", pf.Mappings)
			fmt.Fprintf(writer, "  Unmapped:     %d\n", pf.Unmapped)
			fmt.Fprintf(writer, "  Process Time: %s\n\n", pf.ProcessTime.String())
		}
	}

	if len(summary.FailedFilesList) > 0 {
		writer.WriteString("Failed Files:\n")
		writer.WriteString("--------------------------------------------------------------------------------\n")
		for _, ff := range summary.FailedFilesList {
			fmt.Fprintf(writer, "  File:  %s\n", ff.InputFile)
			fmt.Fprintf(writer, "  Error: %s\n\n", ff.ErrorMessage)
		}
	}

	writer.WriteString("================================================================================\n" +
		"End of Summary\n")

	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush summary file: %w", err)
	}
	return summaryPath, nil
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
