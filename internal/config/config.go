// =============================================================================
// Financial Mapper - Configuration Module
// =============================================================================
//
// This module loads and validates the mapper configuration. A single YAML file
// carries every tunable; any key left out keeps its default, and an empty
// path means "all defaults".
//
// LOAD ORDER:
//   1. Defaults (Default)
//   2. YAML file, if any
//   3. .env file (godotenv), then FINMAP_* environment variables
//   4. Validation
//
// SECTIONS:
//   matching          - fuzzy threshold, ambiguity delta, scorer, strict mode
//   validation        - required fields, magnitude ceiling, duplicate policy
//   layout            - density thresholds used by the layout detector
//   csv               - how CSV inputs are read
//   logging           - level and optional log file
//   output            - directory, format and file naming
//   synonym_overlays  - extra synonym files (json, hjson, yaml)
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/text/encoding/ianaindex"
	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/financial-mapper/internal/fuzzy"
	"github.com/ginjaninja78/financial-mapper/internal/layout"
	"github.com/ginjaninja78/financial-mapper/internal/logging"
	"github.com/ginjaninja78/financial-mapper/internal/schema"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "FINMAP_"

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the full mapper configuration.
type Config struct {
	Matching   MatchingConfig   `yaml:"matching"`
	Validation ValidationConfig `yaml:"validation"`
	Layout     LayoutConfig     `yaml:"layout"`
	CSV        CSVSettings      `yaml:"csv"`
	Logging    LoggingConfig    `yaml:"logging"`
	Output     OutputConfig     `yaml:"output"`

	// SynonymOverlays are loaded into the dictionary in order; later files
	// overwrite earlier entries.
	SynonymOverlays []string `yaml:"synonym_overlays"`

	// ExtraSynonyms are inline variant -> canonical pairs.
	ExtraSynonyms map[string]string `yaml:"extra_synonyms"`

	// ExtraFuzzyTargets add target strings to the fuzzy pool, each pointing
	// at the canonical field it stands for.
	ExtraFuzzyTargets map[string]string `yaml:"extra_fuzzy_targets"`

	// EnableSemanticLayer turns on the semantic step when a hook is wired.
	EnableSemanticLayer bool `yaml:"enable_semantic_layer"`

	// source is the file the configuration was read from, if any.
	source string
}

// MatchingConfig holds matching thresholds and policy.
type MatchingConfig struct {
	// FuzzyThreshold is the minimum fuzzy score (0-100) to accept.
	// Default: 80
	FuzzyThreshold float64 `yaml:"fuzzy_threshold"`

	// FuzzyAmbiguityDelta flags a fuzzy match as ambiguous when the runner-up
	// is within this many points.
	// Default: 5
	FuzzyAmbiguityDelta float64 `yaml:"fuzzy_ambiguity_delta"`

	// FuzzyScorer selects the similarity metric: token_set, token_sort, ratio.
	// Default: token_set
	FuzzyScorer string `yaml:"fuzzy_scorer"`

	// SemanticThreshold is the minimum similarity (0-1) for semantic matches.
	// Default: 0.85
	SemanticThreshold float64 `yaml:"semantic_threshold"`

	// StrictMode aborts a run when validation reports any error.
	// Default: false
	StrictMode bool `yaml:"strict_mode"`
}

// ValidationConfig holds the post-mapping checks.
type ValidationConfig struct {
	// RequiredFields must all be mapped; an empty list disables the check.
	RequiredFields []string `yaml:"required_fields"`

	// MaxAbsoluteValue flags values above this magnitude.
	// Default: 1e15
	MaxAbsoluteValue float64 `yaml:"max_absolute_value"`

	// ErrorOnDuplicate makes duplicate canonical targets errors.
	// Default: true
	ErrorOnDuplicate bool `yaml:"error_on_duplicate"`
}

// LayoutConfig holds the layout detector thresholds.
type LayoutConfig struct {
	// HeaderScanRows is how many top rows are searched for headers.
	// Default: 10
	HeaderScanRows int `yaml:"header_scan_rows"`

	// YearHeaderRows is how many top rows may hold a statutory year header.
	// Default: 5
	YearHeaderRows int `yaml:"year_header_rows"`

	// LedgerMinCells is the minimum label and number count for a ledger
	// column group.
	// Default: 3
	LedgerMinCells int `yaml:"ledger_min_cells"`

	// SectionMinCells is the same minimum for an embedded balance sheet.
	// Default: 2
	SectionMinCells int `yaml:"section_min_cells"`

	// GenericMinNumeric is the numeric cell count a column needs to be a
	// value column in the generic layout.
	// Default: 3
	GenericMinNumeric int `yaml:"generic_min_numeric"`

	// YearLookaheadRows is how far a section title looks for a new header.
	// Default: 5
	YearLookaheadRows int `yaml:"year_lookahead_rows"`

	// SkipLabels are extra labels (normalized) that are never data.
	SkipLabels []string `yaml:"skip_labels"`
}

// CSVSettings controls how CSV inputs are read.
type CSVSettings struct {
	// Delimiter is the field delimiter character.
	// Default: ","
	Delimiter string `yaml:"delimiter"`

	// Comment lines start with this character; empty disables comments.
	Comment string `yaml:"comment"`

	// Encoding of the input file, by IANA name (UTF-8, UTF-16, windows-1252,
	// ISO-8859-1, ...).
	// Default: "UTF-8"
	Encoding string `yaml:"encoding"`

	// TrimLeadingSpace trims whitespace at the start of each field.
	// Default: true
	TrimLeadingSpace bool `yaml:"trim_leading_space"`
}

// LoggingConfig controls logging.
type LoggingConfig struct {
	// Level: debug, info, warn, error.
	// Default: "info"
	Level string `yaml:"level"`

	// File is an optional log file written in addition to stderr.
	File string `yaml:"file"`
}

// OutputConfig controls where and how results are written.
type OutputConfig struct {
	// Dir is the output directory.
	// Default: "./output"
	Dir string `yaml:"dir"`

	// Format is json, csv or xml.
	// Default: "json"
	Format string `yaml:"format"`

	// FileNameFormat names output files. Placeholders:
	//   {uuid}      - A random UUID
	//   {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
	//   {original}  - Input file name without extension
	//   {year}      - Fiscal-year identifier of the run
	// Default: "{original}_{year}_{uuid}"
	FileNameFormat string `yaml:"file_name_format"`

	// AuditLog writes a log of every warning and error next to the outputs.
	// Default: true
	AuditLog bool `yaml:"audit_log"`
}

// Output formats.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatXML  = "xml"
)

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Matching: MatchingConfig{
			FuzzyThreshold:      80,
			FuzzyAmbiguityDelta: 5,
			FuzzyScorer:         fuzzy.ScorerTokenSet,
			SemanticThreshold:   0.85,
		},
		Validation: ValidationConfig{
			MaxAbsoluteValue: 1e15,
			ErrorOnDuplicate: true,
		},
		Layout: LayoutConfig{
			HeaderScanRows:    10,
			YearHeaderRows:    5,
			LedgerMinCells:    3,
			SectionMinCells:   2,
			GenericMinNumeric: 3,
			YearLookaheadRows: 5,
		},
		CSV: CSVSettings{
			Delimiter:        ",",
			Encoding:         "UTF-8",
			TrimLeadingSpace: true,
		},
		Logging: LoggingConfig{Level: "info"},
		Output: OutputConfig{
			Dir:            "./output",
			Format:         FormatJSON,
			FileNameFormat: "{original}_{year}_{uuid}",
			AuditLog:       true,
		},
	}
}

// applyDefaults fills options a file may have blanked explicitly.
func applyDefaults(cfg *Config) {
	def := Default()

	if cfg.Matching.FuzzyScorer == "" {
		cfg.Matching.FuzzyScorer = def.Matching.FuzzyScorer
	}
	if cfg.Layout.HeaderScanRows == 0 {
		cfg.Layout.HeaderScanRows = def.Layout.HeaderScanRows
	}
	if cfg.Layout.YearHeaderRows == 0 {
		cfg.Layout.YearHeaderRows = def.Layout.YearHeaderRows
	}
	if cfg.Layout.LedgerMinCells == 0 {
		cfg.Layout.LedgerMinCells = def.Layout.LedgerMinCells
	}
	if cfg.Layout.SectionMinCells == 0 {
		cfg.Layout.SectionMinCells = def.Layout.SectionMinCells
	}
	if cfg.Layout.GenericMinNumeric == 0 {
		cfg.Layout.GenericMinNumeric = def.Layout.GenericMinNumeric
	}
	if cfg.Layout.YearLookaheadRows == 0 {
		cfg.Layout.YearLookaheadRows = def.Layout.YearLookaheadRows
	}
	if cfg.CSV.Delimiter == "" {
		cfg.CSV.Delimiter = def.CSV.Delimiter
	}
	if cfg.CSV.Encoding == "" {
		cfg.CSV.Encoding = def.CSV.Encoding
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = def.Logging.Level
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = def.Output.Dir
	}
	if cfg.Output.Format == "" {
		cfg.Output.Format = def.Output.Format
	}
	if cfg.Output.FileNameFormat == "" {
		cfg.Output.FileNameFormat = def.Output.FileNameFormat
	}
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads the configuration at path, applies environment overrides and
// validates the result.
//
// PARAMETERS:
//   - path: YAML file; empty means defaults only.
//
// RETURNS:
//   - The loaded configuration, or an error describing the first problem.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
		cfg.source = path
		cfg.resolveRelativePaths(filepath.Dir(path))
	}

	applyDefaults(cfg)

	if err := ApplyEnv(cfg, os.LookupEnv); err != nil {
		return nil, fmt.Errorf("invalid environment override: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// LoadEnvFile loads a .env file into the process environment. A missing
// default file is not an error; an explicitly named one is.
func LoadEnvFile(path string, explicit bool) error {
	if err := godotenv.Load(path); err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// Source returns the file the configuration came from, empty for defaults.
func (c *Config) Source() string { return c.source }

// resolveRelativePaths makes overlay paths relative to the config file.
func (c *Config) resolveRelativePaths(dir string) {
	for i, p := range c.SynonymOverlays {
		if p != "" && !filepath.IsAbs(p) {
			c.SynonymOverlays[i] = filepath.Join(dir, p)
		}
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// ApplyEnv applies FINMAP_* overrides using lookup.
//
// RECOGNISED VARIABLES:
//   FINMAP_FUZZY_THRESHOLD, FINMAP_FUZZY_AMBIGUITY_DELTA, FINMAP_FUZZY_SCORER,
//   FINMAP_SEMANTIC_THRESHOLD, FINMAP_STRICT_MODE, FINMAP_REQUIRED_FIELDS
//   (comma separated), FINMAP_MAX_ABSOLUTE_VALUE, FINMAP_ERROR_ON_DUPLICATE,
//   FINMAP_LOG_LEVEL, FINMAP_LOG_FILE, FINMAP_OUTPUT_DIR, FINMAP_OUTPUT_FORMAT
func ApplyEnv(cfg *Config, lookup LookupFunc) error {
	floats := map[string]*float64{
		"FUZZY_THRESHOLD":       &cfg.Matching.FuzzyThreshold,
		"FUZZY_AMBIGUITY_DELTA": &cfg.Matching.FuzzyAmbiguityDelta,
		"SEMANTIC_THRESHOLD":    &cfg.Matching.SemanticThreshold,
		"MAX_ABSOLUTE_VALUE":    &cfg.Validation.MaxAbsoluteValue,
	}
	for key, dst := range floats {
		if v, ok := lookup(EnvPrefix + key); ok {
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
			}
			*dst = f
		}
	}

	bools := map[string]*bool{
		"STRICT_MODE":        &cfg.Matching.StrictMode,
		"ERROR_ON_DUPLICATE": &cfg.Validation.ErrorOnDuplicate,
	}
	for key, dst := range bools {
		if v, ok := lookup(EnvPrefix + key); ok {
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
			}
			*dst = b
		}
	}

	strs := map[string]*string{
		"FUZZY_SCORER":  &cfg.Matching.FuzzyScorer,
		"LOG_LEVEL":     &cfg.Logging.Level,
		"LOG_FILE":      &cfg.Logging.File,
		"OUTPUT_DIR":    &cfg.Output.Dir,
		"OUTPUT_FORMAT": &cfg.Output.Format,
	}
	for key, dst := range strs {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = strings.TrimSpace(v)
		}
	}

	if v, ok := lookup(EnvPrefix + "REQUIRED_FIELDS"); ok {
		cfg.Validation.RequiredFields = nil
		for _, f := range strings.Split(v, ",") {
			if f = strings.TrimSpace(f); f != "" {
				cfg.Validation.RequiredFields = append(cfg.Validation.RequiredFields, f)
			}
		}
	}

	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks the configuration. Required field names and extra fuzzy
// targets are resolved case-insensitively and rewritten to their canonical
// spelling.
func (c *Config) Validate() error {
	var errs []error

	if c.Matching.FuzzyThreshold < 0 || c.Matching.FuzzyThreshold > 100 {
		errs = append(errs, fmt.Errorf("matching.fuzzy_threshold must be within 0-100, got %g", c.Matching.FuzzyThreshold))
	}
	if c.Matching.FuzzyAmbiguityDelta < 0 {
		errs = append(errs, fmt.Errorf("matching.fuzzy_ambiguity_delta must not be negative, got %g", c.Matching.FuzzyAmbiguityDelta))
	}
	if c.Matching.SemanticThreshold < 0 || c.Matching.SemanticThreshold > 1 {
		errs = append(errs, fmt.Errorf("matching.semantic_threshold must be within 0-1, got %g", c.Matching.SemanticThreshold))
	}
	if _, ok := fuzzy.ScorerByName(c.Matching.FuzzyScorer); !ok {
		errs = append(errs, fmt.Errorf("matching.fuzzy_scorer %q is not one of token_set, token_sort, ratio", c.Matching.FuzzyScorer))
	}
	if c.Validation.MaxAbsoluteValue <= 0 {
		errs = append(errs, fmt.Errorf("validation.max_absolute_value must be positive, got %g", c.Validation.MaxAbsoluteValue))
	}

	for i, name := range c.Validation.RequiredFields {
		f, ok := schema.LookupCanonical(name)
		if !ok {
			errs = append(errs, fmt.Errorf("validation.required_fields: %q is not a canonical field", name))
			continue
		}
		c.Validation.RequiredFields[i] = string(f)
	}

	for target, name := range c.ExtraFuzzyTargets {
		f, ok := schema.LookupCanonical(name)
		if !ok {
			errs = append(errs, fmt.Errorf("extra_fuzzy_targets[%q]: %q is not a canonical field", target, name))
			continue
		}
		c.ExtraFuzzyTargets[target] = string(f)
	}

	if !logging.ValidLevel(c.Logging.Level) {
		errs = append(errs, fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level))
	}

	switch c.Output.Format {
	case FormatJSON, FormatCSV, FormatXML:
	default:
		errs = append(errs, fmt.Errorf("output.format %q is not one of json, csv, xml", c.Output.Format))
	}

	if _, err := c.CSV.DelimiterRune(); err != nil {
		errs = append(errs, err)
	}
	if len([]rune(c.CSV.Comment)) > 1 {
		errs = append(errs, fmt.Errorf("csv.comment must be at most one character, got %q", c.CSV.Comment))
	}
	if enc, err := ianaindex.IANA.Encoding(c.CSV.Encoding); err != nil || enc == nil {
		errs = append(errs, fmt.Errorf("csv.encoding %q is not supported", c.CSV.Encoding))
	}

	if c.Layout.HeaderScanRows < 1 || c.Layout.YearHeaderRows < 1 || c.Layout.LedgerMinCells < 1 || c.Layout.SectionMinCells < 1 ||
		c.Layout.GenericMinNumeric < 1 || c.Layout.YearLookaheadRows < 1 {
		errs = append(errs, errors.New("layout thresholds must be positive"))
	}

	return errors.Join(errs...)
}

// FuzzyExtraTargets returns the extra targets as canonical fields. Call after
// Validate.
func (c *Config) FuzzyExtraTargets() map[string]schema.CanonicalField {
	out := make(map[string]schema.CanonicalField, len(c.ExtraFuzzyTargets))
	for k, v := range c.ExtraFuzzyTargets {
		if f, ok := schema.LookupCanonical(v); ok {
			out[k] = f
		}
	}
	return out
}

// LayoutOptions converts the layout section for the detector.
func (c *Config) LayoutOptions() layout.Options {
	return layout.Options{
		HeaderScanRows:    c.Layout.HeaderScanRows,
		YearHeaderRows:    c.Layout.YearHeaderRows,
		LedgerMinCells:    c.Layout.LedgerMinCells,
		SectionMinCells:   c.Layout.SectionMinCells,
		GenericMinNumeric: c.Layout.GenericMinNumeric,
		YearLookaheadRows: c.Layout.YearLookaheadRows,
		SkipLabels:        c.Layout.SkipLabels,
	}
}

// DelimiterRune resolves the CSV delimiter. The names "tab", "pipe" and
// "semicolon" and the two-character escape \t are accepted besides single
// characters.
func (s CSVSettings) DelimiterRune() (rune, error) {
	switch strings.ToLower(s.Delimiter) {
	case "\\t", "tab":
		return '\t', nil
	case "pipe":
		return '|', nil
	case "semicolon":
		return ';', nil
	}
	r := []rune(s.Delimiter)
	if len(r) != 1 {
		return 0, fmt.Errorf("csv.delimiter must be a single character, got %q", s.Delimiter)
	}
	return r[0], nil
}
