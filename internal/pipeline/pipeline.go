// =============================================================================
// Financial Mapper - Mapping Pipeline
// =============================================================================
//
// The pipeline wires every matching layer together:
//
//   raw pairs -> Normalizer -> Synonym -> Fuzzy -> (Semantic) -> Validator
//
// For each (label, value) pair the strategies are tried in order and the
// first match wins. Pairs nothing matches become UnmappedEntry values. Once
// all pairs are processed the validator runs over the complete mapping list.
//
// RUN STATE:
//   The duplicate-tracking map and the validation report belong to a single
//   run. The dictionary and fuzzy pool are shared and read-only while
//   mapping; AddSynonyms must not run concurrently with a mapping call.
//
// STRICT MODE:
//   With StrictMode set, a run whose report holds any error returns a
//   *StrictModeError and no output.
//
// =============================================================================

package pipeline

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ginjaninja78/financial-mapper/internal/config"
	"github.com/ginjaninja78/financial-mapper/internal/fuzzy"
	"github.com/ginjaninja78/financial-mapper/internal/logging"
	"github.com/ginjaninja78/financial-mapper/internal/normalizer"
	"github.com/ginjaninja78/financial-mapper/internal/schema"
	"github.com/ginjaninja78/financial-mapper/internal/synonyms"
	"github.com/ginjaninja78/financial-mapper/internal/validation"
)

// StrictModeError is returned instead of an output when strict mode is on
// and validation reported errors.
type StrictModeError struct {
	// Year is set for multi-year runs.
	Year   string
	Errors []*validation.Issue
}

// Error implements the error interface.
func (e *StrictModeError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, is := range e.Errors {
		msgs[i] = is.Message
	}
	prefix := "Strict mode"
	if e.Year != "" {
		prefix = fmt.Sprintf("Strict mode (year %s)", e.Year)
	}
	return fmt.Sprintf("%s: pipeline produced %d validation error(s):\n%s",
		prefix, len(e.Errors), strings.Join(msgs, "\n"))
}

// Options configures a Pipeline.
type Options struct {
	Fuzzy      fuzzy.Options
	Validation validation.Options

	StrictMode bool

	// EnableSemantic turns on the semantic step; it only runs when Semantic
	// is also set.
	EnableSemantic    bool
	SemanticThreshold float64
	Semantic          SemanticHook
}

// DefaultOptions returns the defaults matching config.Default.
func DefaultOptions() Options {
	return Options{
		Fuzzy:             fuzzy.DefaultOptions(),
		Validation:        validation.DefaultOptions(),
		SemanticThreshold: 0.85,
	}
}

// Pipeline maps raw label/value pairs onto the canonical vocabulary.
type Pipeline struct {
	options    Options
	normalizer *normalizer.Normalizer
	dict       *synonyms.Dictionary
	fuzzy      *fuzzy.Matcher
	validator  *validation.Validator
	strategies []Strategy
	logger     logging.Logger
}

// New builds a pipeline. A nil logger discards output.
func New(options Options, logger logging.Logger) *Pipeline {
	if logger == nil {
		logger = logging.Nop()
	}

	p := &Pipeline{
		options:    options,
		normalizer: normalizer.New(logging.With(logger, "normalizer")),
		dict:       synonyms.New(logging.With(logger, "synonyms")),
		fuzzy:      fuzzy.NewMatcher(options.Fuzzy, logging.With(logger, "fuzzy")),
		validator:  validation.NewValidator(options.Validation, logging.With(logger, "validator")),
		logger:     logging.With(logger, "pipeline"),
	}

	p.strategies = []Strategy{SynonymStrategy(p.dict), FuzzyStrategy(p.fuzzy)}
	if options.EnableSemantic && options.Semantic != nil {
		p.strategies = append(p.strategies,
			SemanticStrategy(options.Semantic, options.SemanticThreshold, logging.With(logger, "semantic")))
	}

	p.logger.Info("pipeline initialised: synonyms=%d, fuzzy_threshold=%.1f, strict=%t, semantic=%t",
		p.dict.Size(), options.Fuzzy.Threshold, options.StrictMode, len(p.strategies) > 2)
	return p
}

// FromConfig builds a pipeline from a loaded configuration, including inline
// synonyms and overlay files. hook may be nil.
func FromConfig(cfg *config.Config, hook SemanticHook, logger logging.Logger) (*Pipeline, error) {
	scorer, ok := fuzzy.ScorerByName(cfg.Matching.FuzzyScorer)
	if !ok {
		return nil, fmt.Errorf("unknown fuzzy scorer %q", cfg.Matching.FuzzyScorer)
	}

	options := Options{
		Fuzzy: fuzzy.Options{
			Threshold:      cfg.Matching.FuzzyThreshold,
			AmbiguityDelta: cfg.Matching.FuzzyAmbiguityDelta,
			Scorer:         scorer,
			ExtraTargets:   cfg.FuzzyExtraTargets(),
		},
		Validation: validation.Options{
			RequiredFields:   cfg.Validation.RequiredFields,
			MaxAbsoluteValue: cfg.Validation.MaxAbsoluteValue,
			ErrorOnDuplicate: cfg.Validation.ErrorOnDuplicate,
		},
		StrictMode:        cfg.Matching.StrictMode,
		EnableSemantic:    cfg.EnableSemanticLayer,
		SemanticThreshold: cfg.Matching.SemanticThreshold,
		Semantic:          hook,
	}

	p := New(options, logger)

	if len(cfg.ExtraSynonyms) > 0 {
		if err := p.AddSynonyms(cfg.ExtraSynonyms); err != nil {
			return nil, fmt.Errorf("failed to add configured synonyms: %w", err)
		}
	}
	for _, path := range cfg.SynonymOverlays {
		if _, err := p.dict.LoadFile(path); err != nil {
			return nil, err
		}
	}

	if cfg.EnableSemanticLayer && hook == nil {
		p.logger.Warn("semantic layer enabled but no semantic hook is wired; step skipped")
	}
	return p, nil
}

// =============================================================================
// ENTRY POINTS
// =============================================================================

// MapPairs runs the pipeline over pairs in order.
func (p *Pipeline) MapPairs(pairs []schema.RawPair) (*schema.PipelineOutput, error) {
	return p.run("", pairs)
}

// MapRecord runs the pipeline over a label -> value record, in sorted label
// order so that "first occurrence" is deterministic.
func (p *Pipeline) MapRecord(record map[string]any) (*schema.PipelineOutput, error) {
	labels := make([]string, 0, len(record))
	for l := range record {
		labels = append(labels, l)
	}
	sort.Strings(labels)

	pairs := make([]schema.RawPair, len(labels))
	for i, l := range labels {
		pairs[i] = schema.RawPair{Label: l, Value: record[l]}
	}
	return p.run("", pairs)
}

// MapYears runs the pipeline once per fiscal year, sequentially, in the order
// given. Each year gets its own duplicate tracking and report. In strict mode
// the first failing year aborts the whole call.
func (p *Pipeline) MapYears(years []schema.YearPairs) ([]*schema.PipelineOutput, error) {
	outputs := make([]*schema.PipelineOutput, 0, len(years))
	for _, y := range years {
		out, err := p.run(y.Year, y.Pairs)
		if err != nil {
			return nil, err
		}
		p.logger.Info("processed year %q: %d mappings, %d unmapped", y.Year, len(out.Mappings), len(out.Unmapped))
		outputs = append(outputs, out)
	}
	return outputs, nil
}

// AddSynonyms hot-adds variant -> canonical pairs to the dictionary.
func (p *Pipeline) AddSynonyms(mapping map[string]string) error {
	return p.dict.AddSynonyms(mapping)
}

// SynonymCount returns the dictionary size.
func (p *Pipeline) SynonymCount() int {
	return p.dict.Size()
}

// Dictionary exposes the synonym dictionary for listing and overlays.
func (p *Pipeline) Dictionary() *synonyms.Dictionary {
	return p.dict
}

// =============================================================================
// CORE
// =============================================================================

func (p *Pipeline) run(year string, pairs []schema.RawPair) (*schema.PipelineOutput, error) {
	out := &schema.PipelineOutput{
		RunID:     uuid.NewString(),
		Year:      year,
		StartedAt: time.Now(),
	}

	seen := make(map[schema.CanonicalField]string)
	for _, pair := range pairs {
		if m := p.mapSingle(pair, seen); m != nil {
			out.Mappings = append(out.Mappings, m)
		} else {
			out.Unmapped = append(out.Unmapped, schema.UnmappedEntry{RawLabel: pair.Label, RawValue: pair.Value})
		}
	}

	out.Report = validation.Validate(p.validator, out.Mappings)
	out.Duration = time.Since(out.StartedAt)

	p.logger.Info("pipeline complete: run=%s mapped=%d unmapped=%d errors=%d warnings=%d",
		out.RunID, len(out.Mappings), len(out.Unmapped), len(out.Report.Errors), len(out.Report.Warnings))

	if p.options.StrictMode && !out.Success() {
		return nil, &StrictModeError{Year: year, Errors: out.Report.Errors}
	}
	return out, nil
}

func (p *Pipeline) mapSingle(pair schema.RawPair, seen map[schema.CanonicalField]string) *schema.MappingResult {
	normalized, value, warnings := p.normalizer.Pair(pair.Label, pair.Value)
	label := Label{Raw: pair.Label, Normalized: normalized}

	for _, s := range p.strategies {
		m := s.Attempt(label)
		if m == nil {
			continue
		}

		warnings = append(warnings, m.Warnings...)

		if prev, dup := seen[m.Canonical]; dup {
			msg := fmt.Sprintf("Duplicate mapping to '%s': previously mapped from '%s', now also from '%s'",
				m.Canonical, prev, pair.Label)
			warnings = append(warnings, msg)
			p.logger.Warn("%s", msg)
		} else {
			seen[m.Canonical] = pair.Label
		}

		p.logger.Info("mapped: %q -> %q [%s] confidence=%.1f", pair.Label, m.Canonical, m.Method, m.Confidence)
		return &schema.MappingResult{
			CanonicalName: m.Canonical,
			RawLabel:      pair.Label,
			Value:         value,
			RawValue:      pair.Value,
			Confidence:    m.Confidence,
			Method:        m.Method,
			Warnings:      warnings,
		}
	}

	p.logger.Warn("unmapped: %q (normalized=%q)", pair.Label, normalized)
	return nil
}
