package pipeline

import (
	"fmt"

	"github.com/ginjaninja78/financial-mapper/internal/fuzzy"
	"github.com/ginjaninja78/financial-mapper/internal/logging"
	"github.com/ginjaninja78/financial-mapper/internal/schema"
	"github.com/ginjaninja78/financial-mapper/internal/synonyms"
)

// Label is a raw label together with its normalized form.
type Label struct {
	Raw        string
	Normalized string
}

// Match is a successful strategy attempt.
type Match struct {
	Canonical  schema.CanonicalField
	Confidence float64
	Method     schema.MatchMethod
	Warnings   []string
}

// Strategy is one step of the matching cascade. The pipeline tries its
// strategies in order and keeps the first match.
type Strategy interface {
	Name() string
	Attempt(label Label) *Match
}

// =============================================================================
// SYNONYM STRATEGY
// =============================================================================

type synonymStrategy struct {
	dict *synonyms.Dictionary
}

// SynonymStrategy matches through exact dictionary lookup, confidence 100.
func SynonymStrategy(dict *synonyms.Dictionary) Strategy {
	return &synonymStrategy{dict: dict}
}

func (s *synonymStrategy) Name() string { return "synonym" }

func (s *synonymStrategy) Attempt(label Label) *Match {
	f, ok := s.dict.Lookup(label.Normalized)
	if !ok {
		return nil
	}
	return &Match{Canonical: f, Confidence: 100, Method: schema.MethodExact}
}

// =============================================================================
// FUZZY STRATEGY
// =============================================================================

type fuzzyStrategy struct {
	matcher *fuzzy.Matcher
}

// FuzzyStrategy matches approximately; ambiguous matches carry a warning.
func FuzzyStrategy(matcher *fuzzy.Matcher) Strategy {
	return &fuzzyStrategy{matcher: matcher}
}

func (s *fuzzyStrategy) Name() string { return "fuzzy" }

func (s *fuzzyStrategy) Attempt(label Label) *Match {
	c := s.matcher.Match(label.Normalized)
	if c == nil {
		return nil
	}

	m := &Match{Canonical: c.Canonical, Confidence: c.Score, Method: schema.MethodFuzzy}
	if c.IsAmbiguous {
		m.Warnings = append(m.Warnings, fmt.Sprintf(
			"Ambiguous fuzzy match for '%s' -> '%s' (score=%.1f, runner-up '%s' at %.1f)",
			label.Raw, c.Canonical, c.Score, c.RunnerUp, c.RunnerUpScore))
	}
	return m
}

// =============================================================================
// SEMANTIC STRATEGY
// =============================================================================

// SemanticHook is the extension point for embedding or model based matching.
// Implementations return the canonical name they consider closest and a
// similarity in [0, 1], or ok=false when they have no opinion.
type SemanticHook interface {
	Similar(normalized string) (canonical string, similarity float64, ok bool)
}

// SemanticFunc adapts a plain function to SemanticHook.
type SemanticFunc func(normalized string) (string, float64, bool)

// Similar calls f.
func (f SemanticFunc) Similar(normalized string) (string, float64, bool) {
	return f(normalized)
}

type semanticStrategy struct {
	hook      SemanticHook
	threshold float64
	logger    logging.Logger
}

// SemanticStrategy wraps a hook. Results below threshold, or naming a field
// outside the vocabulary, are rejected.
func SemanticStrategy(hook SemanticHook, threshold float64, logger logging.Logger) Strategy {
	if logger == nil {
		logger = logging.Nop()
	}
	return &semanticStrategy{hook: hook, threshold: threshold, logger: logger}
}

func (s *semanticStrategy) Name() string { return "semantic" }

func (s *semanticStrategy) Attempt(label Label) *Match {
	name, similarity, ok := s.hook.Similar(label.Normalized)
	if !ok {
		return nil
	}

	field, known := schema.LookupCanonical(name)
	if !known {
		s.logger.Warn("semantic hook returned unknown field %q for %q; ignored", name, label.Normalized)
		return nil
	}
	if similarity < s.threshold {
		s.logger.Info("semantic best for %q is %q (%.3f), below threshold %.3f; rejected",
			label.Normalized, field, similarity, s.threshold)
		return nil
	}

	return &Match{Canonical: field, Confidence: similarity * 100, Method: schema.MethodSemantic}
}
