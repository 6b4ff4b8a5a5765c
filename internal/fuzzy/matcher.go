// =============================================================================
// Financial Mapper - Fuzzy Matcher
// =============================================================================
//
// Approximate matching of a normalized label against the canonical
// vocabulary, used when the synonym dictionary has no exact hit.
//
// MATCHING:
//   1. Score the label against every target (token-set similarity by
//      default, 0-100) and keep the top 5. Ties keep pool order.
//   2. Reject when the best score is below Threshold.
//   3. Otherwise accept the best candidate; flag it ambiguous when the
//      runner-up is within AmbiguityDelta. Ambiguous matches are still
//      returned; the caller surfaces a warning.
//
// The target pool is built once at construction and is read-only after that.
//
// =============================================================================

package fuzzy

import (
	"sort"
	"strings"

	"github.com/ginjaninja78/financial-mapper/internal/logging"
	"github.com/ginjaninja78/financial-mapper/internal/schema"
)

// topN is the number of ranked candidates kept per label.
const topN = 5

// Candidate is the accepted result of a fuzzy match.
type Candidate struct {
	// Canonical is the field the matched target resolves to.
	Canonical schema.CanonicalField

	// Target is the pool entry that scored best.
	Target string

	Score       float64
	IsAmbiguous bool

	// RunnerUp is the second-best target, empty when there was none.
	RunnerUp      string
	RunnerUpScore float64
}

// Options configures a Matcher.
type Options struct {
	// Threshold is the minimum accepted score. Default: 80
	Threshold float64

	// AmbiguityDelta is the maximum best/runner-up gap that still flags a
	// match as ambiguous. Default: 5
	AmbiguityDelta float64

	// Scorer defaults to TokenSetRatio.
	Scorer Scorer

	// ExtraTargets maps additional target strings to the canonical field
	// they stand for. They join the pool after the vocabulary.
	ExtraTargets map[string]schema.CanonicalField
}

// DefaultOptions returns the matcher defaults.
func DefaultOptions() Options {
	return Options{Threshold: 80, AmbiguityDelta: 5, Scorer: TokenSetRatio}
}

type target struct {
	key       string
	canonical schema.CanonicalField
}

// Matcher is a fuzzy matcher over a fixed target pool.
type Matcher struct {
	options Options
	pool    []target
	logger  logging.Logger
}

// NewMatcher builds the target pool. A nil logger discards output.
func NewMatcher(options Options, logger logging.Logger) *Matcher {
	if options.Scorer == nil {
		options.Scorer = TokenSetRatio
	}
	if logger == nil {
		logger = logging.Nop()
	}

	m := &Matcher{options: options, logger: logger}
	index := make(map[string]int)

	add := func(key string, canonical schema.CanonicalField) {
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" {
			return
		}
		if i, ok := index[key]; ok {
			m.pool[i].canonical = canonical
			return
		}
		index[key] = len(m.pool)
		m.pool = append(m.pool, target{key: key, canonical: canonical})
	}

	for _, f := range schema.CanonicalFields() {
		add(string(f), f)
	}

	extras := make([]string, 0, len(options.ExtraTargets))
	for k := range options.ExtraTargets {
		extras = append(extras, k)
	}
	sort.Strings(extras)
	for _, k := range extras {
		add(k, options.ExtraTargets[k])
	}

	return m
}

// PoolSize returns the number of targets.
func (m *Matcher) PoolSize() int {
	return len(m.pool)
}

type scored struct {
	index int
	score float64
}

// Rank returns up to topN (target, score) pairs for label, best first.
func (m *Matcher) Rank(label string) []RankedTarget {
	ranked := m.rank(label)
	out := make([]RankedTarget, len(ranked))
	for i, s := range ranked {
		t := m.pool[s.index]
		out[i] = RankedTarget{Target: t.key, Canonical: t.canonical, Score: s.score}
	}
	return out
}

// RankedTarget is one entry of a ranking.
type RankedTarget struct {
	Target    string
	Canonical schema.CanonicalField
	Score     float64
}

func (m *Matcher) rank(label string) []scored {
	all := make([]scored, len(m.pool))
	for i, t := range m.pool {
		all[i] = scored{index: i, score: m.options.Scorer(label, t.key)}
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].score > all[j].score
	})
	if len(all) > topN {
		all = all[:topN]
	}
	return all
}

// Match returns the best candidate for an already-normalized label, or nil
// when nothing reaches the threshold or the label is empty.
func (m *Matcher) Match(label string) *Candidate {
	if label == "" {
		return nil
	}

	ranked := m.rank(label)
	if len(ranked) == 0 {
		m.logger.Debug("no fuzzy candidates for %q", label)
		return nil
	}

	best := m.pool[ranked[0].index]
	bestScore := ranked[0].score

	if bestScore < m.options.Threshold {
		m.logger.Info("fuzzy best for %q is %q (%.1f), below threshold %.1f; rejected",
			label, best.key, bestScore, m.options.Threshold)
		return nil
	}

	c := &Candidate{Canonical: best.canonical, Target: best.key, Score: bestScore}

	if len(ranked) > 1 {
		second := m.pool[ranked[1].index]
		c.RunnerUp = second.key
		c.RunnerUpScore = ranked[1].score

		if delta := bestScore - c.RunnerUpScore; delta <= m.options.AmbiguityDelta {
			c.IsAmbiguous = true
			m.logger.Warn("ambiguous fuzzy match for %q: best=%q (%.1f), runner-up=%q (%.1f), delta %.1f <= %.1f",
				label, best.key, bestScore, second.key, c.RunnerUpScore, delta, m.options.AmbiguityDelta)
		}
	}

	m.logger.Info("fuzzy match: %q -> %q (score=%.1f, ambiguous=%t)", label, c.Canonical, c.Score, c.IsAmbiguous)
	return c
}

// MatchBatch matches every label independently.
func (m *Matcher) MatchBatch(labels []string) map[string]*Candidate {
	out := make(map[string]*Candidate, len(labels))
	for _, l := range labels {
		out[l] = m.Match(l)
	}
	return out
}
