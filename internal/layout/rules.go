package layout

import (
	"regexp"
	"strings"

	"github.com/ginjaninja78/financial-mapper/internal/normalizer"
)

// RowAction is what a matching rule does to a row.
type RowAction int

const (
	// ActionHeader marks the row as a section heading: not data.
	ActionHeader RowAction = iota
	// ActionSkip drops the row outright.
	ActionSkip
)

// String returns the action name.
func (a RowAction) String() string {
	if a == ActionSkip {
		return "skip"
	}
	return "header"
}

// Rule is one entry of the row classification table. Rules with OnRaw set
// are matched against the trimmed raw label, the others against the cleaned
// label. The first matching rule decides.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
	Action  RowAction
	OnRaw   bool
}

// DefaultRules is the built-in classification table, in priority order.
var DefaultRules = []Rule{
	{
		Name:    "note-column",
		Pattern: regexp.MustCompile(`(?i)^(note\s*no\.?|notes?|note\s*ref\.?|sch(edule)?\s*no\.?)$`),
		Action:  ActionSkip,
		OnRaw:   true,
	},
	{
		Name:    "bare-total",
		Pattern: regexp.MustCompile(`(?i)^(grand\s+|sub\s*-?\s*)?total$`),
		Action:  ActionSkip,
	},
	{
		Name:    "period-label",
		Pattern: regexp.MustCompile(`(?i)^(year|years|period|fy)$`),
		Action:  ActionSkip,
	},
	{
		Name: "statement-title",
		Pattern: regexp.MustCompile(`(?i)^(statement of|balance sheet|profit and loss|profit & loss|` +
			`trading account|trading and profit|for the year|for the period|as per schedule|as at\b|as on\b|` +
			`particulars|dr\.?(\s|$)|cr\.?(\s|$)|equity and liabilities)`),
		Action: ActionHeader,
	},
	{
		Name:    "section-word",
		Pattern: regexp.MustCompile(`(?i)^(assets|liabilities|expenses|ratios)$`),
		Action:  ActionHeader,
	},
}

// =============================================================================
// LABEL CLEANUP
// =============================================================================

var cleanSteps = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^[IVXLC]+\.\s*`),   // "I. ", "IV. "
	regexp.MustCompile(`^\(?\d+[.)]\s*`),      // "1. ", "2) ", "(3) "
	regexp.MustCompile(`(?i)^\(?[ivx]+\)\s*`), // "(i) ", "iv) "
	regexp.MustCompile(`(?i)^\(?[a-h]\)\s*`),  // "a) ", "(b) "
	regexp.MustCompile(`(?i)^[a-h]\.\s+`),     // "A. "
	regexp.MustCompile(`(?i)^(to|by)\s+`),     // ledger prefixes
}

// CleanLabel strips list markers, ledger "To"/"By" prefixes and trailing
// colons from a raw label.
func CleanLabel(raw string) string {
	s := strings.TrimSpace(raw)
	for _, re := range cleanSteps {
		s = strings.TrimSpace(re.ReplaceAllString(s, ""))
	}
	s = strings.TrimRight(s, ":")
	return strings.TrimSpace(s)
}

// =============================================================================
// CLASSIFIER
// =============================================================================

// classifier applies the rule table plus configured skip labels.
type classifier struct {
	rules []Rule
	skip  map[string]bool
}

func newClassifier(rules []Rule, skipLabels []string) *classifier {
	c := &classifier{rules: rules, skip: make(map[string]bool, len(skipLabels))}
	for _, s := range skipLabels {
		if n := normalizer.NormalizeLabel(s); n != "" {
			c.skip[n] = true
		}
	}
	return c
}

// dataLabel returns the cleaned label when raw is a data label, and the rule
// that rejected it otherwise.
func (c *classifier) dataLabel(raw string) (string, string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", "blank", false
	}

	for _, r := range c.rules {
		if r.OnRaw && r.Pattern.MatchString(trimmed) {
			return "", r.Name, false
		}
	}

	cleaned := CleanLabel(trimmed)
	if cleaned == "" {
		return "", "empty-after-cleanup", false
	}

	for _, r := range c.rules {
		if !r.OnRaw && r.Pattern.MatchString(cleaned) {
			return "", r.Name, false
		}
	}

	if c.skip[normalizer.NormalizeLabel(cleaned)] {
		return "", "configured-skip", false
	}

	return cleaned, "", true
}

// isSkipLabel reports whether raw is matched by a skip rule. Used to exclude
// note-number columns from the adjacent value search.
func (c *classifier) isSkipLabel(raw string) bool {
	trimmed := strings.TrimSpace(raw)
	for _, r := range c.rules {
		if r.Action != ActionSkip {
			continue
		}
		target := trimmed
		if !r.OnRaw {
			target = CleanLabel(trimmed)
		}
		if r.Pattern.MatchString(target) {
			return true
		}
	}
	return false
}
