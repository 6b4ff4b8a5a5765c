// =============================================================================
// Financial Mapper - Normalizer
// =============================================================================
//
// Pure text and number canonicalization. Labels are reduced to a comparable
// lookup key; values are parsed out of the many ways statements print numbers
// (currency symbols, thousands separators, accounting parentheses, percent
// suffixes).
//
// LABEL RULES (in order):
//   1. Trim and lowercase
//   2. Fold accented letters to their base letter
//   3. Unicode dash variants become an ASCII hyphen
//   4. Remove everything except a-z, 0-9, whitespace, '-' and '&'
//   5. Collapse runs of whitespace
//
// VALUE RULES:
//   - Numbers pass through unchanged
//   - Strings: strip currency, "(x)" -> "-x", drop commas, strip a trailing
//     '%' (the number is NOT divided by 100; a warning is emitted)
//   - nil, empty or unparseable input yields a nil value plus a warning
//
// =============================================================================

package normalizer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/ginjaninja78/financial-mapper/internal/logging"
)

// Warning texts. Tests and the report writers match on the prefixes.
const (
	WarnNilValue     = "Value is null"
	WarnEmptyValue   = "Value is empty string"
	WarnPercent      = "Percent symbol stripped; raw value treated as number, not divided by 100"
	WarnCannotParse  = "Cannot parse numeric value from"
	WarnUnexpectedTy = "Unexpected value type"
)

var (
	currencyRe  = regexp.MustCompile(`[₹$€£¥]`)
	parenNegRe  = regexp.MustCompile(`^\((.+)\)$`)
	punctRe     = regexp.MustCompile(`[^a-z0-9\s\-&]`)
	multiSpace  = regexp.MustCompile(`\s+`)
	dashReplace = strings.NewReplacer(
		"‐", "-", // hyphen
		"‑", "-", // non-breaking hyphen
		"‒", "-", // figure dash
		"–", "-", // en dash
		"—", "-", // em dash
		"−", "-", // minus sign
	)
)

// NormalizeLabel returns the comparable form of a raw label. It is pure and
// idempotent.
func NormalizeLabel(raw string) string {
	text := strings.ToLower(strings.TrimSpace(raw))
	text = foldAccents(text)
	text = dashReplace.Replace(text)
	text = punctRe.ReplaceAllString(text, "")
	text = multiSpace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// NormalizeValue parses a raw cell value into a number.
//
// RETURNS:
//   - The parsed value, or nil when the input cannot be read as a number
//   - Warnings describing anything lossy or suspicious about the input
func NormalizeValue(raw any) (*float64, []string) {
	var warnings []string

	switch v := raw.(type) {
	case nil:
		return nil, append(warnings, WarnNilValue)
	case float64:
		return &v, nil
	case float32:
		f := float64(v)
		return &f, nil
	case int:
		f := float64(v)
		return &f, nil
	case int8:
		f := float64(v)
		return &f, nil
	case int16:
		f := float64(v)
		return &f, nil
	case int32:
		f := float64(v)
		return &f, nil
	case int64:
		f := float64(v)
		return &f, nil
	case uint:
		f := float64(v)
		return &f, nil
	case uint8:
		f := float64(v)
		return &f, nil
	case uint16:
		f := float64(v)
		return &f, nil
	case uint32:
		f := float64(v)
		return &f, nil
	case uint64:
		f := float64(v)
		return &f, nil
	case string:
		return parseNumericString(v)
	default:
		return nil, append(warnings, fmt.Sprintf("%s: %T", WarnUnexpectedTy, raw))
	}
}

func parseNumericString(raw string) (*float64, []string) {
	var warnings []string

	text := strings.TrimSpace(raw)
	if text == "" {
		return nil, append(warnings, WarnEmptyValue)
	}

	text = strings.TrimSpace(currencyRe.ReplaceAllString(text, ""))

	if m := parenNegRe.FindStringSubmatch(text); m != nil {
		text = "-" + m[1]
	}

	text = strings.ReplaceAll(text, ",", "")

	if strings.HasSuffix(text, "%") {
		text = strings.TrimSpace(strings.TrimSuffix(text, "%"))
		warnings = append(warnings, WarnPercent)
	}

	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, append(warnings, fmt.Sprintf("%s: %q", WarnCannotParse, raw))
	}
	return &value, warnings
}

// LooksNumeric reports whether a string would parse cleanly as a value. The
// layout detector uses it to decide whether a text cell counts as numeric.
func LooksNumeric(s string) bool {
	if strings.TrimSpace(s) == "" {
		return false
	}
	v, _ := parseNumericString(s)
	return v != nil
}

// =============================================================================
// NORMALIZER
// =============================================================================

// Normalizer wraps the pure functions with debug logging of every
// transformation, for the audit trail.
type Normalizer struct {
	logger logging.Logger
}

// New creates a Normalizer. A nil logger discards output.
func New(logger logging.Logger) *Normalizer {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Normalizer{logger: logger}
}

// Label normalizes a raw label.
func (n *Normalizer) Label(raw string) string {
	out := NormalizeLabel(raw)
	n.logger.Debug("normalize label: %q -> %q", raw, out)
	return out
}

// Value normalizes a raw value.
func (n *Normalizer) Value(raw any) (*float64, []string) {
	v, warnings := NormalizeValue(raw)
	if v != nil {
		n.logger.Debug("normalize value: %v -> %g (warnings=%d)", raw, *v, len(warnings))
	} else {
		n.logger.Debug("normalize value: %v -> null (%v)", raw, warnings)
	}
	return v, warnings
}

// Pair normalizes a label and its value in one call.
func (n *Normalizer) Pair(label string, value any) (string, *float64, []string) {
	v, warnings := n.Value(value)
	return n.Label(label), v, warnings
}
