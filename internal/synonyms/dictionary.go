// =============================================================================
// Financial Mapper - Synonym Dictionary
// =============================================================================
//
// Exact-match lookup from normalized label variants to canonical fields. This
// is the first and most trusted matching layer: a hit here is reported with
// confidence 100.
//
// KEYS:
//   Every key is stored normalized, so a single NormalizeLabel pass on the
//   incoming label is enough for a lookup. No partial matching is done here.
//
// EXTENSION:
//   - AddSynonym / AddSynonyms at runtime
//   - LoadFile for JSON, Hjson and YAML overlay files
//   Re-adding a known variant with a different target overwrites it and logs
//   a warning.
//
// CONCURRENCY:
//   Lookups are read-only. Mutating the dictionary while another goroutine
//   is mapping is not synchronized here; callers must serialize it.
//
// =============================================================================

package synonyms

import (
	"errors"
	"fmt"
	"sort"

	"github.com/ginjaninja78/financial-mapper/internal/logging"
	"github.com/ginjaninja78/financial-mapper/internal/normalizer"
	"github.com/ginjaninja78/financial-mapper/internal/schema"
)

// ErrUnknownCanonical is returned when a synonym targets a name outside the
// canonical vocabulary.
var ErrUnknownCanonical = errors.New("unknown canonical field")

// Dictionary maps normalized variants to canonical fields.
type Dictionary struct {
	entries map[string]schema.CanonicalField
	logger  logging.Logger
}

// New builds a dictionary holding the built-in table. A nil logger discards
// output.
func New(logger logging.Logger) *Dictionary {
	if logger == nil {
		logger = logging.Nop()
	}

	d := &Dictionary{
		entries: make(map[string]schema.CanonicalField, len(builtin)),
		logger:  logger,
	}
	for _, s := range builtin {
		d.entries[normalizer.NormalizeLabel(s.variant)] = s.canonical
	}
	return d
}

// Lookup returns the canonical field for an already-normalized label.
func (d *Dictionary) Lookup(normalized string) (schema.CanonicalField, bool) {
	f, ok := d.entries[normalized]
	if ok {
		d.logger.Info("synonym hit: %q -> %q (confidence=100)", normalized, f)
	}
	return f, ok
}

// AddSynonym registers variant -> canonical.
//
// PARAMETERS:
//   - variant: Any raw spelling; it is normalized before insertion.
//   - canonical: A canonical field name, matched case-insensitively.
//
// RETURNS:
//   - An error wrapping ErrUnknownCanonical if canonical is not in the
//     vocabulary, or if variant normalizes to an empty key.
func (d *Dictionary) AddSynonym(variant, canonical string) error {
	field, ok := schema.LookupCanonical(canonical)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCanonical, canonical)
	}

	key := normalizer.NormalizeLabel(variant)
	if key == "" {
		return fmt.Errorf("synonym variant %q is empty after normalization", variant)
	}

	if prev, exists := d.entries[key]; exists && prev != field {
		d.logger.Warn("overwriting synonym %q: %q -> %q", key, prev, field)
	}
	d.entries[key] = field
	d.logger.Debug("added synonym: %q -> %q", key, field)
	return nil
}

// AddSynonyms bulk-adds variant -> canonical pairs in sorted variant order so
// that overwrite logging is deterministic. It stops at the first invalid
// entry; entries before it stay added.
func (d *Dictionary) AddSynonyms(mapping map[string]string) error {
	variants := make([]string, 0, len(mapping))
	for v := range mapping {
		variants = append(variants, v)
	}
	sort.Strings(variants)

	for _, v := range variants {
		if err := d.AddSynonym(v, mapping[v]); err != nil {
			return err
		}
	}
	return nil
}

// Size returns the number of entries.
func (d *Dictionary) Size() int {
	return len(d.entries)
}

// All returns a copy of the table.
func (d *Dictionary) All() map[string]schema.CanonicalField {
	out := make(map[string]schema.CanonicalField, len(d.entries))
	for k, v := range d.entries {
		out[k] = v
	}
	return out
}
