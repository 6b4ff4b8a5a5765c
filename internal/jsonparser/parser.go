// =============================================================================
// Financial Mapper - JSON Record Reader
// =============================================================================
//
// This module reads label/value records and cell grids from JSON and HJSON
// files. Object key order is kept: it decides which label wins when two map
// to the same canonical field.
//
// SUPPORTED SHAPES:
//   {"PAT": 500000, "Revenue": "1,20,000"}          one record
//   {"2024": {"PAT": 1}, "2023": {"PAT": 2}}        one record per year
//   [{"label": "PAT", "value": 1, "year": "2024"}]  label/value items
//   [["Particulars", 2024], ["PAT", 1]]             a cell grid
//
// REPAIR:
//   Malformed JSON (trailing commas, single quotes, unquoted keys, missing
//   brackets) is run through json-repair once before giving up. HJSON input
//   is parsed as such and never repaired.
//
// =============================================================================

package jsonparser

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"

	"github.com/ginjaninja78/financial-mapper/internal/grid"
	"github.com/ginjaninja78/financial-mapper/internal/logging"
	"github.com/ginjaninja78/financial-mapper/internal/schema"
)

// ErrUnsupportedShape is returned for JSON that is neither a record, a set of
// yearly records, a list of label/value items nor a grid.
var ErrUnsupportedShape = errors.New("unsupported JSON shape")

// Format selects the decoder.
type Format int

const (
	FormatJSON Format = iota
	FormatHJSON
)

// Document is a decoded input file. Exactly one of Years and Grid is set.
type Document struct {
	Years []schema.YearPairs
	Grid  grid.Grid

	// Repaired is true when the input only parsed after repair.
	Repaired bool
}

// IsGrid reports whether the document holds a cell grid.
func (d *Document) IsGrid() bool { return d.Grid != nil }

// =============================================================================
// ENTRY POINTS
// =============================================================================

// Parse reads the file at path. Files ending in .hjson are read as HJSON.
func Parse(path string, logger logging.Logger) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	format := FormatJSON
	if strings.EqualFold(filepath.Ext(path), ".hjson") {
		format = FormatHJSON
	}

	doc, err := ParseBytes(data, format, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return doc, nil
}

// ParseBytes decodes data in the given format.
func ParseBytes(data []byte, format Format, logger logging.Logger) (*Document, error) {
	if logger == nil {
		logger = logging.Nop()
	}

	var (
		root     any
		repaired bool
		err      error
	)

	switch format {
	case FormatHJSON:
		om := hjson.NewOrderedMap()
		if err = hjson.Unmarshal(data, om); err == nil {
			root = fromHJSON(om)
		} else {
			var arr []any
			if errArr := hjson.Unmarshal(data, &arr); errArr != nil {
				return nil, err
			}
			root = fromHJSON(arr)
		}
	default:
		root, err = decodeOrdered(data)
		if err != nil {
			fixed, rerr := jsonrepair.RepairJSON(string(data))
			if rerr != nil {
				return nil, fmt.Errorf("invalid JSON and repair failed: %w", err)
			}
			if root, err = decodeOrdered([]byte(fixed)); err != nil {
				return nil, fmt.Errorf("invalid JSON after repair: %w", err)
			}
			repaired = true
			logger.Warn("input was malformed JSON; parsed after repair")
		}
	}

	doc, err := shape(root)
	if err != nil {
		return nil, err
	}
	doc.Repaired = repaired
	return doc, nil
}

// =============================================================================
// ORDERED DECODING
// =============================================================================

// object is a JSON object with its key order.
type object struct {
	keys   []string
	values map[string]any
}

func newObject() *object { return &object{values: make(map[string]any)} }

func (o *object) set(key string, v any) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
}

// plain converts nested objects to maps for use as raw values.
func plain(v any) any {
	switch x := v.(type) {
	case *object:
		m := make(map[string]any, len(x.keys))
		for _, k := range x.keys {
			m[k] = plain(x.values[k])
		}
		return m
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = plain(e)
		}
		return out
	default:
		return v
	}
}

func decodeOrdered(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after top-level value")
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}

	switch delim {
	case '{':
		obj := newObject()
		for dec.More() {
			kt, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := kt.(string)
			if !ok {
				return nil, fmt.Errorf("object key is %T, not string", kt)
			}
			v, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			obj.set(key, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return obj, nil
	case '[':
		arr := []any{}
		for dec.More() {
			v, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return arr, nil
	default:
		return nil, fmt.Errorf("unexpected delimiter %q", delim)
	}
}

// fromHJSON converts hjson output into the ordered representation. Plain
// maps have their keys sorted.
func fromHJSON(v any) any {
	switch x := v.(type) {
	case *hjson.OrderedMap:
		obj := newObject()
		for _, k := range x.Keys {
			obj.set(k, fromHJSON(x.Map[k]))
		}
		return obj
	case hjson.OrderedMap:
		return fromHJSON(&x)
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		obj := newObject()
		for _, k := range keys {
			obj.set(k, fromHJSON(x[k]))
		}
		return obj
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = fromHJSON(e)
		}
		return out
	default:
		return v
	}
}

// =============================================================================
// SHAPES
// =============================================================================

var (
	labelKeys = []string{"label", "name", "particulars", "item"}
	valueKeys = []string{"value", "amount"}
)

func shape(root any) (*Document, error) {
	switch x := root.(type) {
	case *object:
		return objectShape(x), nil
	case []any:
		return arrayShape(x)
	default:
		return nil, fmt.Errorf("%w: top-level %T", ErrUnsupportedShape, root)
	}
}

func objectShape(obj *object) *Document {
	yearly := len(obj.keys) > 0
	for _, k := range obj.keys {
		if _, ok := obj.values[k].(*object); !ok {
			yearly = false
			break
		}
	}

	if !yearly {
		return &Document{Years: []schema.YearPairs{{Pairs: recordPairs(obj)}}}
	}

	doc := &Document{}
	for _, year := range obj.keys {
		doc.Years = append(doc.Years, schema.YearPairs{Year: year, Pairs: recordPairs(obj.values[year].(*object))})
	}
	return doc
}

func recordPairs(obj *object) []schema.RawPair {
	pairs := make([]schema.RawPair, 0, len(obj.keys))
	for _, k := range obj.keys {
		pairs = append(pairs, schema.RawPair{Label: k, Value: plain(obj.values[k])})
	}
	return pairs
}

func arrayShape(arr []any) (*Document, error) {
	if len(arr) == 0 {
		return nil, fmt.Errorf("%w: empty array", ErrUnsupportedShape)
	}

	if _, ok := arr[0].([]any); ok {
		rows := make([][]any, 0, len(arr))
		for i, e := range arr {
			row, ok := e.([]any)
			if !ok {
				return nil, fmt.Errorf("%w: grid row %d is %T", ErrUnsupportedShape, i, e)
			}
			rows = append(rows, row)
		}
		return &Document{Grid: grid.FromValues(rows)}, nil
	}

	byYear := make(map[string][]schema.RawPair)
	var order []string
	for i, e := range arr {
		obj, ok := e.(*object)
		if !ok {
			return nil, fmt.Errorf("%w: item %d is %T", ErrUnsupportedShape, i, e)
		}
		label, lok := lookup(obj, labelKeys)
		value, vok := lookup(obj, valueKeys)
		if !lok || !vok {
			return nil, fmt.Errorf("%w: item %d has no label/value keys", ErrUnsupportedShape, i)
		}

		year := ""
		if y, ok := lookup(obj, []string{"year", "period"}); ok && y != nil {
			year = fmt.Sprint(y)
		}
		if _, seen := byYear[year]; !seen {
			order = append(order, year)
		}
		byYear[year] = append(byYear[year], schema.RawPair{Label: fmt.Sprint(label), Value: plain(value)})
	}

	doc := &Document{}
	for _, y := range order {
		doc.Years = append(doc.Years, schema.YearPairs{Year: y, Pairs: byYear[y]})
	}
	return doc, nil
}

// lookup finds the first of names among the object keys, case-insensitively.
func lookup(obj *object, names []string) (any, bool) {
	for _, name := range names {
		for _, k := range obj.keys {
			if strings.EqualFold(strings.TrimSpace(k), name) {
				return obj.values[k], true
			}
		}
	}
	return nil, false
}
