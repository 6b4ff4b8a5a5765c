package synonyms

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
	"gopkg.in/yaml.v3"
)

// LoadFile reads a {variant: canonical} overlay and adds every entry.
//
// SUPPORTED FORMATS (by extension):
//   - .json  : strict JSON; malformed files are repaired once before failing
//   - .hjson : human-edited JSON with comments and unquoted keys
//   - .yaml, .yml
//
// RETURNS:
//   - The number of entries read from the file.
func (d *Dictionary) LoadFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read synonym file: %w", err)
	}

	mapping, err := decodeOverlay(filepath.Ext(path), data)
	if err != nil {
		return 0, fmt.Errorf("failed to parse synonym file %s: %w", path, err)
	}

	if err := d.AddSynonyms(mapping); err != nil {
		return 0, fmt.Errorf("invalid synonym in %s: %w", path, err)
	}

	d.logger.Info("loaded %d custom synonyms from %s", len(mapping), path)
	return len(mapping), nil
}

func decodeOverlay(ext string, data []byte) (map[string]string, error) {
	mapping := make(map[string]string)

	switch strings.ToLower(ext) {
	case ".json":
		if err := json.Unmarshal(data, &mapping); err == nil {
			return mapping, nil
		}
		repaired, err := jsonrepair.RepairJSON(string(data))
		if err != nil {
			return nil, fmt.Errorf("repair failed: %w", err)
		}
		if err := json.Unmarshal([]byte(repaired), &mapping); err != nil {
			return nil, err
		}
	case ".hjson":
		if err := hjson.Unmarshal(data, &mapping); err != nil {
			return nil, err
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &mapping); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported synonym file extension %q", ext)
	}

	return mapping, nil
}
