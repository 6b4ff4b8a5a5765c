package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ginjaninja78/financial-mapper/internal/schema"
)

// WriteJSON writes one output as an indented JSON document.
func WriteJSON(w io.Writer, out *schema.PipelineOutput) error {
	return encode(w, FromOutput(out))
}

// WriteJSONList writes several outputs as a JSON array.
func WriteJSONList(w io.Writer, outs []*schema.PipelineOutput) error {
	docs := make([]Document, 0, len(outs))
	for _, out := range outs {
		docs = append(docs, FromOutput(out))
	}
	return encode(w, docs)
}

func encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
