package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dgallion1/markdoc/internal/doctree"
)

// JSONRenderer writes the tagged tree encoding of a document.
type JSONRenderer struct {
	Indent bool
}

func (r *JSONRenderer) Render(w io.Writer, doc *doctree.Document) error {
	enc := json.NewEncoder(w)
	if r.Indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	return nil
}
