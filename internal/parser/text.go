package parser

import (
	"fmt"
	"io"

	"github.com/dgallion1/markdoc/internal/doctree"
)

// MarkupParser reads lightly formatted post text and hands it to Parse.
type MarkupParser struct{}

func (p *MarkupParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}
	return Parse(string(src)), nil
}
