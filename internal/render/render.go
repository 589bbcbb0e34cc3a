// Package render writes document trees out as HTML, plain text, ANSI
// terminal text or JSON.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/markdoc/internal/doctree"
)

// Renderer writes a document in one output format.
type Renderer interface {
	Render(w io.Writer, doc *doctree.Document) error
}

// Options tunes renderers that have presentation choices.
type Options struct {
	// Color enables ANSI escapes in the term format.
	Color bool
	// Width is the column count for rules in the term format. Zero means
	// DefaultWidth.
	Width int
}

// DefaultWidth is the terminal width assumed when none is given.
const DefaultWidth = 72

// Formats lists the names ForFormat accepts.
var Formats = []string{"html", "text", "term", "json"}

// ForFormat returns the renderer registered under name.
func ForFormat(name string, opts Options) (Renderer, error) {
	switch strings.ToLower(name) {
	case "html", "":
		return &HTMLRenderer{}, nil
	case "text":
		return &TextRenderer{}, nil
	case "term":
		return NewTermRenderer(opts), nil
	case "json":
		return &JSONRenderer{Indent: true}, nil
	default:
		return nil, fmt.Errorf("unknown format %q (want one of %s)", name, strings.Join(Formats, ", "))
	}
}

// ContentType is the MIME type of a format's output.
func ContentType(format string) string {
	switch strings.ToLower(format) {
	case "html", "":
		return "text/html; charset=utf-8"
	case "json":
		return "application/json"
	}
	return "text/plain; charset=utf-8"
}

var bulletStyles = []string{"disc", "circle", "square"}

// BulletStyle is the CSS list-style-type for an unordered list at depth.
func BulletStyle(depth int) string {
	return bulletStyles[clampDepth(depth)]
}

func clampDepth(depth int) int {
	if depth < 0 {
		return 0
	}
	if depth > 2 {
		return 2
	}
	return depth
}
