package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/markdoc/internal/doctree"
)

// TextRenderer writes the visible text of a document with inline markers
// removed. Blocks are separated by a blank line.
type TextRenderer struct{}

func (r *TextRenderer) Render(w io.Writer, doc *doctree.Document) error {
	s := PlainText(doc)
	if s == "" {
		return nil
	}
	_, err := io.WriteString(w, s+"\n")
	return err
}

var textBullets = []string{"•", "◦", "▪"}

// PlainText returns the document as plain text.
func PlainText(doc *doctree.Document) string {
	parts := make([]string, 0, len(doc.Blocks))
	for _, b := range doc.Blocks {
		if s := BlockText(b); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n\n")
}

// BlockText returns the plain text of a single block. Nested list levels are
// indented two spaces each.
func BlockText(b doctree.Block) string {
	switch v := b.(type) {
	case doctree.Heading:
		return InlineText(v.Inline)
	case doctree.Paragraph:
		return paragraphText(v)
	case doctree.CodeBlock:
		return strings.Join(v.Lines, "\n")
	case doctree.BlockQuote:
		return paragraphText(v.Paragraph)
	case doctree.HorizontalRule:
		return "---"
	case doctree.List:
		var sb strings.Builder
		writeListText(&sb, v)
		return strings.TrimSuffix(sb.String(), "\n")
	}
	return ""
}

func paragraphText(p doctree.Paragraph) string {
	lines := make([]string, len(p.Inline))
	for i, l := range p.Inline {
		lines[i] = InlineText(l)
	}
	return strings.Join(lines, "\n")
}

func writeListText(sb *strings.Builder, l doctree.List) {
	indent := strings.Repeat("  ", l.Depth)
	for i, item := range l.Items {
		fmt.Fprintf(sb, "%s%s %s\n", indent, listMarker(l, i), InlineText(item.Inline))
		for _, child := range item.Children {
			if nested, ok := child.(doctree.List); ok {
				writeListText(sb, nested)
				continue
			}
			for _, line := range strings.Split(BlockText(child), "\n") {
				sb.WriteString(indent + "  " + line + "\n")
			}
		}
	}
}

func listMarker(l doctree.List, i int) string {
	if l.Kind == doctree.Ordered {
		return fmt.Sprintf("%d.", i+1)
	}
	return textBullets[clampDepth(l.Depth)]
}

// InlineText concatenates the visible text of an inline run. Links
// contribute their label.
func InlineText(run []doctree.Inline) string {
	var sb strings.Builder
	for _, in := range run {
		switch v := in.(type) {
		case doctree.Text:
			sb.WriteString(string(v))
		case doctree.Code:
			sb.WriteString(string(v))
		case doctree.Bold:
			sb.WriteString(string(v))
		case doctree.Italic:
			sb.WriteString(string(v))
		case doctree.Strike:
			sb.WriteString(string(v))
		case doctree.Link:
			sb.WriteString(v.Text)
		}
	}
	return sb.String()
}
