package parser

import (
	"strconv"

	"github.com/dgallion1/markdoc/internal/doctree"
)

// quoteParagraph flattens the blocks inside an imported blockquote into the
// single paragraph a BlockQuote holds. Blocks are divided by an empty line;
// list items keep their inline formatting behind a "- " or "N. " marker.
func quoteParagraph(blocks []doctree.Block) doctree.Paragraph {
	var p doctree.Paragraph
	for _, b := range blocks {
		lines := quoteLines(b)
		if len(lines) == 0 {
			continue
		}
		if len(p.Lines) > 0 {
			p.Lines = append(p.Lines, "")
			p.Inline = append(p.Inline, nil)
		}
		for _, l := range lines {
			p.Lines = append(p.Lines, flatText(l))
			p.Inline = append(p.Inline, l)
		}
	}
	return p
}

func quoteLines(b doctree.Block) [][]doctree.Inline {
	switch v := b.(type) {
	case doctree.Heading:
		return [][]doctree.Inline{v.Inline}
	case doctree.Paragraph:
		return v.Inline
	case doctree.BlockQuote:
		return v.Paragraph.Inline
	case doctree.CodeBlock:
		return literalParagraph(v.Lines).Inline
	case doctree.HorizontalRule:
		return [][]doctree.Inline{{doctree.Text("---")}}
	case doctree.List:
		return listLines(v, "")
	}
	return nil
}

func listLines(l doctree.List, indent string) [][]doctree.Inline {
	var out [][]doctree.Inline
	for i, item := range l.Items {
		marker := "- "
		if l.Kind == doctree.Ordered {
			marker = strconv.Itoa(i+1) + ". "
		}
		out = append(out, prefixed(indent+marker, item.Inline))

		for _, child := range item.Children {
			if nested, ok := child.(doctree.List); ok {
				out = append(out, listLines(nested, indent+"  ")...)
				continue
			}
			for _, line := range quoteLines(child) {
				out = append(out, prefixed(indent+"  ", line))
			}
		}
	}
	return out
}

func prefixed(prefix string, run []doctree.Inline) []doctree.Inline {
	line := make([]doctree.Inline, 0, len(run)+1)
	line = append(line, doctree.Text(prefix))
	return mergeText(append(line, run...))
}
