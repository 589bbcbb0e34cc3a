package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/markdoc/internal/doctree"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HTMLRenderer writes an HTML fragment, one element per block. Text is
// escaped by the serializer; only http and https links become anchors.
type HTMLRenderer struct{}

func (r *HTMLRenderer) Render(w io.Writer, doc *doctree.Document) error {
	for _, b := range doc.Blocks {
		n := htmlBlock(b)
		if n == nil {
			continue
		}
		if err := html.Render(w, n); err != nil {
			return fmt.Errorf("render html: %w", err)
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

var headingAtoms = [...]atom.Atom{atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6}

func htmlBlock(b doctree.Block) *html.Node {
	switch v := b.(type) {
	case doctree.Heading:
		level := min(max(v.Level, 1), 6)
		h := element(headingAtoms[level-1])
		appendInline(h, v.Inline)
		return h
	case doctree.Paragraph:
		return htmlParagraph(v)
	case doctree.CodeBlock:
		code := element(atom.Code)
		if v.Language != "" {
			code.Attr = append(code.Attr, html.Attribute{Key: "class", Val: "language-" + v.Language})
		}
		code.AppendChild(textNode(strings.Join(v.Lines, "\n")))
		pre := element(atom.Pre)
		pre.AppendChild(code)
		return pre
	case doctree.BlockQuote:
		q := element(atom.Blockquote)
		q.AppendChild(htmlParagraph(v.Paragraph))
		return q
	case doctree.HorizontalRule:
		return element(atom.Hr)
	case doctree.List:
		return htmlList(v)
	}
	return nil
}

func htmlParagraph(p doctree.Paragraph) *html.Node {
	n := element(atom.P)
	for i, line := range p.Inline {
		if i > 0 {
			n.AppendChild(element(atom.Br))
		}
		appendInline(n, line)
	}
	return n
}

func htmlList(l doctree.List) *html.Node {
	tag, style := atom.Ul, BulletStyle(l.Depth)
	if l.Kind == doctree.Ordered {
		tag, style = atom.Ol, "decimal"
	}
	list := element(tag, html.Attribute{Key: "style", Val: "list-style-type: " + style})
	for _, item := range l.Items {
		li := element(atom.Li)
		appendInline(li, item.Inline)
		for _, child := range item.Children {
			if n := htmlBlock(child); n != nil {
				li.AppendChild(n)
			}
		}
		list.AppendChild(li)
	}
	return list
}

func appendInline(parent *html.Node, run []doctree.Inline) {
	for _, in := range run {
		if n := htmlInline(in); n != nil {
			parent.AppendChild(n)
		}
	}
}

func htmlInline(in doctree.Inline) *html.Node {
	switch v := in.(type) {
	case doctree.Text:
		return textNode(string(v))
	case doctree.Code:
		return wrap(atom.Code, string(v))
	case doctree.Bold:
		return wrap(atom.Strong, string(v))
	case doctree.Italic:
		return wrap(atom.Em, string(v))
	case doctree.Strike:
		return wrap(atom.Del, string(v))
	case doctree.Link:
		if !doctree.IsSafeHref(v.Href) {
			return textNode(v.Text)
		}
		a := element(atom.A,
			html.Attribute{Key: "href", Val: v.Href},
			html.Attribute{Key: "target", Val: "_blank"},
			html.Attribute{Key: "rel", Val: "noopener noreferrer"},
		)
		a.AppendChild(textNode(v.Text))
		return a
	}
	return nil
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func wrap(a atom.Atom, s string) *html.Node {
	n := element(a)
	n.AppendChild(textNode(s))
	return n
}
