package parser

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/dgallion1/markdoc/internal/doctree"
	"golang.org/x/net/html"
)

// HTMLParser maps an HTML page onto the document tree. Only the structural
// elements the tree can express are kept; scripts, styles and page chrome are
// skipped.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	start := findBody(root)
	if start == nil {
		start = root
	}
	return &doctree.Document{Blocks: htmlBlocks(start, 0)}, nil
}

// htmlBlocks converts the children of n. Loose inline content between block
// elements is gathered into paragraphs.
func htmlBlocks(n *html.Node, depth int) []doctree.Block {
	var out []doctree.Block
	var loose []doctree.Inline
	flush := func() {
		if p, ok := inlineParagraph(loose); ok {
			out = append(out, p)
		}
		loose = nil
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			switch c.Data {
			case "script", "style", "nav", "footer", "header", "head":
				continue
			}
			if level := headingLevel(c.Data); level > 0 {
				flush()
				out = append(out, doctree.Heading{Level: level, Inline: trimRun(collapseSpace(htmlInline(c)))})
				continue
			}
			switch c.Data {
			case "p":
				flush()
				if p, ok := inlineParagraph(htmlInline(c)); ok {
					out = append(out, p)
				}
				continue
			case "pre":
				flush()
				out = append(out, htmlCode(c))
				continue
			case "blockquote":
				flush()
				out = append(out, doctree.BlockQuote{Paragraph: quoteParagraph(htmlBlocks(c, depth))})
				continue
			case "hr":
				flush()
				out = append(out, doctree.HorizontalRule{})
				continue
			case "ul", "ol":
				flush()
				if l, ok := htmlList(c, depth); ok {
					out = append(out, l)
				}
				continue
			case "div", "section", "article", "main", "body", "html":
				flush()
				out = append(out, htmlBlocks(c, depth)...)
				continue
			}
		}
		loose = append(loose, htmlInlineNode(c)...)
	}
	flush()
	return out
}

func htmlList(n *html.Node, depth int) (doctree.List, bool) {
	l := doctree.List{Kind: doctree.Unordered, Depth: depth}
	if n.Data == "ol" {
		l.Kind = doctree.Ordered
	}
	for li := n.FirstChild; li != nil; li = li.NextSibling {
		if li.Type != html.ElementNode || li.Data != "li" {
			continue
		}
		var item doctree.ListItem
		var run []doctree.Inline
		for c := li.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && (c.Data == "ul" || c.Data == "ol") {
				if nested, ok := htmlList(c, depth+1); ok {
					item.Children = append(item.Children, nested)
				}
				continue
			}
			run = append(run, htmlInlineNode(c)...)
		}
		item.Inline = trimRun(collapseSpace(run))
		l.Items = append(l.Items, item)
	}
	return l, len(l.Items) > 0
}

func htmlCode(n *html.Node) doctree.CodeBlock {
	var b doctree.CodeBlock
	if code := firstElement(n, "code"); code != nil {
		for _, a := range code.Attr {
			if a.Key != "class" {
				continue
			}
			for _, cls := range strings.Fields(a.Val) {
				if lang, ok := strings.CutPrefix(cls, "language-"); ok {
					b.Language = lang
				}
			}
		}
	}
	body := strings.TrimSuffix(rawText(n), "\n")
	body = strings.TrimPrefix(body, "\n")
	b.Lines = strings.Split(body, "\n")
	return b
}

// htmlInline converts the inline content of n.
func htmlInline(n *html.Node) []doctree.Inline {
	var out []doctree.Inline
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, htmlInlineNode(c)...)
	}
	return out
}

func htmlInlineNode(n *html.Node) []doctree.Inline {
	switch n.Type {
	case html.TextNode:
		if n.Data == "" {
			return nil
		}
		return []doctree.Inline{doctree.Text(n.Data)}
	case html.ElementNode:
	default:
		return nil
	}

	switch n.Data {
	case "script", "style":
		return nil
	case "a":
		return []doctree.Inline{safeLink(textContent(n), attr(n, "href"))}
	case "strong", "b":
		return []doctree.Inline{doctree.Bold(textContent(n))}
	case "em", "i":
		return []doctree.Inline{doctree.Italic(textContent(n))}
	case "code", "kbd", "samp":
		return []doctree.Inline{doctree.Code(textContent(n))}
	case "del", "s", "strike":
		return []doctree.Inline{doctree.Strike(textContent(n))}
	case "br":
		return []doctree.Inline{lineBreak{}}
	}
	var out []doctree.Inline
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, htmlInlineNode(c)...)
	}
	return out
}

// lineBreak marks a <br> while a paragraph is being assembled. It never
// leaves this file.
type lineBreak struct{ doctree.Text }

// inlineParagraph splits a run at <br> markers into paragraph lines. It
// reports false when the run holds no visible text.
func inlineParagraph(run []doctree.Inline) (doctree.Paragraph, bool) {
	var p doctree.Paragraph
	var cur []doctree.Inline
	end := func() {
		cur = trimRun(collapseSpace(cur))
		p.Lines = append(p.Lines, flatText(cur))
		p.Inline = append(p.Inline, cur)
		cur = nil
	}
	for _, n := range run {
		if _, ok := n.(lineBreak); ok {
			end()
			continue
		}
		cur = append(cur, n)
	}
	end()

	for _, l := range p.Lines {
		if strings.TrimSpace(l) != "" {
			return p, true
		}
	}
	return p, false
}

// collapseSpace merges adjacent text and folds runs of HTML whitespace to
// single spaces. <br> markers become spaces.
func collapseSpace(in []doctree.Inline) []doctree.Inline {
	out := make([]doctree.Inline, 0, len(in))
	for _, n := range in {
		if _, ok := n.(lineBreak); ok {
			n = doctree.Text(" ")
		}
		out = append(out, n)
	}
	out = mergeText(out)
	for i, n := range out {
		if t, ok := n.(doctree.Text); ok {
			out[i] = doctree.Text(collapse(string(t)))
		}
	}
	return dropEmptyText(out)
}

func collapse(s string) string {
	if s == "" {
		return ""
	}
	out := strings.Join(strings.Fields(s), " ")
	if out == "" {
		return " "
	}
	if unicode.IsSpace(rune(s[0])) {
		out = " " + out
	}
	if unicode.IsSpace(rune(s[len(s)-1])) {
		out += " "
	}
	return out
}

func dropEmptyText(in []doctree.Inline) []doctree.Inline {
	out := in[:0]
	for _, n := range in {
		if t, ok := n.(doctree.Text); ok && t == "" {
			continue
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// trimRun strips leading and trailing whitespace from the outer text nodes.
func trimRun(in []doctree.Inline) []doctree.Inline {
	if len(in) == 0 {
		return in
	}
	if t, ok := in[0].(doctree.Text); ok {
		in[0] = doctree.Text(strings.TrimLeft(string(t), " \t\n\r"))
	}
	if t, ok := in[len(in)-1].(doctree.Text); ok {
		in[len(in)-1] = doctree.Text(strings.TrimRight(string(t), " \t\n\r"))
	}
	return dropEmptyText(in)
}

func headingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	case "h5":
		return 5
	case "h6":
		return 6
	}
	return 0
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// textContent returns the whitespace-collapsed text under n.
func textContent(n *html.Node) string {
	return strings.Join(strings.Fields(rawText(n)), " ")
}

func rawText(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return buf.String()
}

func firstElement(n *html.Node, tag string) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == tag {
			return c
		}
	}
	return nil
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
