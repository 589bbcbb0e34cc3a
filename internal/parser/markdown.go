package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/markdoc/internal/doctree"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser imports full CommonMark files using goldmark and maps the
// result onto the same tree the markup engine produces. Constructs the tree
// cannot express (images, raw HTML) degrade to plain text.
type MarkdownParser struct{}

var md = goldmark.New(goldmark.WithExtensions(extension.Strikethrough))

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}

	root := md.Parser().Parse(text.NewReader(src))
	c := &mdConverter{src: src}
	return &doctree.Document{Blocks: c.children(root, 0)}, nil
}

type mdConverter struct {
	src []byte
}

// children converts the block children of n. depth is the nesting depth any
// list found at this level receives.
func (c *mdConverter) children(n ast.Node, depth int) []doctree.Block {
	var out []doctree.Block
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		if b := c.block(child, depth); b != nil {
			out = append(out, b)
		}
	}
	return out
}

func (c *mdConverter) block(n ast.Node, depth int) doctree.Block {
	switch node := n.(type) {
	case *ast.Heading:
		return doctree.Heading{Level: node.Level, Inline: joinLines(c.inlineLines(node))}
	case *ast.Paragraph, *ast.TextBlock:
		return c.paragraph(node)
	case *ast.FencedCodeBlock:
		return doctree.CodeBlock{
			Language: string(node.Language(c.src)),
			Lines:    c.rawLines(node),
		}
	case *ast.CodeBlock:
		return doctree.CodeBlock{Lines: c.rawLines(node)}
	case *ast.Blockquote:
		return doctree.BlockQuote{Paragraph: c.quote(node)}
	case *ast.ThematicBreak:
		return doctree.HorizontalRule{}
	case *ast.List:
		return c.list(node, depth)
	case *ast.HTMLBlock:
		lines := c.rawLines(node)
		if len(lines) == 0 {
			return nil
		}
		return literalParagraph(lines)
	}
	return nil
}

func (c *mdConverter) list(n *ast.List, depth int) doctree.Block {
	l := doctree.List{Kind: doctree.Unordered, Depth: depth}
	if n.IsOrdered() {
		l.Kind = doctree.Ordered
	}
	for item := n.FirstChild(); item != nil; item = item.NextSibling() {
		var li doctree.ListItem
		first := item.FirstChild()
		if first != nil && (first.Kind() == ast.KindParagraph || first.Kind() == ast.KindTextBlock) {
			li.Inline = joinLines(c.inlineLines(first))
			first = first.NextSibling()
		}
		for child := first; child != nil; child = child.NextSibling() {
			if b := c.block(child, depth+1); b != nil {
				li.Children = append(li.Children, b)
			}
		}
		l.Items = append(l.Items, li)
	}
	if len(l.Items) == 0 {
		return nil
	}
	return l
}

// quote flattens a blockquote into one paragraph; separate inner blocks are
// divided by an empty line.
func (c *mdConverter) quote(n *ast.Blockquote) doctree.Paragraph {
	return quoteParagraph(c.children(n, 0))
}

func (c *mdConverter) paragraph(n ast.Node) doctree.Paragraph {
	var p doctree.Paragraph
	for _, line := range c.inlineLines(n) {
		p.Lines = append(p.Lines, flatText(line))
		p.Inline = append(p.Inline, line)
	}
	return p
}

// inlineLines converts inline children, starting a new line at every soft or
// hard line break.
func (c *mdConverter) inlineLines(n ast.Node) [][]doctree.Inline {
	lines := [][]doctree.Inline{nil}
	add := func(in doctree.Inline) {
		cur := &lines[len(lines)-1]
		if t, ok := in.(doctree.Text); ok && len(*cur) > 0 {
			if prev, ok := (*cur)[len(*cur)-1].(doctree.Text); ok {
				(*cur)[len(*cur)-1] = prev + t
				return
			}
		}
		*cur = append(*cur, in)
	}

	var walk func(ast.Node)
	walk = func(n ast.Node) {
		for child := n.FirstChild(); child != nil; child = child.NextSibling() {
			switch node := child.(type) {
			case *ast.Text:
				if v := node.Value(c.src); len(v) > 0 {
					add(doctree.Text(v))
				}
				if node.SoftLineBreak() || node.HardLineBreak() {
					lines = append(lines, nil)
				}
			case *ast.String:
				add(doctree.Text(node.Value))
			case *ast.CodeSpan:
				add(doctree.Code(c.plain(node)))
			case *ast.Emphasis:
				if node.Level >= 2 {
					add(doctree.Bold(c.plain(node)))
				} else {
					add(doctree.Italic(c.plain(node)))
				}
			case *east.Strikethrough:
				add(doctree.Strike(c.plain(node)))
			case *ast.Link:
				add(safeLink(c.plain(node), string(node.Destination)))
			case *ast.AutoLink:
				add(safeLink(string(node.Label(c.src)), string(node.URL(c.src))))
			case *ast.RawHTML:
				for i := 0; i < node.Segments.Len(); i++ {
					seg := node.Segments.At(i)
					add(doctree.Text(seg.Value(c.src)))
				}
			default:
				walk(child)
			}
		}
	}
	walk(n)

	if len(lines) > 1 && len(lines[len(lines)-1]) == 0 {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// plain returns the visible text under n with all markup removed.
func (c *mdConverter) plain(n ast.Node) string {
	var sb strings.Builder
	var walk func(ast.Node)
	walk = func(n ast.Node) {
		for child := n.FirstChild(); child != nil; child = child.NextSibling() {
			switch node := child.(type) {
			case *ast.Text:
				sb.Write(node.Value(c.src))
				if node.SoftLineBreak() || node.HardLineBreak() {
					sb.WriteByte(' ')
				}
			case *ast.String:
				sb.Write(node.Value)
			default:
				walk(child)
			}
		}
	}
	walk(n)
	return sb.String()
}

func (c *mdConverter) rawLines(n ast.Node) []string {
	segs := n.Lines()
	out := make([]string, 0, segs.Len())
	for i := 0; i < segs.Len(); i++ {
		seg := segs.At(i)
		line := strings.TrimSuffix(string(seg.Value(c.src)), "\n")
		out = append(out, strings.TrimSuffix(line, "\r"))
	}
	return out
}

func safeLink(label, href string) doctree.Inline {
	if doctree.IsSafeHref(href) {
		return doctree.Link{Text: label, Href: href}
	}
	return doctree.Text(label)
}

// joinLines folds multi-line inline content into a single run, separating
// lines with a space.
func joinLines(lines [][]doctree.Inline) []doctree.Inline {
	var out []doctree.Inline
	for i, line := range lines {
		if i > 0 {
			out = append(out, doctree.Text(" "))
		}
		out = append(out, line...)
	}
	return mergeText(out)
}

func mergeText(in []doctree.Inline) []doctree.Inline {
	var out []doctree.Inline
	for _, n := range in {
		if t, ok := n.(doctree.Text); ok && len(out) > 0 {
			if prev, ok := out[len(out)-1].(doctree.Text); ok {
				out[len(out)-1] = prev + t
				continue
			}
		}
		out = append(out, n)
	}
	return out
}

func literalParagraph(lines []string) doctree.Paragraph {
	p := doctree.Paragraph{Lines: lines, Inline: make([][]doctree.Inline, len(lines))}
	for i, l := range lines {
		if l != "" {
			p.Inline[i] = []doctree.Inline{doctree.Text(l)}
		}
	}
	return p
}

// flatText is the visible text of an inline run.
func flatText(in []doctree.Inline) string {
	var sb strings.Builder
	for _, n := range in {
		switch v := n.(type) {
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
