package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/markdoc/internal/doctree"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
)

// TermRenderer writes a document for a terminal. Colors are set per renderer
// so a colored and a plain renderer can coexist in one process.
type TermRenderer struct {
	width int

	heading *color.Color
	code    *color.Color
	link    *color.Color
	quote   *color.Color
	rule    *color.Color
	bold    *color.Color
	italic  *color.Color
	strike  *color.Color
}

func NewTermRenderer(opts Options) *TermRenderer {
	r := &TermRenderer{
		width:   opts.Width,
		heading: color.New(color.FgCyan, color.Bold),
		code:    color.New(color.FgYellow),
		link:    color.New(color.FgBlue, color.Underline),
		quote:   color.New(color.FgGreen),
		rule:    color.New(color.FgHiBlack),
		bold:    color.New(color.Bold),
		italic:  color.New(color.Italic),
		strike:  color.New(color.CrossedOut),
	}
	if r.width <= 0 {
		r.width = DefaultWidth
	}
	for _, c := range []*color.Color{r.heading, r.code, r.link, r.quote, r.rule, r.bold, r.italic, r.strike} {
		if opts.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return r
}

func (r *TermRenderer) Render(w io.Writer, doc *doctree.Document) error {
	var sb strings.Builder
	for i, b := range doc.Blocks {
		if i > 0 {
			sb.WriteString("\n")
		}
		r.block(&sb, b)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func (r *TermRenderer) block(sb *strings.Builder, b doctree.Block) {
	switch v := b.(type) {
	case doctree.Heading:
		plain := InlineText(v.Inline)
		switch v.Level {
		case 1, 2:
			under := "="
			if v.Level == 2 {
				under = "-"
			}
			sb.WriteString(r.heading.Sprint(plain) + "\n")
			sb.WriteString(r.heading.Sprint(strings.Repeat(under, runewidth.StringWidth(plain))) + "\n")
		default:
			sb.WriteString(r.heading.Sprint(strings.Repeat("#", v.Level)+" "+plain) + "\n")
		}
	case doctree.Paragraph:
		for _, line := range v.Inline {
			sb.WriteString(r.inline(line) + "\n")
		}
	case doctree.CodeBlock:
		for _, line := range v.Lines {
			sb.WriteString("    " + r.code.Sprint(line) + "\n")
		}
	case doctree.BlockQuote:
		for _, line := range v.Paragraph.Inline {
			sb.WriteString(r.quote.Sprint("│ ") + r.inline(line) + "\n")
		}
	case doctree.HorizontalRule:
		sb.WriteString(r.rule.Sprint(r.ruleLine()) + "\n")
	case doctree.List:
		r.list(sb, v)
	}
}

func (r *TermRenderer) list(sb *strings.Builder, l doctree.List) {
	indent := strings.Repeat("  ", l.Depth)
	for i, item := range l.Items {
		fmt.Fprintf(sb, "%s%s %s\n", indent, listMarker(l, i), r.inline(item.Inline))
		for _, child := range item.Children {
			if nested, ok := child.(doctree.List); ok {
				r.list(sb, nested)
				continue
			}
			var inner strings.Builder
			r.block(&inner, child)
			for _, line := range strings.Split(strings.TrimSuffix(inner.String(), "\n"), "\n") {
				sb.WriteString(indent + "  " + line + "\n")
			}
		}
	}
}

// ruleLine fills the configured width with box-drawing dashes, accounting
// for terminals that draw them double-width.
func (r *TermRenderer) ruleLine() string {
	const dash = '─'
	n := r.width / max(runewidth.RuneWidth(dash), 1)
	return strings.Repeat(string(dash), n)
}

func (r *TermRenderer) inline(run []doctree.Inline) string {
	var sb strings.Builder
	for _, in := range run {
		switch v := in.(type) {
		case doctree.Text:
			sb.WriteString(string(v))
		case doctree.Code:
			sb.WriteString(r.code.Sprint(string(v)))
		case doctree.Bold:
			sb.WriteString(r.bold.Sprint(string(v)))
		case doctree.Italic:
			sb.WriteString(r.italic.Sprint(string(v)))
		case doctree.Strike:
			sb.WriteString(r.strike.Sprint(string(v)))
		case doctree.Link:
			sb.WriteString(v.Text)
			if doctree.IsSafeHref(v.Href) {
				sb.WriteString(" (" + r.link.Sprint(v.Href) + ")")
			}
		}
	}
	return sb.String()
}
