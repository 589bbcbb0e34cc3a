package parser

import (
	"regexp"

	"github.com/dgallion1/markdoc/internal/doctree"
)

// inlinePattern recognizes, in priority order at each position: code span,
// http(s) link, bold, italic, strikethrough. Alternation is leftmost-first,
// so an earlier branch wins when two could start at the same offset.
var inlinePattern = regexp.MustCompile(
	"`([^`]+)`" +
		`|\[([^\]]+)\]\((https?://[^)\s]*)\)` +
		`|\*\*(.+?)\*\*` +
		`|\*(.+?)\*` +
		`|~~(.+?)~~`,
)

// Submatch indexes into inlinePattern.FindAllStringSubmatchIndex results.
const (
	groupCode = 1 + iota
	groupLinkText
	groupLinkHref
	groupBold
	groupItalic
	groupStrike
)

// TokenizeInline splits a single line into inline nodes. Text that matches no
// construct, including unterminated delimiters and links with other schemes,
// is returned verbatim as Text. Matched spans are not scanned again.
func TokenizeInline(text string) []doctree.Inline {
	if text == "" {
		return nil
	}

	var nodes []doctree.Inline
	last := 0
	for _, m := range inlinePattern.FindAllStringSubmatchIndex(text, -1) {
		if m[0] > last {
			nodes = append(nodes, doctree.Text(text[last:m[0]]))
		}
		nodes = append(nodes, inlineNode(text, m))
		last = m[1]
	}
	if last < len(text) {
		nodes = append(nodes, doctree.Text(text[last:]))
	}
	return nodes
}

func inlineNode(text string, m []int) doctree.Inline {
	group := func(n int) (string, bool) {
		if m[2*n] < 0 {
			return "", false
		}
		return text[m[2*n]:m[2*n+1]], true
	}

	if s, ok := group(groupCode); ok {
		return doctree.Code(s)
	}
	if label, ok := group(groupLinkText); ok {
		href, _ := group(groupLinkHref)
		return doctree.Link{Text: label, Href: href}
	}
	if s, ok := group(groupBold); ok {
		return doctree.Bold(s)
	}
	if s, ok := group(groupItalic); ok {
		return doctree.Italic(s)
	}
	s, _ := group(groupStrike)
	return doctree.Strike(s)
}
