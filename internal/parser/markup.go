package parser

import (
	"regexp"
	"strings"

	"github.com/dgallion1/markdoc/internal/doctree"
)

var (
	listItemRe = regexp.MustCompile(`^(\s*)([-*+]|\d+\.)\s+(.*)$`)
	headingRe  = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	ruleRe     = regexp.MustCompile(`^(\*\*\*|-{3,}|_{3,})$`)
)

const (
	fence    = "```"
	tabWidth = 4
)

// Parse turns markup text into a Document. It never fails: unterminated
// fences run to the end of input, unmatched inline delimiters stay literal,
// and inconsistent list indentation is repaired rather than rejected.
//
// Parse keeps no state between calls and is safe for concurrent use.
func Parse(text string) *doctree.Document {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	lines := strings.Split(text, "\n")

	doc := &doctree.Document{}
	lists := &listStack{out: &doc.Blocks}
	emit := func(b doctree.Block) {
		lists.flush()
		doc.Blocks = append(doc.Blocks, b)
	}

	for i := 0; i < len(lines); {
		line := lines[i]
		if isBlank(line) {
			lists.flush()
			i++
			continue
		}

		if m := listItemRe.FindStringSubmatch(line); m != nil {
			lists.add(indentWidth(m[1]), listKind(m[2]), m[3])
			i++
			continue
		}

		switch {
		case isFence(line):
			var b doctree.CodeBlock
			b, i = parseFence(lines, i)
			emit(b)
		case headingRe.MatchString(line):
			m := headingRe.FindStringSubmatch(line)
			emit(doctree.Heading{
				Level:  len(m[1]),
				Inline: TokenizeInline(strings.TrimSpace(m[2])),
			})
			i++
		case isRule(line):
			emit(doctree.HorizontalRule{})
			i++
		case isQuote(line):
			var b doctree.BlockQuote
			b, i = parseQuote(lines, i)
			emit(b)
		default:
			var b doctree.Paragraph
			b, i = parseParagraph(lines, i)
			emit(b)
		}
	}
	lists.flush()

	return doc
}

// parseFence consumes an opening fence, its body and the closing fence.
// It returns the block and the index of the first line after it.
func parseFence(lines []string, start int) (doctree.CodeBlock, int) {
	b := doctree.CodeBlock{
		Language: strings.TrimSpace(strings.TrimSpace(lines[start])[len(fence):]),
	}
	i := start + 1
	for ; i < len(lines); i++ {
		if isFence(lines[i]) {
			return b, i + 1
		}
		b.Lines = append(b.Lines, lines[i])
	}
	return b, i
}

func parseQuote(lines []string, start int) (doctree.BlockQuote, int) {
	var body []string
	i := start
	for ; i < len(lines) && isQuote(lines[i]); i++ {
		l := strings.TrimPrefix(lines[i], ">")
		body = append(body, strings.TrimPrefix(l, " "))
	}
	return doctree.BlockQuote{Paragraph: newParagraph(body)}, i
}

func parseParagraph(lines []string, start int) (doctree.Paragraph, int) {
	body := []string{lines[start]}
	i := start + 1
	for ; i < len(lines); i++ {
		if isBlank(lines[i]) || startsBlock(lines[i]) {
			break
		}
		body = append(body, lines[i])
	}
	return newParagraph(body), i
}

func newParagraph(lines []string) doctree.Paragraph {
	p := doctree.Paragraph{
		Lines:  lines,
		Inline: make([][]doctree.Inline, len(lines)),
	}
	for i, l := range lines {
		p.Inline[i] = TokenizeInline(l)
	}
	return p
}

// startsBlock reports whether line opens any construct other than a paragraph.
func startsBlock(line string) bool {
	return listItemRe.MatchString(line) ||
		isFence(line) ||
		headingRe.MatchString(line) ||
		isRule(line) ||
		isQuote(line)
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

func isFence(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), fence)
}

func isRule(line string) bool {
	return ruleRe.MatchString(strings.TrimSpace(line))
}

func isQuote(line string) bool {
	return strings.HasPrefix(line, ">")
}

func listKind(marker string) doctree.ListKind {
	if strings.HasSuffix(marker, ".") {
		return doctree.Ordered
	}
	return doctree.Unordered
}

// indentWidth measures leading whitespace, counting a tab as four columns.
func indentWidth(ws string) int {
	n := 0
	for _, r := range ws {
		if r == '\t' {
			n += tabWidth
		} else {
			n++
		}
	}
	return n
}
