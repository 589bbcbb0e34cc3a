package doctree

import "strings"

// Document is the root of a parsed document.
type Document struct {
	Blocks []Block // Top-level blocks in source order
}

// BlockKind names a Block variant. It doubles as the JSON "type" tag.
type BlockKind string

const (
	KindHeading        BlockKind = "heading"
	KindParagraph      BlockKind = "paragraph"
	KindCodeBlock      BlockKind = "code_block"
	KindBlockQuote     BlockKind = "block_quote"
	KindHorizontalRule BlockKind = "horizontal_rule"
	KindList           BlockKind = "list"
)

// Block is a structural unit of a document. The set of variants is closed.
type Block interface {
	BlockKind() BlockKind
	isBlock()
}

// Heading is an ATX-style heading, Level 1..6.
type Heading struct {
	Level  int
	Inline []Inline
}

// Paragraph keeps its physical lines; a hard break separates each line when rendered.
type Paragraph struct {
	Lines  []string   // Raw lines
	Inline [][]Inline // Inline[i] is Lines[i] tokenized
}

// CodeBlock is a fenced block. Language is empty when the fence had no tag.
type CodeBlock struct {
	Language string
	Lines    []string // Verbatim, including leading whitespace
}

// BlockQuote holds all consecutive quoted lines as one paragraph.
type BlockQuote struct {
	Paragraph Paragraph
}

// HorizontalRule is a thematic break.
type HorizontalRule struct{}

// ListKind distinguishes ordered from unordered lists.
type ListKind string

const (
	Unordered ListKind = "unordered"
	Ordered   ListKind = "ordered"
)

// List is a run of items of one kind at one indentation. Items is never empty.
type List struct {
	Kind  ListKind
	Depth int // 0 for top-level lists
	Items []ListItem
}

// ListItem is one list entry. Children holds blocks indented under it,
// typically nested lists.
type ListItem struct {
	Inline   []Inline
	Children []Block
}

func (Heading) BlockKind() BlockKind        { return KindHeading }
func (Paragraph) BlockKind() BlockKind      { return KindParagraph }
func (CodeBlock) BlockKind() BlockKind      { return KindCodeBlock }
func (BlockQuote) BlockKind() BlockKind     { return KindBlockQuote }
func (HorizontalRule) BlockKind() BlockKind { return KindHorizontalRule }
func (List) BlockKind() BlockKind           { return KindList }

func (Heading) isBlock()        {}
func (Paragraph) isBlock()      {}
func (CodeBlock) isBlock()      {}
func (BlockQuote) isBlock()     {}
func (HorizontalRule) isBlock() {}
func (List) isBlock()           {}

// Inline is a unit of formatted text inside a block. Emphasis variants carry
// flat text; they are never re-tokenized.
type Inline interface {
	isInline()
}

type (
	Text   string
	Code   string
	Bold   string
	Italic string
	Strike string
)

// Link is an inline hyperlink.
type Link struct {
	Text string
	Href string
}

func (Text) isInline()   {}
func (Code) isInline()   {}
func (Bold) isInline()   {}
func (Italic) isInline() {}
func (Strike) isInline() {}
func (Link) isInline()   {}

// Chunk is a sized text segment with structural context, ready for indexing.
type Chunk struct {
	Text       string   `json:"text"`
	Index      int      `json:"index"`
	Breadcrumb []string `json:"breadcrumb"` // Heading hierarchy, e.g. ["Install", "Linux"]
}

// IsSafeHref reports whether href uses one of the schemes that may be rendered
// as a live link (http and https).
func IsSafeHref(href string) bool {
	return strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://")
}
