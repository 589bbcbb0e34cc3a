package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/dgallion1/markdoc/internal/doctree"
	"github.com/dgallion1/markdoc/internal/parser"
	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = "# Title\n" +
	"\n" +
	"line one\n" +
	"line **two**\n" +
	"\n" +
	"- a\n" +
	"  - b\n" +
	"    - c\n" +
	"\n" +
	"1. x\n" +
	"\n" +
	"```go\n" +
	"<tag>\n" +
	"```\n" +
	"\n" +
	"> q\n" +
	"\n" +
	"---\n" +
	"\n" +
	"[ok](https://x.io) [bad](javascript:alert(1))\n"

func renderHTML(t *testing.T, doc *doctree.Document) (string, *goquery.Document) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, (&HTMLRenderer{}).Render(&buf, doc))
	q, err := goquery.NewDocumentFromReader(strings.NewReader(buf.String()))
	require.NoError(t, err)
	return buf.String(), q
}

func TestHTMLRenderer(t *testing.T) {
	raw, q := renderHTML(t, parser.Parse(sample))

	assert.Equal(t, "Title", q.Find("h1").Text())

	first := q.Find("p").First()
	assert.Equal(t, 1, first.Find("br").Length())
	assert.Equal(t, "two", first.Find("strong").Text())

	assert.Equal(t, "list-style-type: disc", q.Find("ul").First().AttrOr("style", ""))
	assert.Equal(t, "list-style-type: circle", q.Find("ul ul").First().AttrOr("style", ""))
	assert.Equal(t, "list-style-type: square", q.Find("ul ul ul").First().AttrOr("style", ""))
	assert.Equal(t, "list-style-type: decimal", q.Find("ol").AttrOr("style", ""))

	code := q.Find("pre > code")
	assert.Equal(t, "language-go", code.AttrOr("class", ""))
	assert.Equal(t, "<tag>", code.Text())
	assert.Contains(t, raw, "&lt;tag&gt;")

	assert.Equal(t, "q", q.Find("blockquote p").Text())
	assert.Equal(t, 1, q.Find("hr").Length())

	links := q.Find("a")
	require.Equal(t, 1, links.Length())
	assert.Equal(t, "https://x.io", links.AttrOr("href", ""))
	assert.Equal(t, "_blank", links.AttrOr("target", ""))
	assert.Equal(t, "noopener noreferrer", links.AttrOr("rel", ""))
	assert.Contains(t, q.Find("p").Last().Text(), "[bad](javascript:alert(1))")
}

func TestHTMLRenderer_UnsafeLinkIsText(t *testing.T) {
	doc := &doctree.Document{Blocks: []doctree.Block{
		doctree.Paragraph{
			Lines:  []string{"x"},
			Inline: [][]doctree.Inline{{doctree.Link{Text: "click", Href: "javascript:alert(1)"}}},
		},
	}}
	raw, q := renderHTML(t, doc)
	assert.Equal(t, 0, q.Find("a").Length())
	assert.Equal(t, "<p>click</p>\n", raw)
}

func TestHTMLRenderer_EscapesText(t *testing.T) {
	raw, _ := renderHTML(t, parser.Parse("# <script>alert(1)</script>"))
	assert.NotContains(t, raw, "<script>")
	assert.Contains(t, raw, "&lt;script&gt;")
}

func TestPlainText(t *testing.T) {
	doc := parser.Parse("# Title\n\nHello **world**\n\n- a\n  - b\n    - c\n1. one\n2. two\n\n> quote")
	want := "Title\n\n" +
		"Hello world\n\n" +
		"• a\n  ◦ b\n    ▪ c\n\n" +
		"1. one\n2. two\n\n" +
		"quote"
	assert.Equal(t, want, PlainText(doc))

	var buf bytes.Buffer
	require.NoError(t, (&TextRenderer{}).Render(&buf, doc))
	assert.Equal(t, want+"\n", buf.String())
}

func TestTextRenderer_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&TextRenderer{}).Render(&buf, &doctree.Document{}))
	assert.Empty(t, buf.String())
}

func TestTermRenderer_Plain(t *testing.T) {
	r := NewTermRenderer(Options{Width: 10})
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, parser.Parse("## Sub\n\n---\n\n[go](https://go.dev)")))

	rule := strings.Repeat("─", 10/runewidth.RuneWidth('─'))
	want := "Sub\n---\n" +
		"\n" + rule + "\n" +
		"\ngo (https://go.dev)\n"
	assert.Equal(t, want, buf.String())
}

func TestTermRenderer_Color(t *testing.T) {
	plain := NewTermRenderer(Options{})
	colored := NewTermRenderer(Options{Color: true})
	doc := parser.Parse("# Head\n\nsome `code`")

	var a, b bytes.Buffer
	require.NoError(t, plain.Render(&a, doc))
	require.NoError(t, colored.Render(&b, doc))

	assert.NotContains(t, a.String(), "\x1b[")
	assert.Contains(t, b.String(), "\x1b[")
}

func TestJSONRenderer(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&JSONRenderer{}).Render(&buf, parser.Parse("# Hi")))

	var got struct {
		Blocks []struct {
			Type  string `json:"type"`
			Level int    `json:"level"`
		} `json:"blocks"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got.Blocks, 1)
	assert.Equal(t, "heading", got.Blocks[0].Type)
	assert.Equal(t, 1, got.Blocks[0].Level)
}

func TestForFormat(t *testing.T) {
	for _, name := range Formats {
		r, err := ForFormat(name, Options{})
		require.NoError(t, err, name)
		require.NotNil(t, r, name)
	}
	_, err := ForFormat("pdf", Options{})
	assert.Error(t, err)
}

func TestBulletStyle(t *testing.T) {
	assert.Equal(t, "disc", BulletStyle(0))
	assert.Equal(t, "circle", BulletStyle(1))
	assert.Equal(t, "square", BulletStyle(2))
	assert.Equal(t, "square", BulletStyle(7))
}
