package parser

import (
	"testing"

	"github.com/dgallion1/markdoc/internal/doctree"
	"github.com/stretchr/testify/assert"
)

func TestTokenizeInline(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []doctree.Inline
	}{
		{"empty", "", nil},
		{"plain", "plain text", []doctree.Inline{doctree.Text("plain text")}},
		{
			"code span is not scanned further",
			"use `x := *y*` here",
			[]doctree.Inline{doctree.Text("use "), doctree.Code("x := *y*"), doctree.Text(" here")},
		},
		{
			"code span wins over bold",
			"`**not bold**`",
			[]doctree.Inline{doctree.Code("**not bold**")},
		},
		{
			"https link",
			"[site](https://example.com)",
			[]doctree.Inline{doctree.Link{Text: "site", Href: "https://example.com"}},
		},
		{
			"http link with trailing text",
			"see [docs](http://docs.example.org/a) now",
			[]doctree.Inline{
				doctree.Text("see "),
				doctree.Link{Text: "docs", Href: "http://docs.example.org/a"},
				doctree.Text(" now"),
			},
		},
		{
			"javascript scheme stays literal",
			"[site](javascript:alert(1))",
			[]doctree.Inline{doctree.Text("[site](javascript:alert(1))")},
		},
		{
			"relative link stays literal",
			"[home](/index.html)",
			[]doctree.Inline{doctree.Text("[home](/index.html)")},
		},
		{
			"emphasis kinds",
			"**bold** and *it* and ~~gone~~",
			[]doctree.Inline{
				doctree.Bold("bold"),
				doctree.Text(" and "),
				doctree.Italic("it"),
				doctree.Text(" and "),
				doctree.Strike("gone"),
			},
		},
		{
			"bold content is flat",
			"**a *b* c**",
			[]doctree.Inline{doctree.Bold("a *b* c")},
		},
		{"stray asterisk", "a * b", []doctree.Inline{doctree.Text("a * b")}},
		{"unterminated code", "open `code here", []doctree.Inline{doctree.Text("open `code here")}},
		{"unterminated strike", "~~nope", []doctree.Inline{doctree.Text("~~nope")}},
		{"empty backticks", "``", []doctree.Inline{doctree.Text("``")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TokenizeInline(tt.in))
		})
	}
}

func TestTokenizeInline_CodeSpanFidelity(t *testing.T) {
	inner := []string{
		"[x](https://a.b)",
		"**b** *i* ~~s~~",
		"  leading and trailing  ",
		`\*escaped\*`,
	}
	for _, s := range inner {
		got := TokenizeInline("`" + s + "`")
		if len(got) != 1 {
			t.Fatalf("expected 1 node for %q, got %d: %#v", s, len(got), got)
		}
		if got[0] != doctree.Code(s) {
			t.Errorf("expected Code(%q), got %#v", s, got[0])
		}
	}
}
