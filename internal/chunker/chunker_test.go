package chunker

import (
	"fmt"
	"strings"
	"testing"

	"github.com/dgallion1/markdoc/internal/parser"
)

func TestSections_SmallDocumentFitsOneSection(t *testing.T) {
	doc := parser.Parse("# Intro\n\n" + strings.Repeat("word ", 200))

	cfg := Config{SectionSize: 1500, Overlap: 200, MinSize: 50}
	chunks := Sections(doc, cfg)

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Index != 0 {
		t.Errorf("expected index 0, got %d", chunks[0].Index)
	}
	if !strings.Contains(chunks[0].Text, "word") {
		t.Errorf("expected chunk text to contain 'word', got %q", chunks[0].Text)
	}
}

func TestSections_LargeSectionIsSplit(t *testing.T) {
	// ~2700 words in one paragraph, so splitting falls back to sentences.
	doc := parser.Parse("# Big\n\n" + strings.Repeat("The quick brown fox jumps over the lazy dog. ", 300))

	cfg := Config{SectionSize: 500, Overlap: 50, MinSize: 10}
	chunks := Sections(doc, cfg)

	if len(chunks) < 2 {
		t.Fatalf("expected at least 2 chunks for large text, got %d", len(chunks))
	}
	for i, c := range chunks {
		if c.Index != i {
			t.Errorf("chunk %d: expected index %d, got %d", i, i, c.Index)
		}
		if tokens := EstimateTokens(c.Text); tokens > cfg.SectionSize*2 {
			t.Errorf("chunk %d: %d tokens exceeds 2x target %d", i, tokens, cfg.SectionSize)
		}
		if len(c.Breadcrumb) != 1 || c.Breadcrumb[0] != "Big" {
			t.Errorf("chunk %d: expected breadcrumb [Big], got %v", i, c.Breadcrumb)
		}
	}
}

func TestSections_Breadcrumbs(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want [][]string
	}{
		{
			"nested headings",
			"# Chapter 1\n\n## Section 1.1\n\ncontent",
			[][]string{{"Chapter 1", "Section 1.1"}},
		},
		{
			"siblings do not leak",
			"## A\n\nalpha\n\n## B\n\nbeta",
			[][]string{{"A"}, {"B"}},
		},
		{
			"higher heading pops the stack",
			"# A\n## B\nx\n# C\ny",
			[][]string{{"A", "B"}, {"C"}},
		},
		{
			"preamble has no breadcrumb",
			"intro\n\n# H\nbody",
			[][]string{nil, {"H"}},
		},
		{
			"inline markup is stripped",
			"# The **main** `api`\n\ntext",
			[][]string{{"The main api"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := Sections(parser.Parse(tt.in), DefaultConfig())
			if len(chunks) != len(tt.want) {
				t.Fatalf("expected %d chunks, got %d", len(tt.want), len(chunks))
			}
			for i, want := range tt.want {
				if got := chunks[i].Breadcrumb; fmt.Sprint(got) != fmt.Sprint(want) {
					t.Errorf("chunk %d: expected breadcrumb %v, got %v", i, want, got)
				}
			}
		})
	}
}

func TestSections_BlockText(t *testing.T) {
	doc := parser.Parse("# L\n\n- a\n  - b\n\n---\n\n```\ncode\n```")
	chunks := Sections(doc, DefaultConfig())

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	want := "• a\n  ◦ b\n\ncode"
	if chunks[0].Text != want {
		t.Errorf("expected %q, got %q", want, chunks[0].Text)
	}
}

func TestSections_MinSizeFiltering(t *testing.T) {
	doc := parser.Parse("# Short\n\nHi")
	chunks := Sections(doc, Config{SectionSize: 1500, Overlap: 200, MinSize: 100})
	if len(chunks) != 0 {
		t.Errorf("expected 0 chunks (below MinSize), got %d", len(chunks))
	}
}

func TestSections_EmptyDocument(t *testing.T) {
	if chunks := Sections(parser.Parse(""), DefaultConfig()); len(chunks) != 0 {
		t.Errorf("expected 0 chunks, got %d", len(chunks))
	}
}

func TestSections_DefaultConfigFallback(t *testing.T) {
	// Zero-value config should be replaced with defaults.
	chunks := Sections(parser.Parse(strings.Repeat("word ", 200)), Config{})
	if len(chunks) != 1 {
		t.Errorf("expected 1 chunk with zero config, got %d", len(chunks))
	}
}

func TestSplitText_Overlap(t *testing.T) {
	var paras []string
	for p := 0; p < 3; p++ {
		words := make([]string, 30)
		for w := range words {
			words[w] = fmt.Sprintf("p%dw%d", p, w)
		}
		paras = append(paras, strings.Join(words, " "))
	}

	parts := splitText(strings.Join(paras, "\n\n"), 50, 10)
	if len(parts) != 3 {
		t.Fatalf("expected 3 parts, got %d: %q", len(parts), parts)
	}
	if parts[0] != paras[0] {
		t.Errorf("expected first part to be the first paragraph, got %q", parts[0])
	}
	// 10 tokens of overlap is 7 words.
	if !strings.HasPrefix(parts[1], "p0w23 p0w24") {
		t.Errorf("expected second part to start with the tail of the first, got %q", parts[1])
	}
	if !strings.HasSuffix(parts[1], paras[1]) {
		t.Errorf("expected second part to end with the second paragraph, got %q", parts[1])
	}
}

func TestSplitSentences(t *testing.T) {
	got := splitSentences("One two. Three!  Four? five")
	want := []string{"One two.", "Three!", "Four?", "five"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"   \n", 0},
		{"one", 1},
		{"one two three", 3},
		{strings.Repeat("w ", 100), 133},
	}
	for _, tt := range tests {
		if got := EstimateTokens(tt.in); got != tt.want {
			t.Errorf("EstimateTokens(%q): expected %d, got %d", tt.in, tt.want, got)
		}
	}
}
