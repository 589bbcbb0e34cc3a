package chunker

import (
	"strings"

	"github.com/dgallion1/markdoc/internal/doctree"
	"github.com/dgallion1/markdoc/internal/render"
)

// Config controls sectioning behavior. Sizes are estimated tokens.
type Config struct {
	SectionSize int // Target section size.
	Overlap     int // Text carried from the end of one split part into the next.
	MinSize     int // Parts below this size are dropped.
}

// DefaultConfig returns sensible defaults for post-sized documents.
func DefaultConfig() Config {
	return Config{
		SectionSize: 400,
		Overlap:     40,
		MinSize:     1,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.SectionSize <= 0 {
		c.SectionSize = d.SectionSize
	}
	if c.Overlap < 0 {
		c.Overlap = 0
	}
	if c.MinSize <= 0 {
		c.MinSize = d.MinSize
	}
	return c
}

// Sections walks a document's blocks and groups their text under the
// nearest preceding heading. Each emitted chunk carries the heading path
// leading to it. Text before the first heading has an empty breadcrumb.
func Sections(doc *doctree.Document, cfg Config) []doctree.Chunk {
	cfg = cfg.withDefaults()

	var (
		chunks   []doctree.Chunk
		headings []doctree.Heading
		body     []string
	)
	flush := func() {
		text := strings.Join(body, "\n\n")
		body = nil
		if strings.TrimSpace(text) == "" {
			return
		}
		bc := breadcrumb(headings)
		for _, part := range splitSection(text, cfg) {
			chunks = append(chunks, doctree.Chunk{
				Text:       part,
				Index:      len(chunks),
				Breadcrumb: bc,
			})
		}
	}

	for _, b := range doc.Blocks {
		switch v := b.(type) {
		case doctree.Heading:
			flush()
			for len(headings) > 0 && headings[len(headings)-1].Level >= v.Level {
				headings = headings[:len(headings)-1]
			}
			headings = append(headings, v)
		case doctree.HorizontalRule:
		default:
			if s := render.BlockText(b); strings.TrimSpace(s) != "" {
				body = append(body, s)
			}
		}
	}
	flush()

	return chunks
}

func splitSection(text string, cfg Config) []string {
	var parts []string
	if EstimateTokens(text) <= cfg.SectionSize {
		parts = []string{text}
	} else {
		parts = splitText(text, cfg.SectionSize, cfg.Overlap)
	}

	out := parts[:0]
	for _, p := range parts {
		if EstimateTokens(p) >= cfg.MinSize {
			out = append(out, p)
		}
	}
	return out
}

func breadcrumb(headings []doctree.Heading) []string {
	if len(headings) == 0 {
		return nil
	}
	out := make([]string, len(headings))
	for i, h := range headings {
		out[i] = render.InlineText(h.Inline)
	}
	return out
}

// packer accumulates units into parts of at most limit tokens. A part that
// closes because it is full seeds the next one with its last overlap tokens.
type packer struct {
	limit   int
	overlap int
	sep     string

	parts  []string
	cur    []string
	tokens int
}

func (p *packer) add(unit string) {
	n := EstimateTokens(unit)
	if p.tokens > 0 && p.tokens+n > p.limit {
		full := strings.Join(p.cur, p.sep)
		p.parts = append(p.parts, full)
		p.cur, p.tokens = nil, 0
		if tail := overlapTail(full, p.overlap); tail != "" {
			p.cur = append(p.cur, tail)
			p.tokens = EstimateTokens(tail)
		}
	}
	p.cur = append(p.cur, unit)
	p.tokens += n
}

// close emits the pending part without carrying overlap forward.
func (p *packer) close() {
	if p.tokens > 0 {
		p.parts = append(p.parts, strings.Join(p.cur, p.sep))
	}
	p.cur, p.tokens = nil, 0
}

// splitText breaks text into parts of about limit tokens. Whole paragraphs
// are packed where they fit; a paragraph too large on its own is split at
// sentence ends.
func splitText(text string, limit, overlap int) []string {
	paras := &packer{limit: limit, overlap: overlap, sep: "\n\n"}
	for _, para := range splitParagraphs(text) {
		if EstimateTokens(para) <= limit {
			paras.add(para)
			continue
		}
		paras.close()
		sents := &packer{limit: limit, overlap: overlap, sep: " "}
		for _, sent := range splitSentences(para) {
			sents.add(sent)
		}
		sents.close()
		paras.parts = append(paras.parts, sents.parts...)
	}
	paras.close()
	return paras.parts
}

func splitParagraphs(text string) []string {
	var out []string
	for _, p := range strings.Split(text, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// splitSentences splits after words ending in '.', '!' or '?'.
func splitSentences(text string) []string {
	var out, cur []string
	for _, w := range strings.Fields(text) {
		cur = append(cur, w)
		if strings.ContainsAny(w[len(w)-1:], ".!?") {
			out = append(out, strings.Join(cur, " "))
			cur = nil
		}
	}
	if len(cur) > 0 {
		out = append(out, strings.Join(cur, " "))
	}
	return out
}

// overlapTail returns the last tokens' worth of words in text, or "" when
// text is no longer than that.
func overlapTail(text string, tokens int) string {
	words := strings.Fields(text)
	n := int(float64(tokens) / tokensPerWord)
	if n <= 0 || len(words) <= n {
		return ""
	}
	return strings.Join(words[len(words)-n:], " ")
}
