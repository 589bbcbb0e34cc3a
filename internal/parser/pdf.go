package parser

import (
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/dgallion1/markdoc/internal/doctree"
	pdflib "github.com/ledongthuc/pdf"
)

// PDFParser reads PDF text with ledongthuc/pdf. With FallbackPdftotext set, a
// file the library cannot open is retried through the pdftotext binary.
type PDFParser struct {
	FallbackPdftotext bool
}

func (p *PDFParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	f, _, release, err := spoolFile(r, "markdoc-pdf-*.pdf")
	if err != nil {
		return nil, err
	}
	defer release()

	text, err := pdfText(f.Name())
	if err != nil && p.FallbackPdftotext {
		text, err = pdftotext(f.Name())
	}
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}

	return pagesDocument(splitPages(text)), nil
}

// pagesDocument gives every non-empty page a "Page N" heading followed by
// its text split into paragraphs at blank lines. PDF text is never treated
// as markup.
func pagesDocument(pages []string) *doctree.Document {
	doc := &doctree.Document{}
	for i, page := range pages {
		if strings.TrimSpace(page) == "" {
			continue
		}
		doc.Blocks = append(doc.Blocks, doctree.Heading{
			Level:  2,
			Inline: []doctree.Inline{doctree.Text(fmt.Sprintf("Page %d", i+1))},
		})
		for _, para := range splitParagraphs(page) {
			doc.Blocks = append(doc.Blocks, literalParagraph(para))
		}
	}
	return doc
}

// splitParagraphs groups non-blank lines separated by blank lines.
func splitParagraphs(text string) [][]string {
	var out [][]string
	var cur []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, " \t\r")
		if strings.TrimSpace(line) == "" {
			if len(cur) > 0 {
				out = append(out, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, line)
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}

// pdfText returns the plain text of every page, pages separated by form feeds
// the way pdftotext separates them. Unreadable pages come back empty so page
// numbers stay aligned.
func pdfText(path string) (string, error) {
	f, doc, err := pdflib.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	pages := make([]string, doc.NumPage())
	for i := range pages {
		pg := doc.Page(i + 1)
		if pg.V.IsNull() {
			continue
		}
		if s, err := pg.GetPlainText(nil); err == nil {
			pages[i] = s
		}
	}
	return strings.Join(pages, "\f"), nil
}

func pdftotext(path string) (string, error) {
	out, err := exec.Command("pdftotext", "-layout", path, "-").Output()
	if err != nil {
		return "", fmt.Errorf("pdftotext: %w", err)
	}
	return string(out), nil
}

func splitPages(text string) []string {
	return strings.Split(text, "\f")
}
