package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/markdoc/internal/doctree"
	"github.com/fumiama/go-docx"
)

// DOCXParser handles .docx files. Heading-styled paragraphs become headings;
// bold and italic runs keep their emphasis.
type DOCXParser struct{}

func (p *DOCXParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	f, size, release, err := spoolFile(r, "markdoc-docx-*.docx")
	if err != nil {
		return nil, err
	}
	defer release()

	d, err := docx.Parse(f, size)
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	doc := &doctree.Document{}
	for _, item := range d.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		run := docxInline(para)
		text := strings.TrimSpace(flatText(run))
		if text == "" {
			continue
		}
		if level := docxHeadingLevel(para); level > 0 {
			doc.Blocks = append(doc.Blocks, doctree.Heading{Level: level, Inline: []doctree.Inline{doctree.Text(text)}})
			continue
		}
		doc.Blocks = append(doc.Blocks, doctree.Paragraph{
			Lines:  []string{text},
			Inline: [][]doctree.Inline{trimRun(run)},
		})
	}
	return doc, nil
}

func docxHeadingLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	style := para.Properties.Style.Val
	for level := 1; level <= 6; level++ {
		if strings.EqualFold(style, fmt.Sprintf("Heading%d", level)) ||
			strings.EqualFold(style, fmt.Sprintf("heading %d", level)) {
			return level
		}
	}
	return 0
}

func docxInline(para *docx.Paragraph) []doctree.Inline {
	var out []doctree.Inline
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		var buf strings.Builder
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
		if buf.Len() == 0 {
			continue
		}
		out = append(out, docxStyled(run, buf.String()))
	}
	return mergeText(out)
}

func docxStyled(run *docx.Run, s string) doctree.Inline {
	props := run.RunProperties
	switch {
	case props == nil:
		return doctree.Text(s)
	case props.Bold != nil:
		return doctree.Bold(s)
	case props.Italic != nil:
		return doctree.Italic(s)
	}
	return doctree.Text(s)
}
