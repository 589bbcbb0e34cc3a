package doctree

import "encoding/json"

// JSON form: every block and inline node is an object tagged with "type".
// Empty slices encode as [] so clients can walk the tree without nil checks.

func (d Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Blocks []Block `json:"blocks"`
	}{Blocks: blocksOrEmpty(d.Blocks)})
}

func (h Heading) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type   BlockKind `json:"type"`
		Level  int       `json:"level"`
		Inline []Inline  `json:"inline"`
	}{KindHeading, h.Level, inlineOrEmpty(h.Inline)})
}

func (p Paragraph) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type   BlockKind  `json:"type"`
		Lines  []string   `json:"lines"`
		Inline [][]Inline `json:"inline"`
	}{KindParagraph, stringsOrEmpty(p.Lines), linesOrEmpty(p.Inline)})
}

func (c CodeBlock) MarshalJSON() ([]byte, error) {
	var lang *string
	if c.Language != "" {
		lang = &c.Language
	}
	return json.Marshal(struct {
		Type     BlockKind `json:"type"`
		Language *string   `json:"language"`
		Lines    []string  `json:"lines"`
	}{KindCodeBlock, lang, stringsOrEmpty(c.Lines)})
}

func (q BlockQuote) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type      BlockKind `json:"type"`
		Paragraph Paragraph `json:"paragraph"`
	}{KindBlockQuote, q.Paragraph})
}

func (HorizontalRule) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type BlockKind `json:"type"`
	}{KindHorizontalRule})
}

func (l List) MarshalJSON() ([]byte, error) {
	items := l.Items
	if items == nil {
		items = []ListItem{}
	}
	return json.Marshal(struct {
		Type  BlockKind  `json:"type"`
		Kind  ListKind   `json:"kind"`
		Depth int        `json:"depth"`
		Items []ListItem `json:"items"`
	}{KindList, l.Kind, l.Depth, items})
}

func (it ListItem) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Inline   []Inline `json:"inline"`
		Children []Block  `json:"children"`
	}{inlineOrEmpty(it.Inline), blocksOrEmpty(it.Children)})
}

type inlineJSON struct {
	Type string `json:"type"`
	Text string `json:"text"`
	Href string `json:"href,omitempty"`
}

func (t Text) MarshalJSON() ([]byte, error)   { return json.Marshal(inlineJSON{Type: "text", Text: string(t)}) }
func (c Code) MarshalJSON() ([]byte, error)   { return json.Marshal(inlineJSON{Type: "code", Text: string(c)}) }
func (b Bold) MarshalJSON() ([]byte, error)   { return json.Marshal(inlineJSON{Type: "bold", Text: string(b)}) }
func (i Italic) MarshalJSON() ([]byte, error) { return json.Marshal(inlineJSON{Type: "italic", Text: string(i)}) }
func (s Strike) MarshalJSON() ([]byte, error) { return json.Marshal(inlineJSON{Type: "strike", Text: string(s)}) }

func (l Link) MarshalJSON() ([]byte, error) {
	return json.Marshal(inlineJSON{Type: "link", Text: l.Text, Href: l.Href})
}

func blocksOrEmpty(b []Block) []Block {
	if b == nil {
		return []Block{}
	}
	return b
}

func inlineOrEmpty(in []Inline) []Inline {
	if in == nil {
		return []Inline{}
	}
	return in
}

func stringsOrEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func linesOrEmpty(lines [][]Inline) [][]Inline {
	if lines == nil {
		return [][]Inline{}
	}
	out := make([][]Inline, len(lines))
	for i, l := range lines {
		out[i] = inlineOrEmpty(l)
	}
	return out
}
