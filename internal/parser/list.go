package parser

import "github.com/dgallion1/markdoc/internal/doctree"

// listContext is an open list at one indentation.
type listContext struct {
	kind   doctree.ListKind
	indent int
	depth  int
	items  []doctree.ListItem
}

// listStack tracks open list contexts, innermost last. Flushed top-level
// lists are appended to out.
type listStack struct {
	open []*listContext
	out  *[]doctree.Block
}

func (s *listStack) top() *listContext {
	if len(s.open) == 0 {
		return nil
	}
	return s.open[len(s.open)-1]
}

// add places one item line into the open-context stack.
func (s *listStack) add(indent int, kind doctree.ListKind, content string) {
	for len(s.open) > 0 && indent < s.top().indent {
		s.pop()
	}

	switch top := s.top(); {
	case top == nil || indent > top.indent:
		depth := 0
		if top != nil {
			depth = top.depth + 1
			// Every context is pushed together with its first item, so a
			// parent is never empty here when reached through add.
			if len(top.items) == 0 {
				top.items = append(top.items, doctree.ListItem{})
			}
		}
		s.push(kind, indent, depth)
	case kind != top.kind:
		// Same indentation, different marker family: a sibling list, never a merge.
		depth := top.depth
		s.pop()
		s.push(kind, indent, depth)
	}

	top := s.top()
	top.items = append(top.items, doctree.ListItem{Inline: TokenizeInline(content)})
}

func (s *listStack) push(kind doctree.ListKind, indent, depth int) {
	s.open = append(s.open, &listContext{kind: kind, indent: indent, depth: depth})
}

// pop finalizes the innermost context and attaches the resulting List to the
// parent's last item, or to the document when no parent is open.
func (s *listStack) pop() {
	ctx := s.top()
	s.open = s.open[:len(s.open)-1]
	if len(ctx.items) == 0 {
		return
	}
	list := doctree.List{Kind: ctx.kind, Depth: ctx.depth, Items: ctx.items}

	parent := s.top()
	if parent == nil {
		*s.out = append(*s.out, list)
		return
	}
	// Unreachable through add for the same reason; an orphaned nested list
	// would hang off an empty placeholder item.
	if len(parent.items) == 0 {
		parent.items = append(parent.items, doctree.ListItem{})
	}
	last := &parent.items[len(parent.items)-1]
	last.Children = append(last.Children, list)
}

// flush closes every open context, innermost first.
func (s *listStack) flush() {
	for len(s.open) > 0 {
		s.pop()
	}
}
