package htmltree

import (
	"sort"
	"strings"
)

// Void elements never carry children nor a closing tag.
// See https://html.spec.whatwg.org/multipage/syntax.html#void-elements
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// Raw wraps an already-serialized HTML fragment so that Render emits it
// verbatim instead of escaping it.
func Raw(html string) *Node {
	return &Node{Text: html, raw: true}
}

// Render serializes the tree to HTML. Text nodes are escaped, attributes
// are emitted in lexicographic order for deterministic output.
func (n *Node) Render() string {
	var sb strings.Builder
	n.render(&sb)
	return sb.String()
}

func (n *Node) render(sb *strings.Builder) {
	if n.IsText() {
		if n.raw {
			sb.WriteString(n.Text)
		} else {
			sb.WriteString(escapeText(n.Text))
		}
		return
	}

	sb.WriteString("<")
	sb.WriteString(n.Tag)

	names := make([]string, 0, len(n.Attrs))
	for name := range n.Attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		sb.WriteString(" ")
		sb.WriteString(name)
		sb.WriteString(`="`)
		sb.WriteString(escapeAttr(n.Attrs[name]))
		sb.WriteString(`"`)
	}

	if voidElements[n.Tag] {
		sb.WriteString("/>")
		return
	}

	sb.WriteString(">")
	for _, child := range n.Children {
		child.render(sb)
	}
	sb.WriteString("</")
	sb.WriteString(n.Tag)
	sb.WriteString(">")
}

var textEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
)

var attrEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

func escapeText(s string) string {
	return textEscaper.Replace(s)
}

func escapeAttr(s string) string {
	return attrEscaper.Replace(s)
}
