// Package doctree models the structured document tree consumed by the host
// rich-text editor (tiptap-shaped nodes serialized as JSON), and converts
// parsed Markdown blocks into it.
package doctree

// Mark decorates a text node (link, emphasis, ...).
type Mark struct {
	Type  string         `json:"type" yaml:"type"`
	Attrs map[string]any `json:"attrs,omitempty" yaml:"attrs,omitempty"`
}

// Node is one node of the document tree.
type Node struct {
	Type    string         `json:"type" yaml:"type"`
	Attrs   map[string]any `json:"attrs,omitempty" yaml:"attrs,omitempty"`
	Content []*Node        `json:"content,omitempty" yaml:"content,omitempty"`
	Marks   []Mark         `json:"marks,omitempty" yaml:"marks,omitempty"`
	Text    string         `json:"text,omitempty" yaml:"text,omitempty"`
}

// NewDoc wraps nodes under a document root.
func NewDoc(content ...*Node) *Node {
	return &Node{Type: "doc", Content: content}
}

// NewText creates a text leaf.
func NewText(text string) *Node {
	return &Node{Type: "text", Text: text}
}

// NewParagraph wraps a text in a paragraph node.
func NewParagraph(text string) *Node {
	if text == "" {
		return &Node{Type: "paragraph"}
	}
	return &Node{Type: "paragraph", Content: []*Node{NewText(text)}}
}

// AttrString returns a string attribute (empty when absent or mistyped).
func (n *Node) AttrString(name string) string {
	if v, ok := n.Attrs[name]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// AttrInt returns an integer attribute (0 when absent or mistyped).
func (n *Node) AttrInt(name string) int {
	switch v := n.Attrs[name].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}

// InnerText concatenates the text leaves under this node in document order.
func (n *Node) InnerText() string {
	if n.Type == "text" {
		return n.Text
	}
	var result string
	for _, child := range n.Content {
		result += child.InnerText()
	}
	return result
}

// Walk traverses the tree in pre-order. The visitor returns false to skip
// the children of the current node.
func (n *Node) Walk(visit func(node *Node) bool) {
	if !visit(n) {
		return
	}
	for _, child := range n.Content {
		child.Walk(visit)
	}
}
