// Package htmltree provides a minimal HTML-like tree representation
// (tag, attributes, children) that can be built, queried, transformed,
// and serialized without any browser DOM dependency.
package htmltree

import "strings"

// Node is either an element (Tag set) or a text node (Tag empty, Text set).
type Node struct {
	Tag      string
	Attrs    map[string]string
	Children []*Node
	Text     string

	parent *Node
	raw    bool
}

// NewElement creates an element node. Attribute pairs are passed as
// alternating key/value strings.
func NewElement(tag string, attrPairs ...string) *Node {
	n := &Node{Tag: tag}
	for i := 0; i+1 < len(attrPairs); i += 2 {
		n.SetAttr(attrPairs[i], attrPairs[i+1])
	}
	return n
}

// NewText creates a text node.
func NewText(text string) *Node {
	return &Node{Text: text}
}

// IsText returns if the node is a text node.
func (n *Node) IsText() bool {
	return n.Tag == ""
}

// IsRaw returns if the node is a pre-serialized fragment (see Raw).
func (n *Node) IsRaw() bool {
	return n.raw
}

// Attr returns the value of an attribute (empty string when absent).
func (n *Node) Attr(name string) string {
	if n.Attrs == nil {
		return ""
	}
	return n.Attrs[name]
}

// SetAttr sets an attribute value.
func (n *Node) SetAttr(name, value string) *Node {
	if n.Attrs == nil {
		n.Attrs = make(map[string]string)
	}
	n.Attrs[name] = value
	return n
}

// HasClass returns if the node carries a CSS class.
func (n *Node) HasClass(class string) bool {
	for _, c := range strings.Fields(n.Attr("class")) {
		if c == class {
			return true
		}
	}
	return false
}

// AppendChild adds a child at the end of the node content.
func (n *Node) AppendChild(children ...*Node) *Node {
	for _, child := range children {
		child.parent = n
		n.Children = append(n.Children, child)
	}
	return n
}

// Parent returns the parent node (nil for the root).
func (n *Node) Parent() *Node {
	return n.parent
}

// ReplaceWith substitutes the node by another one in its parent.
// Replacing the root is a no-op.
func (n *Node) ReplaceWith(replacement *Node) {
	if n.parent == nil {
		return
	}
	for i, child := range n.parent.Children {
		if child == n {
			replacement.parent = n.parent
			n.parent.Children[i] = replacement
			return
		}
	}
}

// Remove detaches the node from its parent.
func (n *Node) Remove() {
	if n.parent == nil {
		return
	}
	for i, child := range n.parent.Children {
		if child == n {
			n.parent.Children = append(n.parent.Children[:i], n.parent.Children[i+1:]...)
			n.parent = nil
			return
		}
	}
}

// Walk traverses the tree in pre-order. The visitor returns false to skip
// the children of the current node. Children are copied before descending
// so the visitor may replace or remove the nodes it receives.
func (n *Node) Walk(visit func(node *Node) bool) {
	if !visit(n) {
		return
	}
	children := make([]*Node, len(n.Children))
	copy(children, n.Children)
	for _, child := range children {
		child.Walk(visit)
	}
}

// Find returns the first node matching the predicate (pre-order), or nil.
func (n *Node) Find(pred func(node *Node) bool) *Node {
	var found *Node
	n.Walk(func(node *Node) bool {
		if found != nil {
			return false
		}
		if pred(node) {
			found = node
			return false
		}
		return true
	})
	return found
}

// FindAll returns every node matching the predicate in pre-order.
func (n *Node) FindAll(pred func(node *Node) bool) []*Node {
	var results []*Node
	n.Walk(func(node *Node) bool {
		if pred(node) {
			results = append(results, node)
		}
		return true
	})
	return results
}

// FindTag returns every element with the given tag name.
func (n *Node) FindTag(tag string) []*Node {
	return n.FindAll(func(node *Node) bool {
		return node.Tag == tag
	})
}

// InnerText concatenates the text nodes under this node in document order.
func (n *Node) InnerText() string {
	var sb strings.Builder
	n.Walk(func(node *Node) bool {
		if node.IsText() {
			sb.WriteString(node.Text)
		}
		return true
	})
	return sb.String()
}
