package headmeta

import "golang.org/x/net/html"

// Head is the head container of one document together with the formatting
// state of a single Transform call.
type Head struct {
	node *html.Node

	// first is true until the first node has been appended.
	first bool

	touched bool
	created int
}

func newHead(node *html.Node) *Head {
	return &Head{node: node, first: true}
}

// Node returns the underlying head element.
func (h *Head) Node() *html.Node {
	return h.node
}

// Append adds n as the last child of the head, preceded by a blank line on
// the first insertion and followed by a newline.
func (h *Head) Append(n *html.Node) {
	if h.first {
		h.node.AppendChild(newline())
		h.first = false
	}
	h.node.AppendChild(n)
	h.node.AppendChild(newline())
	h.touched = true
	h.created++
}

// Ensure returns the first node matching sel, appending a new one when none
// exists. An existing node is returned as is.
func (h *Head) Ensure(sel Selector) *html.Node {
	h.touched = true
	if n := sel.Find(h.node); n != nil {
		return n
	}
	n := sel.Build()
	h.Append(n)
	return n
}

// beginRule resets per-rule bookkeeping.
func (h *Head) beginRule() {
	h.touched = false
	h.created = 0
}

func newline() *html.Node {
	return &html.Node{Type: html.TextNode, Data: "\n"}
}
