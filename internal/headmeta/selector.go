package headmeta

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Attr is an attribute equality constraint.
type Attr struct {
	Key string
	Val string
}

// Selector identifies a metadata node by tag name and attribute values. The
// same value is used to look a node up and to build it when missing.
type Selector struct {
	Tag   string
	Attrs []Attr
}

// Sel builds a Selector.
func Sel(tag string, attrs ...Attr) Selector {
	return Selector{Tag: tag, Attrs: attrs}
}

// MetaName selects meta[name=value].
func MetaName(value string) Selector {
	return Sel("meta", Attr{Key: "name", Val: value})
}

// MetaProperty selects meta[property=value].
func MetaProperty(value string) Selector {
	return Sel("meta", Attr{Key: "property", Val: value})
}

// IsZero reports whether s selects nothing.
func (s Selector) IsZero() bool {
	return s.Tag == ""
}

// String renders s in CSS selector notation, for logs.
func (s Selector) String() string {
	var b strings.Builder
	b.WriteString(s.Tag)
	for _, a := range s.Attrs {
		b.WriteString("[")
		b.WriteString(a.Key)
		b.WriteString("=")
		b.WriteString(a.Val)
		b.WriteString("]")
	}
	return b.String()
}

// Matches reports whether n is an element satisfying every constraint.
func (s Selector) Matches(n *html.Node) bool {
	if n == nil || n.Type != html.ElementNode || n.Data != s.Tag {
		return false
	}
	for _, a := range s.Attrs {
		v, ok := getAttr(n, a.Key)
		if !ok || v != a.Val {
			return false
		}
	}
	return true
}

// Find returns the first descendant of root, in document order, matching s.
func (s Selector) Find(root *html.Node) *html.Node {
	if root == nil {
		return nil
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if s.Matches(c) {
			return c
		}
		if found := s.Find(c); found != nil {
			return found
		}
	}
	return nil
}

// Build constructs a detached element satisfying s.
func (s Selector) Build() *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     s.Tag,
		DataAtom: atom.Lookup([]byte(s.Tag)),
	}
	for _, a := range s.Attrs {
		n.Attr = append(n.Attr, html.Attribute{Key: a.Key, Val: a.Val})
	}
	return n
}

func getAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Namespace == "" && n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// newMeta builds a meta element with a key attribute and content.
func newMeta(key, value, content string) *html.Node {
	n := Sel("meta", Attr{Key: key, Val: value}).Build()
	setAttr(n, "content", content)
	return n
}
