// Package htmldoc wraps golang.org/x/net/html for the pieces of document
// handling that surround metadata injection: parsing, rendering and locating
// the head container.
package htmldoc

import (
	"bytes"
	stderrors "errors"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"git.home.luguber.info/inful/headmeta/internal/foundation/errors"
)

// ErrNoHead is wrapped by the error returned when a tree has no head
// container and none can be attached.
var ErrNoHead = stderrors.New("document has no head container")

// Parse reads a full HTML document.
func Parse(r io.Reader) (*html.Node, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryDocument, "failed to parse HTML").Build()
	}
	return doc, nil
}

// ParseString is Parse for in-memory markup.
func ParseString(s string) (*html.Node, error) {
	return Parse(strings.NewReader(s))
}

// Render serializes the tree rooted at root.
func Render(w io.Writer, root *html.Node) error {
	if err := html.Render(w, root); err != nil {
		return errors.WrapError(err, errors.CategoryDocument, "failed to render HTML").Build()
	}
	return nil
}

// RenderString is Render into a string.
func RenderString(root *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := Render(&buf, root); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// FindElement returns the first element named tag at or below root.
func FindElement(root *html.Node, a atom.Atom) *html.Node {
	if root == nil {
		return nil
	}
	if root.Type == html.ElementNode && root.DataAtom == a {
		return root
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if found := FindElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

// EnsureHead returns the document's head element, creating it when missing.
// A created head becomes the first child of <html> when there is one, and the
// last child of root otherwise. Roots that cannot hold children yield an
// error wrapping ErrNoHead and leave the tree untouched.
func EnsureHead(root *html.Node) (*html.Node, error) {
	if root == nil {
		return nil, noHead("nil document")
	}
	if head := FindElement(root, atom.Head); head != nil {
		return head, nil
	}
	if root.Type != html.DocumentNode && root.Type != html.ElementNode {
		return nil, noHead("root cannot contain elements")
	}

	head := &html.Node{Type: html.ElementNode, Data: "head", DataAtom: atom.Head}
	if htmlEl := FindElement(root, atom.Html); htmlEl != nil {
		htmlEl.InsertBefore(head, htmlEl.FirstChild)
		return head, nil
	}
	root.AppendChild(head)
	return head, nil
}

func noHead(reason string) error {
	return errors.DocumentError("cannot locate head").
		WithCause(ErrNoHead).
		WithContext("reason", reason).
		Build()
}
