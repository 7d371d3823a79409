// Package markdown renders Markdown bodies into complete HTML documents ready
// for metadata injection.
package markdown

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"golang.org/x/net/html"

	"git.home.luguber.info/inful/headmeta/internal/htmldoc"
)

// Renderer converts Markdown to HTML. The zero value is not usable; call New.
type Renderer struct {
	md   goldmark.Markdown
	lang string
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLang sets the lang attribute of generated <html> elements.
func WithLang(lang string) Option {
	return func(r *Renderer) {
		r.lang = lang
	}
}

// New returns a Renderer with GitHub Flavored Markdown and heading IDs enabled.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RenderBody converts a Markdown body (front matter already removed) to an
// HTML fragment.
func (r *Renderer) RenderBody(body []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(body, &buf); err != nil {
		return nil, fmt.Errorf("convert markdown: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderDocument wraps the rendered body in a document skeleton with an empty
// head (apart from the charset) and parses it into a tree.
func (r *Renderer) RenderDocument(body []byte) (*html.Node, error) {
	fragment, err := r.RenderBody(body)
	if err != nil {
		return nil, err
	}

	var page bytes.Buffer
	page.WriteString("<!doctype html>\n<html")
	if r.lang != "" {
		page.WriteString(` lang="` + html.EscapeString(r.lang) + `"`)
	}
	page.WriteString(">\n<head>\n<meta charset=\"utf-8\">\n</head>\n<body>\n")
	page.Write(fragment)
	page.WriteString("</body>\n</html>\n")

	return htmldoc.Parse(&page)
}
