// Package page loads source documents and derives their per-document
// metadata layers, output location and content fingerprint.
package page

import (
	"bytes"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/inful/mdfp"
	"golang.org/x/net/html"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/headmeta/internal/foundation/errors"
	"git.home.luguber.info/inful/headmeta/internal/frontmatter"
	"git.home.luguber.info/inful/headmeta/internal/headmeta"
	"git.home.luguber.info/inful/headmeta/internal/htmldoc"
	"git.home.luguber.info/inful/headmeta/internal/markdown"
)

// SidecarSuffix is appended to a source path to locate its meta overrides.
const SidecarSuffix = ".meta.yaml"

// Kind identifies how a source document is turned into a tree.
type Kind int

const (
	KindMarkdown Kind = iota
	KindHTML
)

func (k Kind) String() string {
	if k == KindHTML {
		return "html"
	}
	return "markdown"
}

// KindOf classifies a path by extension. ok is false for unsupported files.
func KindOf(p string) (Kind, bool) {
	switch strings.ToLower(path.Ext(p)) {
	case ".md", ".markdown":
		return KindMarkdown, true
	case ".html", ".htm":
		return KindHTML, true
	default:
		return 0, false
	}
}

// Page is one source document with its metadata layers.
type Page struct {
	Rel    string // slash separated, relative to the source root
	Kind   Kind
	Matter headmeta.Fields
	Meta   headmeta.Fields
	Body   []byte
}

// Load reads rel (slash separated) below root together with its sidecar.
func Load(root, rel string) (*Page, error) {
	kind, ok := KindOf(rel)
	if !ok {
		return nil, errors.ValidationError("unsupported document type").
			WithContext("path", rel).
			Build()
	}

	full := filepath.Join(root, filepath.FromSlash(rel))
	// #nosec G304 -- path is built from the configured source directory
	content, err := os.ReadFile(full)
	if err != nil {
		return nil, errors.FileSystemError("failed to read document").WithCause(err).
			WithContext("path", rel).
			Build()
	}

	matter, body, err := frontmatter.Parse(content)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "invalid front matter").
			WithContext("path", rel).
			Build()
	}

	meta, err := loadSidecar(full + SidecarSuffix)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "invalid meta sidecar").
			WithContext("path", rel+SidecarSuffix).
			Build()
	}

	return &Page{
		Rel:    rel,
		Kind:   kind,
		Matter: matter,
		Meta:   meta,
		Body:   body,
	}, nil
}

func loadSidecar(p string) (headmeta.Fields, error) {
	// #nosec G304 -- sidecar sits next to a source document
	data, err := os.ReadFile(p)
	if os.IsNotExist(err) {
		return headmeta.Fields{}, nil
	}
	if err != nil {
		return nil, err
	}
	meta := headmeta.Fields{}
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	if meta == nil {
		meta = headmeta.Fields{}
	}
	return meta, nil
}

// IsSidecar reports whether p names a meta sidecar file.
func IsSidecar(p string) bool {
	return strings.HasSuffix(p, SidecarSuffix)
}

// OutputPath returns the slash separated output location relative to the
// output root. With pretty URLs, posts/a.md becomes posts/a/index.html.
// HTML sources keep their path.
func (p *Page) OutputPath(prettyURLs bool) string {
	if p.Kind == KindHTML {
		return p.Rel
	}
	stem := strings.TrimSuffix(p.Rel, path.Ext(p.Rel))
	if !prettyURLs || path.Base(stem) == "index" {
		return stem + ".html"
	}
	return stem + "/index.html"
}

// Pathname returns the URL path the page is served under.
func (p *Page) Pathname(prettyURLs bool) string {
	out := p.OutputPath(prettyURLs)
	if path.Base(out) == "index.html" {
		dir := path.Dir(out)
		if dir == "." {
			return "/"
		}
		return "/" + dir + "/"
	}
	return "/" + out
}

// Document returns the per-document layers. The derived pathname fills in
// for front matter that does not set one.
func (p *Page) Document(prettyURLs bool) headmeta.Document {
	matter := p.Matter
	if _, ok := matter[headmeta.FieldPathname]; !ok {
		matter = matter.With(headmeta.FieldPathname, p.Pathname(prettyURLs))
	}
	return headmeta.Document{Matter: matter, Meta: p.Meta}
}

// Tree builds the HTML tree to annotate.
func (p *Page) Tree(r *markdown.Renderer) (*html.Node, error) {
	if p.Kind == KindMarkdown {
		return r.RenderDocument(p.Body)
	}
	return htmldoc.Parse(bytes.NewReader(p.Body))
}

// Fingerprint hashes everything that influences the output: the site layer,
// both document layers and the body.
func (p *Page) Fingerprint(site headmeta.Fields) (string, error) {
	layers := map[string]any{}
	if len(site) > 0 {
		layers["site"] = map[string]any(site)
	}
	if len(p.Matter) > 0 {
		layers["matter"] = map[string]any(p.Matter)
	}
	if len(p.Meta) > 0 {
		layers["meta"] = map[string]any(p.Meta)
	}
	canonical, err := frontmatter.Canonical(layers)
	if err != nil {
		return "", errors.InternalError("failed to serialize metadata").WithCause(err).
			WithContext("path", p.Rel).
			Build()
	}
	return mdfp.CalculateFingerprintFromParts(strings.TrimSuffix(string(canonical), "\n"), string(p.Body)), nil
}
