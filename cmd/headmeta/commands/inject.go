package commands

import (
	"bytes"
	"io"
	"maps"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/headmeta/internal/foundation/errors"
	"git.home.luguber.info/inful/headmeta/internal/frontmatter"
	"git.home.luguber.info/inful/headmeta/internal/headmeta"
	"git.home.luguber.info/inful/headmeta/internal/htmldoc"
	"git.home.luguber.info/inful/headmeta/internal/markdown"
	"git.home.luguber.info/inful/headmeta/internal/page"
)

// InjectCmd implements the 'inject' command.
type InjectCmd struct {
	Input    string            `arg:"" optional:"" help:"HTML or Markdown document, or - for HTML on stdin" default:"-"`
	Output   string            `short:"o" help:"Write the result here instead of stdout"`
	InPlace  bool              `short:"i" name:"in-place" help:"Overwrite the input file"`
	Meta     string            `short:"m" help:"YAML file with meta overrides" type:"existingfile"`
	Set      map[string]string `short:"s" help:"Meta override as key=value; values are read as YAML scalars or lists"`
	Pathname string            `short:"p" help:"URL path of the document, e.g. /posts/hello/"`
}

func (c *InjectCmd) Run(g *Global, root *CLI) error {
	if c.InPlace && c.Input == "-" {
		return errors.ValidationError("--in-place needs an input file").Build()
	}
	if kind, ok := page.KindOf(c.Input); c.InPlace && ok && kind == page.KindMarkdown {
		return errors.ValidationError("--in-place would replace Markdown source with HTML; use --output").
			WithContext("path", c.Input).
			Build()
	}
	cfg, err := root.loadConfig(g, true)
	if err != nil {
		return err
	}

	p, err := c.load(g.Stdin)
	if err != nil {
		return err
	}
	if c.InPlace && len(p.Matter) > 0 {
		return errors.ValidationError("--in-place would drop the front matter of the input; use --output").
			WithContext("path", c.Input).
			Build()
	}
	overrides, err := c.overrides()
	if err != nil {
		return err
	}
	p.Meta = mergeLayer(p.Meta, overrides)

	var doc headmeta.Document
	if c.Input == "-" {
		doc = headmeta.Document{Matter: p.Matter, Meta: p.Meta}
	} else {
		doc = p.Document(cfg.Build.UsePrettyURLs())
	}
	if c.Pathname != "" {
		doc.Meta = doc.Meta.With(headmeta.FieldPathname, c.Pathname)
	}

	var mdOpts []markdown.Option
	if cfg.Build.Lang != "" {
		mdOpts = append(mdOpts, markdown.WithLang(cfg.Build.Lang))
	}
	tree, err := p.Tree(markdown.New(mdOpts...))
	if err != nil {
		return err
	}

	t := headmeta.New(headmeta.Fields(cfg.Site), headmeta.WithLogger(g.Logger))
	if _, err := t.Transform(tree, doc); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := htmldoc.Render(&buf, tree); err != nil {
		return err
	}
	return c.write(g.Stdout, buf.Bytes())
}

func (c *InjectCmd) load(stdin io.Reader) (*page.Page, error) {
	if c.Input != "-" {
		return page.Load(filepath.Dir(c.Input), filepath.Base(c.Input))
	}
	content, err := io.ReadAll(stdin)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read stdin").Build()
	}
	matter, body, err := frontmatter.Parse(content)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "invalid front matter").Build()
	}
	return &page.Page{Rel: "-", Kind: page.KindHTML, Matter: matter, Meta: headmeta.Fields{}, Body: body}, nil
}

// overrides reads --meta and --set, with --set taking precedence.
func (c *InjectCmd) overrides() (headmeta.Fields, error) {
	fields := headmeta.Fields{}
	if c.Meta != "" {
		data, err := os.ReadFile(c.Meta)
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read meta file").
				WithContext("path", c.Meta).
				Build()
		}
		if err := yaml.Unmarshal(data, &fields); err != nil {
			return nil, errors.WrapError(err, errors.CategoryValidation, "invalid meta file").
				WithContext("path", c.Meta).
				Build()
		}
	}
	for key, raw := range c.Set {
		fields[key] = scalar(raw)
	}
	return fields, nil
}

// scalar decodes raw as YAML so that "true" and "[a, b]" arrive typed.
// Anything YAML rejects is kept as the literal string.
func scalar(raw string) any {
	var v any
	if err := yaml.Unmarshal([]byte(raw), &v); err != nil || v == nil {
		return raw
	}
	return v
}

func mergeLayer(base, over headmeta.Fields) headmeta.Fields {
	out := base.Clone()
	maps.Copy(out, over)
	return out
}

func (c *InjectCmd) write(stdout io.Writer, data []byte) error {
	target := c.Output
	if c.InPlace {
		target = c.Input
	}
	if target == "" || target == "-" {
		_, err := stdout.Write(data)
		return err
	}
	// #nosec G306 -- generated pages are meant to be world readable
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write output").
			WithContext("path", target).
			Build()
	}
	return nil
}
