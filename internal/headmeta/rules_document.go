package headmeta

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

var titleRule = Rule{
	Name:   "title",
	Reads:  []string{FieldTitle, FieldName, FieldSeparator},
	Target: Sel("title"),
	Apply: func(c *Context, h *Head) {
		if c.Title == "" && c.Name == "" {
			return
		}
		node := h.Ensure(Sel("title"))
		if hasText(node) {
			return
		}
		for node.FirstChild != nil {
			node.RemoveChild(node.FirstChild)
		}
		node.AppendChild(&html.Node{Type: html.TextNode, Data: joinNonEmpty(c.Separator, c.Title, c.Name)})
	},
}

var canonicalRule = Rule{
	Name:   "canonical",
	Reads:  []string{FieldOrigin, FieldPathname},
	Target: Sel("link", Attr{Key: "rel", Val: "canonical"}),
	Apply: func(c *Context, h *Head) {
		url := c.URL()
		if url == "" {
			return
		}
		fillOnce(h.Ensure(Sel("link", Attr{Key: "rel", Val: "canonical"})), "href", url)
	},
}

var descriptionRule = Rule{
	Name:   "description",
	Reads:  []string{FieldDescription},
	Target: MetaName("description"),
	Apply: func(c *Context, h *Head) {
		if c.Description == "" {
			return
		}
		fillOnce(h.Ensure(MetaName("description")), "content", c.Description)
	},
}

var keywordsRule = Rule{
	Name:   "keywords",
	Reads:  []string{FieldTags, FieldSiteTags},
	Target: MetaName("keywords"),
	Apply: func(c *Context, h *Head) {
		all := make([]string, 0, len(c.Tags)+len(c.SiteTags))
		all = append(all, c.Tags...)
		all = append(all, c.SiteTags...)
		keywords := unique(all)
		if len(keywords) == 0 {
			return
		}
		setAttr(h.Ensure(MetaName("keywords")), "content", strings.Join(keywords, ", "))
	},
}

var authorRule = Rule{
	Name:   "author",
	Reads:  []string{FieldAuthor, FieldSiteAuthor},
	Target: MetaName("author"),
	Apply: func(c *Context, h *Head) {
		author := c.authorName()
		if author == "" {
			return
		}
		setAttr(h.Ensure(MetaName("author")), "content", author)
	},
}

var copyrightRule = Rule{
	Name:   "copyright",
	Reads:  []string{FieldAuthor, FieldSiteAuthor, FieldCopyright, FieldPublished},
	Target: MetaName("copyright"),
	Apply: func(c *Context, h *Head) {
		author := c.authorName()
		if author == "" || !c.Copyright {
			return
		}
		when := c.Now
		if c.Published != nil {
			when = *c.Published
		}
		notice := "© " + strconv.Itoa(when.UTC().Year()) + " " + author
		setAttr(h.Ensure(MetaName("copyright")), "content", notice)
	},
}

var themeColorRule = Rule{
	Name:   "themeColor",
	Reads:  []string{FieldColor},
	Target: MetaName("theme-color"),
	Apply: func(c *Context, h *Head) {
		if c.Color == "" {
			return
		}
		fillOnce(h.Ensure(MetaName("theme-color")), "content", prefix(c.Color, "#"))
	},
}

// fillOnce sets key on n unless it already holds a non-empty value.
func fillOnce(n *html.Node, key, val string) {
	if v, _ := getAttr(n, key); v != "" {
		return
	}
	setAttr(n, key, val)
}

func hasText(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode && c.Data != "" {
			return true
		}
	}
	return false
}

func joinNonEmpty(sep string, values ...string) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, sep)
}
