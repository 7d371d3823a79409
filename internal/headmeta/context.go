package headmeta

import "time"

// Context is the merged, typed view of every metadata layer for one document.
// It is built once per Transform call and never modified by rules.
type Context struct {
	Title       string
	Name        string
	Separator   string
	Pathname    string
	Origin      string
	Description string

	Tags     []string
	SiteTags []string

	Author     string
	SiteAuthor string
	Copyright  bool

	Published *time.Time
	Modified  *time.Time

	Color   string
	OG      bool
	Twitter bool
	Type    string
	Images  []Image

	AuthorFacebook string
	AuthorTwitter  string
	SiteTwitter    string
	Section        string

	// Now stands in for a missing published date in the copyright notice.
	Now time.Time
}

// Document carries the two per-document layers: front matter and explicit
// meta overrides. Meta takes precedence.
type Document struct {
	Matter Fields
	Meta   Fields
}

// BuildContext merges defaults, options and the document layers into a
// Context, using the current time for date fallbacks.
func BuildContext(options Fields, doc Document) (*Context, error) {
	return buildContext(options, doc, time.Now())
}

func buildContext(options Fields, doc Document, now time.Time) (*Context, error) {
	defaults := Fields{
		FieldPathname:  DefaultPathname,
		FieldSeparator: DefaultSeparator,
	}
	f := mergeFields(defaults, options, doc.Matter, doc.Meta)

	published, err := date(FieldPublished, f[FieldPublished])
	if err != nil {
		return nil, err
	}
	modified, err := date(FieldModified, f[FieldModified])
	if err != nil {
		return nil, err
	}

	separator, ok := f[FieldSeparator].(string)
	if !ok {
		separator = DefaultSeparator
	}

	return &Context{
		Title:          text(f[FieldTitle]),
		Name:           text(f[FieldName]),
		Separator:      separator,
		Pathname:       text(f[FieldPathname]),
		Origin:         text(f[FieldOrigin]),
		Description:    text(f[FieldDescription]),
		Tags:           list(f[FieldTags]),
		SiteTags:       list(f[FieldSiteTags]),
		Author:         text(f[FieldAuthor]),
		SiteAuthor:     text(f[FieldSiteAuthor]),
		Copyright:      flag(f[FieldCopyright]),
		Published:      published,
		Modified:       modified,
		Color:          text(f[FieldColor]),
		OG:             flag(f[FieldOG]),
		Twitter:        flag(f[FieldTwitter]),
		Type:           text(f[FieldType]),
		Images:         normalizeImages(f[FieldImage]),
		AuthorFacebook: text(f[FieldAuthorFacebook]),
		AuthorTwitter:  text(f[FieldAuthorTwitter]),
		SiteTwitter:    text(f[FieldSiteTwitter]),
		Section:        text(f[FieldSection]),
		Now:            now,
	}, nil
}

// URL is the canonical address of the document, or "" without an origin.
func (c *Context) URL() string {
	if c.Origin == "" {
		return ""
	}
	return c.Origin + c.Pathname
}

// authorName returns the document author, falling back to the site author.
func (c *Context) authorName() string {
	if c.Author != "" {
		return c.Author
	}
	return c.SiteAuthor
}

// IsArticle reports whether article:* Open Graph properties apply.
func (c *Context) IsArticle() bool {
	return c.OG && c.Type == "article"
}

// FirstImage returns the first normalized image, if any.
func (c *Context) FirstImage() (Image, bool) {
	if len(c.Images) == 0 {
		return Image{}, false
	}
	return c.Images[0], true
}
