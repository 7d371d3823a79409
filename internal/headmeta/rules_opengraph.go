package headmeta

const (
	facebookBase = "https://www.facebook.com/"

	// maxImages and maxArticleTags cap the multi-node Open Graph rules.
	maxImages      = 6
	maxArticleTags = 6
)

var ogImageKeys = []string{"url", "alt", "width", "height"}

// setProperty is the shared body of the single-node og:* and article:* rules.
func setProperty(h *Head, property, content string) {
	setAttr(h.Ensure(MetaProperty(property)), "content", content)
}

var ogTypeRule = Rule{
	Name:   "ogType",
	Reads:  []string{FieldOG, FieldType},
	Target: MetaProperty("og:type"),
	Apply: func(c *Context, h *Head) {
		if !c.OG {
			return
		}
		kind := "website"
		if c.Type == "article" {
			kind = "article"
		}
		setProperty(h, "og:type", kind)
	},
}

var ogSiteNameRule = Rule{
	Name:   "ogSiteName",
	Reads:  []string{FieldOG, FieldName},
	Target: MetaProperty("og:site_name"),
	Apply: func(c *Context, h *Head) {
		if c.OG && c.Name != "" {
			setProperty(h, "og:site_name", c.Name)
		}
	},
}

var ogURLRule = Rule{
	Name:   "ogUrl",
	Reads:  []string{FieldOG, FieldOrigin, FieldPathname},
	Target: MetaProperty("og:url"),
	Apply: func(c *Context, h *Head) {
		if url := c.URL(); c.OG && url != "" {
			setProperty(h, "og:url", url)
		}
	},
}

var ogTitleRule = Rule{
	Name:   "ogTitle",
	Reads:  []string{FieldOG, FieldTitle},
	Target: MetaProperty("og:title"),
	After:  "title",
	Apply: func(c *Context, h *Head) {
		if !c.OG || c.Title == "" {
			return
		}
		h.Ensure(Sel("title"))
		setProperty(h, "og:title", c.Title)
	},
}

var ogDescriptionRule = Rule{
	Name:   "ogDescription",
	Reads:  []string{FieldOG, FieldDescription},
	Target: MetaProperty("og:description"),
	Apply: func(c *Context, h *Head) {
		if c.OG && c.Description != "" {
			setProperty(h, "og:description", c.Description)
		}
	},
}

var ogImageRule = Rule{
	Name:  "ogImage",
	Reads: []string{FieldOG, FieldImage},
	Apply: func(c *Context, h *Head) {
		if !c.OG {
			return
		}
		images := c.Images
		if len(images) > maxImages {
			images = images[:maxImages]
		}
		for _, img := range images {
			for _, key := range ogImageKeys {
				value := img.field(key)
				if value == "" {
					continue
				}
				property := "og:image"
				if key != "url" {
					property += ":" + key
				}
				h.Append(newMeta("property", property, value))
			}
		}
	},
}

var ogArticlePublishedTimeRule = Rule{
	Name:   "ogArticlePublishedTime",
	Reads:  []string{FieldOG, FieldType, FieldPublished},
	Target: MetaProperty("article:published_time"),
	Apply: func(c *Context, h *Head) {
		if c.IsArticle() && c.Published != nil {
			setProperty(h, "article:published_time", isoTimestamp(*c.Published))
		}
	},
}

var ogArticleModifiedTimeRule = Rule{
	Name:   "ogArticleModifiedTime",
	Reads:  []string{FieldOG, FieldType, FieldModified},
	Target: MetaProperty("article:modified_time"),
	Apply: func(c *Context, h *Head) {
		if c.IsArticle() && c.Modified != nil {
			setProperty(h, "article:modified_time", isoTimestamp(*c.Modified))
		}
	},
}

var ogArticleAuthorRule = Rule{
	Name:   "ogArticleAuthor",
	Reads:  []string{FieldOG, FieldType, FieldAuthorFacebook},
	Target: MetaProperty("article:author"),
	Apply: func(c *Context, h *Head) {
		if c.IsArticle() && c.AuthorFacebook != "" {
			setProperty(h, "article:author", facebookBase+c.AuthorFacebook)
		}
	},
}

var ogArticleSectionRule = Rule{
	Name:   "ogArticleSection",
	Reads:  []string{FieldOG, FieldType, FieldSection},
	Target: MetaProperty("article:section"),
	Apply: func(c *Context, h *Head) {
		if c.IsArticle() && c.Section != "" {
			setProperty(h, "article:section", c.Section)
		}
	},
}

var ogArticleTagRule = Rule{
	Name:  "ogArticleTag",
	Reads: []string{FieldOG, FieldType, FieldTags},
	Apply: func(c *Context, h *Head) {
		if !c.IsArticle() {
			return
		}
		tags := c.Tags
		if len(tags) > maxArticleTags {
			tags = tags[:maxArticleTags]
		}
		for _, tag := range tags {
			h.Append(newMeta("property", "article:tag", tag))
		}
	},
}
