package headmeta

var twitterImageKeys = []string{"url", "alt"}

func setName(h *Head, name, content string) {
	setAttr(h.Ensure(MetaName(name)), "content", content)
}

var twitterCardRule = Rule{
	Name:   "twitterCard",
	Reads:  []string{FieldTwitter, FieldOG, FieldImage},
	Target: MetaName("twitter:card"),
	Apply: func(c *Context, h *Head) {
		if !c.Twitter {
			return
		}
		card := "summary"
		if _, ok := c.FirstImage(); ok {
			card = "summary_large_image"
		}
		// og:type already implies a summary card.
		if card == "summary" && c.OG {
			return
		}
		setName(h, "twitter:card", card)
	},
}

var twitterImageRule = Rule{
	Name:  "twitterImage",
	Reads: []string{FieldTwitter, FieldImage},
	Apply: func(c *Context, h *Head) {
		if !c.Twitter {
			return
		}
		img, ok := c.FirstImage()
		if !ok {
			return
		}
		for _, key := range twitterImageKeys {
			value := img.field(key)
			if value == "" {
				continue
			}
			name := "twitter:image"
			if key != "url" {
				name += ":" + key
			}
			h.Append(newMeta("name", name, value))
		}
	},
}

var twitterSiteRule = Rule{
	Name:   "twitterSite",
	Reads:  []string{FieldTwitter, FieldSiteTwitter},
	Target: MetaName("twitter:site"),
	Apply: func(c *Context, h *Head) {
		if c.Twitter && c.SiteTwitter != "" {
			setName(h, "twitter:site", prefix(c.SiteTwitter, "@"))
		}
	},
}

var twitterCreatorRule = Rule{
	Name:   "twitterCreator",
	Reads:  []string{FieldTwitter, FieldAuthorTwitter},
	Target: MetaName("twitter:creator"),
	Apply: func(c *Context, h *Head) {
		if c.Twitter && c.AuthorTwitter != "" {
			setName(h, "twitter:creator", prefix(c.AuthorTwitter, "@"))
		}
	},
}
