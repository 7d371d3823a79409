package headmeta

import "maps"

// Fields is one layer of loosely typed metadata: caller options, front matter
// or explicit per-document meta. Keys are the context field names below.
type Fields map[string]any

// Context field names.
const (
	FieldTitle          = "title"
	FieldName           = "name"
	FieldSeparator      = "separator"
	FieldPathname       = "pathname"
	FieldOrigin         = "origin"
	FieldDescription    = "description"
	FieldTags           = "tags"
	FieldSiteTags       = "siteTags"
	FieldAuthor         = "author"
	FieldSiteAuthor     = "siteAuthor"
	FieldCopyright      = "copyright"
	FieldPublished      = "published"
	FieldModified       = "modified"
	FieldColor          = "color"
	FieldOG             = "og"
	FieldTwitter        = "twitter"
	FieldType           = "type"
	FieldImage          = "image"
	FieldAuthorFacebook = "authorFacebook"
	FieldAuthorTwitter  = "authorTwitter"
	FieldSiteTwitter    = "siteTwitter"
	FieldSection        = "section"
)

const (
	DefaultPathname  = "/"
	DefaultSeparator = " - "
)

// Clone returns a shallow copy of f. A nil receiver yields an empty layer.
func (f Fields) Clone() Fields {
	out := make(Fields, len(f))
	maps.Copy(out, f)
	return out
}

// With returns a copy of f with key set to value.
func (f Fields) With(key string, value any) Fields {
	out := f.Clone()
	out[key] = value
	return out
}

// mergeFields overlays layers from lowest to highest precedence. A key that is
// present in a later layer wins even when its value is nil.
func mergeFields(layers ...Fields) Fields {
	merged := make(Fields)
	for _, layer := range layers {
		maps.Copy(merged, layer)
	}
	return merged
}
